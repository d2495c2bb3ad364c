package chatws

import (
	"testing"
	"time"

	"github.com/Gebril-Amor/HealMe/internal/models"
	"github.com/Gebril-Amor/HealMe/internal/services"
)

func sampleDelivery() *services.ChatDelivery {
	return &services.ChatDelivery{
		Message: &models.Message{
			ID:          1,
			PatientID:   3,
			TherapistID: 7,
			Content:     "hello",
			SenderRole:  models.SenderPatient,
			CreatedAt:   time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
		},
		PatientUserID:   101,
		TherapistUserID: 202,
	}
}

func TestWriteErrorAfterClientDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, "7")
	hub.Register(client)

	// Hub side drops the client, e.g. after its buffer filled mid-broadcast.
	client.closeSend()

	done := make(chan struct{})
	go func() {
		defer close(done)
		writeError(client, "too slow")
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("writeError did not return for a dropped client")
	}
}

func TestTrySendReportsBufferAndCloseState(t *testing.T) {
	client := NewClient(nil, nil, "7")

	for i := 0; i < cap(client.send); i++ {
		if !client.trySend([]byte("frame")) {
			t.Fatalf("send buffer rejected frame %d of %d", i, cap(client.send))
		}
	}
	if client.trySend([]byte("overflow")) {
		t.Fatal("full buffer must reject the frame, not block")
	}

	client.closeSend()
	client.closeSend() // must stay idempotent
	if client.trySend([]byte("late")) {
		t.Fatal("dropped client must reject frames")
	}
}

func TestPublishReachesBothConversationSides(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	patient := NewClient(hub, nil, "101")
	therapist := NewClient(hub, nil, "202")
	hub.Register(patient)
	hub.Register(therapist)

	hub.Publish(sampleDelivery())

	for _, client := range []*Client{patient, therapist} {
		select {
		case frame := <-client.send:
			if len(frame) == 0 {
				t.Fatal("empty frame delivered")
			}
		case <-time.After(time.Second):
			t.Fatalf("client %s did not receive the broadcast", client.userID)
		}
	}
}
