package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gebril-Amor/HealMe/internal/models"
	"github.com/Gebril-Amor/HealMe/internal/repository"
	"github.com/jackc/pgx/v5"
)

type stubMessageStore struct {
	created          []models.Message
	createErr        error
	pairMessages     []models.Message
	inbox            []repository.TherapistInboxRow
	inboxErr         error
	unreadCounts     map[int64]int
	markedPatientID  int64
	markedTherapist  int64
	markedSenderRole string
	userIDsErr       error
}

func (s *stubMessageStore) Create(_ context.Context, patientID, therapistID int64, content, senderRole string) (*models.Message, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	msg := models.Message{
		ID:          int64(len(s.created) + 1),
		PatientID:   patientID,
		TherapistID: therapistID,
		Content:     content,
		SenderRole:  senderRole,
		IsRead:      false,
		CreatedAt:   time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	}
	s.created = append(s.created, msg)
	return &msg, nil
}

func (s *stubMessageStore) ListByPair(_ context.Context, _, _ int64) ([]models.Message, error) {
	return s.pairMessages, nil
}

func (s *stubMessageStore) ListForTherapist(_ context.Context, _ int64) ([]repository.TherapistInboxRow, error) {
	return s.inbox, s.inboxErr
}

func (s *stubMessageStore) CountUnread(_ context.Context, patientID, _ int64, _ string) (int, error) {
	return s.unreadCounts[patientID], nil
}

func (s *stubMessageStore) MarkPairRead(_ context.Context, patientID, therapistID int64, senderRole string) error {
	s.markedPatientID = patientID
	s.markedTherapist = therapistID
	s.markedSenderRole = senderRole
	return nil
}

func (s *stubMessageStore) UserIDsForPair(_ context.Context, _, _ int64) (int64, int64, error) {
	if s.userIDsErr != nil {
		return 0, 0, s.userIDsErr
	}
	return 101, 202, nil
}

func TestSendMessagePersistsUnreadMessage(t *testing.T) {
	store := &stubMessageStore{}
	service := NewChatService(store)

	delivery, err := service.SendMessage(context.Background(), 3, 7, "  hello there  ", models.SenderPatient)
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if delivery.Message.Content != "hello there" {
		t.Fatalf("expected trimmed content, got %q", delivery.Message.Content)
	}
	if delivery.Message.IsRead {
		t.Fatal("new message must start unread")
	}
	if delivery.PatientUserID != 101 || delivery.TherapistUserID != 202 {
		t.Fatalf("unexpected delivery user ids: %d %d", delivery.PatientUserID, delivery.TherapistUserID)
	}
}

func TestSendMessageRejectsBadInput(t *testing.T) {
	service := NewChatService(&stubMessageStore{})

	cases := []struct {
		name        string
		patientID   int64
		therapistID int64
		content     string
		senderRole  string
	}{
		{"zero patient", 0, 7, "hi", models.SenderPatient},
		{"zero therapist", 3, 0, "hi", models.SenderPatient},
		{"blank content", 3, 7, "   ", models.SenderPatient},
		{"unknown role", 3, 7, "hi", "admin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.SendMessage(context.Background(), tc.patientID, tc.therapistID, tc.content, tc.senderRole)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSendMessageUnknownPairIsParticipantNotFound(t *testing.T) {
	store := &stubMessageStore{userIDsErr: pgx.ErrNoRows}
	service := NewChatService(store)

	_, err := service.SendMessage(context.Background(), 3, 7, "hi", models.SenderPatient)
	if !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("expected ErrParticipantNotFound, got %v", err)
	}
	if len(store.created) != 0 {
		t.Fatal("no message should be written for an unknown pair")
	}
}

func TestListTherapistConversationsGroupsByPatient(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2026, 4, 1, hour, 0, 0, 0, time.UTC)
	}
	inbox := []repository.TherapistInboxRow{
		{Message: models.Message{ID: 9, PatientID: 2, Content: "latest from two", SenderRole: models.SenderPatient, CreatedAt: at(12)}, PatientName: "bea", PatientEmail: "bea@example.com"},
		{Message: models.Message{ID: 8, PatientID: 1, Content: "latest from one", SenderRole: models.SenderTherapist, CreatedAt: at(11)}, PatientName: "abe", PatientEmail: "abe@example.com"},
		{Message: models.Message{ID: 7, PatientID: 2, Content: "older from two", SenderRole: models.SenderPatient, CreatedAt: at(10)}, PatientName: "bea", PatientEmail: "bea@example.com"},
		{Message: models.Message{ID: 6, PatientID: 1, Content: "older from one", SenderRole: models.SenderPatient, CreatedAt: at(9)}, PatientName: "abe", PatientEmail: "abe@example.com"},
	}
	store := &stubMessageStore{inbox: inbox, unreadCounts: map[int64]int{1: 0, 2: 3}}
	service := NewChatService(store)

	summaries, err := service.ListTherapistConversations(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListTherapistConversations: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].PatientID != 2 || summaries[1].PatientID != 1 {
		t.Fatalf("expected most recent conversation first, got %d then %d", summaries[0].PatientID, summaries[1].PatientID)
	}
	if summaries[0].LastMessage.Content != "latest from two" {
		t.Fatalf("wrong last message: %q", summaries[0].LastMessage.Content)
	}
	if summaries[0].UnreadCount != 3 || summaries[1].UnreadCount != 0 {
		t.Fatalf("wrong unread counts: %d %d", summaries[0].UnreadCount, summaries[1].UnreadCount)
	}
	if summaries[1].PatientName != "abe" || summaries[1].PatientEmail != "abe@example.com" {
		t.Fatalf("patient identity not carried: %+v", summaries[1])
	}
}

func TestGroupInboxBreaksTimestampTiesOnHigherPatientID(t *testing.T) {
	ts := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	inbox := []repository.TherapistInboxRow{
		{Message: models.Message{ID: 2, PatientID: 4, Content: "from four", CreatedAt: ts}},
		{Message: models.Message{ID: 3, PatientID: 9, Content: "from nine", CreatedAt: ts}},
	}

	summaries := groupInbox(inbox)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].PatientID != 9 {
		t.Fatalf("expected patient 9 first on timestamp tie, got %d", summaries[0].PatientID)
	}
}

func TestListTherapistConversationsEmptyInbox(t *testing.T) {
	service := NewChatService(&stubMessageStore{})

	summaries, err := service.ListTherapistConversations(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListTherapistConversations: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected no summaries, got %d", len(summaries))
	}
}

func TestMarkConversationReadFlipsOppositeSide(t *testing.T) {
	store := &stubMessageStore{}
	service := NewChatService(store)

	if err := service.MarkConversationRead(context.Background(), 3, 7, models.SenderTherapist); err != nil {
		t.Fatalf("MarkConversationRead: %v", err)
	}
	if store.markedSenderRole != models.SenderPatient {
		t.Fatalf("therapist reading must mark patient messages, got %q", store.markedSenderRole)
	}
	if store.markedPatientID != 3 || store.markedTherapist != 7 {
		t.Fatalf("wrong pair marked: %d %d", store.markedPatientID, store.markedTherapist)
	}

	if err := service.MarkConversationRead(context.Background(), 3, 7, "admin"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown reader role, got %v", err)
	}
}
