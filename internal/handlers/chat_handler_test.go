package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Gebril-Amor/HealMe/internal/models"
	"github.com/Gebril-Amor/HealMe/internal/services"
	chatws "github.com/Gebril-Amor/HealMe/internal/websocket"
)

type stubChatService struct {
	delivery         *services.ChatDelivery
	sendErr          error
	conversation     []models.Message
	conversationErr  error
	summaries        []models.ConversationSummary
	summariesErr     error
	markErr          error
	lastPatientID    int64
	lastTherapistID  int64
	lastContent      string
	lastSenderRole   string
	lastReaderRole   string
	markedPatientID  int64
	markedTherapist  int64
}

func (s *stubChatService) SendMessage(_ context.Context, patientID, therapistID int64, content, senderRole string) (*services.ChatDelivery, error) {
	s.lastPatientID = patientID
	s.lastTherapistID = therapistID
	s.lastContent = content
	s.lastSenderRole = senderRole
	return s.delivery, s.sendErr
}

func (s *stubChatService) ListConversation(_ context.Context, patientID, therapistID int64) ([]models.Message, error) {
	s.lastPatientID = patientID
	s.lastTherapistID = therapistID
	return s.conversation, s.conversationErr
}

func (s *stubChatService) ListTherapistConversations(_ context.Context, therapistID int64) ([]models.ConversationSummary, error) {
	s.lastTherapistID = therapistID
	return s.summaries, s.summariesErr
}

func (s *stubChatService) MarkConversationRead(_ context.Context, patientID, therapistID int64, readerRole string) error {
	s.markedPatientID = patientID
	s.markedTherapist = therapistID
	s.lastReaderRole = readerRole
	return s.markErr
}

type stubMessageLister struct {
	messages []models.Message
	total    int
}

func (s *stubMessageLister) List(_ context.Context, _ int64, _, _ int) ([]models.Message, int, error) {
	return s.messages, s.total, nil
}

func newChatTestApp(service *stubChatService) (*fiber.App, *ChatHandler) {
	handler := NewChatHandler(service, &stubMessageLister{}, chatws.NewHub(), "secret")
	app := fiber.New()
	app.Post("/api/send-message", handler.SendMessage)
	app.Get("/api/conversation/:patientID/:therapistID", handler.GetConversation)
	app.Post("/api/conversation/:patientID/:therapistID/read", handler.MarkConversationRead)
	app.Get("/api/therapist/:id/conversations", handler.TherapistConversations)
	return app, handler
}

func TestSendMessageReturnsCreatedMessage(t *testing.T) {
	service := &stubChatService{
		delivery: &services.ChatDelivery{
			Message: &models.Message{
				ID:          12,
				PatientID:   3,
				TherapistID: 7,
				Content:     "hello",
				SenderRole:  models.SenderPatient,
				CreatedAt:   time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
			},
		},
	}
	app, _ := newChatTestApp(service)

	body := `{"patient_id":3,"therapist_id":7,"content":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/api/send-message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastSenderRole != models.SenderPatient {
		t.Fatalf("sender_role must default to patient, got %q", service.lastSenderRole)
	}

	var got models.Message
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != 12 || got.IsRead {
		t.Fatalf("unexpected message payload: %+v", got)
	}
}

func TestSendMessageValidatesRequest(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing content", `{"patient_id":3,"therapist_id":7,"content":"  "}`},
		{"missing patient", `{"therapist_id":7,"content":"hi"}`},
		{"unknown sender role", `{"patient_id":3,"therapist_id":7,"content":"hi","sender_role":"admin"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, _ := newChatTestApp(&stubChatService{})

			req := httptest.NewRequest(http.MethodPost, "/api/send-message", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestSendMessageUnknownParticipantIs400(t *testing.T) {
	app, _ := newChatTestApp(&stubChatService{sendErr: services.ErrParticipantNotFound})

	body := `{"patient_id":99,"therapist_id":7,"content":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/send-message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetConversationReturnsMessages(t *testing.T) {
	service := &stubChatService{
		conversation: []models.Message{
			{ID: 1, PatientID: 3, TherapistID: 7, Content: "first"},
			{ID: 2, PatientID: 3, TherapistID: 7, Content: "second"},
		},
	}
	app, _ := newChatTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/conversation/3/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastPatientID != 3 || service.lastTherapistID != 7 {
		t.Fatalf("wrong pair requested: %d %d", service.lastPatientID, service.lastTherapistID)
	}

	var payload struct {
		Messages []models.Message `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Messages) != 2 || payload.Messages[0].Content != "first" {
		t.Fatalf("unexpected messages: %+v", payload.Messages)
	}
}

func TestGetConversationRejectsBadIDs(t *testing.T) {
	app, _ := newChatTestApp(&stubChatService{})

	req := httptest.NewRequest(http.MethodGet, "/api/conversation/abc/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestMarkConversationReadPassesReaderRole(t *testing.T) {
	service := &stubChatService{}
	app, _ := newChatTestApp(service)

	body := `{"reader_role":"therapist"}`
	req := httptest.NewRequest(http.MethodPost, "/api/conversation/3/7/read", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.markedPatientID != 3 || service.markedTherapist != 7 || service.lastReaderRole != "therapist" {
		t.Fatalf("wrong mark-read call: %d %d %q", service.markedPatientID, service.markedTherapist, service.lastReaderRole)
	}
}

func TestTherapistConversationsReturnsSummaries(t *testing.T) {
	service := &stubChatService{
		summaries: []models.ConversationSummary{
			{
				PatientID:    3,
				PatientName:  "abe",
				PatientEmail: "abe@example.com",
				UnreadCount:  2,
				LastMessage: &models.MessageSnapshot{
					Content:    "see you soon",
					SenderRole: models.SenderPatient,
					CreatedAt:  time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
				},
			},
		},
	}
	app, _ := newChatTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/therapist/7/conversations", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastTherapistID != 7 {
		t.Fatalf("wrong therapist id: %d", service.lastTherapistID)
	}

	var payload struct {
		Conversations []models.ConversationSummary `json:"conversations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Conversations) != 1 || payload.Conversations[0].UnreadCount != 2 {
		t.Fatalf("unexpected summaries: %+v", payload.Conversations)
	}
}
