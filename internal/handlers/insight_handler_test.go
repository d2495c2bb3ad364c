package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Gebril-Amor/HealMe/internal/services"
)

type stubInsightService struct {
	insight    string
	reply      string
	err        error
	lastUserID int64
	lastMsg    string
}

func (s *stubInsightService) MoodInsight(_ context.Context, userID int64) (string, error) {
	s.lastUserID = userID
	return s.insight, s.err
}

func (s *stubInsightService) SleepInsight(_ context.Context, userID int64) (string, error) {
	s.lastUserID = userID
	return s.insight, s.err
}

func (s *stubInsightService) JournalInsight(_ context.Context, userID int64) (string, error) {
	s.lastUserID = userID
	return s.insight, s.err
}

func (s *stubInsightService) ChatReply(_ context.Context, message string) (string, error) {
	s.lastMsg = message
	return s.reply, s.err
}

func newInsightTestApp(service *stubInsightService) *fiber.App {
	handler := NewInsightHandler(service)
	app := fiber.New()
	app.Get("/api/users/:userID/mood/insight", handler.MoodInsight)
	app.Post("/api/chat/reply", handler.ChatReply)
	return app
}

func TestMoodInsightReturnsGeneratedText(t *testing.T) {
	service := &stubInsightService{insight: "You have been trending upward."}
	app := newInsightTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/users/5/mood/insight", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastUserID != 5 {
		t.Fatalf("wrong user id: %d", service.lastUserID)
	}

	var payload struct {
		Insight string `json:"insight"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Insight != "You have been trending upward." {
		t.Fatalf("unexpected insight: %q", payload.Insight)
	}
}

func TestMoodInsightUpstreamFailureStaysOpaque(t *testing.T) {
	service := &stubInsightService{err: errors.New("connection refused to api.openai.com")}
	app := newInsightTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/users/5/mood/insight", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Contains(payload.Error, "openai") {
		t.Fatalf("upstream detail leaked to client: %q", payload.Error)
	}
}

func TestChatReplyReturnsReply(t *testing.T) {
	service := &stubInsightService{reply: "I'm here with you."}
	app := newInsightTestApp(service)

	body := `{"message":"I feel anxious"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat/reply", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastMsg != "I feel anxious" {
		t.Fatalf("message not forwarded: %q", service.lastMsg)
	}
}

func TestChatReplyEmptyMessageIs400(t *testing.T) {
	service := &stubInsightService{err: services.ErrInvalidInput}
	app := newInsightTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/chat/reply", strings.NewReader(`{"message":""}`))
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
