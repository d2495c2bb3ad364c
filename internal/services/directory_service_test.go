package services

import (
	"context"
	"testing"
	"time"

	"github.com/Gebril-Amor/HealMe/internal/models"
	"github.com/jackc/pgx/v5"
)

type stubTherapistLister struct{ summaries []models.TherapistSummary }

func (s *stubTherapistLister) ListSummaries(_ context.Context) ([]models.TherapistSummary, error) {
	return s.summaries, nil
}

type stubPatientReader struct {
	profile *models.PatientProfile
	err     error
}

func (s *stubPatientReader) GetByUserID(_ context.Context, _ int64) (*models.PatientProfile, error) {
	return s.profile, s.err
}

type stubConversationReader struct {
	unread map[int64]int
	last   map[int64]*models.MessageSnapshot
	calls  int
}

func (s *stubConversationReader) CountUnread(_ context.Context, _, therapistID int64, _ string) (int, error) {
	s.calls++
	return s.unread[therapistID], nil
}

func (s *stubConversationReader) LastForPair(_ context.Context, _, therapistID int64) (*models.MessageSnapshot, error) {
	return s.last[therapistID], nil
}

func TestListTherapistsAnonymousGetsZeroDefaults(t *testing.T) {
	conversations := &stubConversationReader{}
	service := NewDirectoryService(
		&stubTherapistLister{summaries: []models.TherapistSummary{{ID: 1, Username: "dr_lee"}}},
		&stubPatientReader{err: pgx.ErrNoRows},
		conversations,
	)

	therapists, err := service.ListTherapists(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListTherapists: %v", err)
	}
	if len(therapists) != 1 {
		t.Fatalf("expected 1 therapist, got %d", len(therapists))
	}
	if therapists[0].UnreadCount != 0 || therapists[0].LastMessage != nil {
		t.Fatalf("anonymous caller must see zero defaults: %+v", therapists[0])
	}
	if conversations.calls != 0 {
		t.Fatal("conversation lookups must be skipped for anonymous callers")
	}
}

func TestListTherapistsCallerWithoutPatientProfileGetsBareList(t *testing.T) {
	conversations := &stubConversationReader{}
	service := NewDirectoryService(
		&stubTherapistLister{summaries: []models.TherapistSummary{{ID: 1}}},
		&stubPatientReader{err: pgx.ErrNoRows},
		conversations,
	)

	therapists, err := service.ListTherapists(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListTherapists: %v", err)
	}
	if conversations.calls != 0 {
		t.Fatal("callers without a patient profile must not trigger conversation lookups")
	}
	if therapists[0].UnreadCount != 0 {
		t.Fatalf("unexpected unread count: %d", therapists[0].UnreadCount)
	}
}

func TestListTherapistsFillsPatientConversationState(t *testing.T) {
	lastAt := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	conversations := &stubConversationReader{
		unread: map[int64]int{1: 2},
		last: map[int64]*models.MessageSnapshot{
			1: {Content: "See you Thursday", SenderRole: models.SenderTherapist, CreatedAt: lastAt},
		},
	}
	service := NewDirectoryService(
		&stubTherapistLister{summaries: []models.TherapistSummary{{ID: 1, Username: "dr_lee"}, {ID: 2, Username: "dr_kay"}}},
		&stubPatientReader{profile: &models.PatientProfile{ID: 11, UserID: 42}},
		conversations,
	)

	therapists, err := service.ListTherapists(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListTherapists: %v", err)
	}
	if therapists[0].UnreadCount != 2 {
		t.Fatalf("expected 2 unread for dr_lee, got %d", therapists[0].UnreadCount)
	}
	if therapists[0].LastMessage == nil || therapists[0].LastMessage.Content != "See you Thursday" {
		t.Fatalf("last message not carried: %+v", therapists[0].LastMessage)
	}
	if therapists[1].UnreadCount != 0 || therapists[1].LastMessage != nil {
		t.Fatalf("therapist without history must stay empty: %+v", therapists[1])
	}
}
