package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/Gebril-Amor/HealMe/internal/models"
)

var (
	testDBOnce sync.Once
	testDBPool *pgxpool.Pool
	testDBErr  error
)

func TestMessageRoundTripIsPairScopedAndAscending(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	repo := NewMessageRepository(pool)

	patientID, patientUserID := createTestPatient(t, ctx, pool)
	otherPatientID, otherUserID := createTestPatient(t, ctx, pool)
	therapistID, therapistUserID := createTestTherapist(t, ctx, pool)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, patientUserID, otherUserID, therapistUserID) })

	for _, m := range []struct {
		patientID  int64
		content    string
		senderRole string
	}{
		{patientID, "first", models.SenderPatient},
		{patientID, "second", models.SenderTherapist},
		{patientID, "third", models.SenderPatient},
		{otherPatientID, "other pair", models.SenderPatient},
	} {
		created, err := repo.Create(ctx, m.patientID, therapistID, m.content, m.senderRole)
		if err != nil {
			t.Fatalf("Create(%q): %v", m.content, err)
		}
		if created.IsRead {
			t.Fatalf("message %q must be created unread", m.content)
		}
	}

	messages, err := repo.ListByPair(ctx, patientID, therapistID)
	if err != nil {
		t.Fatalf("ListByPair: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages for the pair, got %d", len(messages))
	}
	for i, want := range []string{"first", "second", "third"} {
		if messages[i].Content != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, messages[i].Content)
		}
	}
	for _, m := range messages {
		if m.PatientID != patientID || m.TherapistID != therapistID {
			t.Fatalf("message from another pair leaked into the listing: %+v", m)
		}
	}
	for i := 1; i < len(messages); i++ {
		if messages[i].CreatedAt.Before(messages[i-1].CreatedAt) {
			t.Fatalf("messages out of chronological order: %v after %v",
				messages[i].CreatedAt, messages[i-1].CreatedAt)
		}
	}
}

func TestCountUnreadAndMarkPairReadScoping(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	repo := NewMessageRepository(pool)

	patientID, patientUserID := createTestPatient(t, ctx, pool)
	otherPatientID, otherUserID := createTestPatient(t, ctx, pool)
	therapistID, therapistUserID := createTestTherapist(t, ctx, pool)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, patientUserID, otherUserID, therapistUserID) })

	for _, m := range []struct {
		patientID  int64
		senderRole string
	}{
		{patientID, models.SenderPatient},
		{patientID, models.SenderPatient},
		{patientID, models.SenderTherapist},
		{otherPatientID, models.SenderPatient},
	} {
		if _, err := repo.Create(ctx, m.patientID, therapistID, "hello", m.senderRole); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	fromPatient, err := repo.CountUnread(ctx, patientID, therapistID, models.SenderPatient)
	if err != nil {
		t.Fatalf("CountUnread patient side: %v", err)
	}
	if fromPatient != 2 {
		t.Fatalf("expected 2 unread patient messages, got %d", fromPatient)
	}
	fromTherapist, err := repo.CountUnread(ctx, patientID, therapistID, models.SenderTherapist)
	if err != nil {
		t.Fatalf("CountUnread therapist side: %v", err)
	}
	if fromTherapist != 1 {
		t.Fatalf("expected 1 unread therapist message, got %d", fromTherapist)
	}

	if err := repo.MarkPairRead(ctx, patientID, therapistID, models.SenderPatient); err != nil {
		t.Fatalf("MarkPairRead: %v", err)
	}

	fromPatient, err = repo.CountUnread(ctx, patientID, therapistID, models.SenderPatient)
	if err != nil {
		t.Fatalf("CountUnread after mark: %v", err)
	}
	if fromPatient != 0 {
		t.Fatalf("expected patient messages read, got %d unread", fromPatient)
	}
	fromTherapist, err = repo.CountUnread(ctx, patientID, therapistID, models.SenderTherapist)
	if err != nil {
		t.Fatalf("CountUnread therapist after mark: %v", err)
	}
	if fromTherapist != 1 {
		t.Fatalf("therapist message must stay unread, got %d", fromTherapist)
	}

	otherUnread, err := repo.CountUnread(ctx, otherPatientID, therapistID, models.SenderPatient)
	if err != nil {
		t.Fatalf("CountUnread other pair: %v", err)
	}
	if otherUnread != 1 {
		t.Fatalf("other pair's unread count must be untouched, got %d", otherUnread)
	}
}

func integrationTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("DB_URL")
		if dbURL == "" {
			testDBErr = fmt.Errorf("DB_URL is not set")
			return
		}

		cfg, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			testDBErr = err
			return
		}

		testDBPool, testDBErr = pgxpool.NewWithConfig(context.Background(), cfg)
		if testDBErr != nil {
			return
		}
		testDBErr = testDBPool.Ping(context.Background())
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDBPool
}

func createTestPatient(t *testing.T, ctx context.Context, pool *pgxpool.Pool) (profileID, userID int64) {
	t.Helper()

	user := createTestUser(t, ctx, pool, models.RolePatient)
	profile, err := NewPatientProfileRepository(pool).Create(ctx, user.ID, PatientProfileInput{})
	if err != nil {
		t.Fatalf("Create patient profile: %v", err)
	}
	return profile.ID, user.ID
}

func createTestTherapist(t *testing.T, ctx context.Context, pool *pgxpool.Pool) (profileID, userID int64) {
	t.Helper()

	user := createTestUser(t, ctx, pool, models.RoleTherapist)
	profile, err := NewTherapistProfileRepository(pool).Create(ctx, user.ID, TherapistProfileInput{})
	if err != nil {
		t.Fatalf("Create therapist profile: %v", err)
	}
	return profile.ID, user.ID
}

func createTestUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool, role string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     fmt.Sprintf("message-test-%s-%d", role, time.Now().UnixNano()),
		Email:        fmt.Sprintf("message-test-%s-%d@example.com", role, time.Now().UnixNano()),
		PasswordHash: "test-hash",
		Role:         role,
	}
	if err := NewUserRepository(pool).CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser(%s): %v", role, err)
	}
	return user
}

// cleanupTestUsers removes the accounts; profiles and messages go with them
// via the cascading foreign keys.
func cleanupTestUsers(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userIDs ...int64) {
	t.Helper()

	if len(userIDs) == 0 {
		return
	}
	if _, err := pool.Exec(ctx, "DELETE FROM users WHERE id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup users: %v", err)
	}
}
