package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/Gebril-Amor/HealMe/internal/models"
	"github.com/Gebril-Amor/HealMe/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrParticipantNotFound = errors.New("participant not found")
)

// messageStore is implemented by *repository.MessageRepository.
type messageStore interface {
	Create(ctx context.Context, patientID, therapistID int64, content, senderRole string) (*models.Message, error)
	ListByPair(ctx context.Context, patientID, therapistID int64) ([]models.Message, error)
	ListForTherapist(ctx context.Context, therapistID int64) ([]repository.TherapistInboxRow, error)
	CountUnread(ctx context.Context, patientID, therapistID int64, senderRole string) (int, error)
	MarkPairRead(ctx context.Context, patientID, therapistID int64, senderRole string) error
	UserIDsForPair(ctx context.Context, patientID, therapistID int64) (int64, int64, error)
}

type ChatService struct {
	messageRepo messageStore
}

// ChatDelivery carries a persisted message plus the account ids of both
// conversation sides, so the hub can route the live copy.
type ChatDelivery struct {
	Message         *models.Message
	PatientUserID   int64
	TherapistUserID int64
}

func NewChatService(messageRepo messageStore) *ChatService {
	return &ChatService{messageRepo: messageRepo}
}

// SendMessage persists one message for the (patient, therapist) pair. The
// created message is always unread; no other message's read state changes.
func (s *ChatService) SendMessage(
	ctx context.Context,
	patientID int64,
	therapistID int64,
	content string,
	senderRole string,
) (*ChatDelivery, error) {
	if patientID <= 0 || therapistID <= 0 {
		return nil, ErrInvalidInput
	}
	if senderRole != models.SenderPatient && senderRole != models.SenderTherapist {
		return nil, ErrInvalidInput
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrInvalidInput
	}

	patientUserID, therapistUserID, err := s.messageRepo.UserIDsForPair(ctx, patientID, therapistID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}

	message, err := s.messageRepo.Create(ctx, patientID, therapistID, trimmed, senderRole)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}

	return &ChatDelivery{
		Message:         message,
		PatientUserID:   patientUserID,
		TherapistUserID: therapistUserID,
	}, nil
}

// ListConversation returns the pair's messages oldest first.
func (s *ChatService) ListConversation(
	ctx context.Context,
	patientID int64,
	therapistID int64,
) ([]models.Message, error) {
	if patientID <= 0 || therapistID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.messageRepo.ListByPair(ctx, patientID, therapistID)
}

// ListTherapistConversations derives one summary per patient who has
// messaged with the therapist: the most recent message as a snapshot plus
// the count of unread patient-authored messages, most recently active
// conversation first. Pairs with no messages never appear.
func (s *ChatService) ListTherapistConversations(
	ctx context.Context,
	therapistID int64,
) ([]models.ConversationSummary, error) {
	if therapistID <= 0 {
		return nil, ErrInvalidInput
	}

	inbox, err := s.messageRepo.ListForTherapist(ctx, therapistID)
	if err != nil {
		return nil, err
	}

	summaries := groupInbox(inbox)

	// Unread counts are a second query per conversation, not derived from
	// the grouping scan.
	for i := range summaries {
		count, err := s.messageRepo.CountUnread(ctx, summaries[i].PatientID, therapistID, models.SenderPatient)
		if err != nil {
			return nil, err
		}
		summaries[i].UnreadCount = count
	}

	return summaries, nil
}

// MarkConversationRead flips the unread flag on the messages authored by the
// side opposite the reader.
func (s *ChatService) MarkConversationRead(
	ctx context.Context,
	patientID int64,
	therapistID int64,
	readerRole string,
) error {
	if patientID <= 0 || therapistID <= 0 {
		return ErrInvalidInput
	}

	var senderRole string
	switch readerRole {
	case models.SenderPatient:
		senderRole = models.SenderTherapist
	case models.SenderTherapist:
		senderRole = models.SenderPatient
	default:
		return ErrInvalidInput
	}

	return s.messageRepo.MarkPairRead(ctx, patientID, therapistID, senderRole)
}

// groupInbox collapses a newest-first inbox scan into one summary per
// patient, keeping the first row encountered as that conversation's last
// message. The result is ordered by last-message time descending; equal
// timestamps break on higher patient id.
func groupInbox(inbox []repository.TherapistInboxRow) []models.ConversationSummary {
	seen := make(map[int64]struct{}, len(inbox))
	summaries := make([]models.ConversationSummary, 0, len(inbox))

	for _, row := range inbox {
		if _, ok := seen[row.Message.PatientID]; ok {
			continue
		}
		seen[row.Message.PatientID] = struct{}{}
		summaries = append(summaries, models.ConversationSummary{
			PatientID:    row.Message.PatientID,
			PatientName:  row.PatientName,
			PatientEmail: row.PatientEmail,
			LastMessage: &models.MessageSnapshot{
				Content:    row.Message.Content,
				SenderRole: row.Message.SenderRole,
				CreatedAt:  row.Message.CreatedAt,
			},
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].LastMessage.CreatedAt, summaries[j].LastMessage.CreatedAt
		if a.Equal(b) {
			return summaries[i].PatientID > summaries[j].PatientID
		}
		return a.After(b)
	})

	return summaries
}

func FormatChatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}
