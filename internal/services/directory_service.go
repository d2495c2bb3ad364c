package services

import (
	"context"
	"errors"

	"github.com/Gebril-Amor/HealMe/internal/models"
	"github.com/jackc/pgx/v5"
)

type therapistLister interface {
	ListSummaries(ctx context.Context) ([]models.TherapistSummary, error)
}

type patientProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.PatientProfile, error)
}

type conversationReader interface {
	CountUnread(ctx context.Context, patientID, therapistID int64, senderRole string) (int, error)
	LastForPair(ctx context.Context, patientID, therapistID int64) (*models.MessageSnapshot, error)
}

// DirectoryService produces the therapist directory patients browse.
type DirectoryService struct {
	therapistRepo therapistLister
	patientRepo   patientProfileReader
	messageRepo   conversationReader
}

func NewDirectoryService(
	therapistRepo therapistLister,
	patientRepo patientProfileReader,
	messageRepo conversationReader,
) *DirectoryService {
	return &DirectoryService{
		therapistRepo: therapistRepo,
		patientRepo:   patientRepo,
		messageRepo:   messageRepo,
	}
}

// ListTherapists returns every therapist. When the caller is an
// authenticated account holding a patient profile, each row carries the
// unread count of therapist-authored messages and the last message of that
// patient's own conversation with the therapist. For anonymous callers, or
// callers without a patient profile, unread stays 0 and last message absent;
// that is a policy default, not an error. Pass callerUserID 0 for anonymous.
func (s *DirectoryService) ListTherapists(
	ctx context.Context,
	callerUserID int64,
) ([]models.TherapistSummary, error) {
	therapists, err := s.therapistRepo.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}

	if callerUserID <= 0 {
		return therapists, nil
	}

	patient, err := s.patientRepo.GetByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return therapists, nil
		}
		return nil, err
	}

	for i := range therapists {
		count, err := s.messageRepo.CountUnread(ctx, patient.ID, therapists[i].ID, models.SenderTherapist)
		if err != nil {
			return nil, err
		}
		therapists[i].UnreadCount = count

		last, err := s.messageRepo.LastForPair(ctx, patient.ID, therapists[i].ID)
		if err != nil {
			return nil, err
		}
		therapists[i].LastMessage = last
	}

	return therapists, nil
}
