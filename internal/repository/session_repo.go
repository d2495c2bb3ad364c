package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Gebril-Amor/HealMe/internal/models"
)

type TherapySessionInput struct {
	PatientID   int64     `json:"patient_id"`
	TherapistID int64     `json:"therapist_id"`
	SessionDate time.Time `json:"session_date"`
	SessionType string    `json:"session_type"`
}

type SessionListFilter struct {
	PatientID   int64
	TherapistID int64
}

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, input TherapySessionInput) (*models.TherapySession, error) {
	query := `
		INSERT INTO therapy_sessions (patient_id, therapist_id, session_date, session_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, patient_id, therapist_id, session_date, session_type, created_at, updated_at
	`
	var session models.TherapySession
	err := r.db.QueryRow(
		ctx,
		query,
		input.PatientID,
		input.TherapistID,
		input.SessionDate,
		input.SessionType,
	).Scan(
		&session.ID,
		&session.PatientID,
		&session.TherapistID,
		&session.SessionDate,
		&session.SessionType,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.TherapySession, error) {
	query := `
		SELECT id, patient_id, therapist_id, session_date, session_type, created_at, updated_at
		FROM therapy_sessions
		WHERE id = $1
	`
	var session models.TherapySession
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&session.ID,
		&session.PatientID,
		&session.TherapistID,
		&session.SessionDate,
		&session.SessionType,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) List(ctx context.Context, filter SessionListFilter) ([]models.TherapySession, error) {
	args := []any{}
	whereParts := []string{}

	if filter.PatientID > 0 {
		args = append(args, filter.PatientID)
		whereParts = append(whereParts, fmt.Sprintf("patient_id = $%d", len(args)))
	}
	if filter.TherapistID > 0 {
		args = append(args, filter.TherapistID)
		whereParts = append(whereParts, fmt.Sprintf("therapist_id = $%d", len(args)))
	}

	where := ""
	for i, part := range whereParts {
		if i == 0 {
			where = "WHERE " + part
		} else {
			where += " AND " + part
		}
	}

	query := fmt.Sprintf(`
		SELECT id, patient_id, therapist_id, session_date, session_type, created_at, updated_at
		FROM therapy_sessions
		%s
		ORDER BY session_date ASC, id ASC
	`, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.TherapySession, 0)
	for rows.Next() {
		var session models.TherapySession
		if err := rows.Scan(
			&session.ID,
			&session.PatientID,
			&session.TherapistID,
			&session.SessionDate,
			&session.SessionType,
			&session.CreatedAt,
			&session.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) Update(
	ctx context.Context,
	sessionID int64,
	input TherapySessionInput,
) (*models.TherapySession, error) {
	query := `
		UPDATE therapy_sessions
		SET session_date = $2, session_type = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, patient_id, therapist_id, session_date, session_type, created_at, updated_at
	`
	var session models.TherapySession
	err := r.db.QueryRow(ctx, query, sessionID, input.SessionDate, input.SessionType).Scan(
		&session.ID,
		&session.PatientID,
		&session.TherapistID,
		&session.SessionDate,
		&session.SessionType,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM therapy_sessions WHERE id = $1`, sessionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
