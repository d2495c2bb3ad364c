package repository

import (
	"context"

	"github.com/Gebril-Amor/HealMe/internal/models"
)

type TherapistProfileInput struct {
	Specialty *string `json:"specialty"`
	Phone     *string `json:"phone"`
}

type TherapistProfileRepository struct {
	db DBTX
}

func NewTherapistProfileRepository(db DBTX) *TherapistProfileRepository {
	return &TherapistProfileRepository{db: db}
}

func (r *TherapistProfileRepository) Create(
	ctx context.Context,
	userID int64,
	input TherapistProfileInput,
) (*models.TherapistProfile, error) {
	query := `
		INSERT INTO therapist_profiles (user_id, specialty, phone)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, specialty, phone, created_at, updated_at
	`
	var profile models.TherapistProfile
	err := r.db.QueryRow(ctx, query, userID, input.Specialty, input.Phone).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Specialty,
		&profile.Phone,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *TherapistProfileRepository) GetByID(ctx context.Context, id int64) (*models.TherapistProfile, error) {
	query := `
		SELECT id, user_id, specialty, phone, created_at, updated_at
		FROM therapist_profiles
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

func (r *TherapistProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.TherapistProfile, error) {
	query := `
		SELECT id, user_id, specialty, phone, created_at, updated_at
		FROM therapist_profiles
		WHERE user_id = $1
	`
	return r.scanOne(ctx, query, userID)
}

// ListSummaries returns every therapist joined to its account identity.
// Unread counts and last-message snapshots are filled in by the directory
// service for authenticated patient callers.
func (r *TherapistProfileRepository) ListSummaries(ctx context.Context) ([]models.TherapistSummary, error) {
	query := `
		SELECT t.id, t.user_id, u.username, u.email, t.specialty, t.phone
		FROM therapist_profiles t
		JOIN users u ON u.id = t.user_id
		ORDER BY t.id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.TherapistSummary, 0)
	for rows.Next() {
		var summary models.TherapistSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.UserID,
			&summary.Username,
			&summary.Email,
			&summary.Specialty,
			&summary.Phone,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *TherapistProfileRepository) Update(
	ctx context.Context,
	id int64,
	input TherapistProfileInput,
) (*models.TherapistProfile, error) {
	query := `
		UPDATE therapist_profiles
		SET specialty = $2, phone = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, specialty, phone, created_at, updated_at
	`
	var profile models.TherapistProfile
	err := r.db.QueryRow(ctx, query, id, input.Specialty, input.Phone).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Specialty,
		&profile.Phone,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *TherapistProfileRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM therapist_profiles WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TherapistProfileRepository) scanOne(ctx context.Context, query string, arg any) (*models.TherapistProfile, error) {
	var profile models.TherapistProfile
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Specialty,
		&profile.Phone,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
