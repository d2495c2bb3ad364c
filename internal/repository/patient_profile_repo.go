package repository

import (
	"context"
	"time"

	"github.com/Gebril-Amor/HealMe/internal/models"
)

type PatientProfileInput struct {
	Phone     *string    `json:"phone"`
	BirthDate *time.Time `json:"birth_date"`
}

type PatientProfileRepository struct {
	db DBTX
}

func NewPatientProfileRepository(db DBTX) *PatientProfileRepository {
	return &PatientProfileRepository{db: db}
}

func (r *PatientProfileRepository) Create(
	ctx context.Context,
	userID int64,
	input PatientProfileInput,
) (*models.PatientProfile, error) {
	query := `
		INSERT INTO patient_profiles (user_id, phone, birth_date)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, phone, birth_date, created_at, updated_at
	`
	var profile models.PatientProfile
	err := r.db.QueryRow(ctx, query, userID, input.Phone, input.BirthDate).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Phone,
		&profile.BirthDate,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *PatientProfileRepository) GetByID(ctx context.Context, id int64) (*models.PatientProfile, error) {
	query := `
		SELECT id, user_id, phone, birth_date, created_at, updated_at
		FROM patient_profiles
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

func (r *PatientProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.PatientProfile, error) {
	query := `
		SELECT id, user_id, phone, birth_date, created_at, updated_at
		FROM patient_profiles
		WHERE user_id = $1
	`
	return r.scanOne(ctx, query, userID)
}

func (r *PatientProfileRepository) List(ctx context.Context) ([]models.PatientProfile, error) {
	query := `
		SELECT id, user_id, phone, birth_date, created_at, updated_at
		FROM patient_profiles
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.PatientProfile, 0)
	for rows.Next() {
		var profile models.PatientProfile
		if err := rows.Scan(
			&profile.ID,
			&profile.UserID,
			&profile.Phone,
			&profile.BirthDate,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ListSummaries backs the all-patients directory.
func (r *PatientProfileRepository) ListSummaries(ctx context.Context) ([]models.PatientSummary, error) {
	query := `
		SELECT p.id, u.username, u.email
		FROM patient_profiles p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.PatientSummary, 0)
	for rows.Next() {
		var summary models.PatientSummary
		if err := rows.Scan(&summary.PatientID, &summary.PatientName, &summary.PatientEmail); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *PatientProfileRepository) Update(
	ctx context.Context,
	id int64,
	input PatientProfileInput,
) (*models.PatientProfile, error) {
	query := `
		UPDATE patient_profiles
		SET phone = $2, birth_date = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, phone, birth_date, created_at, updated_at
	`
	var profile models.PatientProfile
	err := r.db.QueryRow(ctx, query, id, input.Phone, input.BirthDate).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Phone,
		&profile.BirthDate,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *PatientProfileRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM patient_profiles WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PatientProfileRepository) scanOne(ctx context.Context, query string, arg any) (*models.PatientProfile, error) {
	var profile models.PatientProfile
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Phone,
		&profile.BirthDate,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
