package repository

import (
	"context"

	"github.com/Gebril-Amor/HealMe/internal/models"
)

type AdminProfileInput struct {
	Department *string `json:"department"`
}

type AdminProfileRepository struct {
	db DBTX
}

func NewAdminProfileRepository(db DBTX) *AdminProfileRepository {
	return &AdminProfileRepository{db: db}
}

func (r *AdminProfileRepository) Create(
	ctx context.Context,
	userID int64,
	input AdminProfileInput,
) (*models.AdminProfile, error) {
	query := `
		INSERT INTO admin_profiles (user_id, department)
		VALUES ($1, $2)
		RETURNING id, user_id, department, created_at, updated_at
	`
	var profile models.AdminProfile
	err := r.db.QueryRow(ctx, query, userID, input.Department).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Department,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *AdminProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.AdminProfile, error) {
	query := `
		SELECT id, user_id, department, created_at, updated_at
		FROM admin_profiles
		WHERE user_id = $1
	`
	var profile models.AdminProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Department,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
