package repository

import (
	"context"
	"time"

	"github.com/Gebril-Amor/HealMe/internal/models"
)

type SleepEntryInput struct {
	UserID        int64     `json:"user_id"`
	EntryDate     time.Time `json:"entry_date"`
	DurationHours float64   `json:"duration_hours"`
	Quality       string    `json:"quality"`
}

type SleepRepository struct {
	db DBTX
}

func NewSleepRepository(db DBTX) *SleepRepository {
	return &SleepRepository{db: db}
}

func (r *SleepRepository) Create(ctx context.Context, input SleepEntryInput) (*models.SleepEntry, error) {
	query := `
		INSERT INTO sleep_entries (user_id, entry_date, duration_hours, quality)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, entry_date, duration_hours, quality
	`
	var entry models.SleepEntry
	err := r.db.QueryRow(ctx, query, input.UserID, input.EntryDate, input.DurationHours, input.Quality).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.EntryDate,
		&entry.DurationHours,
		&entry.Quality,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *SleepRepository) GetByID(ctx context.Context, id int64) (*models.SleepEntry, error) {
	query := `
		SELECT id, user_id, entry_date, duration_hours, quality
		FROM sleep_entries
		WHERE id = $1
	`
	var entry models.SleepEntry
	err := r.db.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.EntryDate,
		&entry.DurationHours,
		&entry.Quality,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *SleepRepository) ListByUser(ctx context.Context, userID int64) ([]models.SleepEntry, error) {
	query := `
		SELECT id, user_id, entry_date, duration_hours, quality
		FROM sleep_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC, id DESC
	`
	return r.list(ctx, query, userID)
}

func (r *SleepRepository) List(ctx context.Context) ([]models.SleepEntry, error) {
	query := `
		SELECT id, user_id, entry_date, duration_hours, quality
		FROM sleep_entries
		ORDER BY entry_date DESC, id DESC
	`
	return r.list(ctx, query)
}

func (r *SleepRepository) Update(ctx context.Context, id int64, input SleepEntryInput) (*models.SleepEntry, error) {
	query := `
		UPDATE sleep_entries
		SET entry_date = $2, duration_hours = $3, quality = $4
		WHERE id = $1
		RETURNING id, user_id, entry_date, duration_hours, quality
	`
	var entry models.SleepEntry
	err := r.db.QueryRow(ctx, query, id, input.EntryDate, input.DurationHours, input.Quality).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.EntryDate,
		&entry.DurationHours,
		&entry.Quality,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *SleepRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sleep_entries WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *SleepRepository) list(ctx context.Context, query string, args ...any) ([]models.SleepEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.SleepEntry, 0)
	for rows.Next() {
		var entry models.SleepEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.EntryDate,
			&entry.DurationHours,
			&entry.Quality,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
