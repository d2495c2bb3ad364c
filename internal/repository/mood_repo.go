package repository

import (
	"context"
	"time"

	"github.com/Gebril-Amor/HealMe/internal/models"
)

type MoodEntryInput struct {
	UserID      int64     `json:"user_id"`
	EntryDate   time.Time `json:"entry_date"`
	Level       int       `json:"level"`
	Description string    `json:"description"`
}

type MoodRepository struct {
	db DBTX
}

func NewMoodRepository(db DBTX) *MoodRepository {
	return &MoodRepository{db: db}
}

func (r *MoodRepository) Create(ctx context.Context, input MoodEntryInput) (*models.MoodEntry, error) {
	query := `
		INSERT INTO mood_entries (user_id, entry_date, level, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, entry_date, level, description
	`
	var entry models.MoodEntry
	err := r.db.QueryRow(ctx, query, input.UserID, input.EntryDate, input.Level, input.Description).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.EntryDate,
		&entry.Level,
		&entry.Description,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *MoodRepository) GetByID(ctx context.Context, id int64) (*models.MoodEntry, error) {
	query := `
		SELECT id, user_id, entry_date, level, description
		FROM mood_entries
		WHERE id = $1
	`
	var entry models.MoodEntry
	err := r.db.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.EntryDate,
		&entry.Level,
		&entry.Description,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByUser returns a user's mood entries newest first. An empty slice is
// not an error.
func (r *MoodRepository) ListByUser(ctx context.Context, userID int64) ([]models.MoodEntry, error) {
	query := `
		SELECT id, user_id, entry_date, level, description
		FROM mood_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC, id DESC
	`
	return r.list(ctx, query, userID)
}

func (r *MoodRepository) List(ctx context.Context) ([]models.MoodEntry, error) {
	query := `
		SELECT id, user_id, entry_date, level, description
		FROM mood_entries
		ORDER BY entry_date DESC, id DESC
	`
	return r.list(ctx, query)
}

func (r *MoodRepository) Update(ctx context.Context, id int64, input MoodEntryInput) (*models.MoodEntry, error) {
	query := `
		UPDATE mood_entries
		SET entry_date = $2, level = $3, description = $4
		WHERE id = $1
		RETURNING id, user_id, entry_date, level, description
	`
	var entry models.MoodEntry
	err := r.db.QueryRow(ctx, query, id, input.EntryDate, input.Level, input.Description).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.EntryDate,
		&entry.Level,
		&entry.Description,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *MoodRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM mood_entries WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *MoodRepository) list(ctx context.Context, query string, args ...any) ([]models.MoodEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.MoodEntry, 0)
	for rows.Next() {
		var entry models.MoodEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.EntryDate,
			&entry.Level,
			&entry.Description,
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
