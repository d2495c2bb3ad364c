package repository

import (
	"context"
	"time"

	"github.com/Gebril-Amor/HealMe/internal/models"
)

type JournalEntryInput struct {
	UserID    int64     `json:"user_id"`
	EntryDate time.Time `json:"entry_date"`
	Content   string    `json:"content"`
}

type JournalRepository struct {
	db DBTX
}

func NewJournalRepository(db DBTX) *JournalRepository {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) Create(ctx context.Context, input JournalEntryInput) (*models.JournalEntry, error) {
	query := `
		INSERT INTO journal_entries (user_id, entry_date, content)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, entry_date, content
	`
	var entry models.JournalEntry
	err := r.db.QueryRow(ctx, query, input.UserID, input.EntryDate, input.Content).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.EntryDate,
		&entry.Content,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *JournalRepository) GetByID(ctx context.Context, id int64) (*models.JournalEntry, error) {
	query := `
		SELECT id, user_id, entry_date, content
		FROM journal_entries
		WHERE id = $1
	`
	var entry models.JournalEntry
	err := r.db.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.EntryDate,
		&entry.Content,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *JournalRepository) ListByUser(ctx context.Context, userID int64) ([]models.JournalEntry, error) {
	query := `
		SELECT id, user_id, entry_date, content
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC, id DESC
	`
	return r.list(ctx, query, userID)
}

func (r *JournalRepository) List(ctx context.Context) ([]models.JournalEntry, error) {
	query := `
		SELECT id, user_id, entry_date, content
		FROM journal_entries
		ORDER BY entry_date DESC, id DESC
	`
	return r.list(ctx, query)
}

func (r *JournalRepository) Update(ctx context.Context, id int64, input JournalEntryInput) (*models.JournalEntry, error) {
	query := `
		UPDATE journal_entries
		SET entry_date = $2, content = $3
		WHERE id = $1
		RETURNING id, user_id, entry_date, content
	`
	var entry models.JournalEntry
	err := r.db.QueryRow(ctx, query, id, input.EntryDate, input.Content).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.EntryDate,
		&entry.Content,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *JournalRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM journal_entries WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *JournalRepository) list(ctx context.Context, query string, args ...any) ([]models.JournalEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.JournalEntry, 0)
	for rows.Next() {
		var entry models.JournalEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.EntryDate,
			&entry.Content,
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
