package models

import "time"

type MoodEntry struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	EntryDate   time.Time `json:"entry_date"`
	Level       int       `json:"level"`
	Description string    `json:"description"`
}

type SleepEntry struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	EntryDate     time.Time `json:"entry_date"`
	DurationHours float64   `json:"duration_hours"`
	Quality       string    `json:"quality"`
}

type JournalEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	EntryDate time.Time `json:"entry_date"`
	Content   string    `json:"content"`
}
