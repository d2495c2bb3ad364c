package models

import "time"

const (
	SenderPatient   = "patient"
	SenderTherapist = "therapist"
)

// Message belongs to exactly one (patient, therapist) pair; that pair is the
// conversation key. Only is_read may change after creation.
type Message struct {
	ID            int64     `json:"id"`
	PatientID     int64     `json:"patient_id"`
	TherapistID   int64     `json:"therapist_id"`
	Content       string    `json:"content"`
	SenderRole    string    `json:"sender_role"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
	PatientName   string    `json:"patient_name,omitempty"`
	TherapistName string    `json:"therapist_name,omitempty"`
}

// MessageSnapshot is the last-message view embedded in conversation and
// therapist summaries.
type MessageSnapshot struct {
	Content    string    `json:"content"`
	SenderRole string    `json:"sender_role"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConversationSummary is one row of a therapist's conversation list: the
// most recent message exchanged with a patient plus that conversation's
// unread count.
type ConversationSummary struct {
	PatientID    int64            `json:"patient_id"`
	PatientName  string           `json:"patient_name"`
	PatientEmail string           `json:"patient_email"`
	LastMessage  *MessageSnapshot `json:"last_message,omitempty"`
	UnreadCount  int              `json:"unread_count"`
}

// TherapistSummary is the directory row patients browse. Unread count and
// last message are scoped to the caller's own conversation with the
// therapist and stay zero/absent for anonymous callers.
type TherapistSummary struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"user_id"`
	Username    string           `json:"username"`
	Email       string           `json:"email"`
	Specialty   *string          `json:"specialty"`
	Phone       *string          `json:"phone"`
	UnreadCount int              `json:"unread_count"`
	LastMessage *MessageSnapshot `json:"last_message,omitempty"`
}
