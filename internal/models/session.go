package models

import "time"

type TherapySession struct {
	ID          int64     `json:"id"`
	PatientID   int64     `json:"patient_id"`
	TherapistID int64     `json:"therapist_id"`
	SessionDate time.Time `json:"session_date"`
	SessionType string    `json:"session_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
