package models

import "time"

type PatientProfile struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Phone     *string    `json:"phone"`
	BirthDate *time.Time `json:"birth_date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type TherapistProfile struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Specialty *string   `json:"specialty"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AdminProfile struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Department *string   `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PatientSummary is the directory row therapists see in the all-patients
// listing.
type PatientSummary struct {
	PatientID    int64  `json:"patient_id"`
	PatientName  string `json:"patient_name"`
	PatientEmail string `json:"patient_email"`
}
