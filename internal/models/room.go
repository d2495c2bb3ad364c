package models

import "time"

// Room is a named group space with a many-to-many patient membership.
type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	RoomType  string    `json:"room_type"`
	CreatedAt time.Time `json:"created_at"`
}

type RoomDetail struct {
	Room
	Members []PatientSummary `json:"members"`
}
