package repository

import (
	"context"

	"github.com/Gebril-Amor/HealMe/internal/models"
)

type RoomInput struct {
	Name     string `json:"name"`
	RoomType string `json:"room_type"`
}

type RoomRepository struct {
	db DBTX
}

func NewRoomRepository(db DBTX) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, input RoomInput) (*models.Room, error) {
	query := `
		INSERT INTO rooms (name, room_type)
		VALUES ($1, $2)
		RETURNING id, name, room_type, created_at
	`
	var room models.Room
	err := r.db.QueryRow(ctx, query, input.Name, input.RoomType).Scan(
		&room.ID,
		&room.Name,
		&room.RoomType,
		&room.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) GetByID(ctx context.Context, roomID int64) (*models.Room, error) {
	query := `
		SELECT id, name, room_type, created_at
		FROM rooms
		WHERE id = $1
	`
	var room models.Room
	err := r.db.QueryRow(ctx, query, roomID).Scan(
		&room.ID,
		&room.Name,
		&room.RoomType,
		&room.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	query := `
		SELECT id, name, room_type, created_at
		FROM rooms
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]models.Room, 0)
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.RoomType, &room.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomRepository) Update(ctx context.Context, roomID int64, input RoomInput) (*models.Room, error) {
	query := `
		UPDATE rooms
		SET name = $2, room_type = $3
		WHERE id = $1
		RETURNING id, name, room_type, created_at
	`
	var room models.Room
	err := r.db.QueryRow(ctx, query, roomID, input.Name, input.RoomType).Scan(
		&room.ID,
		&room.Name,
		&room.RoomType,
		&room.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) Delete(ctx context.Context, roomID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, roomID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RoomRepository) AddMember(ctx context.Context, roomID, patientID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO room_members (room_id, patient_id)
		VALUES ($1, $2)
		ON CONFLICT (room_id, patient_id) DO NOTHING
	`, roomID, patientID)
	return err
}

func (r *RoomRepository) RemoveMember(ctx context.Context, roomID, patientID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM room_members
		WHERE room_id = $1 AND patient_id = $2
	`, roomID, patientID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RoomRepository) ListMembers(ctx context.Context, roomID int64) ([]models.PatientSummary, error) {
	query := `
		SELECT p.id, u.username, u.email
		FROM room_members m
		JOIN patient_profiles p ON p.id = m.patient_id
		JOIN users u ON u.id = p.user_id
		WHERE m.room_id = $1
		ORDER BY p.id ASC
	`
	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.PatientSummary, 0)
	for rows.Next() {
		var member models.PatientSummary
		if err := rows.Scan(&member.PatientID, &member.PatientName, &member.PatientEmail); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}
