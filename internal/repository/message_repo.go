package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gebril-Amor/HealMe/internal/models"
	"github.com/jackc/pgx/v5"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

// TherapistInboxRow is one message of a therapist's inbox together with the
// sending patient's account identity, as scanned by ListForTherapist.
type TherapistInboxRow struct {
	Message      models.Message
	PatientName  string
	PatientEmail string
}

func (r *MessageRepository) Create(
	ctx context.Context,
	patientID int64,
	therapistID int64,
	content string,
	senderRole string,
) (*models.Message, error) {
	query := `
		INSERT INTO messages (patient_id, therapist_id, content, sender_role, is_read)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, patient_id, therapist_id, content, sender_role, is_read, created_at
	`

	var message models.Message
	err := r.db.QueryRow(ctx, query, patientID, therapistID, content, senderRole).Scan(
		&message.ID,
		&message.PatientID,
		&message.TherapistID,
		&message.Content,
		&message.SenderRole,
		&message.IsRead,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// ListByPair returns every message of one conversation, oldest first.
func (r *MessageRepository) ListByPair(
	ctx context.Context,
	patientID int64,
	therapistID int64,
) ([]models.Message, error) {
	query := `
		SELECT m.id, m.patient_id, m.therapist_id, m.content, m.sender_role, m.is_read, m.created_at,
		       pu.username, tu.username
		FROM messages m
		JOIN patient_profiles p ON p.id = m.patient_id
		JOIN users pu ON pu.id = p.user_id
		JOIN therapist_profiles t ON t.id = m.therapist_id
		JOIN users tu ON tu.id = t.user_id
		WHERE m.patient_id = $1 AND m.therapist_id = $2
		ORDER BY m.created_at ASC, m.id ASC
	`

	rows, err := r.db.Query(ctx, query, patientID, therapistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// List returns a page of messages across all conversations, oldest first,
// optionally narrowed to one therapist. Backs the messages resource
// collection.
func (r *MessageRepository) List(
	ctx context.Context,
	therapistID int64,
	limit int,
	offset int,
) ([]models.Message, int, error) {
	where := ""
	countArgs := []any{}
	if therapistID > 0 {
		where = `WHERE m.therapist_id = $1`
		countArgs = append(countArgs, therapistID)
	}

	totalQuery := `SELECT COUNT(*) FROM messages m ` + where
	var total int
	if err := r.db.QueryRow(ctx, totalQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args := append([]any{}, countArgs...)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT m.id, m.patient_id, m.therapist_id, m.content, m.sender_role, m.is_read, m.created_at,
		       pu.username, tu.username
		FROM messages m
		JOIN patient_profiles p ON p.id = m.patient_id
		JOIN users pu ON pu.id = p.user_id
		JOIN therapist_profiles t ON t.id = m.therapist_id
		JOIN users tu ON tu.id = t.user_id
		%s
		ORDER BY m.created_at ASC, m.id ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// ListForTherapist returns every message addressed to or sent by a therapist,
// newest first, with the patient's display name and email joined in. The
// chat service groups this scan into per-patient conversation summaries.
func (r *MessageRepository) ListForTherapist(
	ctx context.Context,
	therapistID int64,
) ([]TherapistInboxRow, error) {
	query := `
		SELECT m.id, m.patient_id, m.therapist_id, m.content, m.sender_role, m.is_read, m.created_at,
		       u.username, u.email
		FROM messages m
		JOIN patient_profiles p ON p.id = m.patient_id
		JOIN users u ON u.id = p.user_id
		WHERE m.therapist_id = $1
		ORDER BY m.created_at DESC, m.id DESC
	`

	rows, err := r.db.Query(ctx, query, therapistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inbox := make([]TherapistInboxRow, 0)
	for rows.Next() {
		var row TherapistInboxRow
		if err := rows.Scan(
			&row.Message.ID,
			&row.Message.PatientID,
			&row.Message.TherapistID,
			&row.Message.Content,
			&row.Message.SenderRole,
			&row.Message.IsRead,
			&row.Message.CreatedAt,
			&row.PatientName,
			&row.PatientEmail,
		); err != nil {
			return nil, err
		}
		inbox = append(inbox, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return inbox, nil
}

// CountUnread counts a conversation's unread messages authored by senderRole.
func (r *MessageRepository) CountUnread(
	ctx context.Context,
	patientID int64,
	therapistID int64,
	senderRole string,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM messages
		WHERE patient_id = $1
		  AND therapist_id = $2
		  AND sender_role = $3
		  AND is_read = FALSE
	`

	var count int
	if err := r.db.QueryRow(ctx, query, patientID, therapistID, senderRole).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// LastForPair returns the most recent message of a conversation, or nil when
// the pair has never exchanged one.
func (r *MessageRepository) LastForPair(
	ctx context.Context,
	patientID int64,
	therapistID int64,
) (*models.MessageSnapshot, error) {
	query := `
		SELECT content, sender_role, created_at
		FROM messages
		WHERE patient_id = $1 AND therapist_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var snapshot models.MessageSnapshot
	err := r.db.QueryRow(ctx, query, patientID, therapistID).Scan(
		&snapshot.Content,
		&snapshot.SenderRole,
		&snapshot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

// MarkPairRead flips the read flag on a conversation's unread messages
// authored by senderRole. Called when the opposite side views the
// conversation.
func (r *MessageRepository) MarkPairRead(
	ctx context.Context,
	patientID int64,
	therapistID int64,
	senderRole string,
) error {
	_, err := r.db.Exec(ctx, `
		UPDATE messages
		SET is_read = TRUE
		WHERE patient_id = $1
		  AND therapist_id = $2
		  AND sender_role = $3
		  AND is_read = FALSE
	`, patientID, therapistID, senderRole)
	return err
}

// UserIDsForPair resolves the account ids behind a conversation's profiles,
// used to route live deliveries to connected clients.
func (r *MessageRepository) UserIDsForPair(
	ctx context.Context,
	patientID int64,
	therapistID int64,
) (int64, int64, error) {
	query := `
		SELECT p.user_id, t.user_id
		FROM patient_profiles p, therapist_profiles t
		WHERE p.id = $1 AND t.id = $2
	`

	var patientUserID, therapistUserID int64
	if err := r.db.QueryRow(ctx, query, patientID, therapistID).Scan(&patientUserID, &therapistUserID); err != nil {
		return 0, 0, err
	}
	return patientUserID, therapistUserID, nil
}

func scanMessages(rows pgx.Rows) ([]models.Message, error) {
	messages := make([]models.Message, 0)
	for rows.Next() {
		var message models.Message
		if err := rows.Scan(
			&message.ID,
			&message.PatientID,
			&message.TherapistID,
			&message.Content,
			&message.SenderRole,
			&message.IsRead,
			&message.CreatedAt,
			&message.PatientName,
			&message.TherapistName,
		); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
