package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, m *models.ChatMessage) error {
	query := `
		INSERT INTO messages (appointment_id, sender_id, receiver_id, sender_role, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		m.AppointmentID, m.SenderID, m.ReceiverID, m.SenderRole, m.Content,
	).Scan(&m.ID, &m.CreatedAt)
}

// ListByAppointment returns the appointment's messages oldest first.
func (r *MessageRepo) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*models.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, appointment_id, sender_id, receiver_id, sender_role, content, created_at
		FROM messages
		WHERE appointment_id = $1
		ORDER BY created_at ASC, id ASC`, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*models.ChatMessage, 0)
	for rows.Next() {
		m := &models.ChatMessage{}
		if err := rows.Scan(&m.ID, &m.AppointmentID, &m.SenderID, &m.ReceiverID, &m.SenderRole, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
