package models

import (
	"time"

	"github.com/google/uuid"
)

// SenderRole distinguishes the two sides of an appointment chat.
type SenderRole string

const (
	SenderTeacher SenderRole = "teacher"
	SenderUser    SenderRole = "user"
)

// ChatMessage is one append-only message scoped to an appointment.
type ChatMessage struct {
	ID            uuid.UUID  `json:"id"`
	AppointmentID uuid.UUID  `json:"appointment_id"`
	SenderID      uuid.UUID  `json:"sender_id"`
	ReceiverID    uuid.UUID  `json:"receiver_id"`
	SenderRole    SenderRole `json:"sender_role"`
	Content       string     `json:"content"`
	CreatedAt     time.Time  `json:"created_at"`
}

type SendMessageRequest struct {
	ReceiverID    string `json:"receiver_id" validate:"required,uuid"`
	AppointmentID string `json:"appointment_id" validate:"required,uuid"`
	Content       string `json:"content" validate:"max=5000"`
}
