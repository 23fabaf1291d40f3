package models

import (
	"time"

	"github.com/google/uuid"
)

type VideoCallStatus string

const (
	VideoCallPending VideoCallStatus = "pending"
	VideoCallActive  VideoCallStatus = "active"
	VideoCallEnded   VideoCallStatus = "ended"
)

// VideoCall tracks one call's lifecycle for an approved appointment.
// Media and signaling never pass through it.
type VideoCall struct {
	ID              uuid.UUID       `json:"id"`
	RoomID          string          `json:"room_id"`
	AppointmentID   uuid.UUID       `json:"appointment_id"`
	TeacherID       uuid.UUID       `json:"teacher_id"`
	StudentID       uuid.UUID       `json:"student_id"`
	Status          VideoCallStatus `json:"status"`
	CanJoin         bool            `json:"can_join"`
	ScheduledDate   time.Time       `json:"scheduled_date"`
	ScheduledTime   string          `json:"scheduled_time"`
	StartTime       *time.Time      `json:"start_time,omitempty"`
	EndTime         *time.Time      `json:"end_time,omitempty"`
	DurationMinutes *int            `json:"duration_minutes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Filled in by teacher list views only.
	Student     *CallStudent     `json:"student,omitempty"`
	Appointment *CallAppointment `json:"appointment,omitempty"`
}

type CallStudent struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CallAppointment struct {
	Date      time.Time `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
}

func (v *VideoCall) IsParticipant(userID uuid.UUID) bool {
	return v.TeacherID == userID || v.StudentID == userID
}

type CreateVideoCallRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required,uuid"`
}
