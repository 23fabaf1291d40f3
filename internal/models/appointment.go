package models

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentPending  AppointmentStatus = "pending"
	AppointmentApproved AppointmentStatus = "approved"
	AppointmentRejected AppointmentStatus = "rejected"
)

type Appointment struct {
	ID        uuid.UUID         `json:"id"`
	TeacherID uuid.UUID         `json:"teacher_id"`
	StudentID uuid.UUID         `json:"student_id"`
	Date      time.Time         `json:"date"`
	StartTime string            `json:"start_time"`
	EndTime   string            `json:"end_time"`
	Purpose   string            `json:"purpose"`
	Message   string            `json:"message"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// IsParticipant reports whether userID is the appointment's teacher or student.
func (a *Appointment) IsParticipant(userID uuid.UUID) bool {
	return a.TeacherID == userID || a.StudentID == userID
}

type BookAppointmentRequest struct {
	TeacherID string `json:"teacher_id" validate:"required,uuid"`
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Purpose   string `json:"purpose" validate:"max=500"`
	Message   string `json:"message" validate:"max=2000"`
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type DecideAppointmentRequest struct {
	Decision Decision `json:"decision" validate:"required,oneof=approve reject"`
}
