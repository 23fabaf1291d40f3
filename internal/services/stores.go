package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

// Persistence contracts implemented by internal/repository. Absent rows are
// reported as pgx.ErrNoRows.

type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetAvailability(ctx context.Context, teacherID uuid.UUID) ([]models.Availability, error)
	ReplaceAvailability(ctx context.Context, teacherID uuid.UUID, slots []models.Availability) error
}

type appointmentStore interface {
	Create(ctx context.Context, a *models.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	Decide(ctx context.Context, id uuid.UUID, status models.AppointmentStatus) (*models.Appointment, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*models.Appointment, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Appointment, error)
	ListAll(ctx context.Context, status models.AppointmentStatus) ([]*models.Appointment, error)
}

type videoCallStore interface {
	CreateIfAbsent(ctx context.Context, call *models.VideoCall) (*models.VideoCall, bool, error)
	GetByRoomID(ctx context.Context, roomID string) (*models.VideoCall, error)
	ToggleCanJoin(ctx context.Context, id uuid.UUID) (*models.VideoCall, error)
	Activate(ctx context.Context, id uuid.UUID, startedAt time.Time) (*models.VideoCall, error)
	End(ctx context.Context, id uuid.UUID, endedAt time.Time, durationMinutes int) (*models.VideoCall, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*models.VideoCall, error)
}

type messageStore interface {
	Create(ctx context.Context, m *models.ChatMessage) error
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*models.ChatMessage, error)
}
