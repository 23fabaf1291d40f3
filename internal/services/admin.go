package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

// AdminService backs the admin dashboard: account moderation and a
// read-only view over every appointment.
type AdminService struct {
	users        userStore
	appointments appointmentStore
	notifier     Notifier
	logger       *zap.Logger
}

func NewAdminService(users userStore, appointments appointmentStore, notifier Notifier, logger *zap.Logger) *AdminService {
	return &AdminService{
		users:        users,
		appointments: appointments,
		notifier:     notifier,
		logger:       logger,
	}
}

// ListUsers returns every account, or only those of role when it is set.
func (s *AdminService) ListUsers(ctx context.Context, role string) ([]*models.User, error) {
	if role == "" {
		return s.users.ListAll(ctx)
	}
	r := models.Role(role)
	if !r.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"role": "Must be one of student, teacher, admin"}}
	}
	return s.users.ListByRole(ctx, r)
}

// PendingTeachers lists teacher accounts still waiting for approval.
func (s *AdminService) PendingTeachers(ctx context.Context) ([]*models.User, error) {
	teachers, err := s.users.ListByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, err
	}
	pending := make([]*models.User, 0)
	for _, t := range teachers {
		if !t.IsApproved {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

func (s *AdminService) ApproveTeacher(ctx context.Context, adminID, teacherID uuid.UUID) (*models.User, error) {
	teacher, err := s.users.SetApproved(ctx, teacherID, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Teacher not found"}
		}
		return nil, fmt.Errorf("approve teacher: %w", err)
	}

	s.logger.Info("teacher approved", zap.Stringer("teacher_id", teacherID), zap.Stringer("admin_id", adminID))
	s.notifier.Notify(ctx, teacherID, EventAccountApproved, teacher)
	return teacher, nil
}

// DeleteUser removes a student or teacher account. Accounts that already
// own appointments, calls or messages are kept for the record.
func (s *AdminService) DeleteUser(ctx context.Context, adminID, userID uuid.UUID) error {
	if adminID == userID {
		return &BadRequestError{Message: "You cannot delete your own account"}
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Message: "User not found"}
		}
		if isPgError(err, pgForeignKeyViolation) {
			return &ConflictError{Message: "User has appointment history and cannot be deleted"}
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("user deleted", zap.Stringer("user_id", userID), zap.Stringer("admin_id", adminID))
	return nil
}

// ListAppointments returns every appointment, optionally narrowed to status.
func (s *AdminService) ListAppointments(ctx context.Context, status string) ([]*models.Appointment, error) {
	st := models.AppointmentStatus(status)
	switch st {
	case "", models.AppointmentPending, models.AppointmentApproved, models.AppointmentRejected:
	default:
		return nil, &ValidationError{Fields: map[string]string{"status": "Must be one of pending, approved, rejected"}}
	}
	return s.appointments.ListAll(ctx, st)
}
