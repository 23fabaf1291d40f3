package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

// AppointmentService owns the booking workflow: a student books against a
// teacher's weekly availability and the teacher approves or rejects once.
type AppointmentService struct {
	appointments appointmentStore
	users        userStore
	notifier     Notifier
	logger       *zap.Logger
}

func NewAppointmentService(appointments appointmentStore, users userStore, notifier Notifier, logger *zap.Logger) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		users:        users,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *AppointmentService) Book(ctx context.Context, studentID uuid.UUID, req models.BookAppointmentRequest) (*models.Appointment, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	teacherID, err := uuid.Parse(req.TeacherID)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"teacher_id": "Invalid id"}}
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"date": "Date must be formatted as YYYY-MM-DD"}}
	}

	requested, err := parseClockRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"start_time": "Times must be HH:MM with start before end"}}
	}

	teacher, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Teacher not found"}
		}
		return nil, err
	}
	if teacher.Role != models.RoleTeacher || !teacher.IsApproved {
		return nil, &NotFoundError{Message: "Teacher not found"}
	}

	slots, err := s.users.GetAvailability(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("load availability: %w", err)
	}
	if !slotAvailable(slots, date.Weekday().String(), requested) {
		return nil, &ValidationError{Fields: map[string]string{
			"start_time": fmt.Sprintf("Teacher is not available at this time on %s", date.Weekday()),
		}}
	}

	appointment := &models.Appointment{
		TeacherID: teacherID,
		StudentID: studentID,
		Date:      date,
		StartTime: strings.TrimSpace(req.StartTime),
		EndTime:   strings.TrimSpace(req.EndTime),
		Purpose:   strings.TrimSpace(req.Purpose),
		Message:   strings.TrimSpace(req.Message),
		Status:    models.AppointmentPending,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.logger.Info("appointment booked",
		zap.Stringer("appointment_id", appointment.ID),
		zap.Stringer("teacher_id", teacherID),
		zap.Stringer("student_id", studentID),
	)
	s.notifier.Notify(ctx, teacherID, EventAppointmentBooked, appointment)

	return appointment, nil
}

// Decide applies the teacher's approve/reject decision. Only the owning
// teacher may decide, and only while the appointment is pending.
func (s *AppointmentService) Decide(ctx context.Context, teacherID, appointmentID uuid.UUID, decision models.Decision) (*models.Appointment, error) {
	var status models.AppointmentStatus
	switch decision {
	case models.DecisionApprove:
		status = models.AppointmentApproved
	case models.DecisionReject:
		status = models.AppointmentRejected
	default:
		return nil, &ValidationError{Fields: map[string]string{"decision": "Must be one of: approve, reject"}}
	}

	appointment, err := s.load(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.TeacherID != teacherID {
		return nil, &UnauthorizedError{Message: "You are not authorized to update this appointment"}
	}
	if appointment.Status != models.AppointmentPending {
		return nil, &ConflictError{Message: fmt.Sprintf("Appointment has already been %s", appointment.Status)}
	}

	updated, err := s.appointments.Decide(ctx, appointmentID, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ConflictError{Message: "Appointment has already been decided"}
		}
		return nil, fmt.Errorf("decide appointment: %w", err)
	}

	s.logger.Info("appointment decided",
		zap.Stringer("appointment_id", appointmentID),
		zap.String("status", string(updated.Status)),
	)
	s.notifier.Notify(ctx, updated.StudentID, EventAppointmentDecided, updated)

	return updated, nil
}

// Get returns an appointment to one of its two participants.
func (s *AppointmentService) Get(ctx context.Context, userID, appointmentID uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.load(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.IsParticipant(userID) {
		return nil, &UnauthorizedError{Message: "You are not authorized to view this appointment"}
	}
	return appointment, nil
}

func (s *AppointmentService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Appointment, error) {
	return s.appointments.ListByStudent(ctx, studentID)
}

func (s *AppointmentService) ListForTeacher(ctx context.Context, teacherID uuid.UUID) ([]*models.Appointment, error) {
	return s.appointments.ListByTeacher(ctx, teacherID)
}

func (s *AppointmentService) load(ctx context.Context, appointmentID uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Appointment not found"}
		}
		return nil, err
	}
	return appointment, nil
}

// slotAvailable reports whether requested fits inside one of the slots
// declared for weekday.
func slotAvailable(slots []models.Availability, weekday string, requested clockRange) bool {
	for _, slot := range slots {
		if !strings.EqualFold(strings.TrimSpace(slot.Day), weekday) {
			continue
		}
		r, err := parseClockRange(slot.StartTime, slot.EndTime)
		if err != nil {
			continue
		}
		if r.contains(requested) {
			return true
		}
	}
	return false
}
