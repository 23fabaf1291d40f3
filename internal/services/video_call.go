package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

// RoomID derives the room identifier for an appointment's call. Any party
// holding the appointment can rebuild it without a lookup.
func RoomID(appointmentID, teacherID, studentID uuid.UUID) string {
	return fmt.Sprintf("room-%s_%s_%s", appointmentID, teacherID, studentID)
}

// VideoCallService keeps the bookkeeping for calls on approved appointments:
// pending -> active -> ended. Media and signaling never pass through here.
type VideoCallService struct {
	calls        videoCallStore
	appointments appointmentStore
	notifier     Notifier
	logger       *zap.Logger
	now          func() time.Time
}

func NewVideoCallService(calls videoCallStore, appointments appointmentStore, notifier Notifier, logger *zap.Logger) *VideoCallService {
	return &VideoCallService{
		calls:        calls,
		appointments: appointments,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

// Create opens a call for an approved appointment owned by teacherID. While a
// pending or active call exists it is returned unchanged with created=false.
func (s *VideoCallService) Create(ctx context.Context, teacherID uuid.UUID, req models.CreateVideoCallRequest) (*models.VideoCall, bool, error) {
	if err := validateStruct(req); err != nil {
		return nil, false, err
	}
	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return nil, false, &ValidationError{Fields: map[string]string{"appointment_id": "Invalid id"}}
	}

	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, &NotFoundError{Message: "Appointment not found"}
		}
		return nil, false, err
	}
	if appointment.TeacherID != teacherID {
		return nil, false, &UnauthorizedError{Message: "You are not authorized to start a call for this appointment"}
	}
	if appointment.Status != models.AppointmentApproved {
		return nil, false, &BadRequestError{Message: "Appointment must be approved before starting a video call"}
	}

	call, created, err := s.createSession(ctx, appointment)
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.Info("video call created",
			zap.String("room_id", call.RoomID),
			zap.Stringer("appointment_id", appointment.ID),
		)
		s.notifier.Notify(ctx, call.StudentID, EventVideoCallCreated, call)
	}
	return call, created, nil
}

// createSessionAttempts bounds retries when the session that blocked an
// insert ends before it can be read back.
const createSessionAttempts = 2

func (s *VideoCallService) createSession(ctx context.Context, appointment *models.Appointment) (*models.VideoCall, bool, error) {
	for attempt := 0; attempt < createSessionAttempts; attempt++ {
		call, created, err := s.calls.CreateIfAbsent(ctx, &models.VideoCall{
			RoomID:        RoomID(appointment.ID, appointment.TeacherID, appointment.StudentID),
			AppointmentID: appointment.ID,
			TeacherID:     appointment.TeacherID,
			StudentID:     appointment.StudentID,
			Status:        models.VideoCallPending,
			CanJoin:       false,
			ScheduledDate: appointment.Date,
			ScheduledTime: appointment.StartTime,
		})
		if err == nil {
			return call, created, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, fmt.Errorf("create video call: %w", err)
		}
		s.logger.Debug("video call slot changed during create, retrying",
			zap.Stringer("appointment_id", appointment.ID),
			zap.Int("attempt", attempt+1),
		)
	}
	return nil, false, &ConflictError{Message: "Video call state changed, please retry"}
}

// ToggleCanJoin flips whether the student may enter the call.
func (s *VideoCallService) ToggleCanJoin(ctx context.Context, teacherID uuid.UUID, roomID string) (*models.VideoCall, error) {
	call, err := s.load(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if call.TeacherID != teacherID {
		return nil, &UnauthorizedError{Message: "Only the call's teacher can change join permission"}
	}

	updated, err := s.calls.ToggleCanJoin(ctx, call.ID)
	if err != nil {
		return nil, fmt.Errorf("toggle can join: %w", err)
	}

	s.logger.Info("video call join permission changed",
		zap.String("room_id", roomID),
		zap.Bool("can_join", updated.CanJoin),
	)
	s.notifier.Notify(ctx, updated.StudentID, EventVideoCallCanJoin, updated)
	return updated, nil
}

// Join admits a participant. The student is blocked until the teacher
// enables joining; the first join of a pending call activates it.
func (s *VideoCallService) Join(ctx context.Context, userID uuid.UUID, roomID string) (*models.VideoCall, error) {
	call, err := s.loadForParticipant(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	if userID == call.StudentID && userID != call.TeacherID && !call.CanJoin {
		return nil, &BadRequestError{Message: "The teacher has not enabled joining yet"}
	}

	switch call.Status {
	case models.VideoCallEnded:
		return nil, &ConflictError{Message: "Video call has already ended"}
	case models.VideoCallActive:
		return call, nil
	}

	activated, err := s.calls.Activate(ctx, call.ID, s.now().UTC())
	if err == nil {
		s.logger.Info("video call started", zap.String("room_id", roomID), zap.Stringer("user_id", userID))
		return activated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("activate video call: %w", err)
	}

	// Lost the race to another joiner or an end; report what won.
	current, err := s.load(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if current.Status == models.VideoCallEnded {
		return nil, &ConflictError{Message: "Video call has already ended"}
	}
	return current, nil
}

// End closes an active call and records its duration in whole minutes.
func (s *VideoCallService) End(ctx context.Context, userID uuid.UUID, roomID string) (*models.VideoCall, error) {
	call, err := s.loadForParticipant(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	switch call.Status {
	case models.VideoCallPending:
		return nil, &ConflictError{Message: "Video call has not started yet"}
	case models.VideoCallEnded:
		return nil, &ConflictError{Message: "Video call has already ended"}
	}

	endedAt := s.now().UTC()
	minutes := 0
	if call.StartTime != nil {
		minutes = durationMinutes(*call.StartTime, endedAt)
	}

	ended, err := s.calls.End(ctx, call.ID, endedAt, minutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ConflictError{Message: "Video call has already ended"}
		}
		return nil, fmt.Errorf("end video call: %w", err)
	}

	s.logger.Info("video call ended",
		zap.String("room_id", roomID),
		zap.Stringer("user_id", userID),
		zap.Int("duration_minutes", minutes),
	)
	other := ended.TeacherID
	if userID == ended.TeacherID {
		other = ended.StudentID
	}
	s.notifier.Notify(ctx, other, EventVideoCallEnded, ended)
	return ended, nil
}

func (s *VideoCallService) GetDetails(ctx context.Context, userID uuid.UUID, roomID string) (*models.VideoCall, error) {
	return s.loadForParticipant(ctx, userID, roomID)
}

// ListForTeacher returns every call the teacher owns, newest first.
func (s *VideoCallService) ListForTeacher(ctx context.Context, teacherID uuid.UUID) ([]*models.VideoCall, error) {
	return s.calls.ListByTeacher(ctx, teacherID)
}

func (s *VideoCallService) load(ctx context.Context, roomID string) (*models.VideoCall, error) {
	call, err := s.calls.GetByRoomID(ctx, roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Video call not found"}
		}
		return nil, err
	}
	return call, nil
}

func (s *VideoCallService) loadForParticipant(ctx context.Context, userID uuid.UUID, roomID string) (*models.VideoCall, error) {
	call, err := s.load(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !call.IsParticipant(userID) {
		return nil, &UnauthorizedError{Message: "You are not a participant of this call"}
	}
	return call, nil
}

func durationMinutes(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(math.Round(end.Sub(start).Minutes()))
}
