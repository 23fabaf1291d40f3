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

// ChatService is the append-only message log of an appointment. Clients
// poll List; notifications are only a hint.
type ChatService struct {
	messages     messageStore
	appointments appointmentStore
	notifier     Notifier
	logger       *zap.Logger
}

func NewChatService(messages messageStore, appointments appointmentStore, notifier Notifier, logger *zap.Logger) *ChatService {
	return &ChatService{
		messages:     messages,
		appointments: appointments,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *ChatService) Send(ctx context.Context, senderID uuid.UUID, req models.SendMessageRequest) (*models.ChatMessage, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, &BadRequestError{Message: "Message content cannot be empty"}
	}

	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"appointment_id": "Invalid id"}}
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"receiver_id": "Invalid id"}}
	}

	appointment, err := s.participantAppointment(ctx, senderID, appointmentID)
	if err != nil {
		return nil, err
	}

	role := models.SenderUser
	counterpart := appointment.TeacherID
	if senderID == appointment.TeacherID {
		role = models.SenderTeacher
		counterpart = appointment.StudentID
	}
	if receiverID != counterpart {
		return nil, &BadRequestError{Message: "Receiver is not the other participant of this appointment"}
	}

	msg := &models.ChatMessage{
		AppointmentID: appointmentID,
		SenderID:      senderID,
		ReceiverID:    receiverID,
		SenderRole:    role,
		Content:       content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.logger.Debug("message sent",
		zap.Stringer("appointment_id", appointmentID),
		zap.Stringer("sender_id", senderID),
	)
	s.notifier.Notify(ctx, receiverID, EventChatMessageCreated, msg)
	return msg, nil
}

// List returns the appointment's messages oldest first.
func (s *ChatService) List(ctx context.Context, userID, appointmentID uuid.UUID) ([]*models.ChatMessage, error) {
	if _, err := s.participantAppointment(ctx, userID, appointmentID); err != nil {
		return nil, err
	}
	return s.messages.ListByAppointment(ctx, appointmentID)
}

func (s *ChatService) participantAppointment(ctx context.Context, userID, appointmentID uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Appointment not found"}
		}
		return nil, err
	}
	if !appointment.IsParticipant(userID) {
		return nil, &UnauthorizedError{Message: "You are not a participant of this appointment"}
	}
	return appointment, nil
}
