package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/middleware"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

type appointmentService interface {
	Book(ctx context.Context, studentID uuid.UUID, req models.BookAppointmentRequest) (*models.Appointment, error)
	Decide(ctx context.Context, teacherID, appointmentID uuid.UUID, decision models.Decision) (*models.Appointment, error)
	Get(ctx context.Context, userID, appointmentID uuid.UUID) (*models.Appointment, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Appointment, error)
	ListForTeacher(ctx context.Context, teacherID uuid.UUID) ([]*models.Appointment, error)
}

type AppointmentHandler struct {
	appointments appointmentService
}

func NewAppointmentHandler(appointments appointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req models.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	appointment, err := h.appointments.Book(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"message":     "Appointment requested",
		"appointment": appointment,
	})
}

// Decide approves or rejects a pending appointment.
func (h *AppointmentHandler) Decide(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(w, r, "id", "appointment ID")
	if !ok {
		return
	}

	var req models.DecideAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	appointment, err := h.appointments.Decide(r.Context(), middleware.GetUserID(r.Context()), appointmentID, req.Decision)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"appointment": appointment,
	})
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(w, r, "id", "appointment ID")
	if !ok {
		return
	}

	appointment, err := h.appointments.Get(r.Context(), middleware.GetUserID(r.Context()), appointmentID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"appointment": appointment,
	})
}

func (h *AppointmentHandler) ListForStudent(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointments.ListForStudent(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "appointments": appointments})
}

func (h *AppointmentHandler) ListForTeacher(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointments.ListForTeacher(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "appointments": appointments})
}
