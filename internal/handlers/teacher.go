package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/middleware"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

type teacherService interface {
	List(ctx context.Context) ([]*models.Teacher, error)
	Get(ctx context.Context, teacherID uuid.UUID) (*models.Teacher, error)
	SetAvailability(ctx context.Context, teacherID uuid.UUID, req models.SetAvailabilityRequest) ([]models.Availability, error)
}

type TeacherHandler struct {
	teachers teacherService
}

func NewTeacherHandler(teachers teacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

func (h *TeacherHandler) List(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.teachers.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "teachers": teachers})
}

func (h *TeacherHandler) Get(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := pathUUID(w, r, "id", "teacher ID")
	if !ok {
		return
	}

	teacher, err := h.teachers.Get(r.Context(), teacherID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "teacher": teacher})
}

func (h *TeacherHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req models.SetAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	slots, err := h.teachers.SetAvailability(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "availability": slots})
}
