package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/middleware"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

type adminService interface {
	ListUsers(ctx context.Context, role string) ([]*models.User, error)
	PendingTeachers(ctx context.Context) ([]*models.User, error)
	ApproveTeacher(ctx context.Context, adminID, teacherID uuid.UUID) (*models.User, error)
	DeleteUser(ctx context.Context, adminID, userID uuid.UUID) error
	ListAppointments(ctx context.Context, status string) ([]*models.Appointment, error)
}

type AdminHandler struct {
	admin adminService
}

func NewAdminHandler(admin adminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// ListUsers handles GET /admin/users?role=
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "users": users})
}

func (h *AdminHandler) PendingTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.admin.PendingTeachers(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "teachers": teachers})
}

func (h *AdminHandler) ApproveTeacher(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := pathUUID(w, r, "id", "teacher ID")
	if !ok {
		return
	}

	teacher, err := h.admin.ApproveTeacher(r.Context(), middleware.GetUserID(r.Context()), teacherID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Teacher approved",
		"teacher": teacher,
	})
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "id", "user ID")
	if !ok {
		return
	}

	if err := h.admin.DeleteUser(r.Context(), middleware.GetUserID(r.Context()), userID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "User deleted"})
}

// ListAppointments handles GET /admin/appointments?status=
func (h *AdminHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.admin.ListAppointments(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "appointments": appointments})
}
