package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/middleware"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

type videoCallService interface {
	Create(ctx context.Context, teacherID uuid.UUID, req models.CreateVideoCallRequest) (*models.VideoCall, bool, error)
	ToggleCanJoin(ctx context.Context, teacherID uuid.UUID, roomID string) (*models.VideoCall, error)
	Join(ctx context.Context, userID uuid.UUID, roomID string) (*models.VideoCall, error)
	End(ctx context.Context, userID uuid.UUID, roomID string) (*models.VideoCall, error)
	GetDetails(ctx context.Context, userID uuid.UUID, roomID string) (*models.VideoCall, error)
	ListForTeacher(ctx context.Context, teacherID uuid.UUID) ([]*models.VideoCall, error)
}

type VideoCallHandler struct {
	calls videoCallService
}

func NewVideoCallHandler(calls videoCallService) *VideoCallHandler {
	return &VideoCallHandler{calls: calls}
}

// Create answers 201 for a new call and 200 when the open call is returned.
func (h *VideoCallHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVideoCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	call, created, err := h.calls.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	status, message := http.StatusOK, "Video call already exists"
	if created {
		status, message = http.StatusCreated, "Video call created"
	}
	writeJSON(w, status, map[string]interface{}{
		"success":   true,
		"message":   message,
		"videoCall": call,
	})
}

func (h *VideoCallHandler) ToggleCanJoin(w http.ResponseWriter, r *http.Request) {
	h.roomAction(w, r, h.calls.ToggleCanJoin)
}

func (h *VideoCallHandler) Join(w http.ResponseWriter, r *http.Request) {
	h.roomAction(w, r, h.calls.Join)
}

func (h *VideoCallHandler) End(w http.ResponseWriter, r *http.Request) {
	h.roomAction(w, r, h.calls.End)
}

func (h *VideoCallHandler) Details(w http.ResponseWriter, r *http.Request) {
	h.roomAction(w, r, h.calls.GetDetails)
}

func (h *VideoCallHandler) TeacherCalls(w http.ResponseWriter, r *http.Request) {
	calls, err := h.calls.ListForTeacher(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "videoCalls": calls})
}

type roomOp func(ctx context.Context, userID uuid.UUID, roomID string) (*models.VideoCall, error)

func (h *VideoCallHandler) roomAction(w http.ResponseWriter, r *http.Request, op roomOp) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Room ID is required", r))
		return
	}

	call, err := op(r.Context(), middleware.GetUserID(r.Context()), roomID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "videoCall": call})
}
