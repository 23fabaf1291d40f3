package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/middleware"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

type chatService interface {
	Send(ctx context.Context, senderID uuid.UUID, req models.SendMessageRequest) (*models.ChatMessage, error)
	List(ctx context.Context, userID, appointmentID uuid.UUID) ([]*models.ChatMessage, error)
}

// MessageHandler serves appointment chat. Clients poll List.
type MessageHandler struct {
	chat chatService
}

func NewMessageHandler(chat chatService) *MessageHandler {
	return &MessageHandler{chat: chat}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	msg, err := h.chat.Send(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "message": msg})
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(w, r, "appointmentId", "appointment ID")
	if !ok {
		return
	}

	messages, err := h.chat.List(r.Context(), middleware.GetUserID(r.Context()), appointmentID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "messages": messages})
}
