package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
	"github.com/prabaharan-saminathan/Teacher-Connect/internal/services"
)

type stubVideoCallService struct {
	call    *models.VideoCall
	created bool
	err     error

	lastUser uuid.UUID
	lastRoom string
}

func (s *stubVideoCallService) Create(ctx context.Context, teacherID uuid.UUID, req models.CreateVideoCallRequest) (*models.VideoCall, bool, error) {
	s.lastUser = teacherID
	return s.call, s.created, s.err
}

func (s *stubVideoCallService) ToggleCanJoin(ctx context.Context, teacherID uuid.UUID, roomID string) (*models.VideoCall, error) {
	return s.record(teacherID, roomID)
}

func (s *stubVideoCallService) Join(ctx context.Context, userID uuid.UUID, roomID string) (*models.VideoCall, error) {
	return s.record(userID, roomID)
}

func (s *stubVideoCallService) End(ctx context.Context, userID uuid.UUID, roomID string) (*models.VideoCall, error) {
	return s.record(userID, roomID)
}

func (s *stubVideoCallService) GetDetails(ctx context.Context, userID uuid.UUID, roomID string) (*models.VideoCall, error) {
	return s.record(userID, roomID)
}

func (s *stubVideoCallService) ListForTeacher(ctx context.Context, teacherID uuid.UUID) ([]*models.VideoCall, error) {
	s.lastUser = teacherID
	if s.err != nil {
		return nil, s.err
	}
	return []*models.VideoCall{s.call}, nil
}

func (s *stubVideoCallService) record(userID uuid.UUID, roomID string) (*models.VideoCall, error) {
	s.lastUser = userID
	s.lastRoom = roomID
	if s.err != nil {
		return nil, s.err
	}
	return s.call, nil
}

func TestVideoCallHandler_CreateStatus(t *testing.T) {
	teacherID := uuid.New()
	call := &models.VideoCall{ID: uuid.New(), RoomID: "room-x", Status: models.VideoCallPending}

	tests := []struct {
		name    string
		created bool
		status  int
	}{
		{"new call", true, http.StatusCreated},
		{"existing call", false, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubVideoCallService{call: call, created: tc.created}
			h := NewVideoCallHandler(svc)

			req := newRequest(t, http.MethodPost, "/api/v1/video-call/create",
				map[string]string{"appointment_id": uuid.NewString()}, teacherID, nil)
			rr := httptest.NewRecorder()
			h.Create(rr, req)

			if rr.Code != tc.status {
				t.Fatalf("Expected status %d, got %d", tc.status, rr.Code)
			}
			if svc.lastUser != teacherID {
				t.Errorf("Expected caller to be passed through")
			}
			body := decodeBody(t, rr)
			videoCall, _ := body["videoCall"].(map[string]interface{})
			if videoCall["room_id"] != "room-x" {
				t.Errorf("Expected videoCall payload, got %v", body)
			}
		})
	}
}

func TestVideoCallHandler_CreateUnapproved(t *testing.T) {
	svc := &stubVideoCallService{err: &services.BadRequestError{Message: "Appointment must be approved before starting a video call"}}
	h := NewVideoCallHandler(svc)

	req := newRequest(t, http.MethodPost, "/api/v1/video-call/create",
		map[string]string{"appointment_id": uuid.NewString()}, uuid.New(), nil)
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestVideoCallHandler_RoomActions(t *testing.T) {
	userID := uuid.New()
	call := &models.VideoCall{ID: uuid.New(), RoomID: "room-abc", Status: models.VideoCallActive}

	tests := []struct {
		name   string
		err    error
		status int
		invoke func(h *VideoCallHandler, w http.ResponseWriter, r *http.Request)
	}{
		{"toggle ok", nil, http.StatusOK, (*VideoCallHandler).ToggleCanJoin},
		{"toggle non-owner", &services.UnauthorizedError{Message: "no"}, http.StatusUnauthorized, (*VideoCallHandler).ToggleCanJoin},
		{"join ok", nil, http.StatusOK, (*VideoCallHandler).Join},
		{"join blocked", &services.BadRequestError{Message: "The teacher has not enabled joining yet"}, http.StatusBadRequest, (*VideoCallHandler).Join},
		{"end missing", &services.NotFoundError{Message: "Video call not found"}, http.StatusNotFound, (*VideoCallHandler).End},
		{"end twice", &services.ConflictError{Message: "Video call has already ended"}, http.StatusConflict, (*VideoCallHandler).End},
		{"details ok", nil, http.StatusOK, (*VideoCallHandler).Details},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubVideoCallService{call: call, err: tc.err}
			h := NewVideoCallHandler(svc)

			req := newRequest(t, http.MethodPost, "/api/v1/video-call/x/room-abc", nil, userID, map[string]string{"roomId": "room-abc"})
			rr := httptest.NewRecorder()
			tc.invoke(h, rr, req)

			if rr.Code != tc.status {
				t.Fatalf("Expected status %d, got %d", tc.status, rr.Code)
			}
			if svc.lastRoom != "room-abc" || svc.lastUser != userID {
				t.Errorf("Expected room and caller to reach the service, got %q %s", svc.lastRoom, svc.lastUser)
			}
		})
	}
}

func TestVideoCallHandler_TeacherCalls(t *testing.T) {
	svc := &stubVideoCallService{call: &models.VideoCall{
		ID:          uuid.New(),
		RoomID:      "room-1",
		Student:     &models.CallStudent{Name: "Sam", Email: "sam@example.com"},
		Appointment: &models.CallAppointment{StartTime: "10:00", EndTime: "11:00"},
	}}
	h := NewVideoCallHandler(svc)

	req := newRequest(t, http.MethodGet, "/api/v1/video-call/teacher/calls", nil, uuid.New(), nil)
	rr := httptest.NewRecorder()
	h.TeacherCalls(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}
	body := decodeBody(t, rr)
	calls, _ := body["videoCalls"].([]interface{})
	if len(calls) != 1 {
		t.Fatalf("Expected one call, got %v", body["videoCalls"])
	}
	call, _ := calls[0].(map[string]interface{})
	student, _ := call["student"].(map[string]interface{})
	appointment, _ := call["appointment"].(map[string]interface{})
	if student["name"] != "Sam" || student["email"] != "sam@example.com" {
		t.Errorf("Expected student details in list, got %v", call["student"])
	}
	if appointment["start_time"] != "10:00" || appointment["end_time"] != "11:00" {
		t.Errorf("Expected slot details in list, got %v", call["appointment"])
	}
}

func TestVideoCallHandler_DetailsOmitListFields(t *testing.T) {
	svc := &stubVideoCallService{call: &models.VideoCall{ID: uuid.New(), RoomID: "room-1"}}
	h := NewVideoCallHandler(svc)

	req := newRequest(t, http.MethodGet, "/api/v1/video-call/details/room-1", nil, uuid.New(), map[string]string{"roomId": "room-1"})
	rr := httptest.NewRecorder()
	h.Details(rr, req)

	call, _ := decodeBody(t, rr)["videoCall"].(map[string]interface{})
	if _, ok := call["student"]; ok {
		t.Errorf("Expected no student block outside list views, got %v", call["student"])
	}
}
