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

type stubTeacherService struct {
	teacher *models.Teacher
	err     error
	lastID  uuid.UUID
}

func (s *stubTeacherService) List(ctx context.Context) ([]*models.Teacher, error) {
	return []*models.Teacher{s.teacher}, s.err
}

func (s *stubTeacherService) Get(ctx context.Context, teacherID uuid.UUID) (*models.Teacher, error) {
	s.lastID = teacherID
	return s.teacher, s.err
}

func (s *stubTeacherService) SetAvailability(ctx context.Context, teacherID uuid.UUID, req models.SetAvailabilityRequest) ([]models.Availability, error) {
	s.lastID = teacherID
	return req.Slots, s.err
}

func TestTeacherHandler_Get(t *testing.T) {
	teacherID := uuid.New()
	svc := &stubTeacherService{teacher: &models.Teacher{User: models.User{ID: teacherID, Role: models.RoleTeacher}}}
	h := NewTeacherHandler(svc)

	req := newRequest(t, http.MethodGet, "/api/v1/teachers/"+teacherID.String(), nil, uuid.Nil, map[string]string{"id": teacherID.String()})
	rr := httptest.NewRecorder()
	h.Get(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if svc.lastID != teacherID {
		t.Errorf("Expected %s to be looked up, got %s", teacherID, svc.lastID)
	}

	req = newRequest(t, http.MethodGet, "/api/v1/teachers/abc", nil, uuid.Nil, map[string]string{"id": "abc"})
	rr = httptest.NewRecorder()
	h.Get(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status %d for malformed id, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestTeacherHandler_SetAvailability(t *testing.T) {
	teacherID := uuid.New()
	svc := &stubTeacherService{}
	h := NewTeacherHandler(svc)

	req := newRequest(t, http.MethodPut, "/api/v1/teachers/me/availability", map[string]interface{}{
		"slots": []map[string]string{{"day": "Monday", "start_time": "10:00", "end_time": "11:00"}},
	}, teacherID, nil)
	rr := httptest.NewRecorder()
	h.SetAvailability(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if svc.lastID != teacherID {
		t.Errorf("Expected availability to be set for the caller")
	}
	body := decodeBody(t, rr)
	if slots, _ := body["availability"].([]interface{}); len(slots) != 1 {
		t.Errorf("Expected one slot echoed back, got %v", body["availability"])
	}

	svc.err = &services.ValidationError{Fields: map[string]string{"slots[0]": "bad"}}
	req = newRequest(t, http.MethodPut, "/api/v1/teachers/me/availability", map[string]interface{}{"slots": []interface{}{}}, teacherID, nil)
	rr = httptest.NewRecorder()
	h.SetAvailability(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}
