package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

// In-memory stores mirroring the repository contracts, including the
// conditional updates that report pgx.ErrNoRows.

type fakeUserStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*models.User
	availability map[uuid.UUID][]models.Availability
	createErr    error
	deleteErr    error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:        make(map[uuid.UUID]*models.User),
		availability: make(map[uuid.UUID][]models.Availability),
	}
}

func (s *fakeUserStore) add(role models.Role, slots ...models.Availability) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: uuid.New(), Name: string(role), Email: uuid.NewString() + "@example.com", Role: role, IsApproved: true}
	s.users[u.ID] = u
	if len(slots) > 0 {
		s.availability[u.ID] = slots
	}
	return u
}

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (s *fakeUserStore) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.User, 0)
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) ListAll(ctx context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeUserStore) SetApproved(ctx context.Context, id uuid.UUID, approved bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.Role != models.RoleTeacher {
		return nil, pgx.ErrNoRows
	}
	u.IsApproved = approved
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	u, ok := s.users[id]
	if !ok || u.Role == models.RoleAdmin {
		return pgx.ErrNoRows
	}
	delete(s.users, id)
	delete(s.availability, id)
	return nil
}

func (s *fakeUserStore) GetAvailability(ctx context.Context, teacherID uuid.UUID) ([]models.Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Availability(nil), s.availability[teacherID]...), nil
}

func (s *fakeUserStore) ReplaceAvailability(ctx context.Context, teacherID uuid.UUID, slots []models.Availability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.availability[teacherID] = append([]models.Availability(nil), slots...)
	return nil
}

type fakeAppointmentStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Appointment
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{items: make(map[uuid.UUID]*models.Appointment)}
}

func (s *fakeAppointmentStore) put(a *models.Appointment) *models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.items[a.ID] = a
	return a
}

func (s *fakeAppointmentStore) Create(ctx context.Context, a *models.Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	s.put(a)
	return nil
}

func (s *fakeAppointmentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (s *fakeAppointmentStore) Decide(ctx context.Context, id uuid.UUID, status models.AppointmentStatus) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.items[id]
	if !ok || a.Status != models.AppointmentPending {
		return nil, pgx.ErrNoRows
	}
	a.Status = status
	cp := *a
	return &cp, nil
}

func (s *fakeAppointmentStore) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*models.Appointment, error) {
	return s.filter(func(a *models.Appointment) bool { return a.TeacherID == teacherID }), nil
}

func (s *fakeAppointmentStore) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Appointment, error) {
	return s.filter(func(a *models.Appointment) bool { return a.StudentID == studentID }), nil
}

func (s *fakeAppointmentStore) ListAll(ctx context.Context, status models.AppointmentStatus) ([]*models.Appointment, error) {
	return s.filter(func(a *models.Appointment) bool { return status == "" || a.Status == status }), nil
}

func (s *fakeAppointmentStore) filter(keep func(*models.Appointment) bool) []*models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Appointment, 0)
	for _, a := range s.items {
		if keep(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out
}

type fakeVideoCallStore struct {
	mu    sync.Mutex
	calls []*models.VideoCall
	seq   int
}

func (s *fakeVideoCallStore) CreateIfAbsent(ctx context.Context, call *models.VideoCall) (*models.VideoCall, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c.AppointmentID == call.AppointmentID && c.Status != models.VideoCallEnded {
			cp := *c
			return &cp, false, nil
		}
	}
	s.seq++
	stored := *call
	stored.ID = uuid.New()
	stored.CreatedAt = time.Unix(int64(s.seq), 0)
	s.calls = append(s.calls, &stored)
	cp := stored
	return &cp, true, nil
}

func (s *fakeVideoCallStore) GetByRoomID(ctx context.Context, roomID string) (*models.VideoCall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.calls) - 1; i >= 0; i-- {
		if s.calls[i].RoomID == roomID {
			cp := *s.calls[i]
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeVideoCallStore) update(id uuid.UUID, apply func(*models.VideoCall) bool) (*models.VideoCall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c.ID == id {
			if !apply(c) {
				return nil, pgx.ErrNoRows
			}
			cp := *c
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeVideoCallStore) ToggleCanJoin(ctx context.Context, id uuid.UUID) (*models.VideoCall, error) {
	return s.update(id, func(c *models.VideoCall) bool {
		c.CanJoin = !c.CanJoin
		return true
	})
}

func (s *fakeVideoCallStore) Activate(ctx context.Context, id uuid.UUID, startedAt time.Time) (*models.VideoCall, error) {
	return s.update(id, func(c *models.VideoCall) bool {
		if c.Status != models.VideoCallPending {
			return false
		}
		c.Status = models.VideoCallActive
		c.StartTime = &startedAt
		return true
	})
}

func (s *fakeVideoCallStore) End(ctx context.Context, id uuid.UUID, endedAt time.Time, minutes int) (*models.VideoCall, error) {
	return s.update(id, func(c *models.VideoCall) bool {
		if c.Status != models.VideoCallActive {
			return false
		}
		c.Status = models.VideoCallEnded
		c.EndTime = &endedAt
		c.DurationMinutes = &minutes
		return true
	})
}

func (s *fakeVideoCallStore) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*models.VideoCall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.VideoCall, 0)
	for _, c := range s.calls {
		if c.TeacherID == teacherID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeMessageStore struct {
	mu       sync.Mutex
	messages []*models.ChatMessage
}

func (s *fakeMessageStore) Create(ctx context.Context, m *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	s.messages = append(s.messages, m)
	return nil
}

func (s *fakeMessageStore) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.ChatMessage, 0)
	for _, m := range s.messages {
		if m.AppointmentID == appointmentID {
			out = append(out, m)
		}
	}
	return out, nil
}

type recordedEvent struct {
	userID    uuid.UUID
	eventType string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Notify(ctx context.Context, userID uuid.UUID, eventType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{userID: userID, eventType: eventType})
}

func (n *recordingNotifier) has(userID uuid.UUID, eventType string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.events {
		if e.userID == userID && e.eventType == eventType {
			return true
		}
	}
	return false
}

type fakeTokenStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{values: make(map[string]string)}
}

func (s *fakeTokenStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *fakeTokenStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrTokenNotFound
	}
	return v, nil
}

func (s *fakeTokenStore) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
