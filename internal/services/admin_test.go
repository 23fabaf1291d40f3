package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

type adminFixture struct {
	users        *fakeUserStore
	appointments *fakeAppointmentStore
	notifier     *recordingNotifier
	svc          *AdminService
	admin        *models.User
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		users:        newFakeUserStore(),
		appointments: newFakeAppointmentStore(),
		notifier:     &recordingNotifier{},
	}
	f.admin = f.users.add(models.RoleAdmin)
	f.svc = NewAdminService(f.users, f.appointments, f.notifier, zap.NewNop())
	return f
}

func TestAdminListUsers_FiltersByRole(t *testing.T) {
	f := newAdminFixture()
	f.users.add(models.RoleTeacher)
	f.users.add(models.RoleStudent)
	f.users.add(models.RoleStudent)
	ctx := context.Background()

	tests := []struct {
		role  string
		count int
	}{
		{"", 4},
		{"student", 2},
		{"teacher", 1},
		{"admin", 1},
	}
	for _, tc := range tests {
		users, err := f.svc.ListUsers(ctx, tc.role)
		if err != nil {
			t.Fatalf("ListUsers(%q) returned error: %v", tc.role, err)
		}
		if len(users) != tc.count {
			t.Errorf("ListUsers(%q) = %d users, want %d", tc.role, len(users), tc.count)
		}
	}

	_, err := f.svc.ListUsers(ctx, "janitor")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["role"] == "" {
		t.Errorf("Expected role ValidationError, got %v", err)
	}
}

func TestAdminApproveTeacher(t *testing.T) {
	f := newAdminFixture()
	teacher := f.users.add(models.RoleTeacher)
	teacher.IsApproved = false
	student := f.users.add(models.RoleStudent)
	ctx := context.Background()

	pending, err := f.svc.PendingTeachers(ctx)
	if err != nil || len(pending) != 1 || pending[0].ID != teacher.ID {
		t.Fatalf("Expected one pending teacher, got %v (%v)", pending, err)
	}

	approved, err := f.svc.ApproveTeacher(ctx, f.admin.ID, teacher.ID)
	if err != nil {
		t.Fatalf("ApproveTeacher returned error: %v", err)
	}
	if !approved.IsApproved {
		t.Error("Expected teacher to be approved")
	}
	if !f.notifier.has(teacher.ID, EventAccountApproved) {
		t.Error("Expected the teacher to be notified")
	}

	pending, _ = f.svc.PendingTeachers(ctx)
	if len(pending) != 0 {
		t.Errorf("Expected no pending teachers after approval, got %d", len(pending))
	}

	var nf *NotFoundError
	for _, id := range []uuid.UUID{student.ID, uuid.New()} {
		if _, err := f.svc.ApproveTeacher(ctx, f.admin.ID, id); !errors.As(err, &nf) {
			t.Errorf("Expected NotFoundError approving %s, got %v", id, err)
		}
	}
}

func TestAdminDeleteUser(t *testing.T) {
	f := newAdminFixture()
	teacher := f.users.add(models.RoleTeacher)
	otherAdmin := f.users.add(models.RoleAdmin)
	ctx := context.Background()

	var bad *BadRequestError
	if err := f.svc.DeleteUser(ctx, f.admin.ID, f.admin.ID); !errors.As(err, &bad) {
		t.Errorf("Expected BadRequestError deleting self, got %v", err)
	}

	var nf *NotFoundError
	if err := f.svc.DeleteUser(ctx, f.admin.ID, otherAdmin.ID); !errors.As(err, &nf) {
		t.Errorf("Expected NotFoundError deleting an admin, got %v", err)
	}

	if err := f.svc.DeleteUser(ctx, f.admin.ID, teacher.ID); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if _, err := f.users.GetByID(ctx, teacher.ID); err == nil {
		t.Error("Expected teacher to be gone")
	}
	if err := f.svc.DeleteUser(ctx, f.admin.ID, teacher.ID); !errors.As(err, &nf) {
		t.Errorf("Expected NotFoundError on second delete, got %v", err)
	}
}

func TestAdminDeleteUser_WithHistoryIsConflict(t *testing.T) {
	f := newAdminFixture()
	student := f.users.add(models.RoleStudent)
	f.users.deleteErr = &pgconn.PgError{Code: pgForeignKeyViolation}

	err := f.svc.DeleteUser(context.Background(), f.admin.ID, student.ID)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError, got %v", err)
	}
}

func TestAdminListAppointments(t *testing.T) {
	f := newAdminFixture()
	f.appointments.put(&models.Appointment{Status: models.AppointmentPending})
	f.appointments.put(&models.Appointment{Status: models.AppointmentApproved})
	f.appointments.put(&models.Appointment{Status: models.AppointmentApproved})
	ctx := context.Background()

	all, err := f.svc.ListAppointments(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("Expected 3 appointments, got %d (%v)", len(all), err)
	}
	approved, _ := f.svc.ListAppointments(ctx, "approved")
	if len(approved) != 2 {
		t.Errorf("Expected 2 approved appointments, got %d", len(approved))
	}

	_, err = f.svc.ListAppointments(ctx, "cancelled")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Expected ValidationError for unknown status, got %v", err)
	}
}
