package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

type AppointmentRepo struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepo(pool *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{pool: pool}
}

const appointmentColumns = `id, teacher_id, student_id, date, start_time, end_time, purpose, message, status, created_at, updated_at`

func scanAppointment(row pgx.Row) (*models.Appointment, error) {
	a := &models.Appointment{}
	err := row.Scan(
		&a.ID, &a.TeacherID, &a.StudentID, &a.Date, &a.StartTime, &a.EndTime,
		&a.Purpose, &a.Message, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AppointmentRepo) Create(ctx context.Context, a *models.Appointment) error {
	query := `
		INSERT INTO appointments (teacher_id, student_id, date, start_time, end_time, purpose, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		a.TeacherID, a.StudentID, a.Date, a.StartTime, a.EndTime, a.Purpose, a.Message, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	return scanAppointment(r.pool.QueryRow(ctx, query, id))
}

// Decide moves a pending appointment to a terminal status. It returns
// pgx.ErrNoRows when the appointment is no longer pending, so concurrent
// decisions cannot both win.
func (r *AppointmentRepo) Decide(ctx context.Context, id uuid.UUID, status models.AppointmentStatus) (*models.Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + appointmentColumns
	return scanAppointment(r.pool.QueryRow(ctx, query, id, status))
}

func (r *AppointmentRepo) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*models.Appointment, error) {
	return r.list(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE teacher_id = $1 ORDER BY created_at DESC`, teacherID)
}

func (r *AppointmentRepo) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Appointment, error) {
	return r.list(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
}

// ListAll returns every appointment newest first, optionally narrowed to
// one status.
func (r *AppointmentRepo) ListAll(ctx context.Context, status models.AppointmentStatus) ([]*models.Appointment, error) {
	if status == "" {
		return r.list(ctx, `SELECT `+appointmentColumns+` FROM appointments ORDER BY created_at DESC`)
	}
	return r.list(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE status = $1 ORDER BY created_at DESC`, status)
}

func (r *AppointmentRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appointments := make([]*models.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}
