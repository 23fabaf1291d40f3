package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

type VideoCallRepo struct {
	pool *pgxpool.Pool
}

func NewVideoCallRepo(pool *pgxpool.Pool) *VideoCallRepo {
	return &VideoCallRepo{pool: pool}
}

const videoCallColumns = `id, room_id, appointment_id, teacher_id, student_id, status, can_join,
	scheduled_date, scheduled_time, start_time, end_time, duration_minutes, created_at, updated_at`

func scanVideoCall(row pgx.Row) (*models.VideoCall, error) {
	v := &models.VideoCall{}
	err := row.Scan(
		&v.ID, &v.RoomID, &v.AppointmentID, &v.TeacherID, &v.StudentID, &v.Status, &v.CanJoin,
		&v.ScheduledDate, &v.ScheduledTime, &v.StartTime, &v.EndTime, &v.DurationMinutes,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// CreateIfAbsent inserts call unless the appointment already has a pending or
// active session. It returns the session that holds the slot and whether it
// was created by this call. The partial unique index makes this safe under
// concurrent creates. pgx.ErrNoRows means the conflicting session ended
// before it could be read back; the caller may retry.
func (r *VideoCallRepo) CreateIfAbsent(ctx context.Context, call *models.VideoCall) (*models.VideoCall, bool, error) {
	query := `
		INSERT INTO video_calls (room_id, appointment_id, teacher_id, student_id, status, can_join, scheduled_date, scheduled_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (appointment_id) WHERE status IN ('pending', 'active') DO NOTHING
		RETURNING ` + videoCallColumns

	created, err := scanVideoCall(r.pool.QueryRow(ctx, query,
		call.RoomID, call.AppointmentID, call.TeacherID, call.StudentID,
		call.Status, call.CanJoin, call.ScheduledDate, call.ScheduledTime,
	))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	existing, err := r.GetOpenByAppointment(ctx, call.AppointmentID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetOpenByAppointment returns the pending or active session of an appointment.
func (r *VideoCallRepo) GetOpenByAppointment(ctx context.Context, appointmentID uuid.UUID) (*models.VideoCall, error) {
	query := `SELECT ` + videoCallColumns + ` FROM video_calls
		WHERE appointment_id = $1 AND status IN ('pending', 'active')`
	return scanVideoCall(r.pool.QueryRow(ctx, query, appointmentID))
}

// GetByRoomID resolves a room id to its most recent session.
func (r *VideoCallRepo) GetByRoomID(ctx context.Context, roomID string) (*models.VideoCall, error) {
	query := `SELECT ` + videoCallColumns + ` FROM video_calls
		WHERE room_id = $1 ORDER BY created_at DESC LIMIT 1`
	return scanVideoCall(r.pool.QueryRow(ctx, query, roomID))
}

func (r *VideoCallRepo) ToggleCanJoin(ctx context.Context, id uuid.UUID) (*models.VideoCall, error) {
	query := `
		UPDATE video_calls
		SET can_join = NOT can_join, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + videoCallColumns
	return scanVideoCall(r.pool.QueryRow(ctx, query, id))
}

// Activate moves a pending session to active and stamps its start time.
// It returns pgx.ErrNoRows when the session is not pending anymore.
func (r *VideoCallRepo) Activate(ctx context.Context, id uuid.UUID, startedAt time.Time) (*models.VideoCall, error) {
	query := `
		UPDATE video_calls
		SET status = 'active', start_time = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + videoCallColumns
	return scanVideoCall(r.pool.QueryRow(ctx, query, id, startedAt))
}

// End moves an active session to ended. It returns pgx.ErrNoRows when the
// session is not active.
func (r *VideoCallRepo) End(ctx context.Context, id uuid.UUID, endedAt time.Time, durationMinutes int) (*models.VideoCall, error) {
	query := `
		UPDATE video_calls
		SET status = 'ended', end_time = $2, duration_minutes = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING ` + videoCallColumns
	return scanVideoCall(r.pool.QueryRow(ctx, query, id, endedAt, durationMinutes))
}

// ListByTeacher returns the teacher's sessions newest first, each with the
// student's name and email and the booked slot.
func (r *VideoCallRepo) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*models.VideoCall, error) {
	query := `
		SELECT v.id, v.room_id, v.appointment_id, v.teacher_id, v.student_id, v.status, v.can_join,
			v.scheduled_date, v.scheduled_time, v.start_time, v.end_time, v.duration_minutes,
			v.created_at, v.updated_at,
			u.name, u.email, a.date, a.start_time, a.end_time
		FROM video_calls v
		JOIN users u ON u.id = v.student_id
		JOIN appointments a ON a.id = v.appointment_id
		WHERE v.teacher_id = $1
		ORDER BY v.created_at DESC`

	rows, err := r.pool.Query(ctx, query, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	calls := make([]*models.VideoCall, 0)
	for rows.Next() {
		v := &models.VideoCall{Student: &models.CallStudent{}, Appointment: &models.CallAppointment{}}
		err := rows.Scan(
			&v.ID, &v.RoomID, &v.AppointmentID, &v.TeacherID, &v.StudentID, &v.Status, &v.CanJoin,
			&v.ScheduledDate, &v.ScheduledTime, &v.StartTime, &v.EndTime, &v.DurationMinutes,
			&v.CreatedAt, &v.UpdatedAt,
			&v.Student.Name, &v.Student.Email,
			&v.Appointment.Date, &v.Appointment.StartTime, &v.Appointment.EndTime,
		)
		if err != nil {
			return nil, err
		}
		calls = append(calls, v)
	}
	return calls, rows.Err()
}
