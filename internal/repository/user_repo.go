package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, subject, bio, is_approved, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.Subject, &user.Bio, &user.IsApproved, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, subject, bio, is_approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	user.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.Subject, user.Bio, user.IsApproved,
	).Scan(&user.CreatedAt)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepo) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY name`, role)
}

func (r *UserRepo) ListAll(ctx context.Context) ([]*models.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY role, name`)
}

// SetApproved flips a teacher's approval. Non-teachers report pgx.ErrNoRows.
func (r *UserRepo) SetApproved(ctx context.Context, id uuid.UUID, approved bool) (*models.User, error) {
	query := `
		UPDATE users SET is_approved = $2
		WHERE id = $1 AND role = 'teacher'
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, id, approved))
}

// Delete removes a student or teacher account. Admin accounts and unknown
// ids report pgx.ErrNoRows.
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1 AND role <> 'admin'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *UserRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// GetAvailability returns the weekly slots of one teacher.
func (r *UserRepo) GetAvailability(ctx context.Context, teacherID uuid.UUID) ([]models.Availability, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT day, start_time, end_time
		FROM teacher_availability
		WHERE teacher_id = $1
		ORDER BY day, start_time`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]models.Availability, 0)
	for rows.Next() {
		var s models.Availability
		if err := rows.Scan(&s.Day, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// ReplaceAvailability swaps a teacher's weekly slots in one transaction.
func (r *UserRepo) ReplaceAvailability(ctx context.Context, teacherID uuid.UUID, slots []models.Availability) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM teacher_availability WHERE teacher_id = $1`, teacherID); err != nil {
		return fmt.Errorf("clear availability: %w", err)
	}

	for _, s := range slots {
		_, err := tx.Exec(ctx, `
			INSERT INTO teacher_availability (teacher_id, day, start_time, end_time)
			VALUES ($1, $2, $3, $4)`, teacherID, s.Day, s.StartTime, s.EndTime)
		if err != nil {
			return fmt.Errorf("insert availability: %w", err)
		}
	}

	return tx.Commit(ctx)
}
