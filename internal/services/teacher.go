package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

// TeacherService serves the public teacher directory and lets teachers
// publish the weekly availability students book against.
type TeacherService struct {
	users  userStore
	logger *zap.Logger
}

func NewTeacherService(users userStore, logger *zap.Logger) *TeacherService {
	return &TeacherService{users: users, logger: logger}
}

func (s *TeacherService) List(ctx context.Context) ([]*models.Teacher, error) {
	users, err := s.users.ListByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, err
	}

	teachers := make([]*models.Teacher, 0, len(users))
	for _, u := range users {
		if !u.IsApproved {
			continue
		}
		slots, err := s.users.GetAvailability(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("load availability for %s: %w", u.ID, err)
		}
		teachers = append(teachers, &models.Teacher{User: *u, Availability: slots})
	}
	return teachers, nil
}

func (s *TeacherService) Get(ctx context.Context, teacherID uuid.UUID) (*models.Teacher, error) {
	user, err := s.lookupTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if !user.IsApproved {
		return nil, &NotFoundError{Message: "Teacher not found"}
	}

	slots, err := s.users.GetAvailability(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return &models.Teacher{User: *user, Availability: slots}, nil
}

// SetAvailability replaces the teacher's weekly slots. Days are normalised
// to their English title-case name; slots on the same day may not overlap.
func (s *TeacherService) SetAvailability(ctx context.Context, teacherID uuid.UUID, req models.SetAvailabilityRequest) ([]models.Availability, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	fields := make(map[string]string)
	normalized := make([]models.Availability, 0, len(req.Slots))
	ranges := make(map[time.Weekday][]clockRange)

	for i, slot := range req.Slots {
		key := fmt.Sprintf("slots[%d]", i)

		wd, ok := parseWeekday(slot.Day)
		if !ok {
			fields[key+".day"] = "Must be a weekday name such as Monday"
			continue
		}
		r, err := parseClockRange(slot.StartTime, slot.EndTime)
		if err != nil {
			fields[key] = err.Error()
			continue
		}
		for _, other := range ranges[wd] {
			if other.overlaps(r) {
				fields[key] = "Overlaps another slot on " + wd.String()
				break
			}
		}
		if _, clash := fields[key]; clash {
			continue
		}

		ranges[wd] = append(ranges[wd], r)
		normalized = append(normalized, models.Availability{
			Day:       wd.String(),
			StartTime: strings.TrimSpace(slot.StartTime),
			EndTime:   strings.TrimSpace(slot.EndTime),
		})
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		wi, _ := parseWeekday(normalized[i].Day)
		wj, _ := parseWeekday(normalized[j].Day)
		if wi != wj {
			return wi < wj
		}
		return normalized[i].StartTime < normalized[j].StartTime
	})

	if _, err := s.lookupTeacher(ctx, teacherID); err != nil {
		return nil, err
	}
	if err := s.users.ReplaceAvailability(ctx, teacherID, normalized); err != nil {
		return nil, fmt.Errorf("replace availability: %w", err)
	}

	s.logger.Info("availability updated", zap.Stringer("teacher_id", teacherID), zap.Int("slots", len(normalized)))
	return normalized, nil
}

func (s *TeacherService) lookupTeacher(ctx context.Context, teacherID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Teacher not found"}
		}
		return nil, err
	}
	if user.Role != models.RoleTeacher {
		return nil, &NotFoundError{Message: "Teacher not found"}
	}
	return user, nil
}
