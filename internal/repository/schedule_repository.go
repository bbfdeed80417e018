package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/balejosg/whitelist-sub001/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const scheduleColumns = `id, classroom_id, teacher_id, group_id, day_of_week, start_time, end_time, recurrence, created_at, updated_at`

type ScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

func scanSchedule(row pgx.Row) (*model.Schedule, error) {
	var s model.Schedule
	err := row.Scan(
		&s.ID,
		&s.ClassroomID,
		&s.TeacherID,
		&s.GroupID,
		&s.DayOfWeek,
		&s.StartTime,
		&s.EndTime,
		&s.Recurrence,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleRepository) scanSchedules(rows pgx.Rows) ([]*model.Schedule, error) {
	defer rows.Close()

	var schedules []*model.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}

	return schedules, nil
}

// Create persists a schedule and fills in the generated fields.
func (r *ScheduleRepository) Create(ctx context.Context, s *model.Schedule) error {
	query := `
		INSERT INTO schedules (classroom_id, teacher_id, group_id, day_of_week, start_time, end_time, recurrence)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		s.ClassroomID,
		s.TeacherID,
		s.GroupID,
		s.DayOfWeek,
		s.StartTime,
		s.EndTime,
		s.Recurrence,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}

	return nil
}

// GetByID returns the schedule or nil if absent.
func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	s, err := scanSchedule(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	return s, nil
}

// ListByClassroom returns all schedules of a classroom.
func (r *ScheduleRepository) ListByClassroom(ctx context.Context, classroomID int64) ([]*model.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE classroom_id = $1
		ORDER BY day_of_week, start_time
	`

	rows, err := r.pool.Query(ctx, query, classroomID)
	if err != nil {
		return nil, fmt.Errorf("list schedules by classroom: %w", err)
	}

	return r.scanSchedules(rows)
}

// ListByClassroomDay returns the schedules of a classroom on one weekday.
// This is the set the conflict scan and the current-schedule lookup run over.
func (r *ScheduleRepository) ListByClassroomDay(ctx context.Context, classroomID int64, dayOfWeek int) ([]*model.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE classroom_id = $1 AND day_of_week = $2
		ORDER BY start_time
	`

	rows, err := r.pool.Query(ctx, query, classroomID, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("list schedules by classroom day: %w", err)
	}

	return r.scanSchedules(rows)
}

// ListByTeacher returns all schedules of a teacher across classrooms.
func (r *ScheduleRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*model.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE teacher_id = $1
		ORDER BY day_of_week, start_time
	`

	rows, err := r.pool.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list schedules by teacher: %w", err)
	}

	return r.scanSchedules(rows)
}

// Update rewrites the mutable fields of a schedule.
func (r *ScheduleRepository) Update(ctx context.Context, s *model.Schedule) error {
	query := `
		UPDATE schedules
		SET classroom_id = $2, teacher_id = $3, group_id = $4, day_of_week = $5,
		    start_time = $6, end_time = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		s.ID,
		s.ClassroomID,
		s.TeacherID,
		s.GroupID,
		s.DayOfWeek,
		s.StartTime,
		s.EndTime,
	).Scan(&s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}

	return nil
}

// Delete removes a schedule and reports whether a row was removed.
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete schedule: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
