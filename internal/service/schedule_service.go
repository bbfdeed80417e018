package service

import (
	"context"
	"fmt"
	"time"

	"github.com/balejosg/whitelist-sub001/internal/apperr"
	"github.com/balejosg/whitelist-sub001/internal/model"
	"github.com/balejosg/whitelist-sub001/internal/timewindow"
	"go.uber.org/zap"
)

// ScheduleService owns the schedule records and enforces the classroom
// non-overlap invariant. Overlap is classroom-exclusive: two schedules for
// the same classroom and weekday may never intersect, regardless of which
// teacher or group they carry.
type ScheduleService struct {
	schedules      ScheduleStore
	classroomLocks keyedMutex
	logger         *zap.Logger
}

func NewScheduleService(schedules ScheduleStore, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		logger:    logger,
	}
}

// CreateScheduleInput is the validated-at-the-gate creation payload.
type CreateScheduleInput struct {
	ClassroomID int64  `json:"classroom_id"`
	TeacherID   string `json:"teacher_id"`
	GroupID     string `json:"group_id"`
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// SchedulePatch carries the fields an update may change. Nil fields keep
// their current value; the merged result is re-validated in full.
type SchedulePatch struct {
	TeacherID *string `json:"teacher_id"`
	GroupID   *string `json:"group_id"`
	DayOfWeek *int    `json:"day_of_week"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

// validateWindow checks day and time bounds and returns the window in
// minutes since midnight.
func validateWindow(dayOfWeek int, startTime, endTime string) (startMin, endMin int, err error) {
	if dayOfWeek < 1 || dayOfWeek > 5 {
		return 0, 0, apperr.InvalidDayOfWeek(dayOfWeek)
	}

	startMin, err = timewindow.ToMinutes(startTime)
	if err != nil {
		return 0, 0, apperr.InvalidTimeFormat(startTime)
	}

	endMin, err = timewindow.ToMinutes(endTime)
	if err != nil {
		return 0, 0, apperr.InvalidTimeFormat(endTime)
	}

	if startMin >= endMin {
		return 0, 0, apperr.InvalidRange(startTime, endTime)
	}

	return startMin, endMin, nil
}

// findConflict scans the classroom's schedules for the weekday and returns
// the first one overlapping [startMin, endMin), skipping excludeID.
func (s *ScheduleService) findConflict(ctx context.Context, classroomID int64, dayOfWeek, startMin, endMin int, excludeID int64) (*model.Schedule, error) {
	existing, err := s.schedules.ListByClassroomDay(ctx, classroomID, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("load schedules for conflict scan: %w", err)
	}

	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}

		otherStart, err := timewindow.ToMinutes(other.StartTime)
		if err != nil {
			return nil, fmt.Errorf("stored start time %q on schedule %d: %w", other.StartTime, other.ID, err)
		}
		otherEnd, err := timewindow.ToMinutes(other.EndTime)
		if err != nil {
			return nil, fmt.Errorf("stored end time %q on schedule %d: %w", other.EndTime, other.ID, err)
		}

		if timewindow.Overlaps(startMin, endMin, otherStart, otherEnd) {
			return other, nil
		}
	}

	return nil, nil
}

// CreateSchedule validates the input, checks for overlap against the
// classroom's existing schedules and persists the record with weekly
// recurrence. The scan and the insert hold the classroom lock so two
// concurrent creates for overlapping windows cannot both succeed.
func (s *ScheduleService) CreateSchedule(ctx context.Context, input CreateScheduleInput) (*model.Schedule, error) {
	startMin, endMin, err := validateWindow(input.DayOfWeek, input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}

	unlock := s.classroomLocks.Lock(input.ClassroomID)
	defer unlock()

	conflict, err := s.findConflict(ctx, input.ClassroomID, input.DayOfWeek, startMin, endMin, 0)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, apperr.ScheduleConflict(conflict.ID)
	}

	schedule := &model.Schedule{
		ClassroomID: input.ClassroomID,
		TeacherID:   input.TeacherID,
		GroupID:     input.GroupID,
		DayOfWeek:   input.DayOfWeek,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Recurrence:  model.RecurrenceWeekly,
	}

	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, err
	}

	s.logger.Info("Schedule created",
		zap.Int64("schedule_id", schedule.ID),
		zap.Int64("classroom_id", schedule.ClassroomID),
		zap.Int("day_of_week", schedule.DayOfWeek),
		zap.String("window", schedule.StartTime+"-"+schedule.EndTime),
		zap.String("group_id", schedule.GroupID),
	)

	return schedule, nil
}

// UpdateSchedule applies a patch and re-validates the merged result under
// the same rules as creation, excluding the record itself from the
// conflict scan.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, id int64, patch SchedulePatch) (*model.Schedule, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, apperr.NotFound("schedule")
	}

	if patch.TeacherID != nil {
		schedule.TeacherID = *patch.TeacherID
	}
	if patch.GroupID != nil {
		schedule.GroupID = *patch.GroupID
	}
	if patch.DayOfWeek != nil {
		schedule.DayOfWeek = *patch.DayOfWeek
	}
	if patch.StartTime != nil {
		schedule.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		schedule.EndTime = *patch.EndTime
	}

	startMin, endMin, err := validateWindow(schedule.DayOfWeek, schedule.StartTime, schedule.EndTime)
	if err != nil {
		return nil, err
	}

	unlock := s.classroomLocks.Lock(schedule.ClassroomID)
	defer unlock()

	conflict, err := s.findConflict(ctx, schedule.ClassroomID, schedule.DayOfWeek, startMin, endMin, schedule.ID)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, apperr.ScheduleConflict(conflict.ID)
	}

	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, err
	}

	s.logger.Info("Schedule updated",
		zap.Int64("schedule_id", schedule.ID),
		zap.Int64("classroom_id", schedule.ClassroomID),
	)

	return schedule, nil
}

// DeleteSchedule removes a schedule. Deleting an absent schedule is not an
// error; the return value reports whether a record was removed.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, id int64) (bool, error) {
	removed, err := s.schedules.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if removed {
		s.logger.Info("Schedule deleted", zap.Int64("schedule_id", id))
	}

	return removed, nil
}

// GetSchedulesByClassroom lists a classroom's schedules.
func (s *ScheduleService) GetSchedulesByClassroom(ctx context.Context, classroomID int64) ([]*model.Schedule, error) {
	return s.schedules.ListByClassroom(ctx, classroomID)
}

// GetSchedulesByTeacher lists a teacher's schedules.
func (s *ScheduleService) GetSchedulesByTeacher(ctx context.Context, teacherID string) ([]*model.Schedule, error) {
	return s.schedules.ListByTeacher(ctx, teacherID)
}

// GetCurrentSchedule returns the schedule whose window contains the
// instant, or nil when none does. Weekends never have class. By the
// non-overlap invariant at most one schedule can match.
func (s *ScheduleService) GetCurrentSchedule(ctx context.Context, classroomID int64, at time.Time) (*model.Schedule, error) {
	weekday := int(at.Weekday())
	if weekday == 0 || weekday == 6 {
		return nil, nil
	}

	minute := at.Hour()*60 + at.Minute()

	schedules, err := s.schedules.ListByClassroomDay(ctx, classroomID, weekday)
	if err != nil {
		return nil, err
	}

	for _, schedule := range schedules {
		startMin, err := timewindow.ToMinutes(schedule.StartTime)
		if err != nil {
			return nil, fmt.Errorf("stored start time %q on schedule %d: %w", schedule.StartTime, schedule.ID, err)
		}
		endMin, err := timewindow.ToMinutes(schedule.EndTime)
		if err != nil {
			return nil, fmt.Errorf("stored end time %q on schedule %d: %w", schedule.EndTime, schedule.ID, err)
		}

		if minute >= startMin && minute < endMin {
			return schedule, nil
		}
	}

	return nil, nil
}
