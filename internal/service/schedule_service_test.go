package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/balejosg/whitelist-sub001/internal/apperr"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newScheduleService() (*ScheduleService, *fakeScheduleStore) {
	store := newFakeScheduleStore()
	return NewScheduleService(store, zap.NewNop()), store
}

func mondayInput(classroomID int64, start, end string) CreateScheduleInput {
	return CreateScheduleInput{
		ClassroomID: classroomID,
		TeacherID:   "teacher-1",
		GroupID:     "klass-a",
		DayOfWeek:   1,
		StartTime:   start,
		EndTime:     end,
	}
}

func TestCreateSchedule_Validation(t *testing.T) {
	svc, _ := newScheduleService()
	ctx := context.Background()

	for _, day := range []int{0, 6, 7, -1} {
		input := mondayInput(1, "08:00", "09:00")
		input.DayOfWeek = day
		_, err := svc.CreateSchedule(ctx, input)
		require.True(t, apperr.Is(err, apperr.CodeInvalidDayOfWeek), "day %d", day)
	}

	_, err := svc.CreateSchedule(ctx, mondayInput(1, "8:00", "09:00"))
	require.True(t, apperr.Is(err, apperr.CodeInvalidTimeFormat))

	_, err = svc.CreateSchedule(ctx, mondayInput(1, "08:00", "24:00"))
	require.True(t, apperr.Is(err, apperr.CodeInvalidTimeFormat))

	_, err = svc.CreateSchedule(ctx, mondayInput(1, "09:00", "09:00"))
	require.True(t, apperr.Is(err, apperr.CodeInvalidRange))

	_, err = svc.CreateSchedule(ctx, mondayInput(1, "10:00", "09:00"))
	require.True(t, apperr.Is(err, apperr.CodeInvalidRange))
}

func TestCreateSchedule_ConflictIsClassroomExclusive(t *testing.T) {
	svc, _ := newScheduleService()
	ctx := context.Background()

	first, err := svc.CreateSchedule(ctx, mondayInput(1, "08:00", "09:00"))
	require.NoError(t, err)
	require.Equal(t, "weekly", first.Recurrence)

	// Overlapping window, different teacher and group: still a conflict.
	overlapping := mondayInput(1, "08:30", "09:30")
	overlapping.TeacherID = "teacher-2"
	overlapping.GroupID = "klass-b"
	_, err = svc.CreateSchedule(ctx, overlapping)
	require.True(t, apperr.Is(err, apperr.CodeScheduleConflict))
	e, _ := apperr.From(err)
	require.Equal(t, first.ID, e.Details["conflictingScheduleId"])

	// Adjacent window on the same day is fine.
	_, err = svc.CreateSchedule(ctx, mondayInput(1, "09:00", "10:00"))
	require.NoError(t, err)

	// Same window on another day is fine.
	tuesday := mondayInput(1, "08:00", "09:00")
	tuesday.DayOfWeek = 2
	_, err = svc.CreateSchedule(ctx, tuesday)
	require.NoError(t, err)

	// Same window in another classroom is fine.
	_, err = svc.CreateSchedule(ctx, mondayInput(2, "08:00", "09:00"))
	require.NoError(t, err)
}

func TestCreateSchedule_ConcurrentOverlap(t *testing.T) {
	svc, _ := newScheduleService()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateSchedule(ctx, mondayInput(1, "08:00", "09:00"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.True(t, apperr.Is(err, apperr.CodeScheduleConflict))
		}
	}
	require.Equal(t, 1, succeeded)
}

func TestUpdateSchedule(t *testing.T) {
	svc, _ := newScheduleService()
	ctx := context.Background()

	_, err := svc.UpdateSchedule(ctx, 42, SchedulePatch{})
	require.True(t, apperr.Is(err, apperr.CodeNotFound))

	first, err := svc.CreateSchedule(ctx, mondayInput(1, "08:00", "09:00"))
	require.NoError(t, err)
	second, err := svc.CreateSchedule(ctx, mondayInput(1, "09:00", "10:00"))
	require.NoError(t, err)

	// Shifting within its own old window: the record is excluded from the
	// conflict scan against itself.
	newEnd := "08:45"
	updated, err := svc.UpdateSchedule(ctx, first.ID, SchedulePatch{EndTime: &newEnd})
	require.NoError(t, err)
	require.Equal(t, "08:45", updated.EndTime)

	// Moving onto the neighbor conflicts.
	badEnd := "09:30"
	_, err = svc.UpdateSchedule(ctx, first.ID, SchedulePatch{EndTime: &badEnd})
	require.True(t, apperr.Is(err, apperr.CodeScheduleConflict))
	e, _ := apperr.From(err)
	require.Equal(t, second.ID, e.Details["conflictingScheduleId"])

	// Merged result is re-validated in full.
	badDay := 6
	_, err = svc.UpdateSchedule(ctx, first.ID, SchedulePatch{DayOfWeek: &badDay})
	require.True(t, apperr.Is(err, apperr.CodeInvalidDayOfWeek))
}

func TestDeleteSchedule_Idempotent(t *testing.T) {
	svc, _ := newScheduleService()
	ctx := context.Background()

	created, err := svc.CreateSchedule(ctx, mondayInput(1, "08:00", "09:00"))
	require.NoError(t, err)

	removed, err := svc.DeleteSchedule(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = svc.DeleteSchedule(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, removed)
}

func TestGetCurrentSchedule(t *testing.T) {
	svc, _ := newScheduleService()
	ctx := context.Background()

	created, err := svc.CreateSchedule(ctx, mondayInput(1, "08:00", "09:00"))
	require.NoError(t, err)

	// 2026-03-02 is a Monday.
	monday := func(h, m int) time.Time {
		return time.Date(2026, time.March, 2, h, m, 0, 0, time.UTC)
	}

	current, err := svc.GetCurrentSchedule(ctx, 1, monday(8, 30))
	require.NoError(t, err)
	require.NotNil(t, current)
	require.Equal(t, created.ID, current.ID)

	// Start is inclusive, end is exclusive.
	current, err = svc.GetCurrentSchedule(ctx, 1, monday(8, 0))
	require.NoError(t, err)
	require.NotNil(t, current)

	current, err = svc.GetCurrentSchedule(ctx, 1, monday(9, 0))
	require.NoError(t, err)
	require.Nil(t, current)

	current, err = svc.GetCurrentSchedule(ctx, 1, monday(7, 59))
	require.NoError(t, err)
	require.Nil(t, current)

	// Weekends never match, whatever is stored.
	saturday := time.Date(2026, time.March, 7, 8, 30, 0, 0, time.UTC)
	sunday := time.Date(2026, time.March, 8, 8, 30, 0, 0, time.UTC)
	for _, at := range []time.Time{saturday, sunday} {
		current, err = svc.GetCurrentSchedule(ctx, 1, at)
		require.NoError(t, err)
		require.Nil(t, current)
	}
}
