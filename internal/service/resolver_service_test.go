package service

import (
	"context"
	"testing"
	"time"

	"github.com/balejosg/whitelist-sub001/internal/apperr"
	"github.com/balejosg/whitelist-sub001/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type resolverFixture struct {
	resolver   *ResolverService
	schedules  *ScheduleService
	classrooms *fakeClassroomStore
	machines   *fakeMachineStore
	classroom  *model.Classroom
}

func newResolverFixture(t *testing.T) *resolverFixture {
	t.Helper()
	logger := zap.NewNop()

	scheduleStore := newFakeScheduleStore()
	classroomStore := newFakeClassroomStore()
	machineStore := newFakeMachineStore()
	schedules := NewScheduleService(scheduleStore, logger)

	classroom := &model.Classroom{
		Name:           "lab-1",
		DisplayName:    "Computer Lab 1",
		DefaultGroupID: "standard",
	}
	require.NoError(t, classroomStore.Create(context.Background(), classroom))
	require.NoError(t, machineStore.Create(context.Background(), &model.Machine{
		Hostname:    "pc-01",
		ClassroomID: classroom.ID,
	}))

	return &resolverFixture{
		resolver:   NewResolverService(machineStore, classroomStore, schedules, logger),
		schedules:  schedules,
		classrooms: classroomStore,
		machines:   machineStore,
		classroom:  classroom,
	}
}

// 2026-03-02 08:30 UTC is a Monday morning.
var mondayMorning = time.Date(2026, time.March, 2, 8, 30, 0, 0, time.UTC)

func TestResolve_MachineNotFound(t *testing.T) {
	fx := newResolverFixture(t)

	_, err := fx.resolver.ResolveAccessGroup(context.Background(), "unknown-host", mondayMorning)
	require.True(t, apperr.Is(err, apperr.CodeMachineNotFound))
}

func TestResolve_PrecedenceLaw(t *testing.T) {
	fx := newResolverFixture(t)
	ctx := context.Background()

	// An active schedule covering Monday morning.
	_, err := fx.schedules.CreateSchedule(ctx, CreateScheduleInput{
		ClassroomID: fx.classroom.ID,
		TeacherID:   "teacher-1",
		GroupID:     "exam-mode",
		DayOfWeek:   1,
		StartTime:   "08:00",
		EndTime:     "09:00",
	})
	require.NoError(t, err)

	// Manual override wins regardless of schedule state.
	override := "lockdown"
	_, err = fx.classrooms.SetActiveGroup(ctx, fx.classroom.ID, &override)
	require.NoError(t, err)

	res, err := fx.resolver.ResolveAccessGroup(ctx, "pc-01", mondayMorning)
	require.NoError(t, err)
	require.Equal(t, &model.Resolution{GroupID: "lockdown", Source: model.SourceManual}, res)

	// Override cleared: the active schedule decides.
	_, err = fx.classrooms.SetActiveGroup(ctx, fx.classroom.ID, nil)
	require.NoError(t, err)

	res, err = fx.resolver.ResolveAccessGroup(ctx, "pc-01", mondayMorning)
	require.NoError(t, err)
	require.Equal(t, &model.Resolution{GroupID: "exam-mode", Source: model.SourceSchedule}, res)

	// Outside any schedule window: classroom default.
	evening := time.Date(2026, time.March, 2, 19, 0, 0, 0, time.UTC)
	res, err = fx.resolver.ResolveAccessGroup(ctx, "pc-01", evening)
	require.NoError(t, err)
	require.Equal(t, &model.Resolution{GroupID: "standard", Source: model.SourceDefault}, res)
}

func TestResolve_DefaultWithoutScheduleOrOverride(t *testing.T) {
	fx := newResolverFixture(t)

	res, err := fx.resolver.ResolveAccessGroup(context.Background(), "pc-01", mondayMorning)
	require.NoError(t, err)
	require.Equal(t, &model.Resolution{GroupID: "standard", Source: model.SourceDefault}, res)
}

func TestResolve_WeekendIgnoresSchedules(t *testing.T) {
	fx := newResolverFixture(t)
	ctx := context.Background()

	_, err := fx.schedules.CreateSchedule(ctx, CreateScheduleInput{
		ClassroomID: fx.classroom.ID,
		TeacherID:   "teacher-1",
		GroupID:     "exam-mode",
		DayOfWeek:   1,
		StartTime:   "08:00",
		EndTime:     "09:00",
	})
	require.NoError(t, err)

	sundayMorning := time.Date(2026, time.March, 8, 8, 30, 0, 0, time.UTC)
	res, err := fx.resolver.ResolveAccessGroup(ctx, "pc-01", sundayMorning)
	require.NoError(t, err)
	require.Equal(t, model.SourceDefault, res.Source)
}

func TestResolve_HostnameNormalized(t *testing.T) {
	fx := newResolverFixture(t)

	res, err := fx.resolver.ResolveAccessGroup(context.Background(), "  PC-01  ", mondayMorning)
	require.NoError(t, err)
	require.Equal(t, "standard", res.GroupID)
}
