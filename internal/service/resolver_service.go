package service

import (
	"context"
	"strings"
	"time"

	"github.com/balejosg/whitelist-sub001/internal/apperr"
	"github.com/balejosg/whitelist-sub001/internal/model"
	"go.uber.org/zap"
)

// ResolverService answers which access group a machine must enforce right
// now. It never mutates state.
type ResolverService struct {
	machines   MachineStore
	classrooms ClassroomStore
	schedules  *ScheduleService
	logger     *zap.Logger
}

func NewResolverService(machines MachineStore, classrooms ClassroomStore, schedules *ScheduleService, logger *zap.Logger) *ResolverService {
	return &ResolverService{
		machines:   machines,
		classrooms: classrooms,
		schedules:  schedules,
		logger:     logger,
	}
}

// ResolveAccessGroup resolves hostname -> machine -> classroom and applies
// the precedence chain: manual override, then the active schedule, then
// the classroom default. First match wins; the result carries the source
// tag so callers can see which strategy decided.
func (s *ResolverService) ResolveAccessGroup(ctx context.Context, hostname string, now time.Time) (*model.Resolution, error) {
	hostname = strings.ToLower(strings.TrimSpace(hostname))

	machine, err := s.machines.GetByHostname(ctx, hostname)
	if err != nil {
		return nil, err
	}
	if machine == nil {
		return nil, apperr.MachineNotFound(hostname)
	}

	classroom, err := s.classrooms.GetByID(ctx, machine.ClassroomID)
	if err != nil {
		return nil, err
	}
	if classroom == nil {
		// FK integrity should make this unreachable.
		return nil, apperr.ClassroomNotFound(machine.ClassroomID)
	}

	if classroom.ActiveGroupID != nil && *classroom.ActiveGroupID != "" {
		return &model.Resolution{GroupID: *classroom.ActiveGroupID, Source: model.SourceManual}, nil
	}

	current, err := s.schedules.GetCurrentSchedule(ctx, classroom.ID, now)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return &model.Resolution{GroupID: current.GroupID, Source: model.SourceSchedule}, nil
	}

	return &model.Resolution{GroupID: classroom.DefaultGroupID, Source: model.SourceDefault}, nil
}
