package service

import (
	"context"
	"strings"

	"github.com/balejosg/whitelist-sub001/internal/apperr"
	"github.com/balejosg/whitelist-sub001/internal/model"
	"go.uber.org/zap"
)

// ClassroomService manages classrooms, machine registration and the manual
// access-group override.
type ClassroomService struct {
	classrooms ClassroomStore
	machines   MachineStore
	logger     *zap.Logger
}

func NewClassroomService(classrooms ClassroomStore, machines MachineStore, logger *zap.Logger) *ClassroomService {
	return &ClassroomService{
		classrooms: classrooms,
		machines:   machines,
		logger:     logger,
	}
}

// CreateClassroom creates a classroom with its fallback group.
func (s *ClassroomService) CreateClassroom(ctx context.Context, name, displayName, defaultGroupID string) (*model.Classroom, error) {
	name = strings.TrimSpace(name)
	if name == "" || defaultGroupID == "" {
		return nil, apperr.MissingFields("name", "defaultGroupId")
	}
	if displayName == "" {
		displayName = name
	}

	classroom := &model.Classroom{
		Name:           name,
		DisplayName:    displayName,
		DefaultGroupID: defaultGroupID,
	}

	if err := s.classrooms.Create(ctx, classroom); err != nil {
		return nil, err
	}

	s.logger.Info("Classroom created",
		zap.Int64("classroom_id", classroom.ID),
		zap.String("name", classroom.Name),
		zap.String("default_group_id", classroom.DefaultGroupID),
	)

	return classroom, nil
}

// GetClassroom returns a classroom by id.
func (s *ClassroomService) GetClassroom(ctx context.Context, id int64) (*model.Classroom, error) {
	classroom, err := s.classrooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if classroom == nil {
		return nil, apperr.ClassroomNotFound(id)
	}

	return classroom, nil
}

// ListClassrooms returns all classrooms.
func (s *ClassroomService) ListClassrooms(ctx context.Context) ([]*model.Classroom, error) {
	return s.classrooms.List(ctx)
}

// RegisterMachine registers a host into a classroom. Hostnames follow the
// same label grammar as domains; re-registering moves the machine.
func (s *ClassroomService) RegisterMachine(ctx context.Context, hostname string, classroomID int64) (*model.Machine, error) {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	if !IsValidHostname(hostname) {
		return nil, apperr.InvalidHostname(hostname)
	}

	classroom, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if classroom == nil {
		return nil, apperr.ClassroomNotFound(classroomID)
	}

	machine := &model.Machine{
		Hostname:    hostname,
		ClassroomID: classroomID,
	}

	if err := s.machines.Create(ctx, machine); err != nil {
		return nil, err
	}

	s.logger.Info("Machine registered",
		zap.String("hostname", machine.Hostname),
		zap.Int64("classroom_id", machine.ClassroomID),
	)

	return machine, nil
}

// ListMachines returns the machines of a classroom.
func (s *ClassroomService) ListMachines(ctx context.Context, classroomID int64) ([]*model.Machine, error) {
	return s.machines.ListByClassroom(ctx, classroomID)
}

// SetOverride sets the manual override group for a classroom. While set it
// takes precedence over any schedule.
func (s *ClassroomService) SetOverride(ctx context.Context, classroomID int64, groupID string) error {
	if groupID == "" {
		return apperr.MissingFields("groupId")
	}

	updated, err := s.classrooms.SetActiveGroup(ctx, classroomID, &groupID)
	if err != nil {
		return err
	}
	if !updated {
		return apperr.ClassroomNotFound(classroomID)
	}

	s.logger.Info("Manual override set",
		zap.Int64("classroom_id", classroomID),
		zap.String("group_id", groupID),
	)

	return nil
}

// ClearOverride removes the manual override, returning the classroom to
// schedule/default resolution.
func (s *ClassroomService) ClearOverride(ctx context.Context, classroomID int64) error {
	updated, err := s.classrooms.SetActiveGroup(ctx, classroomID, nil)
	if err != nil {
		return err
	}
	if !updated {
		return apperr.ClassroomNotFound(classroomID)
	}

	s.logger.Info("Manual override cleared", zap.Int64("classroom_id", classroomID))

	return nil
}
