package service

import (
	"context"

	"github.com/balejosg/whitelist-sub001/internal/model"
)

// The services consume narrow store interfaces so persistence stays an
// external collaborator. The pgx repositories in internal/repository
// satisfy them; tests use in-memory fakes.

type ScheduleStore interface {
	Create(ctx context.Context, s *model.Schedule) error
	GetByID(ctx context.Context, id int64) (*model.Schedule, error)
	ListByClassroom(ctx context.Context, classroomID int64) ([]*model.Schedule, error)
	ListByClassroomDay(ctx context.Context, classroomID int64, dayOfWeek int) ([]*model.Schedule, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]*model.Schedule, error)
	Update(ctx context.Context, s *model.Schedule) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type ClassroomStore interface {
	Create(ctx context.Context, c *model.Classroom) error
	GetByID(ctx context.Context, id int64) (*model.Classroom, error)
	GetByName(ctx context.Context, name string) (*model.Classroom, error)
	List(ctx context.Context) ([]*model.Classroom, error)
	SetActiveGroup(ctx context.Context, id int64, groupID *string) (bool, error)
}

type MachineStore interface {
	Create(ctx context.Context, m *model.Machine) error
	GetByHostname(ctx context.Context, hostname string) (*model.Machine, error)
	ListByClassroom(ctx context.Context, classroomID int64) ([]*model.Machine, error)
}

type RequestStore interface {
	Create(ctx context.Context, req *model.AccessRequest) error
	GetByID(ctx context.Context, id int64) (*model.AccessRequest, error)
	ListPending(ctx context.Context) ([]*model.AccessRequest, error)
	ListPendingByGroups(ctx context.Context, groupIDs []string) ([]*model.AccessRequest, error)
	Resolve(ctx context.Context, id int64, status, resolvedBy, note, groupID string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type TokenStore interface {
	Create(ctx context.Context, t *model.InclusionToken) error
	GetByToken(ctx context.Context, token string) (*model.InclusionToken, error)
	Deactivate(ctx context.Context, id int64) error
	DeactivateExpired(ctx context.Context) (int64, error)
}
