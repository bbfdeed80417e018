package service

import (
	"context"
	"sync"
	"time"

	"github.com/balejosg/whitelist-sub001/internal/model"
)

// In-memory store fakes. They mirror the repository semantics the services
// rely on: nil for absent records, conditional Resolve, RowsAffected-style
// booleans.

type fakeScheduleStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*model.Schedule
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{items: make(map[int64]*model.Schedule)}
}

func (f *fakeScheduleStore) Create(_ context.Context, s *model.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s.ID = f.nextID
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	f.items[s.ID] = &cp
	return nil
}

func (f *fakeScheduleStore) GetByID(_ context.Context, id int64) (*model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeScheduleStore) ListByClassroom(_ context.Context, classroomID int64) ([]*model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Schedule
	for _, s := range f.items {
		if s.ClassroomID == classroomID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeScheduleStore) ListByClassroomDay(_ context.Context, classroomID int64, dayOfWeek int) ([]*model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Schedule
	for _, s := range f.items {
		if s.ClassroomID == classroomID && s.DayOfWeek == dayOfWeek {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeScheduleStore) ListByTeacher(_ context.Context, teacherID string) ([]*model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Schedule
	for _, s := range f.items {
		if s.TeacherID == teacherID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeScheduleStore) Update(_ context.Context, s *model.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.UpdatedAt = time.Now()
	cp := *s
	f.items[s.ID] = &cp
	return nil
}

func (f *fakeScheduleStore) Delete(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

type fakeClassroomStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*model.Classroom
}

func newFakeClassroomStore() *fakeClassroomStore {
	return &fakeClassroomStore{items: make(map[int64]*model.Classroom)}
}

func (f *fakeClassroomStore) Create(_ context.Context, c *model.Classroom) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeClassroomStore) GetByID(_ context.Context, id int64) (*model.Classroom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClassroomStore) GetByName(_ context.Context, name string) (*model.Classroom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeClassroomStore) List(_ context.Context) ([]*model.Classroom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Classroom
	for _, c := range f.items {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeClassroomStore) SetActiveGroup(_ context.Context, id int64, groupID *string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return false, nil
	}
	c.ActiveGroupID = groupID
	return true, nil
}

type fakeMachineStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[string]*model.Machine
}

func newFakeMachineStore() *fakeMachineStore {
	return &fakeMachineStore{items: make(map[string]*model.Machine)}
}

func (f *fakeMachineStore) Create(_ context.Context, m *model.Machine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.items[m.Hostname]; ok {
		existing.ClassroomID = m.ClassroomID
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
		return nil
	}
	f.nextID++
	m.ID = f.nextID
	m.CreatedAt = time.Now()
	cp := *m
	f.items[m.Hostname] = &cp
	return nil
}

func (f *fakeMachineStore) GetByHostname(_ context.Context, hostname string) (*model.Machine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.items[hostname]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMachineStore) ListByClassroom(_ context.Context, classroomID int64) ([]*model.Machine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Machine
	for _, m := range f.items {
		if m.ClassroomID == classroomID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeRequestStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*model.AccessRequest
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{items: make(map[int64]*model.AccessRequest)}
}

func (f *fakeRequestStore) Create(_ context.Context, req *model.AccessRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	req.ID = f.nextID
	req.CreatedAt = time.Now()
	cp := *req
	f.items[req.ID] = &cp
	return nil
}

func (f *fakeRequestStore) GetByID(_ context.Context, id int64) (*model.AccessRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (f *fakeRequestStore) ListPending(_ context.Context) ([]*model.AccessRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.AccessRequest
	for _, req := range f.items {
		if req.Status == model.RequestStatusPending {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) ListPendingByGroups(_ context.Context, groupIDs []string) ([]*model.AccessRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	allowed := make(map[string]struct{}, len(groupIDs))
	for _, g := range groupIDs {
		allowed[g] = struct{}{}
	}
	var out []*model.AccessRequest
	for _, req := range f.items {
		if req.Status != model.RequestStatusPending {
			continue
		}
		if _, ok := allowed[req.GroupID]; ok {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) Resolve(_ context.Context, id int64, status, resolvedBy, note, groupID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.items[id]
	if !ok || req.Status != model.RequestStatusPending {
		return false, nil
	}
	now := time.Now()
	req.Status = status
	req.ResolvedAt = &now
	req.ResolvedBy = &resolvedBy
	req.ResolveNote = note
	req.GroupID = groupID
	return true, nil
}

func (f *fakeRequestStore) Delete(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

type fakeTokenStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[string]*model.InclusionToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{items: make(map[string]*model.InclusionToken)}
}

func (f *fakeTokenStore) Create(_ context.Context, t *model.InclusionToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t.ID = f.nextID
	t.CreatedAt = time.Now()
	cp := *t
	f.items[t.Token] = &cp
	return nil
}

func (f *fakeTokenStore) GetByToken(_ context.Context, token string) (*model.InclusionToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[token]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTokenStore) Deactivate(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.items {
		if t.ID == id {
			t.IsActive = false
		}
	}
	return nil
}

func (f *fakeTokenStore) DeactivateExpired(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var swept int64
	now := time.Now()
	for _, t := range f.items {
		if t.IsActive && t.ExpiresAt != nil && t.ExpiresAt.Before(now) {
			t.IsActive = false
			swept++
		}
	}
	return swept, nil
}
