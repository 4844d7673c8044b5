package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"role-catalog/domain"
)

// MemoryRoleStore keeps job roles in-process. Ids come from a counter that is
// never rewound, so a deleted id is not handed out again.
type MemoryRoleStore struct {
	mu     sync.RWMutex
	roles  map[uint]domain.JobRole
	nextID uint
	now    func() time.Time
}

func NewMemoryRoleStore() *MemoryRoleStore {
	return &MemoryRoleStore{
		roles: make(map[uint]domain.JobRole),
		now:   time.Now,
	}
}

// SetClock overrides the time source used for lifecycle timestamps.
func (m *MemoryRoleStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryRoleStore) Create(_ context.Context, f domain.RoleFields) (domain.JobRole, error) {
	if err := f.Validate(); err != nil {
		return domain.JobRole{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	role := domain.NewJobRole(f, m.now())
	m.nextID++
	role.ID = m.nextID
	m.roles[role.ID] = role
	return role, nil
}

func (m *MemoryRoleStore) Get(_ context.Context, id uint) (domain.JobRole, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	role, ok := m.roles[id]
	if !ok {
		return domain.JobRole{}, domain.ErrNotFound
	}
	return role, nil
}

func (m *MemoryRoleStore) List(ctx context.Context) ([]domain.JobRole, error) {
	return m.Find(ctx, domain.RoleQuery{})
}

func (m *MemoryRoleStore) Update(_ context.Context, id uint, f domain.RoleFields) (domain.JobRole, error) {
	if err := f.Validate(); err != nil {
		return domain.JobRole{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[id]
	if !ok {
		return domain.JobRole{}, domain.ErrNotFound
	}
	role.Apply(f)
	domain.StampUpdated(&role, m.now())
	m.roles[id] = role
	return role, nil
}

func (m *MemoryRoleStore) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.roles, id)
	return nil
}

func (m *MemoryRoleStore) Exists(_ context.Context, id uint) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.roles[id]
	return ok, nil
}

// Find returns matching roles ordered by id, or by title then id.
func (m *MemoryRoleStore) Find(_ context.Context, q domain.RoleQuery) ([]domain.JobRole, error) {
	m.mu.RLock()
	res := make([]domain.JobRole, 0, len(m.roles))
	for _, role := range m.roles {
		if q.Matches(role) {
			res = append(res, role)
		}
	}
	m.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool {
		if q.SortByTitle && res[i].Title != res[j].Title {
			return res[i].Title < res[j].Title
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (m *MemoryRoleStore) Count(_ context.Context, q domain.RoleQuery) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, role := range m.roles {
		if q.Matches(role) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRoleStore) Ping(context.Context) error {
	return nil
}
