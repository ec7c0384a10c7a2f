package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"task-manager/internal/models"
)

// Memory keeps users and tasks in process. Nothing survives a restart.
type Memory struct {
	mu      sync.RWMutex
	tasks   map[uuid.UUID]models.Task
	users   map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		tasks:   make(map[uuid.UUID]models.Task),
		users:   make(map[uuid.UUID]models.User),
		byEmail: make(map[string]uuid.UUID),
		now:     storedNow,
	}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

func (m *Memory) ListTasks(_ context.Context, owner uuid.UUID) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]models.Task, 0)
	for _, t := range m.tasks {
		if t.UserID == owner {
			results = append(results, t)
		}
	}
	// Same order as the SQL backends: created_at DESC, id DESC.
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return results[i].ID.String() > results[j].ID.String()
	})
	return results, nil
}

func (m *Memory) CreateTask(_ context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	task.ID = uuid.New()
	task.CreatedAt = now
	task.UpdatedAt = now

	m.tasks[task.ID] = *task
	return nil
}

func (m *Memory) UpdateTask(_ context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.tasks[task.ID]
	if !ok || stored.UserID != task.UserID {
		return ErrNotFound
	}

	stored.Title = task.Title
	stored.Description = task.Description
	stored.Status = task.Status
	stored.UpdatedAt = m.now()
	m.tasks[task.ID] = stored

	*task = stored
	return nil
}

func (m *Memory) DeleteTask(_ context.Context, id, owner uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.tasks[id]
	if !ok || stored.UserID != owner {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[user.Email]; exists {
		return ErrEmailTaken
	}

	user.ID = uuid.New()
	user.CreatedAt = m.now()
	m.users[user.ID] = *user
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	user := m.users[id]
	return &user, nil
}
