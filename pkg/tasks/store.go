package tasks

import (
	"context"
	"errors"
	"slices"
	"sync"

	"HDTN/models"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrAlreadyApplied = errors.New("already applied for this task")
	ErrMissingField   = errors.New("user id and task id are required")
)

// Store persists tasks and applications.
type Store interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	SaveTask(ctx context.Context, task models.Task) error
	// CreateApplication fails with ErrAlreadyApplied when the (user, task)
	// pair already exists.
	CreateApplication(ctx context.Context, app models.Application) error
	ListApplications(ctx context.Context, userID string) ([]models.Application, error)
}

// MemoryStore keeps everything in process memory; contents are lost on restart.
type MemoryStore struct {
	mu           sync.RWMutex
	tasks        []models.Task
	applications []models.Application
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ListTasks(_ context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks), nil
}

func (s *MemoryStore) GetTask(_ context.Context, id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
	if i < 0 {
		return models.Task{}, ErrTaskNotFound
	}
	return s.tasks[i], nil
}

// SaveTask inserts task or replaces the task with the same id.
func (s *MemoryStore) SaveTask(_ context.Context, task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == task.ID }); i >= 0 {
		s.tasks[i] = task
		return nil
	}
	s.tasks = append(s.tasks, task)
	return nil
}

func (s *MemoryStore) CreateApplication(_ context.Context, app models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.ContainsFunc(s.applications, func(a models.Application) bool {
		return a.UserID == app.UserID && a.TaskID == app.TaskID
	}) {
		return ErrAlreadyApplied
	}
	app.ID = uint(len(s.applications) + 1)
	s.applications = append(s.applications, app)
	return nil
}

func (s *MemoryStore) ListApplications(_ context.Context, userID string) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Application
	for _, a := range s.applications {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}
