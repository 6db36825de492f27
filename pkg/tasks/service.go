package tasks

import (
	"context"
	"errors"
	"strings"
	"time"

	"HDTN/models"

	"go.uber.org/zap"
)

// Service implements the task board: listing tasks, applying for one and
// listing what a user applied for.
type Service struct {
	store Store
	now   func() time.Time
	log   *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, now: time.Now, log: logger.Named("tasks")}
}

func (s *Service) Tasks(ctx context.Context) ([]models.Task, error) {
	list, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Task{}
	}
	return list, nil
}

// Apply records that userID applied for taskID. It fails with
// ErrMissingField, ErrTaskNotFound or ErrAlreadyApplied; nothing is stored
// on failure.
func (s *Service) Apply(ctx context.Context, userID, taskID string) (models.Application, error) {
	userID, taskID = strings.TrimSpace(userID), strings.TrimSpace(taskID)
	if userID == "" || taskID == "" {
		return models.Application{}, ErrMissingField
	}
	if _, err := s.store.GetTask(ctx, taskID); err != nil {
		return models.Application{}, err
	}
	app := models.Application{UserID: userID, TaskID: taskID, AppliedAt: s.now().UTC()}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		return models.Application{}, err
	}
	s.log.Info("applied", zap.String("user", userID), zap.String("task", taskID))
	return app, nil
}

// AppliedTasks lists the tasks userID applied for with their application
// time. Applications whose task no longer exists are skipped.
func (s *Service) AppliedTasks(ctx context.Context, userID string) ([]models.AppliedTask, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingField
	}
	apps, err := s.store.ListApplications(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.AppliedTask, 0, len(apps))
	for _, a := range apps {
		t, err := s.store.GetTask(ctx, a.TaskID)
		if errors.Is(err, ErrTaskNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, models.AppliedTask{Task: t, AppliedAt: a.AppliedAt})
	}
	return out, nil
}

// Seed saves each task, replacing existing tasks with the same id.
func (s *Service) Seed(ctx context.Context, list []models.Task) error {
	for _, t := range list {
		if err := s.store.SaveTask(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
