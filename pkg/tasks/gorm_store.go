package tasks

import (
	"context"
	"errors"
	"fmt"

	"HDTN/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps tasks and applications in a SQL database. The unique
// (user_id, task_id) index backs the at-most-once rule.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	var list []models.Task
	if err := s.db.WithContext(ctx).Order("id asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return list, nil
}

func (s *GormStore) GetTask(ctx context.Context, id string) (models.Task, error) {
	var t models.Task
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, fmt.Errorf("failed to find task: %w", err)
	}
	return t, nil
}

func (s *GormStore) SaveTask(ctx context.Context, task models.Task) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&task).Error
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (s *GormStore) CreateApplication(ctx context.Context, app models.Application) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Application{}).
			Where("user_id = ? AND task_id = ?", app.UserID, app.TaskID).
			Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check application: %w", err)
		}
		if n > 0 {
			return ErrAlreadyApplied
		}
		if err := tx.Create(&app).Error; err != nil {
			// a concurrent insert can still trip the unique index
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyApplied
			}
			return fmt.Errorf("failed to create application: %w", err)
		}
		return nil
	})
}

func (s *GormStore) ListApplications(ctx context.Context, userID string) ([]models.Application, error) {
	var list []models.Application
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("applied_at asc, id asc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return list, nil
}
