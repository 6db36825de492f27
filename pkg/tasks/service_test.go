package tasks_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"HDTN/models"
	"HDTN/pkg/seed"
	"HDTN/pkg/store"
	"HDTN/pkg/tasks"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func stores(t *testing.T) map[string]func(t *testing.T) tasks.Store {
	return map[string]func(t *testing.T) tasks.Store{
		"memory": func(t *testing.T) tasks.Store { return tasks.NewMemoryStore() },
		"gorm": func(t *testing.T) tasks.Store {
			db, err := store.Open(store.Config{Type: "sqlite", DSN: filepath.Join(t.TempDir(), "tasks.db"), LogLevel: logger.Silent})
			require.NoError(t, err)
			return tasks.NewGormStore(db)
		},
	}
}

func newSeeded(t *testing.T, mk func(t *testing.T) tasks.Store) *tasks.Service {
	t.Helper()
	svc := tasks.NewService(mk(t), nil)
	require.NoError(t, svc.Seed(context.Background(), seed.Tasks()))
	return svc
}

func TestService(t *testing.T) {
	for name, mk := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("lists seeded tasks", func(t *testing.T) {
				req := require.New(t)
				svc := newSeeded(t, mk)
				list, err := svc.Tasks(context.Background())
				req.NoError(err)
				req.Len(list, 5)
				req.Equal("1", list[0].ID)
				req.Equal("Community Garden Helper", list[0].Title)
			})

			t.Run("seed is idempotent", func(t *testing.T) {
				req := require.New(t)
				svc := newSeeded(t, mk)
				req.NoError(svc.Seed(context.Background(), seed.Tasks()))
				list, err := svc.Tasks(context.Background())
				req.NoError(err)
				req.Len(list, 5)
			})

			t.Run("double apply", func(t *testing.T) {
				req := require.New(t)
				ctx := context.Background()
				svc := newSeeded(t, mk)

				app, err := svc.Apply(ctx, "user123", "2")
				req.NoError(err)
				req.False(app.AppliedAt.IsZero())

				_, err = svc.Apply(ctx, "user123", "2")
				req.ErrorIs(err, tasks.ErrAlreadyApplied)

				applied, err := svc.AppliedTasks(ctx, "user123")
				req.NoError(err)
				req.Len(applied, 1)
				req.Equal("Tech Meetup Volunteer", applied[0].Title)
				req.Equal(app.AppliedAt.Unix(), applied[0].AppliedAt.Unix())
			})

			t.Run("unknown task creates nothing", func(t *testing.T) {
				req := require.New(t)
				ctx := context.Background()
				svc := newSeeded(t, mk)

				_, err := svc.Apply(ctx, "user123", "99")
				req.ErrorIs(err, tasks.ErrTaskNotFound)

				applied, err := svc.AppliedTasks(ctx, "user123")
				req.NoError(err)
				req.Empty(applied)
			})

			t.Run("missing fields", func(t *testing.T) {
				req := require.New(t)
				svc := newSeeded(t, mk)
				_, err := svc.Apply(context.Background(), "", "1")
				req.ErrorIs(err, tasks.ErrMissingField)
				_, err = svc.Apply(context.Background(), "user123", "  ")
				req.ErrorIs(err, tasks.ErrMissingField)
			})

			t.Run("applications are per user", func(t *testing.T) {
				req := require.New(t)
				ctx := context.Background()
				svc := newSeeded(t, mk)

				_, err := svc.Apply(ctx, "user123", "1")
				req.NoError(err)
				_, err = svc.Apply(ctx, "user002", "1")
				req.NoError(err)
				_, err = svc.Apply(ctx, "user123", "3")
				req.NoError(err)

				mine, err := svc.AppliedTasks(ctx, "user123")
				req.NoError(err)
				req.Len(mine, 2)

				none, err := svc.AppliedTasks(ctx, "user999")
				req.NoError(err)
				req.Empty(none)
			})
		})
	}
}

func TestMemoryStore_ConcurrentApply(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	svc := newSeeded(t, func(*testing.T) tasks.Store { return tasks.NewMemoryStore() })

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, dupe int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Apply(ctx, "user123", "4")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if err == tasks.ErrAlreadyApplied {
				dupe++
			}
		}()
	}
	wg.Wait()
	req.Equal(1, ok)
	req.Equal(19, dupe)
}

func TestAppliedTasks_SkipsDanglingApplications(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	st := tasks.NewMemoryStore()
	req.NoError(st.CreateApplication(ctx, models.Application{UserID: "user123", TaskID: "gone"}))

	svc := tasks.NewService(st, nil)
	out, err := svc.AppliedTasks(ctx, "user123")
	req.NoError(err)
	req.Empty(out)
	req.NotNil(out)
}
