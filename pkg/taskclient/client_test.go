package taskclient_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"HDTN/controllers"
	"HDTN/pkg/seed"
	"HDTN/pkg/taskclient"
	"HDTN/pkg/tasks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := tasks.NewService(tasks.NewMemoryStore(), nil)
	require.NoError(t, svc.Seed(context.Background(), seed.Tasks()))

	r := gin.New()
	r.GET("/tasks", controllers.ListTasks(svc, zap.NewNop()))
	r.POST("/apply", controllers.ApplyForTask(svc, zap.NewNop()))
	r.GET("/applications/:userId", controllers.Applications(svc, zap.NewNop()))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_RoundTrip(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	c := taskclient.New(newServer(t).URL + "/")

	list, err := c.ListTasks(ctx)
	req.NoError(err)
	req.Len(list, 5)

	res, err := c.Apply(ctx, "user123", "5")
	req.NoError(err)
	req.True(res.Success)
	req.Equal("Successfully applied for the task.", res.Message)

	_, err = c.Apply(ctx, "user123", "5")
	req.ErrorIs(err, taskclient.ErrConflict)
	var apiErr *taskclient.APIError
	req.ErrorAs(err, &apiErr)
	req.Equal("You have already applied for this task.", apiErr.Message)

	_, err = c.Apply(ctx, "user123", "77")
	req.ErrorIs(err, taskclient.ErrNotFound)
	req.NotErrorIs(err, taskclient.ErrConflict)

	_, err = c.Apply(ctx, "", "1")
	req.ErrorIs(err, taskclient.ErrBadRequest)

	applied, err := c.Applications(ctx, "user123")
	req.NoError(err)
	req.Len(applied, 1)
	req.Equal("Frontend Feedback Session", applied[0].Title)
	req.False(applied[0].AppliedAt.IsZero())
}
