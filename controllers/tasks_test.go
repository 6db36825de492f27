package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"HDTN/models"
	"HDTN/pkg/seed"
	"HDTN/pkg/tasks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() { gin.SetMode(gin.TestMode) }

func newTaskRouter(t *testing.T) *gin.Engine {
	t.Helper()
	svc := tasks.NewService(tasks.NewMemoryStore(), nil)
	require.NoError(t, svc.Seed(context.Background(), seed.Tasks()))
	r := gin.New()
	r.GET("/tasks", ListTasks(svc, zap.NewNop()))
	r.POST("/apply", ApplyForTask(svc, zap.NewNop()))
	r.GET("/applications/:userId", Applications(svc, zap.NewNop()))
	return r
}

type applyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestTasks_List(t *testing.T) {
	req := require.New(t)
	w := doJSON(newTaskRouter(t), http.MethodGet, "/tasks", "")
	req.Equal(http.StatusOK, w.Code)

	var list []models.Task
	req.NoError(json.Unmarshal(w.Body.Bytes(), &list))
	req.Len(list, 5)
	req.Equal(51.505, list[0].Lat)
}

func TestTasks_Apply(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"missing user", `{"taskId":"1"}`, http.StatusBadRequest, "User ID and Task ID are required."},
		{"missing task", `{"userId":"user123","taskId":""}`, http.StatusBadRequest, "User ID and Task ID are required."},
		{"malformed", `{`, http.StatusBadRequest, "User ID and Task ID are required."},
		{"unknown task", `{"userId":"user123","taskId":"42"}`, http.StatusNotFound, "Task not found."},
		{"ok", `{"userId":"user123","taskId":"1"}`, http.StatusCreated, "Successfully applied for the task."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			w := doJSON(newTaskRouter(t), http.MethodPost, "/apply", tc.body)
			req.Equal(tc.status, w.Code)

			var resp applyResponse
			req.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
			req.Equal(tc.message, resp.Message)
			req.Equal(tc.status == http.StatusCreated, resp.Success)
		})
	}
}

func TestTasks_DoubleApply_And_Applications(t *testing.T) {
	req := require.New(t)
	r := newTaskRouter(t)

	first := doJSON(r, http.MethodPost, "/apply", `{"userId":"user123","taskId":"3"}`)
	req.Equal(http.StatusCreated, first.Code)
	second := doJSON(r, http.MethodPost, "/apply", `{"userId":"user123","taskId":"3"}`)
	req.Equal(http.StatusConflict, second.Code)
	req.Contains(second.Body.String(), "You have already applied for this task.")

	w := doJSON(r, http.MethodGet, "/applications/user123", "")
	req.Equal(http.StatusOK, w.Code)
	var list []map[string]any
	req.NoError(json.Unmarshal(w.Body.Bytes(), &list))
	req.Len(list, 1)
	req.Equal("3", list[0]["id"])
	req.Equal("Library Book Organizer", list[0]["title"])
	req.NotEmpty(list[0]["appliedAt"])

	w = doJSON(r, http.MethodGet, "/applications/nobody", "")
	req.Equal(http.StatusOK, w.Code)
	req.JSONEq(`[]`, w.Body.String())
}
