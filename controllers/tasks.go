package controllers

import (
	"errors"
	"net/http"

	"HDTN/pkg/tasks"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgMissingFields  = "User ID and Task ID are required."
	msgTaskNotFound   = "Task not found."
	msgAlreadyApplied = "You have already applied for this task."
	msgApplied        = "Successfully applied for the task."
)

// ListTasks handles GET /tasks.
func ListTasks(svc *tasks.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.Tasks(c.Request.Context())
		if err != nil {
			log.Error("list tasks", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load tasks."})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// ApplyForTask handles POST /apply {userId, taskId}.
func ApplyForTask(svc *tasks.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			UserID string `json:"userId"`
			TaskID string `json:"taskId"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msgMissingFields})
			return
		}

		_, err := svc.Apply(c.Request.Context(), body.UserID, body.TaskID)
		switch {
		case errors.Is(err, tasks.ErrMissingField):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msgMissingFields})
		case errors.Is(err, tasks.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": msgTaskNotFound})
		case errors.Is(err, tasks.ErrAlreadyApplied):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": msgAlreadyApplied})
		case err != nil:
			log.Error("apply", zap.String("user", body.UserID), zap.String("task", body.TaskID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to apply for the task."})
		default:
			c.JSON(http.StatusCreated, gin.H{"success": true, "message": msgApplied})
		}
	}
}

// Applications handles GET /applications/:userId.
func Applications(svc *tasks.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.AppliedTasks(c.Request.Context(), c.Param("userId"))
		if errors.Is(err, tasks.ErrMissingField) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User ID is required."})
			return
		}
		if err != nil {
			log.Error("list applications", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load applications."})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
