package taskboard

import (
	"HDTN/controllers"
	"HDTN/middleware"
	"HDTN/pkg/tasks"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Register registers the public task board routes.
func Register(r gin.IRouter, svc *tasks.Service, limiter *middleware.Limiter, log *zap.Logger) {
	r.GET("/tasks", controllers.ListTasks(svc, log))
	r.POST("/apply", limiter.RateLimit(), controllers.ApplyForTask(svc, log))
	r.GET("/applications/:userId", controllers.Applications(svc, log))
}
