package routes

import (
	"net/http"

	"HDTN/controllers"
	"HDTN/middleware"
	"HDTN/pkg/chat"
	"HDTN/pkg/services"
	"HDTN/pkg/tasks"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authRoutes "HDTN/routes/auth"
	chatRoutes "HDTN/routes/messaging"
	marketRoutes "HDTN/routes/marketplace"
	profileRoutes "HDTN/routes/profile"
	taskRoutes "HDTN/routes/taskboard"
	uploadsRoutes "HDTN/routes/uploads"
	websocketRoutes "HDTN/routes/websocket"
)

// Deps are the services the HTTP surface is built on.
type Deps struct {
	DB            *gorm.DB
	Auth          *middleware.Authenticator
	Limiter       *middleware.Limiter
	Chat          *chat.Service
	Tasks         *tasks.Service
	Gemini        *services.GeminiService
	Opportunities *services.OpportunityService
	Storage       *services.AvatarStorage
	Log           *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "HDTN backend running"})
	})
	r.GET("/assistant/health", controllers.AssistantHealth(d.Gemini))

	uploadsRoutes.Register(r, d.Storage.BasePath())
	websocketRoutes.Register(r, d.Chat, d.DB, d.Auth, d.Limiter, d.Log)
	authRoutes.RegisterPublic(r, d.DB, d.Auth)
	taskRoutes.Register(r, d.Tasks, d.Limiter, d.Log)
	marketRoutes.Register(r, d.Opportunities)

	protected := r.Group("/")
	protected.Use(d.Auth.Middleware())
	authRoutes.RegisterProtected(protected, d.Auth)
	profileRoutes.Register(protected, d.DB, d.Storage)
	chatRoutes.Register(protected, d.Chat, d.DB, d.Limiter)
}
