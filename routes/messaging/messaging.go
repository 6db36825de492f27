package messaging

import (
	"HDTN/controllers"
	"HDTN/middleware"
	"HDTN/pkg/chat"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register registers chat routes (protected)
func Register(g *gin.RouterGroup, svc *chat.Service, db *gorm.DB, limiter *middleware.Limiter) {
	g.POST("/messages", limiter.RateLimit(), controllers.SendMessage(svc, db, limiter))
	g.GET("/conversations", controllers.ListConversations(svc))
	g.GET("/conversations/:id/messages", controllers.ConversationMessages(svc))
	g.POST("/conversations/:id/translate", controllers.TranslateConversation(svc))
	g.PUT("/language", controllers.SetLanguage(svc))
	g.GET("/languages", controllers.Languages())
}
