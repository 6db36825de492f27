package websocket

import (
	"HDTN/controllers"
	"HDTN/middleware"
	"HDTN/pkg/chat"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Register(r *gin.Engine, svc *chat.Service, db *gorm.DB, authn *middleware.Authenticator, limiter *middleware.Limiter, log *zap.Logger) {
	r.GET("/ws/chat", limiter.RateLimit(), controllers.ChatWS(svc, db, authn, limiter, log))
}
