package auth

import (
	"HDTN/controllers"
	"HDTN/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterPublic registers public auth routes: /register, /login
func RegisterPublic(r *gin.Engine, db *gorm.DB, authn *middleware.Authenticator) {
	r.POST("/register", controllers.Register(db))
	r.POST("/login", controllers.Login(db, authn))
}

// RegisterProtected registers protected auth routes (e.g. logout)
func RegisterProtected(g *gin.RouterGroup, authn *middleware.Authenticator) {
	g.POST("/logout", controllers.Logout(authn))
}
