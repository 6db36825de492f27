package profile

import (
	"HDTN/controllers"
	"HDTN/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register registers protected profile routes on supplied router group
// expects the group to already have the auth middleware applied
func Register(g *gin.RouterGroup, db *gorm.DB, storage *services.AvatarStorage) {
	g.GET("/profile", controllers.Profile(db))
	g.PUT("/profile", controllers.Profile(db))
	g.POST("/profile/avatar", controllers.UploadAvatar(db, storage))
	g.GET("/profiles", controllers.ListProfiles(db))
	g.GET("/profiles/:id", controllers.GetProfile(db))
}
