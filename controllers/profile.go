package controllers

import (
	"errors"
	"net/http"
	"strings"

	"HDTN/middleware"
	"HDTN/models"
	"HDTN/pkg/services"
	utils "HDTN/pkg/utills"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func currentUserRecord(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	var user models.User
	if err := db.Where("participant_id = ?", middleware.CurrentUser(c)).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
		return nil, false
	}
	return &user, true
}

type profileResponse struct {
	models.Profile
	Email    string `json:"email"`
	Username string `json:"username"`
}

func Profile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUserRecord(c, db)
		if !ok {
			return
		}

		if c.Request.Method == http.MethodGet {
			c.JSON(http.StatusOK, profileResponse{Profile: user.Profile(), Email: user.Email, Username: user.Username})
			return
		}

		// PUT
		var body struct {
			Email     string             `json:"email" binding:"omitempty,email"`
			Username  string             `json:"username"`
			Password  string             `json:"password"`
			Name      *string            `json:"name"`
			Bio       *string            `json:"bio"`
			Skills    []string           `json:"skills"`
			Education []models.Education `json:"education"`
			Location  *[2]float64        `json:"location"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": bindError(err)})
			return
		}

		newEmail := utils.NormalizeEmail(body.Email)
		if newEmail == "" {
			newEmail = user.Email
		}
		newUsername := strings.TrimSpace(body.Username)
		if newUsername == "" {
			newUsername = user.Username
		}

		// check email uniqueness
		if newEmail != user.Email {
			var t models.User
			if err := db.Where("email = ?", newEmail).First(&t).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{"msg": "Email already exists"})
				return
			}
		}
		// check username uniqueness
		if newUsername != user.Username {
			var t models.User
			if err := db.Where("username = ?", newUsername).First(&t).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{"msg": "Username already exists"})
				return
			}
		}

		user.Email = newEmail
		user.Username = newUsername
		if body.Name != nil {
			user.Name = strings.TrimSpace(*body.Name)
		}
		if body.Bio != nil {
			user.Bio = strings.TrimSpace(*body.Bio)
		}
		if body.Skills != nil {
			user.Skills = lo.Uniq(lo.Compact(lo.Map(body.Skills, func(s string, _ int) string { return strings.TrimSpace(s) })))
		}
		if body.Education != nil {
			user.Education = body.Education
		}
		if body.Location != nil {
			user.Lat, user.Lng = body.Location[0], body.Location[1]
		}
		if body.Password != "" {
			if !utils.StrongPassword(body.Password) {
				c.JSON(http.StatusBadRequest, gin.H{"msg": "New password must be at least 6 characters with one letter and one number"})
				return
			}
			if err := user.SetPassword(body.Password); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to set password"})
				return
			}
		}
		if err := db.Save(user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to update profile"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"msg": "Profile updated successfully", "profile": user.Profile()})
	}
}

// ListProfiles returns every public profile, optionally filtered by ?skill=.
func ListProfiles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("id asc").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			return
		}
		skill := strings.TrimSpace(c.Query("skill"))
		if skill != "" {
			users = lo.Filter(users, func(u models.User, _ int) bool {
				return lo.ContainsBy(u.Skills, func(s string) bool { return strings.EqualFold(s, skill) })
			})
		}
		c.JSON(http.StatusOK, lo.Map(users, func(u models.User, _ int) models.Profile { return u.Profile() }))
	}
}

func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.Where("participant_id = ?", c.Param("id")).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user.Profile())
	}
}

// UploadAvatar stores a multipart "avatar" image and points the profile at it.
func UploadAvatar(db *gorm.DB, storage *services.AvatarStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUserRecord(c, db)
		if !ok {
			return
		}
		file, header, err := c.Request.FormFile("avatar")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "avatar file is required"})
			return
		}
		defer file.Close()
		if header.Size > services.MaxAvatarSize {
			c.JSON(http.StatusBadRequest, gin.H{"msg": services.ErrImageTooLarge.Error()})
			return
		}

		saved, err := storage.SaveAvatar(user.ParticipantID, file)
		if errors.Is(err, services.ErrInvalidImageType) || errors.Is(err, services.ErrImageTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error(), "allowed": services.AllowedImageExtensions()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to save image"})
			return
		}

		previous := user.AvatarURL
		user.AvatarURL = saved.PublicURL
		if err := db.Save(user).Error; err != nil {
			_ = storage.DeleteImage(saved.FilePath)
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to update profile"})
			return
		}
		if rel, ok := storage.LocalPath(previous); ok {
			_ = storage.DeleteImage(rel)
		}

		c.JSON(http.StatusOK, gin.H{"msg": "Avatar updated", "avatarUrl": saved.PublicURL, "image": saved})
	}
}
