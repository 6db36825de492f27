package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"HDTN/middleware"
	"HDTN/models"
	utils "HDTN/pkg/utills"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register handler
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Email           string `json:"email" binding:"required,email"`
			Username        string `json:"username" binding:"required"`
			Name            string `json:"name"`
			Password        string `json:"password" binding:"required"`
			ConfirmPassword string `json:"confirm_password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": bindError(err)})
			return
		}

		email := utils.NormalizeEmail(body.Email)
		username := strings.TrimSpace(body.Username)

		if body.Password != body.ConfirmPassword {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Passwords do not match"})
			return
		}
		if !utils.StrongPassword(body.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Password must be at least 6 characters with one letter and one number"})
			return
		}

		var exists models.User
		if err := db.Where("email = ? OR username = ?", email, username).First(&exists).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"msg": "Email or username already exists"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			return
		}

		name := strings.TrimSpace(body.Name)
		if name == "" {
			name = username
		}
		user := models.User{
			ParticipantID: models.NewParticipantID(),
			Email:         email,
			Username:      username,
			Name:          name,
		}
		if err := user.SetPassword(body.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to set password"})
			return
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to create user"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"msg": "User created", "id": user.ParticipantID, "username": user.Username, "email": user.Email})
	}
}

// Login handler
func Login(db *gorm.DB, auth *middleware.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Email and password are required"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", utils.NormalizeEmail(body.Email)).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid credentials"})
			return
		}
		if !user.CheckPassword(body.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid credentials"})
			return
		}

		tokenStr, err := auth.Issue(user.ParticipantID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to create token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"access_token": tokenStr, "username": user.Username, "id": user.ParticipantID})
	}
}

// Logout handler
func Logout(auth *middleware.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		jti := c.GetString(middleware.ContextJTIKey)
		exp, _ := c.Get(middleware.ContextExpKey)
		until, _ := exp.(time.Time)
		auth.Revoke(jti, until)
		c.JSON(http.StatusOK, gin.H{"msg": "logged out"})
	}
}
