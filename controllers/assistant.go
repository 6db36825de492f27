package controllers

import (
	"net/http"

	"HDTN/pkg/services"

	"github.com/gin-gonic/gin"
)

// AssistantHealth handles GET /assistant/health
func AssistantHealth(gemini *services.GeminiService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "disabled"
		body := gin.H{"service": "gemini", "model": gemini.Model()}
		if gemini.Ready() {
			status = "enabled"
		} else {
			body["error"] = services.ConfigErrorText
		}
		body["status"] = status
		body["message"] = "Assistant and translation service status"
		c.JSON(http.StatusOK, body)
	}
}
