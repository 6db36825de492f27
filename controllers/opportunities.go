package controllers

import (
	"errors"
	"net/http"

	"HDTN/models"
	"HDTN/pkg/services"

	"github.com/gin-gonic/gin"
)

type OpportunityController struct {
	svc *services.OpportunityService
}

func NewOpportunityController(svc *services.OpportunityService) *OpportunityController {
	return &OpportunityController{svc: svc}
}

// List handles GET /opportunities?type=&tag=&q=&offeredBy=
func (ctrl *OpportunityController) List(c *gin.Context) {
	items := ctrl.svc.Search(models.OpportunitySearchCriteria{
		Type:      c.Query("type"),
		Tag:       c.Query("tag"),
		Query:     c.Query("q"),
		OfferedBy: c.Query("offeredBy"),
	})
	if items == nil {
		items = []models.Opportunity{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"total":   len(items),
		"message": "Opportunities retrieved successfully",
	})
}

// Get handles GET /opportunities/:id
func (ctrl *OpportunityController) Get(c *gin.Context) {
	item, err := ctrl.svc.Get(c.Param("id"))
	if errors.Is(err, services.ErrOpportunityNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Opportunity not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": item})
}

// Categories handles GET /opportunities/categories
func (ctrl *OpportunityController) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ctrl.svc.Categories(),
		"tags":    ctrl.svc.Tags(),
	})
}
