package marketplace

import (
	"HDTN/controllers"
	"HDTN/pkg/services"

	"github.com/gin-gonic/gin"
)

func Register(r gin.IRouter, svc *services.OpportunityService) {
	ctrl := controllers.NewOpportunityController(svc)

	g := r.Group("/opportunities")
	{
		g.GET("", ctrl.List)
		g.GET("/categories", ctrl.Categories)
		g.GET("/:id", ctrl.Get)
	}
}
