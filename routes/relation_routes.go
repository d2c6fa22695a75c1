package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kuvagram/api-go/controllers"
	"github.com/kuvagram/api-go/guard"
)

func SetupRelationRoutes(users *gin.RouterGroup, locator *guard.Locator, relationController *controllers.RelationController) {
	relations := users.Group("/relations")
	relations.Use(guard.RequireOwner())
	{
		relations.GET("", relationController.ListRelations)
		relations.POST("", relationController.CreateRelation)
		relations.DELETE("/:relationId", locator.FindRelation(), relationController.DeleteRelation)
	}
}
