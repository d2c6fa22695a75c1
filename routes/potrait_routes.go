package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kuvagram/api-go/controllers"
	"github.com/kuvagram/api-go/guard"
)

func SetupPotraitRoutes(users *gin.RouterGroup, locator *guard.Locator, potraitController *controllers.PotraitController) {
	potrait := users.Group("/potrait")
	{
		potrait.GET("", locator.FindPotrait(), potraitController.GetPotrait)
		potrait.PUT("", guard.RequireOwner(), potraitController.PutPotrait)
		potrait.DELETE("", guard.RequireOwner(), locator.FindPotrait(), potraitController.DeletePotrait)
	}
}
