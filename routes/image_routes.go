package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kuvagram/api-go/controllers"
	"github.com/kuvagram/api-go/guard"
)

func SetupImageRoutes(users *gin.RouterGroup, locator *guard.Locator, imageController *controllers.ImageController) {
	images := users.Group("/images")
	{
		images.GET("", imageController.ListImages)
		images.POST("", guard.RequireOwner(), imageController.CreateImage)
		images.GET("/:imageId", locator.FindImage(), guard.RequireImageViewable(), imageController.GetImage)
		images.PUT("/:imageId", locator.FindImage(), guard.RequireOwner(), imageController.UpdateImage)
		images.DELETE("/:imageId", locator.FindImage(), guard.RequireOwner(), imageController.DeleteImage)
	}
}
