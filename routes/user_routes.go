package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kuvagram/api-go/controllers"
	"github.com/kuvagram/api-go/guard"
)

func SetupUserRoutes(users *gin.RouterGroup, userController *controllers.UserController) {
	users.GET("", userController.GetUser)
	users.DELETE("", guard.RequireOwner(), userController.DeleteUser)
}
