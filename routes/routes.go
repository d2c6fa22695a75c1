package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/kuvagram/api-go/controllers"
	"github.com/kuvagram/api-go/guard"
	"github.com/kuvagram/api-go/middleware"
	"github.com/kuvagram/api-go/session"
	"github.com/kuvagram/api-go/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// SetupRoutes declares every route with its ordered guard chain. The chains
// are the authorization policy: locators first, then the disabled gate,
// then the per-action policy guard. rdb may be nil, which disables the
// login rate limiter (tests, local development without redis).
func SetupRoutes(r *gin.Engine, db *gorm.DB, sessions session.Store, cookies *session.Cookies, blobs storage.Storage, rdb *redis.Client) {
	resolver := &guard.Resolver{DB: db, Store: sessions, Cookies: cookies}
	locator := &guard.Locator{DB: db}

	authController := controllers.NewAuthController(db, sessions, cookies)
	userController := controllers.NewUserController(db, blobs, sessions, cookies)
	imageController := controllers.NewImageController(db, blobs)
	potraitController := controllers.NewPotraitController(db, blobs)
	relationController := controllers.NewRelationController(db)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(resolver.ResolveViewer())

	api.POST("/register", authController.Register)
	if rdb != nil {
		api.POST("/login", middleware.LoginRateLimiter(rdb, 10, time.Minute), authController.Login)
	} else {
		api.POST("/login", authController.Login)
	}
	api.POST("/logout", guard.RequireViewer(), authController.Logout)

	users := api.Group("/users/:username")
	users.Use(locator.FindUser(), guard.CheckUserEnabled())

	SetupUserRoutes(users, userController)
	SetupImageRoutes(users, locator, imageController)
	SetupPotraitRoutes(users, locator, potraitController)
	SetupRelationRoutes(users, locator, relationController)
}
