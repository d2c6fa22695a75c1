package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kuvagram/api-go/config"
	"github.com/kuvagram/api-go/routes"
	"github.com/kuvagram/api-go/session"
	"github.com/kuvagram/api-go/storage"
	"github.com/kuvagram/api-go/validation"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load(".")

	db := config.InitDB(cfg)
	rdb := config.InitRedis(cfg)

	validation.Register()

	sessions := session.NewRedisStore(rdb, time.Duration(cfg.Session.TTLHours)*time.Hour)
	cookies := session.NewCookies(cfg.Session.CookieSecret)

	var blobs storage.Storage
	switch cfg.Storage.Driver {
	case "r2":
		blobs = storage.NewR2(cfg.Storage.R2)
	default:
		blobs = storage.NewDisk(cfg.Storage.Root, cfg.Storage.PublicURL)
	}

	r := gin.Default()

	routes.SetupRoutes(r, db, sessions, cookies, blobs, rdb)

	log.Printf("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal(err)
	}
}
