package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sachinsingh018/networkqy/config"
	"github.com/sachinsingh018/networkqy/middlewares"
	"github.com/sachinsingh018/networkqy/models"
	"github.com/sachinsingh018/networkqy/relay"
	"github.com/sachinsingh018/networkqy/router"
	"github.com/sachinsingh018/networkqy/services"
	"github.com/sachinsingh018/networkqy/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InfoLogger = logrus.New()
	utils.ErrorLogger = logrus.New()

	utils.InfoLogger.SetOutput(os.Stdout)
	utils.ErrorLogger.SetOutput(os.Stderr)

	utils.InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
	utils.ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Best-effort email worker; failures never reach request handlers.
	mailer := services.NewMailer(cfg)
	mailer.Start()
	defer mailer.Stop()

	// The relay hub is built here and injected, never accessed as a
	// package global.
	hub := relay.NewHub()

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db, hub, mailer)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Connection{},
		&models.Message{},
		&models.Notification{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
		&models.Job{},
		&models.JobApplication{},
		&models.CalendarBlock{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
