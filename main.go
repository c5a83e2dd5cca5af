package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/deniortyann66-art/vite-et-gourmand/config"
	"github.com/deniortyann66-art/vite-et-gourmand/models"
	"github.com/deniortyann66-art/vite-et-gourmand/router"
	"github.com/deniortyann66-art/vite-et-gourmand/services"
	"github.com/deniortyann66-art/vite-et-gourmand/utils"
)

func main() {
	// Load .env before anything reads the environment.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	mailer := services.NewMailer(services.MailerConfig{
		Host:      os.Getenv("SMTP_HOST"),
		Port:      config.SMTPPort(),
		Username:  os.Getenv("SMTP_USERNAME"),
		Password:  os.Getenv("SMTP_PASSWORD"),
		From:      os.Getenv("MAIL_FROM"),
		PublicURL: os.Getenv("PUBLIC_URL"),
	})
	mailer.Start()
	defer mailer.Stop()

	orders := services.NewOrderService(db, mailer)
	reviews := services.NewReviewService(db)

	r := router.SetupRouter(db, orders, reviews)
	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Allergen{},
		&models.Dish{},
		&models.Menu{},
		&models.Order{},
		&models.OrderStatusHistory{},
		&models.Review{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
