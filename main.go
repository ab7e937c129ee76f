package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"lizze-booking-server/config"
	"lizze-booking-server/database"
	"lizze-booking-server/middleware"
	"lizze-booking-server/routes"
	"lizze-booking-server/services"
	ws "lizze-booking-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Ensure the staff account exists
	seedStaffUser()

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Security headers and per-IP rate limiting
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	middleware.StartCleanup(10 * time.Minute)

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Lizze booking server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Admin feed hub for realtime booking events
	hub := ws.NewHub()
	go hub.Run()

	// Wire the booking workflow
	mailer := services.NewMailer(config.AppConfig.Mail)
	notifier := services.NewNotifier(mailer, config.AppConfig)

	var storage services.FileStorage
	cloudStorage, err := services.NewCloudinaryStorage(config.AppConfig.Cloudinary)
	if err != nil {
		log.Printf("⚠️ %v, uploads disabled", err)
		storage = services.UnconfiguredStorage{}
	} else {
		storage = cloudStorage
	}

	repo := database.NewBookingRepository(database.DB)
	bookingService := services.NewBookingService(repo, notifier, storage, hub, config.AppConfig)

	// Public booking endpoints
	routes.RegisterBookingRoutes(router, bookingService)

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		routes.RegisterAdminRoutes(apiV1, bookingService)

		feedHandler := ws.NewAdminFeedHandler(hub)
		apiV1.GET("/ws/admin", feedHandler.HandleAdminFeed)
	}

	port := config.AppConfig.Server.Port
	log.Printf("🚀 Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
