// main.go
package main

import (
	"log"
	"os"
	"time"

	"readsprint/database"
	"readsprint/handlers"
	"readsprint/middleware"
	"readsprint/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Validate critical environment variables
	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Initialize cleanup service
	services.InitCleanupService()
	services.GetCleanupService().Start()
	defer func() {
		if cleanupService := services.GetCleanupService(); cleanupService != nil {
			cleanupService.Stop()
		}
	}()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.FiberRateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.FiberAuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/guest", handlers.GuestLogin)

	// Exercise routes
	exerciseGroup := api.Group("/exercises")
	exerciseGroup.Use(middleware.AuthMiddleware)
	exerciseGroup.Get("/", handlers.GetExercises)
	exerciseGroup.Post("/", handlers.CreateExercise)
	exerciseGroup.Get("/:id", handlers.GetExercise)
	exerciseGroup.Put("/:id", handlers.UpdateExercise)
	exerciseGroup.Delete("/:id", handlers.DeleteExercise)
	exerciseGroup.Get("/:id/attempt-status", handlers.GetAttemptStatus)

	// Submission route
	api.Post("/submit-progress", middleware.AuthMiddleware, handlers.SubmitProgress)

	// Daily challenge
	api.Get("/challenge/today", middleware.AuthMiddleware, handlers.GetTodayChallenge)

	// Ranking routes
	rankingGroup := api.Group("/ranking")
	rankingGroup.Use(middleware.AuthMiddleware)
	rankingGroup.Get("/leaderboard", handlers.GetLeaderboard)
	rankingGroup.Get("/leaderboard/friends", handlers.GetFriendsLeaderboard)
	rankingGroup.Get("/my-stats", handlers.GetMyStats)
	rankingGroup.Get("/history", handlers.GetProgressHistory)

	// User routes
	userGroup := api.Group("/user")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/status", handlers.GetUserStatus)
	userGroup.Get("/settings", handlers.GetSettings)
	userGroup.Put("/settings", handlers.UpdateSettings)
	userGroup.Get("/achievements", handlers.GetAchievements)

	// Social routes
	socialGroup := api.Group("/social")
	socialGroup.Use(middleware.AuthMiddleware)
	socialGroup.Post("/follow/:id", handlers.FollowUser)
	socialGroup.Delete("/follow/:id", handlers.UnfollowUser)
	socialGroup.Get("/following", handlers.GetFollowing)
	socialGroup.Get("/feed", handlers.GetFriendsFeed)

	// Notification routes
	notifGroup := api.Group("/notifications")
	notifGroup.Use(middleware.AuthMiddleware)
	notifGroup.Get("/", handlers.GetNotifications)
	notifGroup.Post("/read", handlers.MarkNotificationsRead)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
