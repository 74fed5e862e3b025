package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"

	"github.com/chirpnet/backend/internal/api/handlers"
	"github.com/chirpnet/backend/internal/api/middleware"
	"github.com/chirpnet/backend/internal/config"
	"github.com/chirpnet/backend/internal/database"
	"github.com/chirpnet/backend/internal/store"
)

func main() {
	// Load configuration
	config, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database connections
	db := database.InitDB(config)
	redisClient := database.InitRedis(config)

	// Setup and run the server
	r := setupRouter(db, redisClient, config)
	port := config.ServerPort

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func setupRouter(db *gorm.DB, redisClient *redis.Client, config *config.Config) *gin.Engine {
	r := gin.Default()

	// Configure CORS middleware
	headers := cors.DefaultConfig()
	headers.AllowOrigins = []string{config.FrontendURL}
	headers.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	headers.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	headers.ExposeHeaders = []string{"Content-Length"}
	headers.AllowCredentials = true
	r.Use(cors.New(headers))

	// Initialize handlers and middleware with dependencies
	sessionStore := sessions.NewCookieStore([]byte(config.SessionSecret))
	handler := handlers.NewHandler(db, redisClient, sessionStore, config)
	authMiddleware := middleware.NewAuthMiddleware(store.NewUserStore(db), sessionStore, config.JWTSecret)

	// Public routes
	r.GET("/", authMiddleware.LoadUser(), handler.Home)
	r.POST("/signup", handler.Signup)
	r.POST("/login", handler.Login)
	r.POST("/logout", handler.Logout)

	// User routes - protected by authentication
	users := r.Group("/users", authMiddleware.RequireUser())
	{
		users.GET("", handler.ListUsers)
		users.GET("/profile", handler.GetProfile)
		users.POST("/profile", handler.UpdateProfile)
		users.POST("/delete", handler.DeleteAccount)
		users.POST("/follow/:id", handler.FollowUser)
		users.POST("/stop-following/:id", handler.UnfollowUser)
		users.GET("/:id", handler.ShowUser)
		users.GET("/:id/following", handler.ShowFollowing)
		users.GET("/:id/followers", handler.ShowFollowers)
	}

	// Message routes - protected by authentication
	messages := r.Group("/messages", authMiddleware.RequireUser())
	{
		messages.POST("/new", handler.CreateMessage)
		messages.GET("/:id", handler.ShowMessage)
		messages.POST("/:id/delete", handler.DeleteMessage)
	}

	return r
}
