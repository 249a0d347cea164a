package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/rasel97/snapthread/backend/internal/handlers"
	"github.com/rasel97/snapthread/backend/internal/middleware"
	"github.com/rasel97/snapthread/backend/internal/models"
	"github.com/rasel97/snapthread/backend/internal/repositories"
	"github.com/rasel97/snapthread/backend/pkg/mailer"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// Repos bundles every repository the route tree depends on. Exposed so the
// scheduler can share the same instances.
type Repos struct {
	User         repositories.UserRepository
	Post         repositories.PostRepository
	Follow       repositories.FollowRepository
	SavedPost    repositories.SavedPostRepository
	Story        repositories.StoryRepository
	Notification repositories.NotificationRepository
	Hashtag      repositories.HashtagRepository
	OTP          repositories.OTPRepository
	Message      repositories.MessageRepository
}

// NewRepos constructs all repositories over the shared database handles
func NewRepos(pgdb *gorm.DB, mgClient *mongo.Client) *Repos {
	mongoDB := mgClient.Database("snapthread")
	return &Repos{
		User:         repositories.NewPostgresUserRepository(pgdb),
		Post:         repositories.NewMongoPostRepository(mongoDB),
		Follow:       repositories.NewPostgresFollowRepository(pgdb),
		SavedPost:    repositories.NewPostgresSavedPostRepository(pgdb),
		Story:        repositories.NewStoryRepository(mongoDB, pgdb),
		Notification: repositories.NewPostgresNotificationRepository(pgdb),
		Hashtag:      repositories.NewPostgresHashtagRepository(pgdb),
		OTP:          repositories.NewPostgresOTPRepository(pgdb),
		Message:      repositories.NewMongoMessageRepository(mongoDB),
	}
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, repos *Repos, firebaseAuthClient *auth.Client, m mailer.Mailer) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.FollowRequest{},
		&models.Follow{},
		&models.SavedPost{},
		&models.StorySeen{},
		&models.StoryReaction{},
		&models.Notification{},
		&models.HashtagFollow{},
		&models.EmailOTP{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(repos.User, repos.OTP, m, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(repos.User)
	userHandler.RegisterProfileRoutes(api)
	api.GET("/users/search", userHandler.SearchUsers)
	log.Println("User profile routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(repos.Post, repos.User, repos.SavedPost, repos.Notification)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Interaction routes (reactions, comments, replies)
	interactionHandler := handlers.NewInteractionHandler(repos.Post, repos.User, repos.Notification)
	interactionHandler.RegisterInteractionRoutes(api)
	log.Println("Interaction routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(repos.Post, repos.User, repos.Follow, repos.Hashtag, repos.SavedPost)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(repos.Follow, repos.User, repos.Notification)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Hashtag routes
	hashtagHandler := handlers.NewHashtagHandler(repos.Hashtag, repos.Post)
	hashtagHandler.RegisterHashtagRoutes(api)
	log.Println("Hashtag routes configured.")

	// Saved post routes
	savedPostHandler := handlers.NewSavedPostHandler(repos.SavedPost, repos.Post)
	savedPostHandler.RegisterSavedPostRoutes(api)
	log.Println("Saved post routes configured.")

	// Story routes
	storyHandler := handlers.NewStoryHandler(repos.Story, repos.User)
	storyHandler.RegisterStoryRoutes(api)
	log.Println("Story routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(repos.Notification)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Messaging routes
	messageHandler := handlers.NewMessageHandler(repos.Message, repos.User)
	messageHandler.RegisterMessageRoutes(api)
	log.Println("Messaging routes configured.")

	log.Println("All routes configured.")
}
