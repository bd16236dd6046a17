package router

import (
	"badminton_board_backend/internal/handlers"
	"badminton_board_backend/internal/metrics"
	"badminton_board_backend/internal/middleware"
	"badminton_board_backend/internal/repositories"
	"badminton_board_backend/internal/services"
	"badminton_board_backend/internal/store"
	"badminton_board_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, kv store.KVStore, tokens *utils.TokenManager, m *metrics.Metrics) {
	// Initialize Repositories
	postRepo := repositories.NewPostRepository(kv, m)
	userRepo := repositories.NewUserRepository(kv)
	sessionRepo := repositories.NewSessionRepository(kv)

	// Initialize Services
	authService := services.NewAuthService(userRepo, sessionRepo, tokens, m)
	postService := services.NewPostService(postRepo, m)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	postHandler := handlers.NewPostHandler(postService)

	requireAuth := middleware.AuthMiddleware(authService)
	optionalAuth := middleware.OptionalAuthMiddleware(authService)

	apiV1 := engine.Group("/api/v1")
	apiV1.GET("/skill-levels", handlers.GetSkillLevels)

	SetupAuthRoutes(apiV1, authHandler, requireAuth)
	SetupPostRoutes(apiV1, postHandler, optionalAuth)

	authenticated := apiV1.Group("/me")
	authenticated.Use(requireAuth)
	{
		authenticated.GET("/posts", postHandler.GetMyPosts)
	}
}
