package router

import (
	"badminton_board_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler, requireAuth gin.HandlerFunc) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterUser)
		authRoutes.POST("/login", authHandler.LoginUser)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(requireAuth)
		{
			authRequiredRoutes.POST("/logout", authHandler.LogoutUser)
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
		}
	}
}

// SetupPostRoutes sets up the board routes. Reading is public. Mutations run
// behind optionalAuth: the handler answers anonymous creates with a sign-in
// redirect, and legacy posts may be toggled or deleted without an account.
func SetupPostRoutes(apiGroup *gin.RouterGroup, postHandler *handlers.PostHandler, optionalAuth gin.HandlerFunc) {
	postRoutes := apiGroup.Group("/posts")
	{
		postRoutes.GET("", postHandler.GetPosts)
		postRoutes.GET("/:id", postHandler.GetPostByID)
		postRoutes.POST("", optionalAuth, postHandler.CreatePost)
		postRoutes.PATCH("/:id/status", optionalAuth, postHandler.TogglePostStatus)
		postRoutes.DELETE("/:id", optionalAuth, postHandler.DeletePost)
	}
}
