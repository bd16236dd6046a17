package handlers

import (
	"errors"
	"net/http"

	"badminton_board_backend/internal/middleware"
	"badminton_board_backend/internal/models"
	"badminton_board_backend/internal/services"
	"badminton_board_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SignInPath is where anonymous users are sent when an action needs an account.
const SignInPath = "/api/v1/auth/login"

// PostHandler holds the post service.
type PostHandler struct {
	postService services.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(ps services.PostService) *PostHandler {
	return &PostHandler{postService: ps}
}

// GetPosts lists the board, narrowed by the filter query parameters
// location, date, level, gender and maxCost.
func (h *PostHandler) GetPosts(c *gin.Context) {
	var spec models.FilterSpec
	if err := c.ShouldBindQuery(&spec); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if !models.IsValidGender(spec.Gender) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid gender value.", "gender: "+spec.Gender))
		return
	}
	if spec.Level != "" && !models.IsValidSkillLevel(spec.Level) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid level value.", "level: "+spec.Level))
		return
	}

	posts, err := h.postService.ListPosts(c.Request.Context(), spec)
	if err != nil {
		utils.LogError(err, "GetPosts: Error from postService.ListPosts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch posts.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  posts,
		"total": len(posts),
	})
}

// GetPostByID handles fetching a single post by ID.
func (h *PostHandler) GetPostByID(c *gin.Context) {
	postID := c.Param("id")
	post, err := h.postService.GetPost(c.Request.Context(), postID)
	if err != nil {
		h.respondPostError(c, err, "GetPostByID", "Failed to fetch post.")
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost publishes a new post owned by the caller. Anonymous callers are
// pointed at the sign-in route.
func (h *PostHandler) CreatePost(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondSignInRequired(c)
		return
	}

	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreatePost: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), user, req)
	if err != nil {
		h.respondPostError(c, err, "CreatePost", "Failed to create post.")
		return
	}
	c.JSON(http.StatusCreated, post)
}

// TogglePostStatus switches a post between open and full.
func (h *PostHandler) TogglePostStatus(c *gin.Context) {
	postID := c.Param("id")
	post, err := h.postService.TogglePostStatus(c.Request.Context(), middleware.CurrentUser(c), postID)
	if err != nil {
		h.respondPostError(c, err, "TogglePostStatus", "Failed to update post status.")
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost removes a post. The caller must confirm with ?confirm=true;
// without it nothing is removed.
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID := c.Param("id")
	confirmed := utils.ParseBool(c.Query("confirm"))

	if err := h.postService.DeletePost(c.Request.Context(), middleware.CurrentUser(c), postID, confirmed); err != nil {
		h.respondPostError(c, err, "DeletePost", "Failed to delete post.")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMyPosts lists the posts created by the signed-in user.
func (h *PostHandler) GetMyPosts(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondSignInRequired(c)
		return
	}

	posts, err := h.postService.ListPostsByCreator(c.Request.Context(), user.ID)
	if err != nil {
		utils.LogError(err, "GetMyPosts: Error from postService.ListPostsByCreator")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch posts.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  posts,
		"total": len(posts),
	})
}

func (h *PostHandler) respondPostError(c *gin.Context, err error, op, fallback string) {
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Post not found.", c.Param("id")))
	case errors.Is(err, services.ErrPostValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid post data.", err.Error()))
	case errors.Is(err, services.ErrPostForbidden):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Only the creator may modify this post.", ""))
	case errors.Is(err, services.ErrDeleteNotConfirmed):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConfirmationRequired, "Bạn có chắc muốn xóa tin này?", "Repeat the request with confirm=true"))
	case errors.Is(err, services.ErrSignInRequired):
		respondSignInRequired(c)
	default:
		utils.LogError(err, op+": Error from postService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}

func respondSignInRequired(c *gin.Context) {
	c.Header("Location", SignInPath)
	utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeSignInRequired, "Sign in to post.", SignInPath))
}
