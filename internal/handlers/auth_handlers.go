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

// User-facing messages shown by the board's sign-in forms.
const (
	msgPasswordMismatch   = "Mật khẩu xác nhận không khớp"
	msgUsernameExists     = "Tên đăng nhập đã tồn tại"
	msgInvalidCredentials = "Tên đăng nhập hoặc mật khẩu không đúng"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// RegisterUser handles user registration. A successful registration also
// signs the user in.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req models.RegistrationPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "RegisterUser: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	authResp, err := h.authService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordMismatch):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, msgPasswordMismatch, err.Error()))
		case errors.Is(err, services.ErrPasswordTooLong):
			utils.RespondValidationFailed(c, err.Error())
		case errors.Is(err, services.ErrUsernameExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, msgUsernameExists, err.Error()))
		default:
			utils.LogError(err, "RegisterUser: Error from authService.RegisterUser")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to register user.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, authResp)
}

// LoginUser handles user login.
func (h *AuthHandler) LoginUser(c *gin.Context) {
	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "LoginUser: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	authResp, err := h.authService.LoginUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, msgInvalidCredentials, ""))
			return
		}
		utils.LogError(err, "LoginUser: Error from authService.LoginUser")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to login.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, authResp)
}

// GetCurrentUser retrieves the profile of the currently authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user in context"))
		return
	}

	profile, err := h.authService.GetUserProfile(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User profile not found.", err.Error()))
			return
		}
		utils.LogError(err, "GetCurrentUser: Error from authService.GetUserProfile for user "+user.ID)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve user profile.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, profile)
}

// LogoutUser ends the caller's session; the token stops working immediately.
func (h *AuthHandler) LogoutUser(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user in context"))
		return
	}

	if err := h.authService.LogoutUser(c.Request.Context(), user.ID); err != nil {
		utils.LogError(err, "LogoutUser: Error from authService.LogoutUser for user "+user.ID)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to logout.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
