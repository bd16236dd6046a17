package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"badminton_board_backend/internal/metrics"
	"badminton_board_backend/internal/models"
	"badminton_board_backend/internal/repositories"
	"badminton_board_backend/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
	ErrTokenGeneration    = errors.New("failed to generate token")
	ErrSessionNotFound    = errors.New("session is not active")
)

// bcrypt only looks at the first 72 bytes of a password.
const maxPasswordBytes = 72

// AuthResponse DTO
type AuthResponse struct {
	User        *models.PublicProfile `json:"user"`
	AccessToken string                `json:"accessToken"`
	ExpiresAt   time.Time             `json:"expiresAt"`
}

// --- AuthService Interface ---
type AuthService interface {
	RegisterUser(ctx context.Context, req models.RegistrationPayload) (*AuthResponse, error)
	LoginUser(ctx context.Context, req models.Credentials) (*AuthResponse, error)
	GetUserProfile(ctx context.Context, userID string) (*models.PublicProfile, error)
	LogoutUser(ctx context.Context, userID string) error
	// Authenticate resolves a bearer token to the signed-in user. The token
	// must be valid and still match the user's active session.
	Authenticate(ctx context.Context, token string) (*models.PublicProfile, error)
}

// --- authService Implementation ---
type authService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	tokens      *utils.TokenManager
	metrics     *metrics.Metrics
	newID       func() string
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(ur repositories.UserRepository, sr repositories.SessionRepository, tokens *utils.TokenManager, m *metrics.Metrics) AuthService {
	return &authService{
		userRepo:    ur,
		sessionRepo: sr,
		tokens:      tokens,
		metrics:     m,
		newID:       uuid.NewString,
	}
}

// RegisterUser stores a new profile and signs it in.
func (s *authService) RegisterUser(ctx context.Context, req models.RegistrationPayload) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		s.metrics.AuthEvent("register", "password_mismatch")
		return nil, ErrPasswordMismatch
	}
	if len(req.Password) > maxPasswordBytes {
		s.metrics.AuthEvent("register", "invalid")
		return nil, ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.UserProfile{
		ID:           s.newID(),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hashed),
		FullName:     strings.TrimSpace(req.FullName),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			s.metrics.AuthEvent("register", "username_taken")
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	s.metrics.AuthEvent("register", "ok")
	utils.LogInfo("User registered", map[string]interface{}{"user_id": user.ID, "username": user.Username})

	return s.startSession(ctx, user)
}

// LoginUser checks the credentials and issues a fresh token. Signing in again
// replaces the user's previous session.
func (s *authService) LoginUser(ctx context.Context, req models.Credentials) (*AuthResponse, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.metrics.AuthEvent("login", "invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if !s.checkPassword(ctx, user, req.Password) {
		s.metrics.AuthEvent("login", "invalid_credentials")
		return nil, ErrInvalidCredentials
	}
	s.metrics.AuthEvent("login", "ok")
	return s.startSession(ctx, user)
}

// checkPassword verifies password against the stored hash. Accounts written
// by older clients carry a plaintext password; a successful login upgrades
// them to a bcrypt hash.
func (s *authService) checkPassword(ctx context.Context, user *models.UserProfile, password string) bool {
	if user.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
	}
	if user.LegacyPassword == "" || subtle.ConstantTimeCompare([]byte(user.LegacyPassword), []byte(password)) != 1 {
		return false
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.LogWarn("Could not hash legacy password", map[string]interface{}{"user_id": user.ID, "error": err.Error()})
		return true
	}
	user.PasswordHash = string(hashed)
	user.LegacyPassword = ""
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		utils.LogWarn("Could not upgrade legacy password", map[string]interface{}{"user_id": user.ID, "error": err.Error()})
	}
	return true
}

func (s *authService) startSession(ctx context.Context, user *models.UserProfile) (*AuthResponse, error) {
	token, claims, err := s.tokens.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	profile := user.Public()
	session := &models.Session{
		UserID:    user.ID,
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		Profile:   profile,
	}
	if err := s.sessionRepo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return &AuthResponse{User: profile, AccessToken: token, ExpiresAt: session.ExpiresAt}, nil
}

// GetUserProfile retrieves a user's profile by their ID.
func (s *authService) GetUserProfile(ctx context.Context, userID string) (*models.PublicProfile, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}
	return user.Public(), nil
}

// LogoutUser ends the user's session. Logging out twice is not an error.
func (s *authService) LogoutUser(ctx context.Context, userID string) error {
	if err := s.sessionRepo.DeleteSession(ctx, userID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	s.metrics.AuthEvent("logout", "ok")
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.PublicProfile, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	session, err := s.sessionRepo.GetSession(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrMalformedData) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.TokenID != claims.ID {
		return nil, ErrSessionNotFound
	}
	if session.Profile != nil {
		return session.Profile, nil
	}
	return s.GetUserProfile(ctx, claims.UserID)
}
