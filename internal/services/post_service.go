package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"badminton_board_backend/internal/board"
	"badminton_board_backend/internal/matching"
	"badminton_board_backend/internal/metrics"
	"badminton_board_backend/internal/models"
	"badminton_board_backend/internal/repositories"
	"badminton_board_backend/pkg/utils"

	"github.com/google/uuid"
)

// --- Custom Service Errors for Posts ---
var (
	ErrPostNotFound         = errors.New("post not found")
	ErrPostValidation       = errors.New("post data validation error")
	ErrSignInRequired       = errors.New("sign-in required to create a post")
	ErrPostForbidden        = errors.New("only the creator may modify this post")
	ErrDeleteNotConfirmed   = errors.New("post deletion was not confirmed")
	ErrPostStorageFailure   = errors.New("post storage failure")
	errUnexpectedBoardState = errors.New("unexpected board state")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	maxSlots = math.MaxInt32
)

// --- Post DTOs ---

// PlayerRequirementInput is the per-gender part of a create request. Slots
// and cost are accepted as numbers or numeric strings; anything else is 0.
type PlayerRequirementInput struct {
	Slots    utils.FlexibleNumber `json:"slots"`
	MinLevel string               `json:"minLevel"`
	MaxLevel string               `json:"maxLevel"`
	Cost     utils.FlexibleNumber `json:"cost"`
}

type CreatePostRequest struct {
	CourtName    string                 `json:"courtName" binding:"required"`
	Address      string                 `json:"address"`
	ContactName  string                 `json:"contactName"`
	ContactPhone string                 `json:"contactPhone"`
	Date         string                 `json:"date" binding:"required"`
	StartTime    string                 `json:"startTime"`
	EndTime      string                 `json:"endTime"`
	Male         PlayerRequirementInput `json:"male"`
	Female       PlayerRequirementInput `json:"female"`
	Notes        string                 `json:"notes"`
}

// --- PostService Interface ---
type PostService interface {
	ListPosts(ctx context.Context, spec models.FilterSpec) ([]models.Post, error)
	ListPostsByCreator(ctx context.Context, userID string) ([]models.Post, error)
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	CreatePost(ctx context.Context, user *models.PublicProfile, req CreatePostRequest) (*models.Post, error)
	TogglePostStatus(ctx context.Context, user *models.PublicProfile, postID string) (*models.Post, error)
	DeletePost(ctx context.Context, user *models.PublicProfile, postID string, confirmed bool) error
}

// --- postService Implementation ---
type postService struct {
	postRepo repositories.PostRepository
	metrics  *metrics.Metrics

	// mu serialises load-reduce-save so concurrent requests never lose updates.
	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

// NewPostService creates a new instance of PostService.
func NewPostService(pr repositories.PostRepository, m *metrics.Metrics) PostService {
	return &postService{
		postRepo: pr,
		metrics:  m,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// snapshot loads the list under mu. A first read seeds and writes the store,
// so reads must not interleave with apply.
func (s *postService) snapshot(ctx context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// load must be called with mu held.
func (s *postService) load(ctx context.Context) ([]models.Post, error) {
	posts, err := s.postRepo.LoadPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPostStorageFailure, err)
	}
	return posts, nil
}

// ListPosts returns the posts matching spec in board order.
func (s *postService) ListPosts(ctx context.Context, spec models.FilterSpec) ([]models.Post, error) {
	posts, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return matching.Filter(posts, spec), nil
}

// ListPostsByCreator returns the posts owned by userID. Legacy posts are
// never included.
func (s *postService) ListPostsByCreator(ctx context.Context, userID string) ([]models.Post, error) {
	posts, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	mine := make([]models.Post, 0)
	for _, p := range posts {
		if !p.IsLegacy() && *p.CreatorID == userID {
			mine = append(mine, p)
		}
	}
	return mine, nil
}

func (s *postService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	posts, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	idx := board.Find(posts, postID)
	if idx < 0 {
		return nil, ErrPostNotFound
	}
	post := posts[idx]
	return &post, nil
}

func (s *postService) CreatePost(ctx context.Context, user *models.PublicProfile, req CreatePostRequest) (*models.Post, error) {
	if user == nil {
		s.metrics.PostEvent("create", "unauthenticated")
		return nil, ErrSignInRequired
	}
	post, err := s.buildPost(req)
	if err != nil {
		s.metrics.PostEvent("create", "invalid")
		return nil, err
	}

	next, err := s.apply(ctx, user, board.CreatePost{Post: post})
	if err != nil {
		s.metrics.PostEvent("create", outcomeOf(err))
		return nil, err
	}
	s.metrics.PostEvent("create", "ok")
	utils.LogInfo("Post created", map[string]interface{}{"post_id": post.ID, "user_id": user.ID})
	return &next.Posts[0], nil
}

// TogglePostStatus flips the post between open and full and returns the
// updated post.
func (s *postService) TogglePostStatus(ctx context.Context, user *models.PublicProfile, postID string) (*models.Post, error) {
	next, err := s.apply(ctx, user, board.ToggleStatus{PostID: postID})
	if err != nil {
		s.metrics.PostEvent("toggle", outcomeOf(err))
		return nil, err
	}
	idx := board.Find(next.Posts, postID)
	if idx < 0 {
		return nil, errUnexpectedBoardState
	}
	s.metrics.PostEvent("toggle", "ok")
	post := next.Posts[idx]
	return &post, nil
}

func (s *postService) DeletePost(ctx context.Context, user *models.PublicProfile, postID string, confirmed bool) error {
	if _, err := s.apply(ctx, user, board.DeletePost{PostID: postID, Confirmed: confirmed}); err != nil {
		s.metrics.PostEvent("delete", outcomeOf(err))
		return err
	}
	s.metrics.PostEvent("delete", "ok")
	utils.LogInfo("Post deleted", map[string]interface{}{"post_id": postID})
	return nil
}

// apply runs one board transition against the stored list and persists the
// result. Toggle and delete on an unknown id report ErrPostNotFound and
// leave the store untouched.
func (s *postService) apply(ctx context.Context, user *models.PublicProfile, action board.Action) (board.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.load(ctx)
	if err != nil {
		return board.State{}, err
	}
	switch a := action.(type) {
	case board.ToggleStatus:
		if board.Find(posts, a.PostID) < 0 {
			return board.State{}, ErrPostNotFound
		}
	case board.DeletePost:
		if board.Find(posts, a.PostID) < 0 {
			return board.State{}, ErrPostNotFound
		}
	}

	next, err := board.Reduce(board.State{Posts: posts, CurrentUser: user}, action)
	if err != nil {
		return board.State{}, translateBoardError(err)
	}
	if err := s.postRepo.SavePosts(ctx, next.Posts); err != nil {
		return board.State{}, fmt.Errorf("%w: %v", ErrPostStorageFailure, err)
	}
	return next, nil
}

func translateBoardError(err error) error {
	switch {
	case errors.Is(err, board.ErrAuthRequired):
		return ErrSignInRequired
	case errors.Is(err, board.ErrForbidden):
		return ErrPostForbidden
	case errors.Is(err, board.ErrConfirmationRequired):
		return ErrDeleteNotConfirmed
	default:
		return err
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrPostNotFound):
		return "not_found"
	case errors.Is(err, ErrPostForbidden):
		return "forbidden"
	case errors.Is(err, ErrDeleteNotConfirmed):
		return "unconfirmed"
	case errors.Is(err, ErrSignInRequired):
		return "unauthenticated"
	case errors.Is(err, ErrPostValidation):
		return "invalid"
	default:
		return "error"
	}
}

// buildPost validates req and turns it into a post ready for the board.
// Creator and status are stamped by the reducer.
func (s *postService) buildPost(req CreatePostRequest) (models.Post, error) {
	if utils.IsEmpty(req.CourtName) {
		return models.Post{}, fmt.Errorf("%w: courtName is required", ErrPostValidation)
	}
	date := strings.TrimSpace(req.Date)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return models.Post{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrPostValidation)
	}
	for _, f := range [...]struct{ name, value string }{{"startTime", req.StartTime}, {"endTime", req.EndTime}} {
		if f.value == "" {
			continue
		}
		if _, err := time.Parse(timeLayout, f.value); err != nil {
			return models.Post{}, fmt.Errorf("%w: %s must be HH:MM", ErrPostValidation, f.name)
		}
	}

	male, err := buildRequirement("male", req.Male)
	if err != nil {
		return models.Post{}, err
	}
	female, err := buildRequirement("female", req.Female)
	if err != nil {
		return models.Post{}, err
	}

	return models.Post{
		ID:           s.newID(),
		CourtName:    strings.TrimSpace(req.CourtName),
		Address:      strings.TrimSpace(req.Address),
		ContactName:  strings.TrimSpace(req.ContactName),
		ContactPhone: strings.TrimSpace(req.ContactPhone),
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Male:         male,
		Female:       female,
		Notes:        req.Notes,
		CreatedAt:    s.now().UnixMilli(),
	}, nil
}

func buildRequirement(side string, in PlayerRequirementInput) (models.PlayerRequirement, error) {
	minLevel, err := levelOrDefault(side, "minLevel", in.MinLevel)
	if err != nil {
		return models.PlayerRequirement{}, err
	}
	maxLevel, err := levelOrDefault(side, "maxLevel", in.MaxLevel)
	if err != nil {
		return models.PlayerRequirement{}, err
	}
	if models.IndexOf(minLevel) > models.IndexOf(maxLevel) {
		return models.PlayerRequirement{}, fmt.Errorf("%w: %s.minLevel must not be above %s.maxLevel", ErrPostValidation, side, side)
	}
	if in.Slots > maxSlots {
		return models.PlayerRequirement{}, fmt.Errorf("%w: %s slots must not exceed %d", ErrPostValidation, side, maxSlots)
	}
	if in.Slots < 0 || in.Cost < 0 {
		return models.PlayerRequirement{}, fmt.Errorf("%w: %s slots and cost must not be negative", ErrPostValidation, side)
	}
	return models.PlayerRequirement{
		Slots:    in.Slots.Int(),
		MinLevel: minLevel,
		MaxLevel: maxLevel,
		Cost:     in.Cost.Float64(),
	}, nil
}

func levelOrDefault(side, field, value string) (models.SkillLevel, error) {
	if value == "" {
		return models.DefaultSkillLevel, nil
	}
	if !models.IsValidSkillLevel(value) {
		return "", fmt.Errorf("%w: %s.%s %q is not a known skill level", ErrPostValidation, side, field, value)
	}
	return models.SkillLevel(value), nil
}
