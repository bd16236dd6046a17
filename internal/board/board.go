// Package board holds the post list state and the pure transitions applied to
// it. Persisting the resulting state is left to the caller.
package board

import (
	"errors"
	"fmt"

	"badminton_board_backend/internal/models"
	"badminton_board_backend/pkg/utils"
)

var (
	ErrAuthRequired         = errors.New("sign-in required")
	ErrForbidden            = errors.New("only the creator may modify this post")
	ErrConfirmationRequired = errors.New("deletion was not confirmed")
	ErrInvalidAction        = errors.New("invalid board action")
)

// State is the authoritative post list plus the session acting on it.
type State struct {
	Posts       []models.Post
	CurrentUser *models.PublicProfile // nil for anonymous sessions
}

// Action is a single transition request.
type Action interface {
	isAction()
}

// CreatePost prepends Post. ID and CreatedAt are supplied by the caller so the
// reducer stays deterministic.
type CreatePost struct {
	Post models.Post
}

// ToggleStatus flips a post between open and full.
type ToggleStatus struct {
	PostID string
}

// DeletePost removes a post. Confirmed must be true for anything to happen.
type DeletePost struct {
	PostID    string
	Confirmed bool
}

func (CreatePost) isAction()   {}
func (ToggleStatus) isAction() {}
func (DeletePost) isAction()   {}

// CanModify reports whether user may toggle or delete post. Legacy posts
// without a creator are open to everyone, anonymous sessions included.
func CanModify(user *models.PublicProfile, post *models.Post) bool {
	if post.IsLegacy() {
		return true
	}
	return user != nil && user.ID == *post.CreatorID
}

// Find returns the index of the post with the given id, or -1.
func Find(posts []models.Post, id string) int {
	for i := range posts {
		if posts[i].ID == id {
			return i
		}
	}
	return -1
}

// Reduce applies action to state and returns the next state. The input state
// is never modified. Toggle and delete on an unknown id return the state
// unchanged without error.
func Reduce(state State, action Action) (State, error) {
	switch a := action.(type) {
	case CreatePost:
		return reduceCreate(state, a)
	case ToggleStatus:
		return reduceToggle(state, a)
	case DeletePost:
		return reduceDelete(state, a)
	default:
		return state, fmt.Errorf("%w: %T", ErrInvalidAction, action)
	}
}

func reduceCreate(state State, a CreatePost) (State, error) {
	if state.CurrentUser == nil {
		return state, ErrAuthRequired
	}
	post := a.Post
	post.CreatorID = utils.NewNullString(state.CurrentUser.ID)
	post.Status = models.PostStatusOpen

	posts := make([]models.Post, 0, len(state.Posts)+1)
	posts = append(posts, post)
	posts = append(posts, state.Posts...)
	return State{Posts: posts, CurrentUser: state.CurrentUser}, nil
}

func reduceToggle(state State, a ToggleStatus) (State, error) {
	idx := Find(state.Posts, a.PostID)
	if idx < 0 {
		return state, nil
	}
	if !CanModify(state.CurrentUser, &state.Posts[idx]) {
		return state, ErrForbidden
	}

	posts := clonePosts(state.Posts)
	if posts[idx].Status == models.PostStatusOpen {
		posts[idx].Status = models.PostStatusFull
	} else {
		posts[idx].Status = models.PostStatusOpen
	}
	return State{Posts: posts, CurrentUser: state.CurrentUser}, nil
}

func reduceDelete(state State, a DeletePost) (State, error) {
	idx := Find(state.Posts, a.PostID)
	if idx < 0 {
		return state, nil
	}
	if !CanModify(state.CurrentUser, &state.Posts[idx]) {
		return state, ErrForbidden
	}
	if !a.Confirmed {
		return state, ErrConfirmationRequired
	}

	posts := make([]models.Post, 0, len(state.Posts)-1)
	posts = append(posts, state.Posts[:idx]...)
	posts = append(posts, state.Posts[idx+1:]...)
	return State{Posts: posts, CurrentUser: state.CurrentUser}, nil
}

func clonePosts(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)
	return out
}
