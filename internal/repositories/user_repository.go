package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"badminton_board_backend/internal/models"
	"badminton_board_backend/internal/store"
)

// UserRepository defines the operations on the stored user list.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.UserProfile) error
	FindUserByUsername(ctx context.Context, username string) (*models.UserProfile, error)
	FindUserByID(ctx context.Context, userID string) (*models.UserProfile, error)
	UpdateUser(ctx context.Context, user *models.UserProfile) error
}

// userRepository keeps every profile in one JSON array under store.KeyUsers.
type userRepository struct {
	kv store.KVStore
	mu sync.Mutex // serialises read-modify-write cycles
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(kv store.KVStore) UserRepository {
	return &userRepository{kv: kv}
}

func (r *userRepository) load(ctx context.Context) ([]models.UserProfile, error) {
	payload, err := r.kv.Get(ctx, store.KeyUsers)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return []models.UserProfile{}, nil
		}
		return nil, fmt.Errorf("%w: loading users: %v", ErrDatabaseError, err)
	}
	var users []models.UserProfile
	if err := json.Unmarshal(payload, &users); err != nil {
		return nil, fmt.Errorf("%w: users: %v", ErrMalformedData, err)
	}
	return users, nil
}

func (r *userRepository) save(ctx context.Context, users []models.UserProfile) error {
	payload, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("%w: encoding users: %v", ErrDatabaseError, err)
	}
	if err := r.kv.Set(ctx, store.KeyUsers, payload); err != nil {
		return fmt.Errorf("%w: saving users: %v", ErrDatabaseError, err)
	}
	return nil
}

// CreateUser appends user to the list. Usernames are unique and compared
// exactly, as the client always did.
func (r *userRepository) CreateUser(ctx context.Context, user *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Username == user.Username {
			return fmt.Errorf("%w: username %s", ErrDuplicateKey, user.Username)
		}
		if u.ID == user.ID {
			return fmt.Errorf("%w: user id %s", ErrDuplicateKey, user.ID)
		}
	}
	return r.save(ctx, append(users, *user))
}

func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	return r.find(ctx, func(u *models.UserProfile) bool { return u.Username == username })
}

func (r *userRepository) FindUserByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	return r.find(ctx, func(u *models.UserProfile) bool { return u.ID == userID })
}

func (r *userRepository) find(ctx context.Context, match func(*models.UserProfile) bool) (*models.UserProfile, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(&users[i]) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// UpdateUser replaces the stored profile with the same id.
func (r *userRepository) UpdateUser(ctx context.Context, user *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = *user
			return r.save(ctx, users)
		}
	}
	return ErrNotFound
}
