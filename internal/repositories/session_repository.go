package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"badminton_board_backend/internal/models"
	"badminton_board_backend/internal/store"
)

// SessionRepository stores at most one signed-in session per user.
type SessionRepository interface {
	SaveSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, userID string) (*models.Session, error)
	DeleteSession(ctx context.Context, userID string) error
}

type sessionRepository struct {
	kv store.KVStore
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(kv store.KVStore) SessionRepository {
	return &sessionRepository{kv: kv}
}

func (r *sessionRepository) SaveSession(ctx context.Context, session *models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%w: encoding session: %v", ErrDatabaseError, err)
	}
	if err := r.kv.Set(ctx, store.SessionKey(session.UserID), payload); err != nil {
		return fmt.Errorf("%w: saving session: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *sessionRepository) GetSession(ctx context.Context, userID string) (*models.Session, error) {
	payload, err := r.kv.Get(ctx, store.SessionKey(userID))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: loading session: %v", ErrDatabaseError, err)
	}
	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("%w: session: %v", ErrMalformedData, err)
	}
	return &session, nil
}

func (r *sessionRepository) DeleteSession(ctx context.Context, userID string) error {
	if err := r.kv.Remove(ctx, store.SessionKey(userID)); err != nil {
		return fmt.Errorf("%w: removing session: %v", ErrDatabaseError, err)
	}
	return nil
}
