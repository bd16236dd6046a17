package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"badminton_board_backend/internal/metrics"
	"badminton_board_backend/internal/migration"
	"badminton_board_backend/internal/models"
	"badminton_board_backend/internal/store"
	"badminton_board_backend/pkg/utils"
)

// PostRepository reads and writes the whole post list under store.KeyPosts.
type PostRepository interface {
	// LoadPosts returns the migrated post list. A missing or unreadable
	// payload is replaced by the seed data, which is persisted in its place.
	LoadPosts(ctx context.Context) ([]models.Post, error)
	SavePosts(ctx context.Context, posts []models.Post) error
}

type postRepository struct {
	kv      store.KVStore
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewPostRepository creates a new instance of PostRepository.
func NewPostRepository(kv store.KVStore, m *metrics.Metrics) PostRepository {
	return &postRepository{kv: kv, metrics: m, now: time.Now}
}

func (r *postRepository) LoadPosts(ctx context.Context) ([]models.Post, error) {
	payload, err := r.kv.Get(ctx, store.KeyPosts)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			utils.LogInfo("No stored posts, using seed data")
			return r.seed(ctx)
		}
		return nil, fmt.Errorf("%w: loading posts: %v", ErrDatabaseError, err)
	}

	posts, err := migration.DecodePosts(payload)
	if err != nil {
		utils.LogWarn("Stored posts unreadable, using seed data", map[string]interface{}{"error": err.Error()})
		return r.seed(ctx)
	}
	return posts, nil
}

func (r *postRepository) SavePosts(ctx context.Context, posts []models.Post) error {
	payload, err := migration.EncodePosts(posts)
	if err != nil {
		return fmt.Errorf("%w: encoding posts: %v", ErrDatabaseError, err)
	}
	if err := r.kv.Set(ctx, store.KeyPosts, payload); err != nil {
		return fmt.Errorf("%w: saving posts: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *postRepository) seed(ctx context.Context) ([]models.Post, error) {
	r.metrics.SeedFallback()
	posts := migration.SeedPosts(r.now())
	if err := r.SavePosts(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}
