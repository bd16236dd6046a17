package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"badminton_board_backend/internal/metrics"
	"badminton_board_backend/internal/models"
	"badminton_board_backend/internal/repositories"
	"badminton_board_backend/internal/store"
)

var (
	alice = &models.PublicProfile{ID: "u1", Username: "alice"}
	bob   = &models.PublicProfile{ID: "u2", Username: "bob"}
)

func strPtr(s string) *string { return &s }

func newTestPostService(t *testing.T, posts []models.Post) (*postService, store.KVStore) {
	t.Helper()
	kv := store.NewMemoryStore()
	if posts != nil {
		payload, err := json.Marshal(posts)
		if err != nil {
			t.Fatal(err)
		}
		if err := kv.Set(context.Background(), store.KeyPosts, payload); err != nil {
			t.Fatal(err)
		}
	}
	svc := NewPostService(repositories.NewPostRepository(kv, metrics.New()), metrics.New()).(*postService)
	svc.now = func() time.Time { return time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC) }
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
	return svc, kv
}

func boardFixture() []models.Post {
	req := models.PlayerRequirement{Slots: 1, MinLevel: "TB", MaxLevel: "Khá", Cost: 50000}
	return []models.Post{
		{ID: "p1", CreatorID: strPtr("u1"), CourtName: "Sân Cầu Lông Hoà Bình", Date: "2026-10-15", Male: req, Status: models.PostStatusOpen},
		{ID: "p2", CourtName: "Sân Kỳ Hoà", Date: "2026-10-16", Female: req, Status: models.PostStatusOpen},
	}
}

func validCreateRequest() CreatePostRequest {
	var req CreatePostRequest
	_ = json.Unmarshal([]byte(`{
		"courtName": " Sân Tao Đàn ",
		"address": "Quận 1",
		"date": "2026-10-20",
		"startTime": "18:00",
		"endTime": "20:00",
		"male": {"slots": "2", "minLevel": "TB-", "maxLevel": "TB+", "cost": "60000"},
		"female": {"slots": "", "cost": "abc"}
	}`), &req)
	return req
}

func TestCreatePost(t *testing.T) {
	svc, _ := newTestPostService(t, boardFixture())
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, alice, validCreateRequest())
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.ID != "new-1" || post.CreatorID == nil || *post.CreatorID != "u1" {
		t.Errorf("unexpected identity fields: %+v", post)
	}
	if post.Status != models.PostStatusOpen || post.CourtName != "Sân Tao Đàn" {
		t.Errorf("unexpected post: %+v", post)
	}
	if post.Male.Slots != 2 || post.Male.Cost != 60000 {
		t.Errorf("numeric strings not coerced: %+v", post.Male)
	}
	if post.Female.Slots != 0 || post.Female.Cost != 0 || post.Female.MinLevel != models.SkillLevelAverage {
		t.Errorf("empty input should default: %+v", post.Female)
	}
	if post.CreatedAt != svc.now().UnixMilli() {
		t.Errorf("createdAt = %d", post.CreatedAt)
	}

	all, _ := svc.ListPosts(ctx, models.FilterSpec{})
	if len(all) != 3 || all[0].ID != "new-1" {
		t.Errorf("new post should be prepended, got %+v", all)
	}
}

func TestCreatePost_RequiresSignIn(t *testing.T) {
	svc, _ := newTestPostService(t, boardFixture())
	if _, err := svc.CreatePost(context.Background(), nil, validCreateRequest()); !errors.Is(err, ErrSignInRequired) {
		t.Fatalf("expected ErrSignInRequired, got %v", err)
	}
	all, _ := svc.ListPosts(context.Background(), models.FilterSpec{})
	if len(all) != 2 {
		t.Errorf("board changed after rejected create: %d posts", len(all))
	}
}

func TestCreatePost_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreatePostRequest)
	}{
		{"blank court", func(r *CreatePostRequest) { r.CourtName = "   " }},
		{"bad date", func(r *CreatePostRequest) { r.Date = "20/10/2026" }},
		{"bad start time", func(r *CreatePostRequest) { r.StartTime = "6pm" }},
		{"unknown level", func(r *CreatePostRequest) { r.Male.MinLevel = "Master" }},
		{"inverted range", func(r *CreatePostRequest) { r.Male.MinLevel, r.Male.MaxLevel = "Pro", "Yếu" }},
		{"negative slots", func(r *CreatePostRequest) { r.Female.Slots = -1 }},
		{"negative cost", func(r *CreatePostRequest) { r.Male.Cost = -5 }},
		{"slots beyond int range", func(r *CreatePostRequest) { r.Male.Slots = 1e20 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestPostService(t, boardFixture())
			req := validCreateRequest()
			tt.mutate(&req)
			if _, err := svc.CreatePost(context.Background(), alice, req); !errors.Is(err, ErrPostValidation) {
				t.Errorf("expected ErrPostValidation, got %v", err)
			}
		})
	}
}

func TestListPosts_AppliesFilter(t *testing.T) {
	svc, _ := newTestPostService(t, boardFixture())
	got, err := svc.ListPosts(context.Background(), models.FilterSpec{Location: "kỳ hoà"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "p2" {
		t.Errorf("got %+v", got)
	}
}

func TestListPosts_SeedsFirstRun(t *testing.T) {
	svc, _ := newTestPostService(t, nil)
	got, err := svc.ListPosts(context.Background(), models.FilterSpec{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected the two seed posts, got %d", len(got))
	}
}

func TestListPostsByCreator(t *testing.T) {
	svc, _ := newTestPostService(t, boardFixture())
	mine, err := svc.ListPostsByCreator(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].ID != "p1" {
		t.Errorf("got %+v", mine)
	}
	none, _ := svc.ListPostsByCreator(context.Background(), "u9")
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

func TestGetPost(t *testing.T) {
	svc, _ := newTestPostService(t, boardFixture())
	if p, err := svc.GetPost(context.Background(), "p2"); err != nil || p.ID != "p2" {
		t.Errorf("GetPost: %+v, %v", p, err)
	}
	if _, err := svc.GetPost(context.Background(), "missing"); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestTogglePostStatus(t *testing.T) {
	tests := []struct {
		name    string
		user    *models.PublicProfile
		postID  string
		wantErr error
	}{
		{"creator toggles own post", alice, "p1", nil},
		{"other user is refused", bob, "p1", ErrPostForbidden},
		{"anonymous is refused on owned post", nil, "p1", ErrPostForbidden},
		{"anyone may toggle legacy post", bob, "p2", nil},
		{"anonymous may toggle legacy post", nil, "p2", nil},
		{"unknown id", alice, "nope", ErrPostNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestPostService(t, boardFixture())
			post, err := svc.TogglePostStatus(context.Background(), tt.user, tt.postID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if post.Status != models.PostStatusFull {
				t.Errorf("status = %s, want full", post.Status)
			}
			again, _ := svc.TogglePostStatus(context.Background(), tt.user, tt.postID)
			if again.Status != models.PostStatusOpen {
				t.Errorf("second toggle should reopen, got %s", again.Status)
			}
		})
	}
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()

	t.Run("unconfirmed leaves board unchanged", func(t *testing.T) {
		svc, kv := newTestPostService(t, boardFixture())
		before, _ := kv.Get(ctx, store.KeyPosts)
		if err := svc.DeletePost(ctx, alice, "p1", false); !errors.Is(err, ErrDeleteNotConfirmed) {
			t.Fatalf("expected ErrDeleteNotConfirmed, got %v", err)
		}
		after, _ := kv.Get(ctx, store.KeyPosts)
		if string(before) != string(after) {
			t.Error("stored payload changed")
		}
	})

	t.Run("confirmed by creator removes post", func(t *testing.T) {
		svc, _ := newTestPostService(t, boardFixture())
		if err := svc.DeletePost(ctx, alice, "p1", true); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.GetPost(ctx, "p1"); !errors.Is(err, ErrPostNotFound) {
			t.Errorf("post still present: %v", err)
		}
	})

	t.Run("other user cannot delete", func(t *testing.T) {
		svc, _ := newTestPostService(t, boardFixture())
		if err := svc.DeletePost(ctx, bob, "p1", true); !errors.Is(err, ErrPostForbidden) {
			t.Errorf("expected ErrPostForbidden, got %v", err)
		}
	})

	t.Run("last post leaves an empty board", func(t *testing.T) {
		svc, _ := newTestPostService(t, boardFixture()[1:])
		if err := svc.DeletePost(ctx, nil, "p2", true); err != nil {
			t.Fatal(err)
		}
		all, err := svc.ListPosts(ctx, models.FilterSpec{})
		if err != nil || len(all) != 0 {
			t.Errorf("expected empty board, got %d posts (%v)", len(all), err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := newTestPostService(t, boardFixture())
		if err := svc.DeletePost(ctx, alice, "nope", true); !errors.Is(err, ErrPostNotFound) {
			t.Errorf("expected ErrPostNotFound, got %v", err)
		}
	})
}

// gatedStore blocks the first write of the post list until release is closed.
type gatedStore struct {
	store.KVStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) Set(ctx context.Context, key string, value []byte) error {
	if key == store.KeyPosts {
		first := false
		g.once.Do(func() { first = true })
		if first {
			close(g.entered)
			<-g.release
		}
	}
	return g.KVStore.Set(ctx, key, value)
}

func TestCreateDuringFirstRunSeedIsKept(t *testing.T) {
	ctx := context.Background()
	kv := &gatedStore{KVStore: store.NewMemoryStore(), entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewPostService(repositories.NewPostRepository(kv, metrics.New()), metrics.New())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := svc.ListPosts(ctx, models.FilterSpec{}); err != nil {
			t.Errorf("ListPosts: %v", err)
		}
	}()
	<-kv.entered

	var created *models.Post
	go func() {
		defer wg.Done()
		var err error
		if created, err = svc.CreatePost(ctx, alice, validCreateRequest()); err != nil {
			t.Errorf("CreatePost: %v", err)
		}
	}()
	time.Sleep(20 * time.Millisecond)
	close(kv.release)
	wg.Wait()

	if created == nil {
		t.Fatal("post was not created")
	}
	if _, err := svc.GetPost(ctx, created.ID); err != nil {
		t.Fatalf("created post lost after concurrent first-run list: %v", err)
	}
	all, _ := svc.ListPosts(ctx, models.FilterSpec{})
	if len(all) != 3 {
		t.Errorf("expected seed plus new post, got %d posts", len(all))
	}
}
