package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"badminton_board_backend/internal/metrics"
	"badminton_board_backend/internal/models"
	"badminton_board_backend/internal/store"
	"badminton_board_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	Setup(engine, store.NewMemoryStore(), utils.NewTokenManager("router-test-secret", time.Hour), metrics.New())
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

type listResponse struct {
	Data  []models.Post `json:"data"`
	Total int           `json:"total"`
}

type errorResponse struct {
	Error utils.APIError `json:"error"`
}

func register(t *testing.T, engine *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username":        username,
		"password":        "matkhau-" + username,
		"confirmPassword": "matkhau-" + username,
		"fullName":        "Người chơi " + username,
		"phoneNumber":     "0900000000",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", username, w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.AccessToken == "" {
		t.Fatalf("register %s: bad body %s", username, w.Body.String())
	}
	return resp.AccessToken
}

func TestBoardWorkflow(t *testing.T) {
	engine := newTestEngine(t)

	// First visit shows the seed board.
	w := doJSON(t, engine, http.MethodGet, "/api/v1/posts", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}
	var list listResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 2 {
		t.Fatalf("expected 2 seed posts, got %d", list.Total)
	}

	// Anonymous create is redirected to sign-in.
	newPost := map[string]interface{}{
		"courtName": "Sân Phú Thọ",
		"address":   "Quận 11",
		"date":      "2026-10-20",
		"startTime": "19:00",
		"endTime":   "21:00",
		"male":      map[string]interface{}{"slots": 2, "minLevel": "TB", "maxLevel": "Khá", "cost": 50000},
		"female":    map[string]interface{}{"slots": 0, "cost": 0},
	}
	w = doJSON(t, engine, http.MethodPost, "/api/v1/posts", "", newPost)
	if w.Code != http.StatusUnauthorized || w.Header().Get("Location") != "/api/v1/auth/login" {
		t.Fatalf("anonymous create: %d location=%q", w.Code, w.Header().Get("Location"))
	}

	owner := register(t, engine, "chuSan")
	other := register(t, engine, "khach")

	w = doJSON(t, engine, http.MethodPost, "/api/v1/posts", owner, newPost)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var created models.Post
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.CreatorID == nil || created.Status != models.PostStatusOpen {
		t.Fatalf("unexpected created post: %+v", created)
	}

	// Filter finds it by level and location.
	w = doJSON(t, engine, http.MethodGet, "/api/v1/posts?location=ph%C3%BA+th%E1%BB%8D&level=TB%2B&gender=male", "", nil)
	list = listResponse{}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 || list.Data[0].ID != created.ID {
		t.Fatalf("filtered list: %s", w.Body.String())
	}

	// Another user may not touch it.
	w = doJSON(t, engine, http.MethodPatch, "/api/v1/posts/"+created.ID+"/status", other, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign toggle: %d", w.Code)
	}

	w = doJSON(t, engine, http.MethodPatch, "/api/v1/posts/"+created.ID+"/status", owner, nil)
	var toggled models.Post
	_ = json.Unmarshal(w.Body.Bytes(), &toggled)
	if w.Code != http.StatusOK || toggled.Status != models.PostStatusFull {
		t.Errorf("owner toggle: %d %s", w.Code, w.Body.String())
	}

	// Delete needs confirmation.
	w = doJSON(t, engine, http.MethodDelete, "/api/v1/posts/"+created.ID, owner, nil)
	var apiErr errorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &apiErr)
	if w.Code != http.StatusBadRequest || apiErr.Error.Code != utils.ErrCodeConfirmationRequired {
		t.Errorf("unconfirmed delete: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, engine, http.MethodGet, "/api/v1/posts/"+created.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("post vanished after unconfirmed delete: %d", w.Code)
	}

	w = doJSON(t, engine, http.MethodGet, "/api/v1/me/posts", owner, nil)
	list = listResponse{}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 {
		t.Errorf("my posts: %s", w.Body.String())
	}

	w = doJSON(t, engine, http.MethodDelete, "/api/v1/posts/"+created.ID+"?confirm=true", owner, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("confirmed delete: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, engine, http.MethodGet, "/api/v1/posts/"+created.ID, "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestLegacyPostsOpenToAnonymous(t *testing.T) {
	engine := newTestEngine(t)
	// Seed post "1" has no creator.
	w := doJSON(t, engine, http.MethodPatch, "/api/v1/posts/1/status", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous toggle of legacy post: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, engine, http.MethodDelete, "/api/v1/posts/1?confirm=true", "", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("anonymous delete of legacy post: %d %s", w.Code, w.Body.String())
	}
}

func TestAuthFlow(t *testing.T) {
	engine := newTestEngine(t)
	token := register(t, engine, "vana")

	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "vana", "password": "x", "confirmPassword": "x", "fullName": "A", "phoneNumber": "1",
	})
	var apiErr errorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &apiErr)
	if w.Code != http.StatusConflict || apiErr.Error.Message != "Tên đăng nhập đã tồn tại" {
		t.Errorf("duplicate register: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "vanb", "password": "x", "confirmPassword": "y", "fullName": "B", "phoneNumber": "1",
	})
	apiErr = errorResponse{}
	_ = json.Unmarshal(w.Body.Bytes(), &apiErr)
	if w.Code != http.StatusBadRequest || apiErr.Error.Message != "Mật khẩu xác nhận không khớp" {
		t.Errorf("mismatched confirmation: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "vana", "password": "sai"})
	apiErr = errorResponse{}
	_ = json.Unmarshal(w.Body.Bytes(), &apiErr)
	if w.Code != http.StatusUnauthorized || apiErr.Error.Message != "Tên đăng nhập hoặc mật khẩu không đúng" {
		t.Errorf("bad login: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, engine, http.MethodGet, "/api/v1/auth/me", token, nil)
	var me models.PublicProfile
	_ = json.Unmarshal(w.Body.Bytes(), &me)
	if w.Code != http.StatusOK || me.Username != "vana" {
		t.Errorf("me: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, engine, http.MethodPost, "/api/v1/auth/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("logout: %d", w.Code)
	}
	w = doJSON(t, engine, http.MethodGet, "/api/v1/auth/me", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("token should be dead after logout, got %d", w.Code)
	}
}

func TestRouteAuthRequirements(t *testing.T) {
	engine := newTestEngine(t)
	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/skill-levels", http.StatusOK},
		{http.MethodGet, "/api/v1/posts", http.StatusOK},
		{http.MethodGet, "/api/v1/posts?gender=other", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/posts?level=Master", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/posts/none", http.StatusNotFound},
		{http.MethodGet, "/api/v1/auth/me", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/auth/logout", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/me/posts", http.StatusUnauthorized},
		{http.MethodPatch, "/api/v1/posts/none/status", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if w := doJSON(t, engine, tt.method, tt.path, "", nil); w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}

	if w := doJSON(t, engine, http.MethodPatch, "/api/v1/posts/1/status", "garbage", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("invalid token on optional route: %d", w.Code)
	}
}
