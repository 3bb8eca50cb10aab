package httpapi

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"taskgate/internal/audit"
	"taskgate/internal/auth"
	"taskgate/internal/session"
	"taskgate/internal/tasks"
	"taskgate/internal/taskstore"
	"taskgate/internal/users"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// gateway assembles the full request path: auth endpoints, access-token
// middleware, and task routes proxying to an in-process taskd.
type gateway struct {
	router *gin.Engine
	audit  *audit.MemoryRepo
}

func newGateway(t *testing.T) gateway {
	t.Helper()
	gin.SetMode(gin.TestMode)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tokens, err := auth.NewManagerWithKeys(key, &key.PublicKey, "RS256", 30*time.Minute, 24*time.Hour)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	userRepo := users.NewMemoryRepo()
	sessions := session.NewStore(rdb)
	auditRepo := audit.NewMemoryRepo()

	// In-process taskd.
	backend := gin.New()
	taskstore.Register(backend, taskstore.Handlers{Repo: taskstore.NewMemoryRepo()})
	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	h := Handlers{
		Users:    userRepo,
		Sessions: sessions,
		Tokens:   tokens,
		Refresh:  auth.NewRefreshValidator(tokens, userRepo, sessions),
		Audit:    audit.NewService(auditRepo),
	}
	taskH := tasks.Handlers{Client: tasks.NewClient(backendSrv.URL+"/tasks", 2*time.Second)}

	r := gin.New()
	ag := r.Group("/auth")
	ag.POST("/register", h.Register)
	ag.POST("/login", h.Login)
	ag.POST("/refresh", h.RefreshToken)

	tg := r.Group("/tasks")
	tg.Use(auth.RequireAccessToken(tokens, userRepo))
	tg.GET("", taskH.List)
	tg.POST("", taskH.Create)
	tg.PUT("/:id", taskH.Update)
	tg.DELETE("/:id", taskH.Delete)

	return gateway{router: r, audit: auditRepo}
}

func (g gateway) registerUser(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, req)
	return w
}

func (g gateway) loginUser(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, req)
	return w
}

func accessToken(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatalf("expected access token in %s", w.Body.String())
	}
	return resp.AccessToken
}

func refreshCookieValue(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" {
			return c
		}
	}
	t.Fatalf("no refresh_token cookie in response")
	return nil
}

func TestRegisterLoginAndListTasks(t *testing.T) {
	g := newGateway(t)

	if w := g.registerUser(t, "alice", "secret123"); w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", w.Code, w.Body.String())
	}

	w := g.loginUser(t, "alice", "secret123")
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	tok := accessToken(t, w)

	cookie := refreshCookieValue(t, w)
	if !cookie.HttpOnly {
		t.Fatalf("refresh cookie must be http-only")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("refresh cookie must be SameSite=Strict")
	}

	// Protected call with the bearer token.
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	lw := httptest.NewRecorder()
	g.router.ServeHTTP(lw, req)
	if lw.Code != http.StatusOK {
		t.Fatalf("tasks status = %d, body = %s", lw.Code, lw.Body.String())
	}
	if !strings.Contains(lw.Body.String(), `"tasks"`) {
		t.Fatalf("expected task list, got %s", lw.Body.String())
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	g := newGateway(t)

	if w := g.registerUser(t, "alice", "secret123"); w.Code != http.StatusCreated {
		t.Fatalf("register status = %d", w.Code)
	}
	w := g.registerUser(t, "alice", "other-password")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "username already exists") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	// First password still wins.
	if w := g.loginUser(t, "alice", "secret123"); w.Code != http.StatusOK {
		t.Fatalf("original credentials must still log in, got %d", w.Code)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	g := newGateway(t)
	g.registerUser(t, "alice", "secret123")

	unknown := g.loginUser(t, "nobody", "secret123")
	wrongPass := g.loginUser(t, "alice", "wrong")

	if unknown.Code != http.StatusUnauthorized || wrongPass.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d", unknown.Code, wrongPass.Code)
	}
	if unknown.Body.String() != wrongPass.Body.String() {
		t.Fatalf("failure bodies must match: %s vs %s", unknown.Body.String(), wrongPass.Body.String())
	}

	// Internal audit log does differentiate.
	var reasons []string
	for _, e := range g.audit.Events() {
		if e.Type == audit.EventTypeLoginFailed {
			reasons = append(reasons, e.Message)
		}
	}
	if len(reasons) != 2 || reasons[0] == reasons[1] {
		t.Fatalf("expected two distinct internal reasons, got %v", reasons)
	}
}

func TestRefresh_MintsAccessTokenWithoutRotation(t *testing.T) {
	g := newGateway(t)
	g.registerUser(t, "alice", "secret123")

	lw := g.loginUser(t, "alice", "secret123")
	cookie := refreshCookieValue(t, lw)

	doRefresh := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
		w := httptest.NewRecorder()
		g.router.ServeHTTP(w, req)
		return w
	}

	w := doRefresh()
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body = %s", w.Code, w.Body.String())
	}
	accessToken(t, w)
	if strings.Contains(w.Body.String(), "refresh_token") {
		t.Fatalf("refresh response must not carry a refresh token: %s", w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" {
			t.Fatalf("refresh must not reset the cookie")
		}
	}

	// Non-rotating: the same cookie keeps working.
	if w := doRefresh(); w.Code != http.StatusOK {
		t.Fatalf("second refresh status = %d", w.Code)
	}
}

func TestRefresh_RejectsSupersededSession(t *testing.T) {
	g := newGateway(t)
	g.registerUser(t, "alice", "secret123")

	first := refreshCookieValue(t, g.loginUser(t, "alice", "secret123"))
	// Second login from another device supersedes the first session.
	g.loginUser(t, "alice", "secret123")

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: first.Name, Value: first.Value})
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "invalid refresh token") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestRefresh_MissingCookie(t *testing.T) {
	g := newGateway(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestProtectedEndpoint_RejectsRefreshTokenAsBearer(t *testing.T) {
	g := newGateway(t)
	g.registerUser(t, "alice", "secret123")

	cookie := refreshCookieValue(t, g.loginUser(t, "alice", "secret123"))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "wrong token type") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestTaskLifecycleThroughGateway(t *testing.T) {
	g := newGateway(t)
	g.registerUser(t, "alice", "secret123")
	tok := accessToken(t, g.loginUser(t, "alice", "secret123"))

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		g.router.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodPost, "/tasks", `{"title":"write report","description":"q3"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created struct {
		Task tasks.Task `json:"task"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.Task.Status != "new" {
		t.Fatalf("expected default status new, got %q", created.Task.Status)
	}
	if created.Task.UserID == nil || *created.Task.UserID == 0 {
		t.Fatalf("expected task bound to the creating user")
	}

	w = do(http.MethodPut, "/tasks/1", `{"title":"write report","description":"q3","status":"done"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(http.MethodGet, "/tasks?status=done", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "write report") {
		t.Fatalf("filtered list = %d %s", w.Code, w.Body.String())
	}

	w = do(http.MethodDelete, "/tasks/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = do(http.MethodPut, "/tasks/1", `{"title":"x","status":"done"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("update of deleted task = %d", w.Code)
	}
}
