package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matchday/football-news-api/internal/auth"
	"github.com/matchday/football-news-api/internal/config"
	"github.com/matchday/football-news-api/internal/middleware"
	"github.com/matchday/football-news-api/internal/model"
)

// In-memory stores backing the manager under test.

type stubUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *stubUsers) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *stubUsers) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		t := at
		u.LastLogin = &t
	}
	return nil
}

type stubSessions struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func (s *stubSessions) Create(_ context.Context, sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *stubSessions) GetByAccessToken(_ context.Context, token string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.Token == token {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubSessions) GetByRefreshTokenAndUser(_ context.Context, token, userID string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.RefreshToken == token && sess.UserID == userID {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubSessions) Rotate(_ context.Context, id, newAccess, newRefresh string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.Token = newAccess
		sess.RefreshToken = newRefresh
		sess.ExpiresAt = expiresAt
	}
	return nil
}

func (s *stubSessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// authServer wires the auth endpoints exactly as the router does.
func authServer(t *testing.T) *echo.Echo {
	t.Helper()
	cfg := config.Config{
		AccessSecret:  "handler-access-secret",
		RefreshSecret: "handler-refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		BcryptCost:    4,
	}
	mgr := auth.NewManager(cfg, auth.NewCodec(cfg),
		&stubUsers{users: map[string]*model.User{}},
		&stubSessions{sessions: map[string]*model.Session{}})
	h := NewAuthHandler(mgr)

	e := echo.New()
	g := e.Group("/api/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout, middleware.Authenticate(mgr))
	g.GET("/me", h.Me, middleware.Authenticate(mgr))
	return e
}

func postJSON(e *echo.Echo, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return m
}

const registerBody = `{"username":"alice","email":"alice@example.com","password":"secret123","full_name":"Alice"}`

func TestRegisterEndpoint(t *testing.T) {
	e := authServer(t)

	rec := postJSON(e, "/api/auth/register", registerBody, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["access_token"] == "" || body["refresh_token"] == "" {
		t.Fatal("registration did not return a token pair")
	}
	user, _ := body["user"].(map[string]any)
	if user["username"] != "alice" {
		t.Fatalf("user = %v", body["user"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatal("password hash leaked in response")
	}

	// Same email, different username.
	rec = postJSON(e, "/api/auth/register",
		`{"username":"alice2","email":"alice@example.com","password":"secret123"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate email status = %d, want 409", rec.Code)
	}
	if decode(t, rec)["error"] != "Email already registered" {
		t.Fatalf("duplicate email error = %v", decode(t, rec)["error"])
	}

	// Same username, different email.
	rec = postJSON(e, "/api/auth/register",
		`{"username":"alice","email":"other@example.com","password":"secret123"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate username status = %d, want 409", rec.Code)
	}
	if decode(t, rec)["error"] != "Username already taken" {
		t.Fatalf("duplicate username error = %v", decode(t, rec)["error"])
	}
}

func TestLoginEndpoint(t *testing.T) {
	e := authServer(t)
	postJSON(e, "/api/auth/register", registerBody, "")

	rec := postJSON(e, "/api/auth/login",
		`{"email":"alice@example.com","password":"secret123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	// Unknown email and wrong password produce the same answer.
	for _, body := range []string{
		`{"email":"nobody@example.com","password":"secret123"}`,
		`{"email":"alice@example.com","password":"wrong"}`,
	} {
		rec := postJSON(e, "/api/auth/login", body, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if decode(t, rec)["error"] != "Invalid email or password" {
			t.Fatalf("error = %v", decode(t, rec)["error"])
		}
	}
}

func TestRefreshEndpoint(t *testing.T) {
	e := authServer(t)
	reg := decode(t, postJSON(e, "/api/auth/register", registerBody, ""))
	refresh, _ := reg["refresh_token"].(string)

	rec := postJSON(e, "/api/auth/refresh", `{"refresh_token":"`+refresh+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	fresh := decode(t, rec)
	if fresh["refresh_token"] == refresh {
		t.Fatal("refresh token was not rotated")
	}

	// The consumed token is single use.
	rec = postJSON(e, "/api/auth/refresh", `{"refresh_token":"`+refresh+`"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("replay status = %d, want 401", rec.Code)
	}
	if decode(t, rec)["error"] != "Invalid refresh token" {
		t.Fatalf("replay error = %v", decode(t, rec)["error"])
	}

	rec = postJSON(e, "/api/auth/refresh", `{}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing token status = %d, want 400", rec.Code)
	}
	if decode(t, rec)["error"] != "Refresh token is required" {
		t.Fatalf("missing token error = %v", decode(t, rec)["error"])
	}
}

func TestLogoutAndMeEndpoints(t *testing.T) {
	e := authServer(t)
	reg := decode(t, postJSON(e, "/api/auth/register", registerBody, ""))
	access, _ := reg["access_token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if decode(t, rec)["username"] != "alice" {
		t.Fatalf("me body = %s", rec.Body.String())
	}

	rec = postJSON(e, "/api/auth/logout", "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if decode(t, rec)["message"] != "Logout successful" {
		t.Fatalf("logout body = %s", rec.Body.String())
	}

	// The pair is dead after logout.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout status = %d, want 401", rec.Code)
	}
}
