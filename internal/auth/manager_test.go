package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matchday/football-news-api/internal/config"
	"github.com/matchday/football-news-api/internal/model"
)

// fakeUserStore is an in-memory UserStore keyed by id.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*model.User{}}
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		t := at
		u.LastLogin = &t
	}
	return nil
}

func (f *fakeUserStore) setActive(id string, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.IsActive = active
	}
}

// fakeSessionStore is an in-memory SessionStore keyed by session id.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*model.Session{}}
}

func (f *fakeSessionStore) Create(_ context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeSessionStore) GetByAccessToken(_ context.Context, token string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.Token == token {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionStore) GetByRefreshTokenAndUser(_ context.Context, token, userID string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.RefreshToken == token && s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionStore) Rotate(_ context.Context, id, newAccess, newRefresh string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return errors.New("session not found")
	}
	s.Token = newAccess
	s.RefreshToken = newRefresh
	s.ExpiresAt = expiresAt
	return nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func (f *fakeSessionStore) expire(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[id]; ok {
		s.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	}
}

func testManager() (*Manager, *fakeUserStore, *fakeSessionStore) {
	cfg := config.Config{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		BcryptCost:    4, // MinCost, keeps the suite fast
	}
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	return NewManager(cfg, NewCodec(cfg), users, sessions), users, sessions
}

var testClient = ClientInfo{IPAddress: "203.0.113.9", UserAgent: "go-test"}

func register(t *testing.T, m *Manager, username, email string) (*model.User, *model.Session, TokenPair) {
	t.Helper()
	u, s, pair, err := m.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: "secret123",
	}, testClient)
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return u, s, pair
}

func TestRegisterAndLogin(t *testing.T) {
	m, _, sessions := testManager()
	ctx := context.Background()

	u, s, pair, err := m.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
		FullName: "Alice A.",
	}, testClient)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.AccountType != model.RoleFan {
		t.Fatalf("default account type = %q, want fan", u.AccountType)
	}
	if s.Token != pair.Access || s.RefreshToken != pair.Refresh {
		t.Fatal("session does not carry the issued pair")
	}

	lu, ls, _, err := m.Login(ctx, "alice@example.com", "secret123", testClient)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if lu.ID != u.ID {
		t.Fatal("login resolved a different user")
	}
	if lu.LastLogin == nil {
		t.Fatal("last login not recorded")
	}
	if ls.ID == s.ID {
		t.Fatal("login reused the registration session")
	}
	if sessions.count() != 2 {
		t.Fatalf("session count = %d, want 2 (concurrent logins allowed)", sessions.count())
	}
}

func TestRegisterConflicts(t *testing.T) {
	m, _, _ := testManager()
	ctx := context.Background()
	register(t, m, "alice", "alice@example.com")

	_, _, _, err := m.Register(ctx, RegisterInput{
		Username: "alice2", Email: "alice@example.com", Password: "secret123",
	}, testClient)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email = %v, want ErrEmailTaken", err)
	}

	_, _, _, err = m.Register(ctx, RegisterInput{
		Username: "alice", Email: "other@example.com", Password: "secret123",
	}, testClient)
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate username = %v, want ErrUsernameTaken", err)
	}

	_, _, _, err = m.Register(ctx, RegisterInput{
		Username: "no spaces!", Email: "new@example.com", Password: "secret123",
	}, testClient)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("invalid username = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginFailures(t *testing.T) {
	m, users, _ := testManager()
	ctx := context.Background()
	u, _, _ := register(t, m, "bob", "bob@example.com")

	if _, _, _, err := m.Login(ctx, "nobody@example.com", "secret123", testClient); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email = %v, want ErrInvalidCredentials", err)
	}
	if _, _, _, err := m.Login(ctx, "bob@example.com", "wrongpass", testClient); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password = %v, want ErrInvalidCredentials", err)
	}

	users.setActive(u.ID, false)
	if _, _, _, err := m.Login(ctx, "bob@example.com", "secret123", testClient); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("disabled account = %v, want ErrAccountDisabled", err)
	}
}

func TestRefreshRotatesOnce(t *testing.T) {
	m, _, sessions := testManager()
	ctx := context.Background()
	_, s, pair := register(t, m, "carol", "carol@example.com")

	fresh, err := m.Refresh(ctx, pair.Refresh)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if fresh.Access == pair.Access || fresh.Refresh == pair.Refresh {
		t.Fatal("Refresh reissued the same tokens")
	}
	if sessions.count() != 1 {
		t.Fatalf("session count after refresh = %d, want 1", sessions.count())
	}

	// The old pair must be dead on both paths.
	if _, err := m.Refresh(ctx, pair.Refresh); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("stale refresh = %v, want ErrInvalidRefresh", err)
	}
	if _, _, err := m.Authenticate(ctx, pair.Access); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("stale access = %v, want ErrSessionNotFound", err)
	}

	// The new pair works.
	if _, got, err := m.Authenticate(ctx, fresh.Access); err != nil {
		t.Fatalf("Authenticate after refresh: %v", err)
	} else if got.ID != s.ID {
		t.Fatal("refresh moved the pair to a different session")
	}
}

func TestRefreshRejections(t *testing.T) {
	m, _, _ := testManager()
	ctx := context.Background()

	if _, err := m.Refresh(ctx, ""); !errors.Is(err, ErrRefreshRequired) {
		t.Fatalf("empty token = %v, want ErrRefreshRequired", err)
	}
	if _, err := m.Refresh(ctx, "not.a.token"); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("garbage token = %v, want ErrInvalidRefresh", err)
	}

	// An access token is not a refresh token.
	_, _, pair := register(t, m, "dave", "dave@example.com")
	if _, err := m.Refresh(ctx, pair.Access); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("access-as-refresh = %v, want ErrInvalidRefresh", err)
	}
}

func TestAuthenticateLazyExpiry(t *testing.T) {
	m, _, sessions := testManager()
	ctx := context.Background()
	_, s, pair := register(t, m, "erin", "erin@example.com")

	sessions.expire(s.ID)
	if _, _, err := m.Authenticate(ctx, pair.Access); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expired session = %v, want ErrTokenExpired", err)
	}
	if sessions.count() != 0 {
		t.Fatal("expired session was not pruned")
	}
	// Once pruned the token presents as unknown, not expired.
	if _, _, err := m.Authenticate(ctx, pair.Access); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("pruned session = %v, want ErrSessionNotFound", err)
	}
}

func TestAuthenticateInactiveUser(t *testing.T) {
	m, users, _ := testManager()
	ctx := context.Background()
	u, _, pair := register(t, m, "frank", "frank@example.com")

	users.setActive(u.ID, false)
	if _, _, err := m.Authenticate(ctx, pair.Access); !errors.Is(err, ErrUserInactive) {
		t.Fatalf("inactive user = %v, want ErrUserInactive", err)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	m, _, sessions := testManager()
	ctx := context.Background()
	_, s, pair := register(t, m, "grace", "grace@example.com")

	if err := m.Logout(ctx, s); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if sessions.count() != 0 {
		t.Fatal("session survived logout")
	}
	if err := m.Logout(ctx, s); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if err := m.Logout(ctx, nil); err != nil {
		t.Fatalf("Logout(nil): %v", err)
	}
	if _, _, err := m.Authenticate(ctx, pair.Access); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("access after logout = %v, want ErrSessionNotFound", err)
	}
}
