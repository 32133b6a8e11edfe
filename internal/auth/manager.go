package auth

import (
	"context"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matchday/football-news-api/internal/config"
	"github.com/matchday/football-news-api/internal/model"
	"github.com/matchday/football-news-api/internal/utils"
)

// UserStore is the credential store the manager needs: lookup, create and
// save of user identity records.  Lookup methods return (nil, nil) when no
// record matches; errors are reserved for store failures.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// SessionStore persists one record per login.  GetByAccessToken and
// GetByRefreshTokenAndUser return (nil, nil) when no record matches.
// Rotate must be a single atomic update of the row identified by session id
// so that, once it commits, lookups by the old tokens observe nothing.
// Delete is idempotent.
type SessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	GetByAccessToken(ctx context.Context, token string) (*model.Session, error)
	GetByRefreshTokenAndUser(ctx context.Context, token, userID string) (*model.Session, error)
	Rotate(ctx context.Context, id, newAccess, newRefresh string, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// ClientInfo is the request metadata recorded on the session at login.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	AccountType string
}

// TokenPair is a freshly issued access/refresh pair with expiries.
type TokenPair struct {
	Access         string
	AccessExpires  time.Time
	Refresh        string
	RefreshExpires time.Time
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]{3,50}$`)

// Manager orchestrates session issuance, rotation and invalidation, keeping
// the session store and token codec consistent.  All operations are single
// shot: a failure surfaces immediately, nothing is retried internally.
type Manager struct {
	codec      *Codec
	users      UserStore
	sessions   SessionStore
	bcryptCost int
}

// NewManager wires a Manager from its collaborators.
func NewManager(cfg config.Config, codec *Codec, users UserStore, sessions SessionStore) *Manager {
	return &Manager{codec: codec, users: users, sessions: sessions, bcryptCost: cfg.BcryptCost}
}

// issuePair issues an access and a refresh token for a subject.
func (m *Manager) issuePair(subject string) (TokenPair, error) {
	access, accessExp, err := m.codec.Issue(subject, PurposeAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := m.codec.Issue(subject, PurposeRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, AccessExpires: accessExp, Refresh: refresh, RefreshExpires: refreshExp}, nil
}

// openSession persists a new session for the user carrying the token pair.
// The session expiry tracks the access token window; the longer refresh TTL
// lives inside the refresh token itself.
func (m *Manager) openSession(ctx context.Context, userID string, pair TokenPair, client ClientInfo) (*model.Session, error) {
	s := &model.Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		Token:        pair.Access,
		RefreshToken: pair.Refresh,
		IPAddress:    client.IPAddress,
		UserAgent:    client.UserAgent,
		ExpiresAt:    pair.AccessExpires,
	}
	if err := m.sessions.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Register creates a user, issues a token pair and opens a session.  The
// email and username conflicts are checked independently so the client can
// highlight the offending field.
func (m *Manager) Register(ctx context.Context, in RegisterInput, client ClientInfo) (*model.User, *model.Session, TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)
	if email == "" || in.Password == "" || !usernameRe.MatchString(username) {
		return nil, nil, TokenPair{}, ErrInvalidCredentials
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, TokenPair{}, ErrInvalidCredentials
	}

	if existing, err := m.users.GetByEmail(ctx, email); err != nil {
		return nil, nil, TokenPair{}, err
	} else if existing != nil {
		return nil, nil, TokenPair{}, ErrEmailTaken
	}
	if existing, err := m.users.GetByUsername(ctx, username); err != nil {
		return nil, nil, TokenPair{}, err
	} else if existing != nil {
		return nil, nil, TokenPair{}, ErrUsernameTaken
	}

	hash, err := utils.HashPassword(in.Password, m.bcryptCost)
	if err != nil {
		return nil, nil, TokenPair{}, err
	}
	accountType := in.AccountType
	if accountType != model.RoleTeam && accountType != model.RoleAdmin {
		accountType = model.RoleFan
	}
	u := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		AccountType:  accountType,
		FullName:     strings.TrimSpace(in.FullName),
		IsActive:     true,
	}
	if err := m.users.Create(ctx, u); err != nil {
		return nil, nil, TokenPair{}, err
	}

	pair, err := m.issuePair(u.ID)
	if err != nil {
		return nil, nil, TokenPair{}, err
	}
	s, err := m.openSession(ctx, u.ID, pair, client)
	if err != nil {
		return nil, nil, TokenPair{}, err
	}
	return u, s, pair, nil
}

// Login verifies credentials and opens a fresh session.  Unknown email and
// wrong password are indistinguishable to the caller.  Other sessions of the
// same user stay valid; concurrent logins from several devices are allowed.
func (m *Manager) Login(ctx context.Context, email, password string, client ClientInfo) (*model.User, *model.Session, TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, TokenPair{}, err
	}
	if u == nil {
		return nil, nil, TokenPair{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, nil, TokenPair{}, ErrAccountDisabled
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := m.issuePair(u.ID)
	if err != nil {
		return nil, nil, TokenPair{}, err
	}
	s, err := m.openSession(ctx, u.ID, pair, client)
	if err != nil {
		return nil, nil, TokenPair{}, err
	}
	now := time.Now().UTC()
	if err := m.users.UpdateLastLogin(ctx, u.ID, now); err != nil {
		return nil, nil, TokenPair{}, err
	}
	u.LastLogin = &now
	return u, s, pair, nil
}

// Refresh exchanges a refresh token for a brand-new pair, rotating the
// owning session in place.  The lookup is scoped to the token's subject so a
// guessed token cannot be replayed across accounts, and a stale token whose
// session was already rotated is refused even though its signature still
// verifies — rotation is single use.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, ErrRefreshRequired
	}
	subject, err := m.codec.Verify(refreshToken, PurposeRefresh)
	if err != nil {
		// Signature, purpose and expiry failures all collapse here.
		return TokenPair{}, ErrInvalidRefresh
	}
	s, err := m.sessions.GetByRefreshTokenAndUser(ctx, refreshToken, subject)
	if err != nil {
		return TokenPair{}, err
	}
	if s == nil {
		return TokenPair{}, ErrInvalidRefresh
	}

	pair, err := m.issuePair(subject)
	if err != nil {
		return TokenPair{}, err
	}
	// Single atomic update: once this commits the old pair is gone.
	if err := m.sessions.Rotate(ctx, s.ID, pair.Access, pair.Refresh, pair.AccessExpires); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Logout destroys the session.  Destroying an already-destroyed session is a
// no-op.
func (m *Manager) Logout(ctx context.Context, s *model.Session) error {
	if s == nil {
		return nil
	}
	return m.sessions.Delete(ctx, s.ID)
}

// Authenticate is the single authorization decision point behind every
// protected endpoint.  It verifies the presented access token against the
// codec and the session store, prunes lazily detected expiry, and loads the
// acting user.  Failures are exactly one of ErrInvalidToken, ErrWrongPurpose,
// ErrTokenExpired, ErrSessionNotFound or ErrUserInactive.
func (m *Manager) Authenticate(ctx context.Context, accessToken string) (*model.User, *model.Session, error) {
	subject, err := m.codec.Verify(accessToken, PurposeAccess)
	if err != nil {
		return nil, nil, err
	}
	s, err := m.sessions.GetByAccessToken(ctx, accessToken)
	if err != nil {
		return nil, nil, err
	}
	if s == nil || s.UserID != subject {
		// A verified-but-unknown token means the session was rotated or
		// revoked elsewhere.
		return nil, nil, ErrSessionNotFound
	}
	if s.IsExpired() {
		if err := m.sessions.Delete(ctx, s.ID); err != nil {
			return nil, nil, err
		}
		return nil, nil, ErrTokenExpired
	}
	u, err := m.users.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, nil, err
	}
	if u == nil || !u.IsActive {
		return nil, nil, ErrUserInactive
	}
	return u, s, nil
}

// CurrentUser resolves the user owning a session.
func (m *Manager) CurrentUser(ctx context.Context, s *model.Session) (*model.User, error) {
	u, err := m.users.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, ErrUserInactive
	}
	return u, nil
}
