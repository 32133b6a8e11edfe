// Package middleware provides shared request processing: the authorization
// gate, the role gate, Redis rate limiting and Redis response caching.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/matchday/football-news-api/internal/auth"
	"github.com/matchday/football-news-api/internal/model"
)

// Context keys under which the gate binds the resolved identity.  Handlers
// read them through UserFrom/SessionFrom; the rate limiter reads user_id for
// its bucket key.
const (
	ctxUser    = "user"
	ctxSession = "session"
	ctxUserID  = "user_id"
)

// AuthState classifies how a request's credential resolved.  The tri-state
// makes the soft-fail of optional authentication explicit instead of a
// swallowed error: Rejected means a credential was presented and failed.
type AuthState int

const (
	StateAnonymous AuthState = iota
	StateAuthenticated
	StateRejected
)

// Identity is the outcome of resolving a request's bearer credential.
type Identity struct {
	State   AuthState
	User    *model.User
	Session *model.Session
}

// bearerToken extracts the token from an "Authorization: Bearer <t>" header.
// The second return is false when the header is missing or malformed.
func bearerToken(c echo.Context) (string, bool) {
	h := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	t := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return t, t != ""
}

// resolveIdentity runs the full authorization decision for a request:
// bearer extraction, codec verification, session lookup, lazy expiry
// pruning and user loading, all inside the manager.
func resolveIdentity(c echo.Context, mgr *auth.Manager) (Identity, error) {
	tok, ok := bearerToken(c)
	if !ok {
		return Identity{State: StateAnonymous}, nil
	}
	u, s, err := mgr.Authenticate(c.Request().Context(), tok)
	if err != nil {
		return Identity{State: StateRejected}, err
	}
	return Identity{State: StateAuthenticated, User: u, Session: s}, nil
}

// bind attaches the authenticated identity to the request context so no
// further database round-trip is needed downstream.
func bind(c echo.Context, id Identity) {
	c.Set(ctxUser, id.User)
	c.Set(ctxSession, id.Session)
	c.Set(ctxUserID, id.User.ID)
}

// Authenticate returns the gate middleware for protected routes.  Every
// failure is mapped onto the coarse taxonomy below; anything unrecognized is
// answered with a generic 500 — the gate fails closed, never open.
func Authenticate(mgr *auth.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := bearerToken(c); !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Access token is required"})
			}
			id, err := resolveIdentity(c, mgr)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrWrongPurpose):
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token"})
				case errors.Is(err, auth.ErrTokenExpired):
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Token has expired"})
				case errors.Is(err, auth.ErrSessionNotFound):
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
				case errors.Is(err, auth.ErrUserInactive):
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "User not found or inactive"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authentication failed"})
			}
			bind(c, id)
			return next(c)
		}
	}
}

// OptionalAuthenticate resolves a credential when one is presented but never
// blocks the request: an absent or failing credential leaves the request
// anonymous.  Intended only for endpoints with both public and personalized
// behavior; their handlers must treat UserFrom as optionally absent.
func OptionalAuthenticate(mgr *auth.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, _ := resolveIdentity(c, mgr)
			if id.State == StateAuthenticated {
				bind(c, id)
			}
			return next(c)
		}
	}
}

// UserFrom returns the authenticated user bound by the gate, if any.
func UserFrom(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(ctxUser).(*model.User)
	return u, ok && u != nil
}

// SessionFrom returns the session bound by the gate, if any.
func SessionFrom(c echo.Context) (*model.Session, bool) {
	s, ok := c.Get(ctxSession).(*model.Session)
	return s, ok && s != nil
}
