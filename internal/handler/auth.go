package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matchday/football-news-api/internal/auth"
	"github.com/matchday/football-news-api/internal/middleware"
	"github.com/matchday/football-news-api/internal/model"
)

// AuthHandler exposes the session lifecycle endpoints over the auth
// manager.
type AuthHandler struct {
	Manager *auth.Manager
}

func NewAuthHandler(m *auth.Manager) *AuthHandler { return &AuthHandler{Manager: m} }

// ----- DTOs -----

type registerReq struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	AccountType string `json:"account_type"` // fan | team | admin
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResp struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type authResp struct {
	User model.PublicUser `json:"user"`
	tokenResp
}

// clientInfo captures the request metadata recorded on the session.
func clientInfo(c echo.Context) auth.ClientInfo {
	return auth.ClientInfo{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}

// Register handles POST /api/auth/register: create the user and return a
// session's token pair immediately.  Username and email conflicts are
// reported distinctly so the client can highlight the offending field.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, _, pair, err := h.Manager.Register(ctx, auth.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		AccountType: req.AccountType,
	}, clientInfo(c))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Email already registered"})
		case errors.Is(err, auth.ErrUsernameTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Username already taken"})
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, email and password are required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		User:      u.Public(),
		tokenResp: tokenResp{AccessToken: pair.Access, RefreshToken: pair.Refresh, ExpiresAt: pair.AccessExpires},
	})
}

// Login handles POST /api/auth/login.  Unknown email and wrong password are
// answered identically.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, _, pair, err := h.Manager.Login(ctx, req.Email, req.Password, clientInfo(c))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password"})
		case errors.Is(err, auth.ErrAccountDisabled):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Account is deactivated"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:      u.Public(),
		tokenResp: tokenResp{AccessToken: pair.Access, RefreshToken: pair.Refresh, ExpiresAt: pair.AccessExpires},
	})
}

// Refresh handles POST /api/auth/refresh: exchange a refresh token for a
// brand-new pair, rotating the session.  The old pair is dead the moment
// this returns.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req) // an unparsable body is the same as a missing token

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Manager.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrRefreshRequired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Refresh token is required"})
		case errors.Is(err, auth.ErrInvalidRefresh):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}

	return c.JSON(http.StatusOK, tokenResp{AccessToken: pair.Access, RefreshToken: pair.Refresh, ExpiresAt: pair.AccessExpires})
}

// Logout handles POST /api/auth/logout (protected): destroy the session
// bound by the gate.  Always succeeds for a valid credential.
func (h *AuthHandler) Logout(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Manager.Logout(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

// Me handles GET /api/auth/me (protected): return the acting user's public
// profile, never the password digest.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}
	return c.JSON(http.StatusOK, u.Public())
}
