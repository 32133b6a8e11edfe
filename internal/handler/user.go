package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/matchday/football-news-api/internal/middleware"
	"github.com/matchday/football-news-api/internal/model"
	"github.com/matchday/football-news-api/internal/repository"
)

// UserHandler exposes account administration and profile endpoints.
type UserHandler struct {
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
}

func NewUserHandler(u *repository.UserRepo, s *repository.SessionRepo) *UserHandler {
	return &UserHandler{Users: u, Sessions: s}
}

// List handles GET /api/users (admin only, enforced at the route).
func (h *UserHandler) List(c echo.Context) error {
	p := getPage(c)
	users, total, err := h.Users.List(c.Request().Context(), p.limit, p.offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]model.PublicUser, 0, len(users))
	for i := range users {
		items = append(items, users[i].Public())
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "pagination": newPagination(total, p)})
}

// Get handles GET /api/users/:id and returns a public profile.
func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.Users.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if u == nil || !u.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}
	return c.JSON(http.StatusOK, u.Public())
}

// UpdateMe handles PUT /api/users/me: update the acting user's profile
// fields.  Credentials and role are not editable here.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	u, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}
	var body struct {
		FullName  *string `json:"full_name"`
		Bio       *string `json:"bio"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.FullName != nil {
		u.FullName = *body.FullName
	}
	if body.Bio != nil {
		u.Bio = *body.Bio
	}
	if body.AvatarURL != nil {
		u.AvatarURL = *body.AvatarURL
	}
	if err := h.Users.UpdateProfile(c.Request().Context(), u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, u.Public())
}

// DeleteMe handles DELETE /api/users/me: soft-disable the account and
// destroy every session the user holds, on all devices.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	u, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}
	ctx := c.Request().Context()
	if err := h.Users.Deactivate(ctx, u.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivation failed"})
	}
	if err := h.Sessions.DeleteByUser(ctx, u.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Account deactivated"})
}
