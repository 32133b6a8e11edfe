package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/matchday/football-news-api/internal/model"
	"github.com/matchday/football-news-api/internal/repository"
)

// LeagueHandler exposes league CRUD.  Mutations are admin-only, enforced by
// the role gate at the route level.
type LeagueHandler struct {
	Leagues *repository.LeagueRepo
	Teams   *repository.TeamRepo
}

func NewLeagueHandler(l *repository.LeagueRepo, t *repository.TeamRepo) *LeagueHandler {
	return &LeagueHandler{Leagues: l, Teams: t}
}

type leagueReq struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	LogoURL  string `json:"logo_url"`
	Season   string `json:"season"`
	IsActive *bool  `json:"is_active"`
}

// List handles GET /api/leagues with optional country and search filters.
func (h *LeagueHandler) List(c echo.Context) error {
	p := getPage(c)
	leagues, total, err := h.Leagues.List(c.Request().Context(),
		strings.TrimSpace(c.QueryParam("country")), strings.TrimSpace(c.QueryParam("search")),
		p.limit, p.offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": leagues, "pagination": newPagination(total, p)})
}

// Get handles GET /api/leagues/:id.
func (h *LeagueHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	l, err := h.Leagues.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLeagueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "League not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, l)
}

// ListTeams handles GET /api/leagues/:id/teams.
func (h *LeagueHandler) ListTeams(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Leagues.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrLeagueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "League not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	p := getPage(c)
	teams, total, err := h.Teams.List(c.Request().Context(), id, "", p.limit, p.offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": teams, "pagination": newPagination(total, p)})
}

// Create handles POST /api/leagues (admin).
func (h *LeagueHandler) Create(c echo.Context) error {
	var req leagueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	country := strings.TrimSpace(req.Country)
	if name == "" || country == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and country are required"})
	}
	l := &model.League{
		Name:     name,
		Country:  country,
		LogoURL:  strings.TrimSpace(req.LogoURL),
		Season:   strings.TrimSpace(req.Season),
		IsActive: true,
	}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}
	if err := h.Leagues.Create(c.Request().Context(), l); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "League name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create league"})
	}
	return c.JSON(http.StatusCreated, l)
}

// Update handles PUT /api/leagues/:id (admin).
func (h *LeagueHandler) Update(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	l, err := h.Leagues.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLeagueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "League not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var req leagueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		l.Name = name
	}
	if country := strings.TrimSpace(req.Country); country != "" {
		l.Country = country
	}
	if req.LogoURL != "" {
		l.LogoURL = strings.TrimSpace(req.LogoURL)
	}
	if req.Season != "" {
		l.Season = strings.TrimSpace(req.Season)
	}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}
	if err := h.Leagues.Update(c.Request().Context(), l); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "League name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, l)
}

// Delete handles DELETE /api/leagues/:id (admin).
func (h *LeagueHandler) Delete(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Leagues.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrLeagueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "League not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
