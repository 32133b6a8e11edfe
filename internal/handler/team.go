package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/matchday/football-news-api/internal/auth"
	"github.com/matchday/football-news-api/internal/middleware"
	"github.com/matchday/football-news-api/internal/model"
	"github.com/matchday/football-news-api/internal/repository"
)

// TeamHandler exposes team CRUD.  Creation requires the team or admin role;
// updates are allowed to the linked team account or an admin; deletion is
// admin-only.
type TeamHandler struct {
	Teams   *repository.TeamRepo
	Leagues *repository.LeagueRepo
}

func NewTeamHandler(t *repository.TeamRepo, l *repository.LeagueRepo) *TeamHandler {
	return &TeamHandler{Teams: t, Leagues: l}
}

type teamReq struct {
	LeagueID    uint64 `json:"league_id"`
	Name        string `json:"name"`
	ShortName   string `json:"short_name"`
	LogoURL     string `json:"logo_url"`
	Stadium     string `json:"stadium"`
	FoundedYear int    `json:"founded_year"`
	IsActive    *bool  `json:"is_active"`
}

// List handles GET /api/teams with optional league and search filters.
func (h *TeamHandler) List(c echo.Context) error {
	p := getPage(c)
	leagueID, _ := strconv.ParseUint(c.QueryParam("league"), 10, 64)
	teams, total, err := h.Teams.List(c.Request().Context(), leagueID,
		strings.TrimSpace(c.QueryParam("search")), p.limit, p.offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": teams, "pagination": newPagination(total, p)})
}

// Get handles GET /api/teams/:id.
func (h *TeamHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.Teams.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Team not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, t)
}

// Create handles POST /api/teams (role team or admin).  A team-account
// creator becomes the linked account of the new team.
func (h *TeamHandler) Create(c echo.Context) error {
	u, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}
	var req teamReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || req.LeagueID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and league_id are required"})
	}
	if _, err := h.Leagues.GetByID(c.Request().Context(), req.LeagueID); err != nil {
		if errors.Is(err, repository.ErrLeagueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "League not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	t := &model.Team{
		LeagueID:    req.LeagueID,
		Name:        name,
		ShortName:   strings.TrimSpace(req.ShortName),
		LogoURL:     strings.TrimSpace(req.LogoURL),
		Stadium:     strings.TrimSpace(req.Stadium),
		FoundedYear: req.FoundedYear,
		IsActive:    true,
	}
	if u.AccountType == model.RoleTeam {
		t.UserID = u.ID
	}
	if err := h.Teams.Create(c.Request().Context(), t); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Team name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create team"})
	}
	return c.JSON(http.StatusCreated, t)
}

// Update handles PUT /api/teams/:id: linked account or admin.
func (h *TeamHandler) Update(c echo.Context) error {
	u, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}
	id, okID := paramID(c, "id")
	if !okID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.Teams.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Team not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !auth.CanModify(u.ID, u.AccountType, t.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Insufficient permissions"})
	}

	var req teamReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.LeagueID != 0 {
		if _, err := h.Leagues.GetByID(c.Request().Context(), req.LeagueID); err != nil {
			if errors.Is(err, repository.ErrLeagueNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "League not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		t.LeagueID = req.LeagueID
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		t.Name = name
	}
	if req.ShortName != "" {
		t.ShortName = strings.TrimSpace(req.ShortName)
	}
	if req.LogoURL != "" {
		t.LogoURL = strings.TrimSpace(req.LogoURL)
	}
	if req.Stadium != "" {
		t.Stadium = strings.TrimSpace(req.Stadium)
	}
	if req.FoundedYear > 0 {
		t.FoundedYear = req.FoundedYear
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if err := h.Teams.Update(c.Request().Context(), t); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Team name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /api/teams/:id (admin).
func (h *TeamHandler) Delete(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Teams.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Team not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
