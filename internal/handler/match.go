package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matchday/football-news-api/internal/model"
	"github.com/matchday/football-news-api/internal/repository"
)

// MatchHandler exposes fixture listings and admin-only mutations.
type MatchHandler struct {
	Matches *repository.MatchRepo
	Leagues *repository.LeagueRepo
	Teams   *repository.TeamRepo
}

func NewMatchHandler(m *repository.MatchRepo, l *repository.LeagueRepo, t *repository.TeamRepo) *MatchHandler {
	return &MatchHandler{Matches: m, Leagues: l, Teams: t}
}

type matchReq struct {
	LeagueID   uint64 `json:"league_id"`
	HomeTeamID uint64 `json:"home_team_id"`
	AwayTeamID uint64 `json:"away_team_id"`
	KickoffAt  string `json:"kickoff_at"` // RFC 3339
	Status     string `json:"status"`
	HomeScore  *int   `json:"home_score"`
	AwayScore  *int   `json:"away_score"`
	Venue      string `json:"venue"`
}

// List handles GET /api/matches with league, team and status filters.
func (h *MatchHandler) List(c echo.Context) error {
	p := getPage(c)
	status := c.QueryParam("status")
	if status != "" && !model.ValidMatchStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	leagueID, _ := strconv.ParseUint(c.QueryParam("league"), 10, 64)
	teamID, _ := strconv.ParseUint(c.QueryParam("team"), 10, 64)
	matches, total, err := h.Matches.List(c.Request().Context(), leagueID, teamID, status, p.limit, p.offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": matches, "pagination": newPagination(total, p)})
}

// Live handles GET /api/matches/live.
func (h *MatchHandler) Live(c echo.Context) error {
	matches, err := h.Matches.ListLive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": matches})
}

// Get handles GET /api/matches/:id.
func (h *MatchHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Matches.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Match not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MatchHandler) checkRefs(c echo.Context, leagueID, homeID, awayID uint64) error {
	ctx := c.Request().Context()
	if _, err := h.Leagues.GetByID(ctx, leagueID); err != nil {
		if errors.Is(err, repository.ErrLeagueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "League not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	for _, id := range []uint64{homeID, awayID} {
		if _, err := h.Teams.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrTeamNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "Team not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}
	return nil
}

// Create handles POST /api/matches (admin).
func (h *MatchHandler) Create(c echo.Context) error {
	var req matchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.LeagueID == 0 || req.HomeTeamID == 0 || req.AwayTeamID == 0 || req.KickoffAt == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "league_id, home_team_id, away_team_id and kickoff_at are required"})
	}
	if req.HomeTeamID == req.AwayTeamID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a team cannot play itself"})
	}
	kickoff, err := time.Parse(time.RFC3339, req.KickoffAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kickoff_at must be RFC 3339"})
	}
	status := req.Status
	if status == "" {
		status = model.MatchScheduled
	}
	if !model.ValidMatchStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if resp := h.checkRefs(c, req.LeagueID, req.HomeTeamID, req.AwayTeamID); resp != nil {
		return resp
	}

	m := &model.Match{
		LeagueID:   req.LeagueID,
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		KickoffAt:  kickoff.UTC(),
		Status:     status,
		Venue:      req.Venue,
	}
	if err := h.Matches.Create(c.Request().Context(), m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create match"})
	}
	return c.JSON(http.StatusCreated, m)
}

// Update handles PUT /api/matches/:id (admin).  Typically used to move a
// match through scheduled -> live -> finished and to record scores.
func (h *MatchHandler) Update(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Matches.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Match not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var req matchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.KickoffAt != "" {
		kickoff, err := time.Parse(time.RFC3339, req.KickoffAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "kickoff_at must be RFC 3339"})
		}
		m.KickoffAt = kickoff.UTC()
	}
	if req.Status != "" {
		if !model.ValidMatchStatus(req.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		m.Status = req.Status
	}
	if req.HomeScore != nil {
		m.HomeScore = *req.HomeScore
	}
	if req.AwayScore != nil {
		m.AwayScore = *req.AwayScore
	}
	if req.Venue != "" {
		m.Venue = req.Venue
	}
	if err := h.Matches.Update(c.Request().Context(), m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /api/matches/:id (admin).
func (h *MatchHandler) Delete(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Matches.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Match not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
