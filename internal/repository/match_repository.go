package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchday/football-news-api/internal/model"
)

// ErrMatchNotFound is returned when a match cannot be found.
var ErrMatchNotFound = errors.New("match not found")

// MatchRepo encapsulates queries against the `matches` table.
type MatchRepo struct{ db *sql.DB }

func NewMatchRepo(db *sql.DB) *MatchRepo { return &MatchRepo{db: db} }

const matchColumns = "id, league_id, home_team_id, away_team_id, kickoff_at, status, home_score, away_score, venue, created_at, updated_at"

func scanMatch(scan func(dest ...any) error) (*model.Match, error) {
	var (
		m     model.Match
		venue sql.NullString
	)
	if err := scan(&m.ID, &m.LeagueID, &m.HomeTeamID, &m.AwayTeamID, &m.KickoffAt, &m.Status, &m.HomeScore, &m.AwayScore, &venue, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Venue = venue.String
	return &m, nil
}

// Create inserts a match and fills in the generated id and timestamps.
func (r *MatchRepo) Create(ctx context.Context, m *model.Match) error {
	const q = `INSERT INTO matches
		(league_id, home_team_id, away_team_id, kickoff_at, status, home_score, away_score, venue)
		VALUES (?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		m.LeagueID, m.HomeTeamID, m.AwayTeamID, m.KickoffAt, m.Status, m.HomeScore, m.AwayScore, nullStr(m.Venue))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	created, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = *created
	return nil
}

// GetByID fetches a match by id, returning ErrMatchNotFound when absent.
func (r *MatchRepo) GetByID(ctx context.Context, id uint64) (*model.Match, error) {
	const q = "SELECT " + matchColumns + " FROM matches WHERE id=?"
	m, err := scanMatch(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

// List returns a page of matches plus the total count.  League, team and
// status filters are optional; a team filter matches home or away side.
func (r *MatchRepo) List(ctx context.Context, leagueID, teamID uint64, status string, limit, offset int) ([]model.Match, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	if leagueID > 0 {
		where += " AND league_id=?"
		args = append(args, leagueID)
	}
	if teamID > 0 {
		where += " AND (home_team_id=? OR away_team_id=?)"
		args = append(args, teamID, teamID)
	}
	if status != "" {
		where += " AND status=?"
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM matches "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + matchColumns + " FROM matches " + where + " ORDER BY kickoff_at DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		m, err := scanMatch(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		matches = append(matches, *m)
	}
	return matches, total, rows.Err()
}

// ListLive returns all matches currently in play, oldest kickoff first.
func (r *MatchRepo) ListLive(ctx context.Context) ([]model.Match, error) {
	const q = "SELECT " + matchColumns + " FROM matches WHERE status=? ORDER BY kickoff_at ASC"
	rows, err := r.db.QueryContext(ctx, q, model.MatchLive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		m, err := scanMatch(rows.Scan)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// Update persists the mutable fields of a match (schedule, status, score).
func (r *MatchRepo) Update(ctx context.Context, m *model.Match) error {
	const q = `UPDATE matches
		SET league_id=?, home_team_id=?, away_team_id=?, kickoff_at=?, status=?, home_score=?, away_score=?, venue=?
		WHERE id=?`
	_, err := r.db.ExecContext(ctx, q,
		m.LeagueID, m.HomeTeamID, m.AwayTeamID, m.KickoffAt, m.Status, m.HomeScore, m.AwayScore, nullStr(m.Venue), m.ID)
	return err
}

// Delete removes a match.  Returns ErrMatchNotFound when nothing matched.
func (r *MatchRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM matches WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrMatchNotFound
	}
	return nil
}
