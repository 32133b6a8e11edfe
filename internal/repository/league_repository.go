package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchday/football-news-api/internal/model"
)

// ErrLeagueNotFound is returned when a league cannot be found.
var ErrLeagueNotFound = errors.New("league not found")

// LeagueRepo encapsulates queries against the `leagues` table.
type LeagueRepo struct{ db *sql.DB }

func NewLeagueRepo(db *sql.DB) *LeagueRepo { return &LeagueRepo{db: db} }

const leagueColumns = "id, name, country, logo_url, season, is_active, created_at, updated_at"

func scanLeague(scan func(dest ...any) error) (*model.League, error) {
	var (
		l       model.League
		logoURL sql.NullString
		season  sql.NullString
	)
	if err := scan(&l.ID, &l.Name, &l.Country, &logoURL, &season, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.LogoURL = logoURL.String
	l.Season = season.String
	return &l, nil
}

// Create inserts a league and fills in the generated id and timestamps.
func (r *LeagueRepo) Create(ctx context.Context, l *model.League) error {
	const q = "INSERT INTO leagues (name, country, logo_url, season, is_active) VALUES (?,?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, l.Name, l.Country, nullStr(l.LogoURL), nullStr(l.Season), l.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	created, err := r.GetByID(ctx, l.ID)
	if err != nil {
		return err
	}
	*l = *created
	return nil
}

// GetByID fetches a league by id, returning ErrLeagueNotFound when absent.
func (r *LeagueRepo) GetByID(ctx context.Context, id uint64) (*model.League, error) {
	const q = "SELECT " + leagueColumns + " FROM leagues WHERE id=?"
	l, err := scanLeague(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}
	return l, nil
}

// List returns a page of leagues plus the total count.  Country and search
// filters are optional.
func (r *LeagueRepo) List(ctx context.Context, country, search string, limit, offset int) ([]model.League, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	if country != "" {
		where += " AND country=?"
		args = append(args, country)
	}
	if search != "" {
		where += " AND name LIKE ?"
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM leagues "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + leagueColumns + " FROM leagues " + where + " ORDER BY name ASC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leagues []model.League
	for rows.Next() {
		l, err := scanLeague(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		leagues = append(leagues, *l)
	}
	return leagues, total, rows.Err()
}

// Update persists the mutable fields of a league.
func (r *LeagueRepo) Update(ctx context.Context, l *model.League) error {
	const q = "UPDATE leagues SET name=?, country=?, logo_url=?, season=?, is_active=? WHERE id=?"
	res, err := r.db.ExecContext(ctx, q, l.Name, l.Country, nullStr(l.LogoURL), nullStr(l.Season), l.IsActive, l.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByID(ctx, l.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a league.  Returns ErrLeagueNotFound when nothing matched.
func (r *LeagueRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM leagues WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrLeagueNotFound
	}
	return nil
}
