package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchday/football-news-api/internal/model"
)

// ErrTeamNotFound is returned when a team cannot be found.
var ErrTeamNotFound = errors.New("team not found")

// TeamRepo encapsulates queries against the `teams` table.
type TeamRepo struct{ db *sql.DB }

func NewTeamRepo(db *sql.DB) *TeamRepo { return &TeamRepo{db: db} }

const teamColumns = "id, league_id, user_id, name, short_name, logo_url, stadium, founded_year, is_active, created_at, updated_at"

func scanTeam(scan func(dest ...any) error) (*model.Team, error) {
	var (
		t           model.Team
		userID      sql.NullString
		shortName   sql.NullString
		logoURL     sql.NullString
		stadium     sql.NullString
		foundedYear sql.NullInt64
	)
	if err := scan(&t.ID, &t.LeagueID, &userID, &t.Name, &shortName, &logoURL, &stadium, &foundedYear, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.UserID = userID.String
	t.ShortName = shortName.String
	t.LogoURL = logoURL.String
	t.Stadium = stadium.String
	t.FoundedYear = int(foundedYear.Int64)
	return &t, nil
}

// Create inserts a team and fills in the generated id and timestamps.
func (r *TeamRepo) Create(ctx context.Context, t *model.Team) error {
	const q = `INSERT INTO teams
		(league_id, user_id, name, short_name, logo_url, stadium, founded_year, is_active)
		VALUES (?,?,?,?,?,?,?,?)`
	var year sql.NullInt64
	if t.FoundedYear > 0 {
		year = sql.NullInt64{Int64: int64(t.FoundedYear), Valid: true}
	}
	res, err := r.db.ExecContext(ctx, q,
		t.LeagueID, nullStr(t.UserID), t.Name, nullStr(t.ShortName), nullStr(t.LogoURL), nullStr(t.Stadium), year, t.IsActive)
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
	t.ID = uint64(id)
	created, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

// GetByID fetches a team by id, returning ErrTeamNotFound when absent.
func (r *TeamRepo) GetByID(ctx context.Context, id uint64) (*model.Team, error) {
	const q = "SELECT " + teamColumns + " FROM teams WHERE id=?"
	t, err := scanTeam(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns a page of teams plus the total count.  League and search
// filters are optional; leagueID 0 means all leagues.
func (r *TeamRepo) List(ctx context.Context, leagueID uint64, search string, limit, offset int) ([]model.Team, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	if leagueID > 0 {
		where += " AND league_id=?"
		args = append(args, leagueID)
	}
	if search != "" {
		where += " AND (name LIKE ? OR short_name LIKE ?)"
		args = append(args, "%"+search+"%", "%"+search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM teams "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + teamColumns + " FROM teams " + where + " ORDER BY name ASC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		t, err := scanTeam(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		teams = append(teams, *t)
	}
	return teams, total, rows.Err()
}

// Update persists the mutable fields of a team.
func (r *TeamRepo) Update(ctx context.Context, t *model.Team) error {
	const q = `UPDATE teams
		SET league_id=?, name=?, short_name=?, logo_url=?, stadium=?, founded_year=?, is_active=?
		WHERE id=?`
	var year sql.NullInt64
	if t.FoundedYear > 0 {
		year = sql.NullInt64{Int64: int64(t.FoundedYear), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, q,
		t.LeagueID, t.Name, nullStr(t.ShortName), nullStr(t.LogoURL), nullStr(t.Stadium), year, t.IsActive, t.ID)
	if isDuplicate(err) {
		return ErrConflict
	}
	return err
}

// Delete removes a team.  Returns ErrTeamNotFound when nothing matched.
func (r *TeamRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM teams WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTeamNotFound
	}
	return nil
}
