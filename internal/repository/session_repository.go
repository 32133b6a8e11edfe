package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/matchday/football-news-api/internal/model"
)

// SessionRepo is the session store: one row per outstanding login in the
// `sessions` table.  The token and refresh_token columns carry UNIQUE
// indexes, so the astronomically unlikely token collision surfaces as
// ErrConflict on insert rather than silently overwriting another session.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

const sessionColumns = "id, user_id, token, refresh_token, ip_address, user_agent, expires_at, created_at"

func scanSession(row *sql.Row) (*model.Session, error) {
	var (
		s         model.Session
		ipAddress sql.NullString
		userAgent sql.NullString
	)
	err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.RefreshToken, &ipAddress, &userAgent, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.IPAddress = ipAddress.String
	s.UserAgent = userAgent.String
	return &s, nil
}

// Create inserts a new session row.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = `INSERT INTO sessions
		(id, user_id, token, refresh_token, ip_address, user_agent, expires_at)
		VALUES (?,?,?,?,?,?,?)`
	_, err := r.DB.ExecContext(ctx, q,
		s.ID, s.UserID, s.Token, s.RefreshToken, nullStr(s.IPAddress), nullStr(s.UserAgent), s.ExpiresAt)
	if isDuplicate(err) {
		return ErrConflict
	}
	return err
}

// GetByAccessToken looks a session up by its current access token.
func (r *SessionRepo) GetByAccessToken(ctx context.Context, token string) (*model.Session, error) {
	const q = "SELECT " + sessionColumns + " FROM sessions WHERE token=? LIMIT 1"
	return scanSession(r.DB.QueryRowContext(ctx, q, token))
}

// GetByRefreshTokenAndUser looks a session up by refresh token, scoped to
// the claimed subject.  The user scoping prevents cross-account replay even
// if a refresh token were somehow guessed.
func (r *SessionRepo) GetByRefreshTokenAndUser(ctx context.Context, token, userID string) (*model.Session, error) {
	const q = "SELECT " + sessionColumns + " FROM sessions WHERE refresh_token=? AND user_id=? LIMIT 1"
	return scanSession(r.DB.QueryRowContext(ctx, q, token, userID))
}

// Rotate atomically replaces both tokens and extends the expiry on the row
// identified by session id.  A single UPDATE (never delete-then-insert)
// guarantees that concurrent lookups by the old tokens observe "not found"
// the instant this commits, with no window where both pairs resolve.
func (r *SessionRepo) Rotate(ctx context.Context, id, newAccess, newRefresh string, expiresAt time.Time) error {
	const q = "UPDATE sessions SET token=?, refresh_token=?, expires_at=? WHERE id=?"
	_, err := r.DB.ExecContext(ctx, q, newAccess, newRefresh, expiresAt, id)
	if isDuplicate(err) {
		return ErrConflict
	}
	return err
}

// Delete removes a session row.  Deleting an absent row is a no-op, which
// makes logout and lazy expiry pruning idempotent.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE id=?", id)
	return err
}

// DeleteByUser removes every session of a user; used when an account is
// deleted or deactivated so the cascade invalidates all devices at once.
func (r *SessionRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE user_id=?", userID)
	return err
}
