package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/matchday/football-news-api/internal/model"
)

// UserRepo is the credential store: it persists user identity records in
// the `users` table.  Lookup methods return (nil, nil) when no row matches,
// which is the contract the auth manager relies on.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, username, email, password, account_type, full_name, bio, avatar_url, is_verified, is_active, last_login, created_at, updated_at"

// scanUser reads one user row; nullable columns map onto Go zero values.
func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u         model.User
		fullName  sql.NullString
		bio       sql.NullString
		avatarURL sql.NullString
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.AccountType,
		&fullName, &bio, &avatarURL, &u.IsVerified, &u.IsActive, &lastLogin,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.FullName = fullName.String
	u.Bio = bio.String
	u.AvatarURL = avatarURL.String
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = "SELECT " + userColumns + " FROM users WHERE email=? LIMIT 1"
	return scanUser(r.DB.QueryRowContext(ctx, q, email))
}

// GetByUsername fetches a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = "SELECT " + userColumns + " FROM users WHERE username=? LIMIT 1"
	return scanUser(r.DB.QueryRowContext(ctx, q, username))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	const q = "SELECT " + userColumns + " FROM users WHERE id=? LIMIT 1"
	return scanUser(r.DB.QueryRowContext(ctx, q, id))
}

// Create inserts a new user record.  The caller is responsible for the id
// and the password digest; uniqueness races surface as ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO users
		(id, username, email, password, account_type, full_name, bio, avatar_url, is_verified, is_active)
		VALUES (?,?,?,?,?,?,?,?,?,?)`
	_, err := r.DB.ExecContext(ctx, q,
		u.ID, u.Username, u.Email, u.PasswordHash, u.AccountType,
		nullStr(u.FullName), nullStr(u.Bio), nullStr(u.AvatarURL), u.IsVerified, u.IsActive)
	if isDuplicate(err) {
		return ErrConflict
	}
	return err
}

// UpdateLastLogin stamps the user's last successful login.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET last_login=? WHERE id=?", at, id)
	return err
}

// UpdateProfile persists the mutable profile fields of a user.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	const q = "UPDATE users SET full_name=?, bio=?, avatar_url=? WHERE id=?"
	_, err := r.DB.ExecContext(ctx, q, nullStr(u.FullName), nullStr(u.Bio), nullStr(u.AvatarURL), u.ID)
	return err
}

// Deactivate soft-disables an account.  Disabled users fail every
// authorization check from the next request on.
func (r *UserRepo) Deactivate(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET is_active=0 WHERE id=?", id)
	return err
}

// List returns a page of users ordered by creation time, newest first,
// together with the total count.  Admin-only at the handler level.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]model.User, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = "SELECT " + userColumns + " FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows, err := r.DB.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var (
			u         model.User
			fullName  sql.NullString
			bio       sql.NullString
			avatarURL sql.NullString
			lastLogin sql.NullTime
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.AccountType,
			&fullName, &bio, &avatarURL, &u.IsVerified, &u.IsActive, &lastLogin,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		u.FullName = fullName.String
		u.Bio = bio.String
		u.AvatarURL = avatarURL.String
		if lastLogin.Valid {
			t := lastLogin.Time
			u.LastLogin = &t
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// nullStr maps empty strings to SQL NULL.
func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
