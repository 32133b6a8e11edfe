package model

import "time"

// Account types stored in users.account_type.  Every user carries exactly
// one of these.
const (
	RoleFan   = "fan"
	RoleTeam  = "team"
	RoleAdmin = "admin"
)

// User represents a row in the `users` table.  The primary key is a UUIDv4
// string generated at registration.  PasswordHash holds a bcrypt digest and
// must never leave the repository/auth layers; handlers respond with
// PublicUser instead.
type User struct {
	ID           string     // users.id (uuid)
	Username     string     // users.username, unique
	Email        string     // users.email, unique
	PasswordHash string     // users.password, bcrypt digest
	AccountType  string     // users.account_type: fan | team | admin
	FullName     string     // users.full_name
	Bio          string     // users.bio
	AvatarURL    string     // users.avatar_url
	IsVerified   bool       // users.is_verified
	IsActive     bool       // users.is_active
	LastLogin    *time.Time // users.last_login (nullable)
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}

// PublicUser is the externally visible projection of a User.  It omits the
// password digest and the active flag.
type PublicUser struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	AccountType string    `json:"account_type"`
	FullName    string    `json:"full_name,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}

// Public returns the serializable view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		AccountType: u.AccountType,
		FullName:    u.FullName,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		IsVerified:  u.IsVerified,
		CreatedAt:   u.CreatedAt,
	}
}
