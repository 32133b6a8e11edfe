package model

import "time"

// Team represents a row in the `teams` table.  UserID links a team to the
// user account that manages it (account_type "team"); it is empty for teams
// without a claimed account.  Ownership checks on team mutations compare
// against this link.
type Team struct {
	ID          uint64    `json:"id"`
	LeagueID    uint64    `json:"league_id"`
	UserID      string    `json:"user_id,omitempty"` // linked account, may be empty
	Name        string    `json:"name"`
	ShortName   string    `json:"short_name,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	Stadium     string    `json:"stadium,omitempty"`
	FoundedYear int       `json:"founded_year,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
