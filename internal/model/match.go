package model

import "time"

// Match statuses stored in matches.status.
const (
	MatchScheduled = "scheduled"
	MatchLive      = "live"
	MatchFinished  = "finished"
	MatchPostponed = "postponed"
)

// Match represents a row in the `matches` table.
type Match struct {
	ID         uint64    `json:"id"`
	LeagueID   uint64    `json:"league_id"`
	HomeTeamID uint64    `json:"home_team_id"`
	AwayTeamID uint64    `json:"away_team_id"`
	KickoffAt  time.Time `json:"kickoff_at"`
	Status     string    `json:"status"`
	HomeScore  int       `json:"home_score"`
	AwayScore  int       `json:"away_score"`
	Venue      string    `json:"venue,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ValidMatchStatus reports whether s is one of the recognized statuses.
func ValidMatchStatus(s string) bool {
	switch s {
	case MatchScheduled, MatchLive, MatchFinished, MatchPostponed:
		return true
	}
	return false
}
