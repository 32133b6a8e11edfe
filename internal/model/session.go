package model

import "time"

// Session is one outstanding login: a server-side record binding a user to
// the currently valid access/refresh token pair.  The session row, not the
// tokens themselves, is the source of truth for revocation — a signed token
// whose session has been rotated away or destroyed is refused.
//
// Token and RefreshToken are each unique across all sessions.  ExpiresAt
// tracks the access token window; the longer refresh TTL lives inside the
// refresh token itself.
type Session struct {
	ID           string    // sessions.id (uuid)
	UserID       string    // sessions.user_id
	Token        string    // sessions.token, current access token, unique
	RefreshToken string    // sessions.refresh_token, current refresh token, unique
	IPAddress    string    // sessions.ip_address, client origin at login
	UserAgent    string    // sessions.user_agent
	ExpiresAt    time.Time // sessions.expires_at, absolute expiry
	CreatedAt    time.Time // sessions.created_at
}

// IsExpired reports whether the session's absolute expiry has passed.
// Expiry is detected lazily at the moment of use; there is no background
// sweep.
func (s *Session) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}
