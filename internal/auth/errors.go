package auth

import "errors"

// Sentinel errors returned by the Manager.  Handlers match these with
// errors.Is and translate them into HTTP status codes; anything else is an
// internal fault and must be answered with a generic server error (the gate
// fails closed on errors it does not recognize).
//
// ErrInvalidCredentials deliberately covers both "unknown email" and "wrong
// password" so a caller cannot probe which accounts exist.  Likewise
// ErrInvalidRefresh covers every way a refresh can fail after the
// missing-token check: bad signature, wrong purpose, expiry, and a stale
// token whose session was already rotated or revoked.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrRefreshRequired    = errors.New("refresh token is required")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	ErrSessionNotFound    = errors.New("invalid or expired token")
	ErrUserInactive       = errors.New("user not found or inactive")
)
