// Package auth implements the session-backed authentication core: the token
// codec, the session manager and the ownership policy.  It depends only on
// the model package and on store interfaces, never on the HTTP layer or on
// *sql.DB directly.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/matchday/football-news-api/internal/config"
)

// Purpose labels what a token may be used for.  Access and refresh tokens
// are signed with independent secrets, so one can never be replayed as the
// other even if the purpose claim were forged.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
)

// Codec verification failures.  Malformed input, a bad signature and an
// unexpected signing method all collapse into ErrInvalidToken; callers get
// no finer detail than these three kinds.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrWrongPurpose = errors.New("wrong token purpose")
)

// Codec signs and verifies compact expiring bearer tokens.  It is stateless
// and safe for concurrent use.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewCodec builds a Codec from the application config.
func NewCodec(cfg config.Config) *Codec {
	return &Codec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}
}

// secretFor returns the signing secret for a purpose.
func (c *Codec) secretFor(p Purpose) []byte {
	if p == PurposeRefresh {
		return c.refreshSecret
	}
	return c.accessSecret
}

// ttlFor returns the configured lifetime for a purpose.
func (c *Codec) ttlFor(p Purpose) time.Duration {
	if p == PurposeRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue produces a signed HS256 token carrying the subject user id, the
// purpose and an absolute expiry of now plus the purpose's TTL.  It has no
// side effects.
func (c *Codec) Issue(subject string, p Purpose) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(c.ttlFor(p))
	claims := jwt.MapClaims{
		"sub":     subject,
		"purpose": string(p),
		"exp":     exp.Unix(),
		"iat":     now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secretFor(p))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify validates the signature and expiry of a token against the secret
// for the expected purpose and returns the subject user id.  Failures are
// exactly one of ErrTokenExpired, ErrWrongPurpose or ErrInvalidToken; any
// malformed input is ErrInvalidToken.
func (c *Codec) Verify(token string, expected Purpose) (string, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secretFor(expected), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return "", ErrInvalidToken
	}
	// With independent secrets a cross-purpose token already fails the
	// signature check above; this guards deployments where both secrets
	// were configured to the same value.
	if p, _ := claims["purpose"].(string); p != string(expected) {
		return "", ErrWrongPurpose
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
