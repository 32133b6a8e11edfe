package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matchday/football-news-api/internal/config"
)

func testCodec() *Codec {
	return NewCodec(config.Config{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	c := testCodec()
	for _, p := range []Purpose{PurposeAccess, PurposeRefresh} {
		tok, exp, err := c.Issue("user-1", p)
		if err != nil {
			t.Fatalf("Issue(%s): %v", p, err)
		}
		if !exp.After(time.Now()) {
			t.Fatalf("Issue(%s): expiry %v not in the future", p, exp)
		}
		sub, err := c.Verify(tok, p)
		if err != nil {
			t.Fatalf("Verify(%s): %v", p, err)
		}
		if sub != "user-1" {
			t.Fatalf("Verify(%s): subject = %q, want user-1", p, sub)
		}
	}
}

func TestVerifyExpired(t *testing.T) {
	c := NewCodec(config.Config{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     -time.Minute,
		RefreshTTL:    -time.Minute,
	})
	tok, _, err := c.Issue("user-1", PurposeAccess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := c.Verify(tok, PurposeAccess); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Verify expired = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyCrossPurpose(t *testing.T) {
	// With distinct secrets a token presented for the other purpose fails
	// the signature check.
	c := testCodec()
	access, _, err := c.Issue("user-1", PurposeAccess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := c.Verify(access, PurposeRefresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify access-as-refresh = %v, want ErrInvalidToken", err)
	}

	// With a shared secret the purpose claim is the last line of defense.
	shared := NewCodec(config.Config{
		AccessSecret:  "one-shared-secret",
		RefreshSecret: "one-shared-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    time.Hour,
	})
	refresh, _, err := shared.Issue("user-1", PurposeRefresh)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := shared.Verify(refresh, PurposeAccess); !errors.Is(err, ErrWrongPurpose) {
		t.Fatalf("Verify refresh-as-access = %v, want ErrWrongPurpose", err)
	}
}

func TestVerifyTampered(t *testing.T) {
	c := testCodec()
	tok, _, err := c.Issue("user-1", PurposeAccess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "X." + parts[2]
	if _, err := c.Verify(tampered, PurposeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify tampered = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	c := testCodec()
	for _, tok := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := c.Verify(tok, PurposeAccess); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q) = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestWrongSecretRejected(t *testing.T) {
	a := testCodec()
	b := NewCodec(config.Config{
		AccessSecret:  "a-different-secret",
		RefreshSecret: "another-different-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    time.Hour,
	})
	tok, _, err := a.Issue("user-1", PurposeAccess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := b.Verify(tok, PurposeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify with wrong secret = %v, want ErrInvalidToken", err)
	}
}
