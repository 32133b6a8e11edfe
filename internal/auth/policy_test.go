package auth

import (
	"testing"

	"github.com/matchday/football-news-api/internal/model"
)

func TestCanModify(t *testing.T) {
	cases := []struct {
		name    string
		actorID string
		role    string
		ownerID string
		want    bool
	}{
		{"owner", "u1", model.RoleFan, "u1", true},
		{"other fan", "u1", model.RoleFan, "u2", false},
		{"admin over anyone", "u1", model.RoleAdmin, "u2", true},
		{"admin over self", "u1", model.RoleAdmin, "u1", true},
		{"team account not owner", "u1", model.RoleTeam, "u2", false},
		{"empty actor", "", model.RoleFan, "", false},
		{"empty owner", "u1", model.RoleFan, "", false},
		{"empty actor admin", "", model.RoleAdmin, "u2", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := CanModify(c.actorID, c.role, c.ownerID); got != c.want {
				t.Fatalf("CanModify(%q, %q, %q) = %v, want %v", c.actorID, c.role, c.ownerID, got, c.want)
			}
		})
	}
}
