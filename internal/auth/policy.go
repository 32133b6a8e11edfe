package auth

import "github.com/matchday/football-news-api/internal/model"

// CanModify is the shared ownership predicate: a resource may be mutated or
// deleted by its creator or by an admin.  Every mutating domain handler
// calls this with the resource's own notion of "owner" (comment author, news
// author, team account link) — ownership is resource-specific, so it is not
// centralized in middleware.
func CanModify(actorID, actorRole, ownerID string) bool {
	if actorRole == model.RoleAdmin {
		return true
	}
	return actorID != "" && actorID == ownerID
}
