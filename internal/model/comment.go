package model

import "time"

// Comment represents a row in the `comments` table.  ParentID is nil for
// top-level comments and references another comment for replies (one level
// deep).  Deleted comments stay in place with IsDeleted set so reply threads
// keep their shape.
type Comment struct {
	ID        uint64    `json:"id"`
	NewsID    uint64    `json:"news_id"`
	UserID    string    `json:"user_id"`
	ParentID  *uint64   `json:"parent_id,omitempty"`
	Content   string    `json:"content"`
	IsEdited  bool      `json:"is_edited"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
