// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// NewsPublishedEvent is published when an article goes live.  It carries
// enough information for downstream consumers to log, notify, or feed
// analytics without querying the primary database.
type NewsPublishedEvent struct {
	NewsID      uint64 `json:"news_id"`
	AuthorID    string `json:"author_id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Category    string `json:"category,omitempty"`
	IsBreaking  bool   `json:"is_breaking"`
	PublishedAt string `json:"published_at"`
}
