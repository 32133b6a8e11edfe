package model

import "time"

// League represents a row in the `leagues` table.
type League struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	LogoURL   string    `json:"logo_url,omitempty"`
	Season    string    `json:"season,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
