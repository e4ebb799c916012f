package entities

import "time"

// Link represents a shortened link row in the database.
// JSON field names are the canonical snake_case wire spelling; older
// camelCase spellings are accepted on input by models.LinkPayload and
// normalized before they reach this type.
type Link struct {
	ID          string    `json:"id"` // UUID
	Slug        string    `json:"slug"`
	ShortURL    string    `json:"short_url"`
	FullURL     string    `json:"full_url"`
	Clicks      int       `json:"clicks"`
	IsActive    bool      `json:"is_active"`
	Description *string   `json:"description,omitempty"`
	Favicon     *string   `json:"favicon,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      *string   `json:"user_id,omitempty"` // Owner UUID, nil for server-side inserts
}

// LinkUpdate carries a partial update; nil fields are left untouched.
// Clicks is included because the dashboard allows manual counter edits.
type LinkUpdate struct {
	Slug        *string
	ShortURL    *string
	FullURL     *string
	Clicks      *int
	IsActive    *bool
	Description *string
	Favicon     *string
	Tags        *[]string
}
