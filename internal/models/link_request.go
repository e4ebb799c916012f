package models

import (
	"encoding/json"
	"fmt"
)

// LinkPayload is the request body for creating a link. Rows written by
// older dashboard revisions used camelCase field names, so both spellings
// are accepted on input; everything downstream of this type sees only the
// canonical snake_case shape.
type LinkPayload struct {
	Slug        string
	ShortURL    string
	FullURL     string
	IsActive    *bool
	Description *string
	Favicon     *string
	Tags        []string
	Clicks      *int
	UserID      string // ignored on authenticated creates; owner is forced server-side
}

func (p *LinkPayload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if err := pickString(raw, &p.Slug, "slug"); err != nil {
		return err
	}
	if err := pickString(raw, &p.ShortURL, "short_url", "shortUrl"); err != nil {
		return err
	}
	if err := pickString(raw, &p.FullURL, "full_url", "fullUrl"); err != nil {
		return err
	}
	if err := pickString(raw, &p.UserID, "user_id", "userId"); err != nil {
		return err
	}
	if err := pick(raw, &p.IsActive, "is_active", "isActive"); err != nil {
		return err
	}
	if err := pick(raw, &p.Description, "description"); err != nil {
		return err
	}
	if err := pick(raw, &p.Favicon, "favicon"); err != nil {
		return err
	}
	if err := pick(raw, &p.Tags, "tags"); err != nil {
		return err
	}
	if err := pick(raw, &p.Clicks, "clicks"); err != nil {
		return err
	}
	return nil
}

// UpdateLinkRequest is the request body for partially updating a link.
// Nil fields are left untouched. Accepts the same dual spellings as
// LinkPayload.
type UpdateLinkRequest struct {
	Slug        *string
	ShortURL    *string
	FullURL     *string
	Clicks      *int
	IsActive    *bool
	Description *string
	Favicon     *string
	Tags        *[]string
}

func (u *UpdateLinkRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if err := pick(raw, &u.Slug, "slug"); err != nil {
		return err
	}
	if err := pick(raw, &u.ShortURL, "short_url", "shortUrl"); err != nil {
		return err
	}
	if err := pick(raw, &u.FullURL, "full_url", "fullUrl"); err != nil {
		return err
	}
	if err := pick(raw, &u.Clicks, "clicks"); err != nil {
		return err
	}
	if err := pick(raw, &u.IsActive, "is_active", "isActive"); err != nil {
		return err
	}
	if err := pick(raw, &u.Description, "description"); err != nil {
		return err
	}
	if err := pick(raw, &u.Favicon, "favicon"); err != nil {
		return err
	}
	if err := pick(raw, &u.Tags, "tags"); err != nil {
		return err
	}
	return nil
}

// pick decodes the first present key into dest. The snake_case key wins
// when a body carries both spellings.
func pick(raw map[string]json.RawMessage, dest interface{}, keys ...string) error {
	for _, key := range keys {
		val, ok := raw[key]
		if !ok || string(val) == "null" {
			continue
		}
		if err := json.Unmarshal(val, dest); err != nil {
			return fmt.Errorf("invalid value for %q: %w", key, err)
		}
		return nil
	}
	return nil
}

func pickString(raw map[string]json.RawMessage, dest *string, keys ...string) error {
	return pick(raw, dest, keys...)
}
