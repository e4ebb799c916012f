package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkdash-be/internal/models"
)

func TestLinkPayload_SnakeCaseFields_Parsed(t *testing.T) {
	body := `{
		"slug": "abc123",
		"short_url": "short.ly/abc123",
		"full_url": "https://example.com/x",
		"is_active": false,
		"description": "campaign page",
		"tags": ["marketing", "q1"],
		"user_id": "forged-id"
	}`

	var payload models.LinkPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	assert.Equal(t, "abc123", payload.Slug)
	assert.Equal(t, "short.ly/abc123", payload.ShortURL)
	assert.Equal(t, "https://example.com/x", payload.FullURL)
	require.NotNil(t, payload.IsActive)
	assert.False(t, *payload.IsActive)
	require.NotNil(t, payload.Description)
	assert.Equal(t, "campaign page", *payload.Description)
	assert.Equal(t, []string{"marketing", "q1"}, payload.Tags)
	assert.Equal(t, "forged-id", payload.UserID)
}

func TestLinkPayload_CamelCaseFields_Normalized(t *testing.T) {
	body := `{
		"shortUrl": "short.ly/gh456",
		"fullUrl": "https://github.com/vercel/next.js",
		"isActive": true,
		"userId": "user-1"
	}`

	var payload models.LinkPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	assert.Equal(t, "short.ly/gh456", payload.ShortURL)
	assert.Equal(t, "https://github.com/vercel/next.js", payload.FullURL)
	require.NotNil(t, payload.IsActive)
	assert.True(t, *payload.IsActive)
	assert.Equal(t, "user-1", payload.UserID)
}

func TestLinkPayload_BothSpellings_SnakeCaseWins(t *testing.T) {
	body := `{"full_url": "https://snake.example", "fullUrl": "https://camel.example"}`

	var payload models.LinkPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	assert.Equal(t, "https://snake.example", payload.FullURL)
}

func TestLinkPayload_NullValues_Ignored(t *testing.T) {
	body := `{"full_url": "https://example.com", "description": null, "is_active": null}`

	var payload models.LinkPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	assert.Nil(t, payload.Description)
	assert.Nil(t, payload.IsActive)
}

func TestUpdateLinkRequest_PartialBody_OnlyPresentFieldsSet(t *testing.T) {
	body := `{"isActive": false, "clicks": 42}`

	var req models.UpdateLinkRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	require.NotNil(t, req.IsActive)
	assert.False(t, *req.IsActive)
	require.NotNil(t, req.Clicks)
	assert.Equal(t, 42, *req.Clicks)

	assert.Nil(t, req.Slug)
	assert.Nil(t, req.ShortURL)
	assert.Nil(t, req.FullURL)
	assert.Nil(t, req.Tags)
}
