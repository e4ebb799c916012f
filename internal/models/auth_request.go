package models

// MagicLinkRequest represents the request body for requesting a sign-in link
type MagicLinkRequest struct {
	Email string  `json:"email" binding:"required,email"`
	Name  *string `json:"name,omitempty"`
}

// SessionRequest carries a fragment-borne token pair from the client.
// Fragments never reach a server, so the dashboard posts the pair here to
// establish the cookie session.
type SessionRequest struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"required"`
}
