package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrTokenInvalid is returned when a one-time token is unknown, expired,
// or already consumed. Callers must not distinguish the three cases.
var ErrTokenInvalid = errors.New("token invalid or expired")

// TokenRepository stores one-time login token hashes. Raw token values
// never touch the database.
type TokenRepository interface {
	Create(tokenHash, tokenType, userID string, expiresAt time.Time) error
	// Consume marks a live token as used and returns its user id.
	// A token can be consumed exactly once.
	Consume(tokenHash, tokenType string) (string, error)
}

type tokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new login token repository
func NewTokenRepository(db *sql.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(tokenHash, tokenType, userID string, expiresAt time.Time) error {
	_, err := r.db.Exec(
		`INSERT INTO login_tokens (token_hash, token_type, user_id, expires_at) VALUES ($1, $2, $3, $4)`,
		tokenHash, tokenType, userID, expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create login token: %w", err)
	}
	return nil
}

func (r *tokenRepository) Consume(tokenHash, tokenType string) (string, error) {
	// Single UPDATE so two concurrent confirmations cannot both win.
	query := `
		UPDATE login_tokens
		SET consumed_at = now()
		WHERE token_hash = $1
		  AND token_type = $2
		  AND consumed_at IS NULL
		  AND expires_at > now()
		RETURNING user_id
	`

	var userID string
	err := r.db.QueryRow(query, tokenHash, tokenType).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", ErrTokenInvalid
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume login token: %w", err)
	}

	return userID, nil
}
