package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"linkdash-be/internal/entities"
	"linkdash-be/internal/mailer"
	"linkdash-be/internal/repository"
	"linkdash-be/internal/session"
)

// TokenTypeMagicLink is the type tag carried in the confirm URL.
const TokenTypeMagicLink = "magiclink"

// AuthService completes one-time-credential sign-in. A single-use token
// is mailed to the user; confirming it (either server-side via the query
// token or client-side via the fragment-borne pair) establishes a
// session.
type AuthService interface {
	SendMagicLink(email string, name *string) error
	// ConfirmToken consumes a one-time token and mints a session pair.
	ConfirmToken(rawToken, tokenType string) (*session.TokenPair, error)
	// SessionFromPair validates a fragment-borne token pair.
	SessionFromPair(accessToken, refreshToken string) (*session.Claims, error)
	CurrentUser(userID string) (*entities.User, error)
}

type authService struct {
	users      repository.UserRepository
	tokens     repository.TokenRepository
	jwtService *session.JWTService
	mail       mailer.Mailer
	siteOrigin string
	tokenTTL   time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	jwtService *session.JWTService,
	mail mailer.Mailer,
	siteOrigin string,
	tokenTTL time.Duration,
) AuthService {
	return &authService{
		users:      users,
		tokens:     tokens,
		jwtService: jwtService,
		mail:       mail,
		siteOrigin: siteOrigin,
		tokenTTL:   tokenTTL,
	}
}

// hashToken is the at-rest form of a one-time token. Tokens are 128-bit
// random values, so a plain digest is sufficient.
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func generateToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func (s *authService) SendMagicLink(email string, name *string) error {
	user, err := s.users.Upsert(strings.ToLower(strings.TrimSpace(email)), name)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	raw, err := generateToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	if err := s.tokens.Create(hashToken(raw), TokenTypeMagicLink, user.ID, expiresAt); err != nil {
		return err
	}

	confirmURL := fmt.Sprintf(
		"%s/auth/confirm?token_hash=%s&type=%s",
		strings.TrimRight(s.siteOrigin, "/"),
		url.QueryEscape(raw),
		TokenTypeMagicLink,
	)

	if err := s.mail.SendMagicLink(user.Email, confirmURL); err != nil {
		return fmt.Errorf("failed to send magic link: %w", err)
	}

	return nil
}

func (s *authService) ConfirmToken(rawToken, tokenType string) (*session.TokenPair, error) {
	userID, err := s.tokens.Consume(hashToken(rawToken), tokenType)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, repository.ErrTokenInvalid
	}

	return s.jwtService.IssuePair(user.ID, user.Email)
}

func (s *authService) SessionFromPair(accessToken, refreshToken string) (*session.Claims, error) {
	claims, err := s.jwtService.Verify(accessToken, "access")
	if err != nil {
		return nil, err
	}

	refreshClaims, err := s.jwtService.Verify(refreshToken, "refresh")
	if err != nil {
		return nil, err
	}
	if refreshClaims.UserID != claims.UserID {
		return nil, session.ErrInvalidToken
	}

	return claims, nil
}

func (s *authService) CurrentUser(userID string) (*entities.User, error) {
	return s.users.FindByID(userID)
}
