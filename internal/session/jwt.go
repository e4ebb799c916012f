package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Cookie names for the two session tokens.
const (
	AccessCookie  = "ld_session"
	RefreshCookie = "ld_refresh"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenPair is the access/refresh pair minted after a successful
// magic-link verification. The dashboard may carry it in a URL fragment
// and exchange it for cookies via the session endpoint.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims are the session claims embedded in both tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Kind   string `json:"kind"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// JWTService signs and verifies session tokens
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService creates a new JWT service. Refresh tokens live seven
// times as long as access tokens.
func NewJWTService(secret string, accessTTL time.Duration) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: 7 * accessTTL,
	}
}

// AccessTTL returns the access token lifetime, used for cookie max-age.
func (s *JWTService) AccessTTL() time.Duration {
	return s.accessTTL
}

// IssuePair mints an access/refresh token pair for a user.
func (s *JWTService) IssuePair(userID, email string) (*TokenPair, error) {
	access, err := s.sign(userID, email, "access", s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(userID, email, "refresh", s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *JWTService) sign(userID, email, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and checks its signature, expiry and kind.
func (s *JWTService) Verify(tokenString, kind string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Kind != kind || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
