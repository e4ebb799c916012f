package service_test

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linkdash-be/internal/entities"
	"linkdash-be/internal/repository"
	"linkdash-be/internal/service"
	"linkdash-be/internal/session"
)

// MockTokenRepository implements repository.TokenRepository for testing
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Create(tokenHash, tokenType, userID string, expiresAt time.Time) error {
	args := m.Called(tokenHash, tokenType, userID, expiresAt)
	return args.Error(0)
}

func (m *MockTokenRepository) Consume(tokenHash, tokenType string) (string, error) {
	args := m.Called(tokenHash, tokenType)
	return args.String(0), args.Error(1)
}

// MockMailer implements mailer.Mailer for testing
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendMagicLink(to, confirmURL string) error {
	args := m.Called(to, confirmURL)
	return args.Error(0)
}

func newAuthService(users *MockUserRepository, tokens *MockTokenRepository, mail *MockMailer) service.AuthService {
	jwtService := session.NewJWTService("test-secret", time.Hour)
	return service.NewAuthService(users, tokens, jwtService, mail, "http://localhost:8080", 15*time.Minute)
}

func TestSendMagicLink_StoresHashNotRawToken(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenRepository)
	mail := new(MockMailer)
	svc := newAuthService(users, tokens, mail)

	users.On("Upsert", "user@example.com", (*string)(nil)).
		Return(&entities.User{ID: "user-1", Email: "user@example.com"}, nil)

	var storedHash string
	tokens.On("Create", mock.Anything, service.TokenTypeMagicLink, "user-1", mock.Anything).
		Run(func(args mock.Arguments) { storedHash = args.String(0) }).
		Return(nil)

	var confirmURL string
	mail.On("SendMagicLink", "user@example.com", mock.Anything).
		Run(func(args mock.Arguments) { confirmURL = args.String(1) }).
		Return(nil)

	require.NoError(t, svc.SendMagicLink("User@Example.com", nil))

	parsed, err := url.Parse(confirmURL)
	require.NoError(t, err)
	assert.Equal(t, "/auth/confirm", parsed.Path)
	assert.Equal(t, service.TokenTypeMagicLink, parsed.Query().Get("type"))

	rawToken := parsed.Query().Get("token_hash")
	require.NotEmpty(t, rawToken)
	assert.NotEqual(t, rawToken, storedHash)
	assert.Len(t, storedHash, 64) // hex SHA-256, raw value never at rest
	assert.False(t, strings.Contains(confirmURL, storedHash))
}

func TestConfirmToken_ValidToken_IssuesSessionPair(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenRepository)
	mail := new(MockMailer)
	svc := newAuthService(users, tokens, mail)

	tokens.On("Consume", mock.Anything, service.TokenTypeMagicLink).Return("user-1", nil)
	users.On("FindByID", "user-1").Return(&entities.User{ID: "user-1", Email: "user@example.com"}, nil)

	pair, err := svc.ConfirmToken("raw-token", service.TokenTypeMagicLink)

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestConfirmToken_ConsumedOrExpired_ReturnsInvalid(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenRepository)
	mail := new(MockMailer)
	svc := newAuthService(users, tokens, mail)

	tokens.On("Consume", mock.Anything, service.TokenTypeMagicLink).
		Return("", repository.ErrTokenInvalid)

	_, err := svc.ConfirmToken("stale-token", service.TokenTypeMagicLink)

	assert.ErrorIs(t, err, repository.ErrTokenInvalid)
	users.AssertNotCalled(t, "FindByID", mock.Anything)
}

func TestSessionFromPair_ValidPair_ReturnsClaims(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenRepository)
	mail := new(MockMailer)
	svc := newAuthService(users, tokens, mail)

	jwtService := session.NewJWTService("test-secret", time.Hour)
	pair, err := jwtService.IssuePair("user-1", "user@example.com")
	require.NoError(t, err)

	claims, err := svc.SessionFromPair(pair.AccessToken, pair.RefreshToken)

	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestSessionFromPair_MismatchedUsers_Rejected(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenRepository)
	mail := new(MockMailer)
	svc := newAuthService(users, tokens, mail)

	jwtService := session.NewJWTService("test-secret", time.Hour)
	pairA, err := jwtService.IssuePair("user-a", "a@example.com")
	require.NoError(t, err)
	pairB, err := jwtService.IssuePair("user-b", "b@example.com")
	require.NoError(t, err)

	_, err = svc.SessionFromPair(pairA.AccessToken, pairB.RefreshToken)

	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestSessionFromPair_SwappedTokens_Rejected(t *testing.T) {
	users := new(MockUserRepository)
	tokens := new(MockTokenRepository)
	mail := new(MockMailer)
	svc := newAuthService(users, tokens, mail)

	jwtService := session.NewJWTService("test-secret", time.Hour)
	pair, err := jwtService.IssuePair("user-1", "user@example.com")
	require.NoError(t, err)

	_, err = svc.SessionFromPair(pair.RefreshToken, pair.AccessToken)

	assert.ErrorIs(t, err, session.ErrInvalidToken)
}
