package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkdash-be/internal/models"
	"linkdash-be/internal/service"
	"linkdash-be/internal/session"
)

// AuthController serves the magic-link sign-in flow and session
// establishment.
type AuthController struct {
	authService  service.AuthService
	cookieMaxAge int
	cfgErr       error
}

func NewAuthController(authService service.AuthService, cookieMaxAge int, cfgErr error) *AuthController {
	return &AuthController{
		authService:  authService,
		cookieMaxAge: cookieMaxAge,
		cfgErr:       cfgErr,
	}
}

func (ac *AuthController) configured(c *gin.Context) bool {
	if ac.cfgErr != nil {
		c.JSON(http.StatusInternalServerError, models.Err(ac.cfgErr.Error()))
		return false
	}
	return true
}

// MagicLink handles POST /api/auth/magic-link
func (ac *AuthController) MagicLink(c *gin.Context) {
	if !ac.configured(c) {
		return
	}

	var req models.MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Err("Invalid request body"))
		return
	}

	if err := ac.authService.SendMagicLink(req.Email, req.Name); err != nil {
		c.JSON(http.StatusInternalServerError, models.Err("Failed to send magic link"))
		return
	}

	c.JSON(http.StatusOK, models.Ok(gin.H{"message": "Magic link sent"}))
}

// Confirm handles GET /auth/confirm: the server-verifiable query-token
// path. Success redirects to the account page with session cookies set;
// any failure redirects to the error page.
func (ac *AuthController) Confirm(c *gin.Context) {
	tokenHash := c.Query("token_hash")
	tokenType := c.Query("type")

	if ac.cfgErr == nil && tokenHash != "" && tokenType != "" {
		pair, err := ac.authService.ConfirmToken(tokenHash, tokenType)
		if err == nil {
			ac.setSessionCookies(c, pair)
			c.Redirect(http.StatusFound, "/account")
			return
		}
		log.Printf("Warning: magic link confirmation failed: %v", err)
	}

	c.Redirect(http.StatusFound, "/error")
}

// Session handles POST /api/auth/session: the fragment-borne path. The
// client extracts the access/refresh pair from the URL fragment (which
// never reaches a server) and posts it here for cookies.
func (ac *AuthController) Session(c *gin.Context) {
	if !ac.configured(c) {
		return
	}

	var req models.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Err("Invalid request body"))
		return
	}

	claims, err := ac.authService.SessionFromPair(req.AccessToken, req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.Err("Invalid session tokens"))
		return
	}

	ac.setSessionCookies(c, &session.TokenPair{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
	})

	c.JSON(http.StatusOK, models.Ok(gin.H{
		"user_id": claims.UserID,
		"email":   claims.Email,
	}))
}

// Logout handles POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetCookie(session.AccessCookie, "", -1, "/", "", false, true)
	c.SetCookie(session.RefreshCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, models.Result{Data: nil, Error: nil})
}

// Me handles GET /api/me
func (ac *AuthController) Me(c *gin.Context) {
	if !ac.configured(c) {
		return
	}

	user, err := ac.authService.CurrentUser(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Err(err.Error()))
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.Err("Not authenticated"))
		return
	}

	c.JSON(http.StatusOK, models.Ok(models.UserResponse{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}))
}

func (ac *AuthController) setSessionCookies(c *gin.Context, pair *session.TokenPair) {
	c.SetCookie(session.AccessCookie, pair.AccessToken, ac.cookieMaxAge, "/", "", false, true)
	c.SetCookie(session.RefreshCookie, pair.RefreshToken, 7*ac.cookieMaxAge, "/", "", false, true)
}
