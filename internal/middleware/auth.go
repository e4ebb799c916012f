package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"linkdash-be/internal/models"
	"linkdash-be/internal/session"
)

// AuthMiddleware gates /api routes on a valid session. The access token
// is read from the session cookie (browser flow) or a bearer header
// (programmatic callers). On success the user id and email are placed in
// the request context.
func AuthMiddleware(jwtService *session.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtService == nil {
			c.JSON(http.StatusInternalServerError, models.Err("Missing JWT_SECRET in environment."))
			c.Abort()
			return
		}

		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(session.AccessCookie); err == nil {
				token = cookie
			}
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, models.Err("Not authenticated"))
			c.Abort()
			return
		}

		claims, err := jwtService.Verify(token, "access")
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.Err("Not authenticated"))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
