package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openlot/propfinder/api/internal/models"
	"github.com/openlot/propfinder/api/internal/services"
)

const currentUserKey = "current_user"

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
// Returns an empty string when the header is absent or malformed.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated user in the context.
func RequireAuth(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, "Missing or malformed Authorization header")
			return
		}

		user, err := authService.UserFromToken(c.Request.Context(), token)
		if err != nil {
			if log := GetLogger(c); log != nil {
				log.Warn("Rejected bearer token", map[string]interface{}{
					"error": err.Error(),
				})
			}
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the user when a valid bearer token is present but
// lets anonymous requests through. Invalid tokens are treated as anonymous
// rather than rejected, matching the shared read endpoints' semantics.
func OptionalAuth(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token != "" {
			if user, err := authService.UserFromToken(c.Request.Context(), token); err == nil {
				c.Set(currentUserKey, user)
			}
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":       "UNAUTHORIZED",
			"message":    message,
			"request_id": GetRequestID(c),
		},
	})
}

// CurrentUser retrieves the authenticated user from the Gin context.
// Returns nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if value, exists := c.Get(currentUserKey); exists {
		if user, ok := value.(*models.User); ok {
			return user
		}
	}
	return nil
}
