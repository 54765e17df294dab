package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/daily-planner-api/internal/constants"
	apierrors "github.com/yukikurage/daily-planner-api/internal/errors"
	"github.com/yukikurage/daily-planner-api/internal/services"
)

// TokenVerifier validates access tokens.
type TokenVerifier interface {
	Verify(token string) (*services.Claims, error)
}

// RequireAuth checks for a valid bearer token and stores its identity in the context
func RequireAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthenticated(c, "")
			c.Abort()
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			apierrors.Unauthenticated(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyLoginKey, claims.LoginKey)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetLoginKey retrieves the login key carried by the current token
func GetLoginKey(c *gin.Context) string {
	return c.GetString(constants.ContextKeyLoginKey)
}
