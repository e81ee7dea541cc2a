package middlewares

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/healthtrack/backend/services"
	"github.com/healthtrack/backend/utils"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey = "userID"
	EmailKey  = "email"
)

// AuthMiddleware verifies the bearer token and stores the caller's id under
// UserIDKey. Tokens without a userId claim are resolved through their email.
func AuthMiddleware(secret string, users services.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured: jwt secret not set"})
			return
		}

		claims, err := utils.ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if id, ok := claimUserID(claims[utils.UserIDClaim]); ok {
			c.Set(UserIDKey, id)
			c.Next()
			return
		}

		email, _ := claims[EmailKey].(string)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "email claim missing"})
			return
		}
		user, err := users.FindByEmail(c.Request.Context(), email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(EmailKey, email)
		c.Next()
	}
}

func claimUserID(v any) (uint, bool) {
	switch id := v.(type) {
	case float64: // JSON numbers decode as float64
		if id > 0 {
			return uint(id), true
		}
	case string:
		if n, err := strconv.ParseUint(id, 10, 64); err == nil && n > 0 {
			return uint(n), true
		}
	}
	return 0, false
}

// RequireSelf rejects requests whose :id path parameter is not the caller.
func RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		if caller := c.GetUint(UserIDKey); uint(id) != caller {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
