package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/bizcoach/internal/auth"
	"github.com/lshigami/bizcoach/internal/dto"
	"github.com/rs/zerolog/log"
)

const userIDKey = "user_id"

// Authenticate resolves the caller from the bearer token and stores the id on
// both the gin context and the request context. Without a token the caller
// becomes auth.AnonymousUserID when allowAnonymous is set. tokens may be nil
// when no signing secret is configured.
func Authenticate(tokens *auth.TokenManager, allowAnonymous bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			if !allowAnonymous {
				abortUnauthorized(c, "Missing bearer token")
				return
			}
			setUser(c, auth.AnonymousUserID)
			c.Next()
			return
		}
		if tokens == nil {
			abortUnauthorized(c, "Token authentication is not configured")
			return
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("Rejected bearer token")
			abortUnauthorized(c, "Invalid or expired token")
			return
		}
		setUser(c, claims.UserID)
		c.Next()
	}
}

// RequireUser rejects anonymous callers. It must run after Authenticate.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := UserID(c)
		if id == "" || id == auth.AnonymousUserID {
			abortUnauthorized(c, "Sign in to use this feature")
			return
		}
		c.Next()
	}
}

// UserID returns the caller set by Authenticate, or "" when there is none.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func setUser(c *gin.Context, userID string) {
	c.Set(userIDKey, userID)
	c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), userID))
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: msg})
}
