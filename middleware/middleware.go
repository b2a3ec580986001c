// Package middleware holds the gin middleware shared by every route group.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"chirp/apperr"
)

const userIDKey = "user_id"

// Authenticator verifies a bearer token and returns the user id it carries.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer" token
// and stores the caller's id in the context.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if header == "" || !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abort(c, apperr.Unauthorized("No token, authorization denied"))
			return
		}

		userID, err := auth.Authenticate(strings.TrimSpace(token))
		if err != nil {
			abort(c, apperr.Unauthorized("Token is not valid"))
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the id stored by RequireAuth, or "" on public routes.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func abort(c *gin.Context, err *apperr.Error) {
	c.AbortWithStatusJSON(err.Status(), err.Body())
}
