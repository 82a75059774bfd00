// Package middleware holds the gin middleware of the quillpress API.
package middleware

import (
	"strings"

	"github.com/quillpress/blog-api/database/model"
	"github.com/quillpress/blog-api/logger"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(token string) (*model.User, error)
}

// Authenticate attaches the user of a valid bearer token to the context.
// Requests without a usable token continue anonymously; routes that need a
// user are guarded by RequireCapabilities.
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token != "" {
			user, err := auth.Authenticate(token)
			if err != nil {
				logger.Debug("rejected bearer token:", err)
			} else {
				c.Set(userKey, user)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}
