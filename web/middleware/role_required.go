package middleware

import (
	"net/http"

	"github.com/quillpress/blog-api/database/model"
	"github.com/quillpress/blog-api/web/entity"
	"github.com/quillpress/blog-api/web/locale"

	"github.com/gin-gonic/gin"
)

// RequireCapabilities lets the request through when the authenticated user
// holds every listed capability. Administrators always pass; an empty list
// only requires a login.
func RequireCapabilities(caps ...model.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.ErrorMsg{
				Message: locale.I18n(c, "error.unauthorized"),
			})
			return
		}
		for _, capability := range caps {
			if !user.Can(capability) {
				c.AbortWithStatusJSON(http.StatusForbidden, entity.ErrorMsg{
					Message: locale.I18n(c, "error.forbidden"),
				})
				return
			}
		}
		c.Next()
	}
}
