// Package controller provides the HTTP handlers of the quillpress API.
package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/quillpress/blog-api/logger"
	"github.com/quillpress/blog-api/web/entity"
	"github.com/quillpress/blog-api/web/locale"
	"github.com/quillpress/blog-api/web/service"
	"github.com/quillpress/blog-api/web/validation"

	"github.com/gin-gonic/gin"
)

// BaseController maps service errors onto HTTP answers.
type BaseController struct{}

// fail answers err for an operation on resource id. Unknown errors are
// logged and reported as 500 with the operation name.
func (a *BaseController) fail(c *gin.Context, err error, resource string, id any, operation string) {
	var inputErr *service.InputError
	switch {
	case errors.As(err, &inputErr):
		validation.Abort(c, []entity.FieldError{{
			Field:    inputErr.Field,
			Msg:      I18nWeb(c, inputErr.MessageID),
			Location: entity.LocationBody,
		}})
	case errors.Is(err, service.ErrNotFound):
		a.notFound(c, resource, id)
	case errors.Is(err, service.ErrForbidden):
		pureJsonMsg(c, http.StatusForbidden, I18nWeb(c, "error.forbidden"))
	case errors.Is(err, service.ErrCommentDeleted):
		pureJsonMsg(c, http.StatusBadRequest, I18nWeb(c, "error.commentDeleted"))
	case errors.Is(err, service.ErrInvalidCredentials):
		pureJsonMsg(c, http.StatusUnauthorized, I18nWeb(c, "error.invalidCredentials"))
	default:
		logger.Errorf("Error %s: %v", operation, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, entity.ErrorMsg{
			Message: I18nWeb(c, "error.operation", "Operation=="+I18nWeb(c, "operation."+operation)),
			Error:   err.Error(),
		})
	}
}

func (a *BaseController) notFound(c *gin.Context, resource string, id any) {
	pureJsonMsg(c, http.StatusNotFound, I18nWeb(c, "error.notFound",
		"Resource=="+I18nWeb(c, "resource."+resource),
		"Id=="+fmt.Sprint(id)))
}

// I18nWeb retrieves a message in the language negotiated for the request.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	return locale.I18n(c, name, params...)
}
