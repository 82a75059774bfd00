package controller

import (
	"net/http"

	"github.com/quillpress/blog-api/web/entity"

	"github.com/gin-gonic/gin"
)

// jsonData sends the success envelope with a localized message.
func jsonData(c *gin.Context, status int, msgKey string, data any) {
	c.JSON(status, entity.Msg{
		Message: I18nWeb(c, msgKey),
		Data:    data,
	})
}

// jsonPage sends a page of results with its pagination meta.
func jsonPage(c *gin.Context, msgKey string, data any, meta *entity.PageMeta) {
	c.JSON(http.StatusOK, entity.Msg{
		Message: I18nWeb(c, msgKey),
		Data:    data,
		Meta:    meta,
	})
}

// pureJsonMsg aborts with a message-only error envelope.
func pureJsonMsg(c *gin.Context, statusCode int, msg string) {
	c.AbortWithStatusJSON(statusCode, entity.ErrorMsg{Message: msg})
}

func parsePage(c *gin.Context) entity.Page {
	return entity.ParsePage(c.Query("page"), c.Query("limit"), c.Query("order"))
}

// deleted is the payload of successful deletions.
type deleted struct {
	Id int `json:"id"`
}
