package middleware

import (
	"time"

	"github.com/quillpress/blog-api/logger"

	"github.com/gin-gonic/gin"
)

// AccessLog writes one line per request and hands the final status to
// onDone, when set.
func AccessLog(onDone func(status int)) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var userId int
		if user := CurrentUser(c); user != nil {
			userId = user.Id
		}
		line := []any{
			GetRequestID(c), c.ClientIP(), c.Request.Method, c.Request.URL.Path,
			status, time.Since(start).Round(time.Microsecond), userId,
		}
		switch {
		case status >= 500:
			logger.Errorf("%s %s %s %s %d %v user=%d", line...)
		case status >= 400:
			logger.Infof("%s %s %s %s %d %v user=%d", line...)
		default:
			logger.Debugf("%s %s %s %s %d %v user=%d", line...)
		}
		if onDone != nil {
			onDone(status)
		}
	}
}
