package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/quillpress/blog-api/caching"
	"github.com/quillpress/blog-api/logger"
	"github.com/quillpress/blog-api/web/entity"
	"github.com/quillpress/blog-api/web/locale"

	"github.com/gin-gonic/gin"
)

// LoginLimitConfig bounds failed login attempts per client.
type LoginLimitConfig struct {
	MaxFailures int
	Window      time.Duration
	KeyFunc     func(c *gin.Context) string
}

func DefaultLoginLimitConfig() LoginLimitConfig {
	return LoginLimitConfig{
		MaxFailures: 10,
		Window:      15 * time.Minute,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// LoginRateLimit answers 429 once a client has failed MaxFailures logins
// within Window. A 401 from the handler counts as a failure; a successful
// login clears the counter. X-RateLimit-Remaining reports how many failures
// are still allowed, this attempt included.
func LoginRateLimit(cache *caching.Cache, config LoginLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "login:" + config.KeyFunc(c)

		count := cache.Count(key)
		if count >= config.MaxFailures {
			logger.Warningf("Login rate limit exceeded for %s (failures: %d)", config.KeyFunc(c), count)
			c.Header("Retry-After", strconv.Itoa(int(config.Window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, entity.ErrorMsg{
				Message: locale.I18n(c, "error.tooManyAttempts"),
			})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.MaxFailures))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.MaxFailures-count))

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			cache.Incr(key, config.Window)
		case http.StatusOK:
			cache.Delete(key)
		}
	}
}
