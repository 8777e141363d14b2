package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "presupuesto/internal/errors"
	"presupuesto/internal/logger"
)

// Paths reachable regardless of the allow-list. Auth and health stay open
// so operators can log in and probe the service from anywhere.
var ipFilterExemptPrefixes = []string{
	"/api/v1/auth",
	"/api/health",
	"/swagger",
}

// IPFilter returns a Gin middleware that rejects requests from client IPs
// outside the configured allow-list. An empty allow-list disables filtering.
func IPFilter(allowedIPs []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedIPs))
	for _, ip := range allowedIPs {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			allowed[ip] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		for _, prefix := range ipFilterExemptPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		clientIP := c.ClientIP()
		if _, ok := allowed[clientIP]; !ok {
			logger.Get().Warnw("request from unlisted IP rejected",
				"client_ip", clientIP,
				"path", path,
			)
			appErr := apperrors.ErrForbidden
			c.JSON(appErr.StatusCode, gin.H{
				"error": gin.H{
					"code":    appErr.Code,
					"message": appErr.Message,
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
