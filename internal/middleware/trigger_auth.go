package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/logger"
)

// TriggerKeyHeader carries the shared secret of scheduler calls.
const TriggerKeyHeader = "X-API-Key"

// TriggerAuthMiddleware guards the internal trigger endpoints with a shared
// key. keys is a comma-separated list so a new key can be rolled out before
// the old one is retired. With no key configured the endpoints answer 503.
func TriggerAuthMiddleware(keys string) gin.HandlerFunc {
	accepted := parseTriggerKeys(keys)

	return func(c *gin.Context) {
		if len(accepted) == 0 {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				gin.H{"error": gin.H{"code": "TRIGGER_NOT_CONFIGURED", "message": "Trigger endpoints are not configured"}})
			return
		}

		presented := []byte(c.GetHeader(TriggerKeyHeader))
		matched := 0
		for _, k := range accepted {
			// compare against every key, no early exit
			matched |= subtle.ConstantTimeCompare(presented, k)
		}
		if matched != 1 {
			logger.Get().Warnw("rejected trigger call",
				"client_ip", c.ClientIP(),
				"path", c.Request.URL.Path,
				"key_present", len(presented) > 0,
			)
			appErr := apperrors.ErrInvalidAPIKey
			c.AbortWithStatusJSON(appErr.StatusCode,
				gin.H{"error": gin.H{"code": appErr.Code, "message": appErr.Message}})
			return
		}
		c.Next()
	}
}

func parseTriggerKeys(keys string) [][]byte {
	var out [][]byte
	for _, k := range strings.Split(keys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, []byte(k))
		}
	}
	return out
}
