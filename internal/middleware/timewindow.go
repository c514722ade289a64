package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TimeWindowMiddleware rejects requests outside the [startHour, endHour)
// local-time window. The clock is injected so the gate is testable.
func TimeWindowMiddleware(startHour, endHour int, clock Clock) gin.HandlerFunc {
	if clock == nil {
		clock = RealClock
	}
	return func(c *gin.Context) {
		hour := clock.Now().Hour()
		if hour < startHour || hour >= endHour {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "messaging is only available during the configured access window",
			})
			return
		}
		c.Next()
	}
}
