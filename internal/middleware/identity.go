package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ActorID extracts the caller's user reference from the X-User-ID header.
// Authentication itself happens upstream; by the time a request reaches
// the core the header is a trusted opaque reference.
func ActorID(c *gin.Context) (uint64, bool) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
