package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const headerRequestID = "X-Request-ID"

// requestLogger tags every request with an id (kept from the caller when
// present) and logs it once the handler chain has finished.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()

	reqID := c.GetHeader(headerRequestID)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	c.Set("requestId", reqID)
	c.Header(headerRequestID, reqID)

	c.Next()

	if h.log == nil {
		return
	}
	kv := []interface{}{
		"request_id", reqID,
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	}
	if c.Writer.Status() >= 500 {
		h.log.Warnw("http_request", kv...)
		return
	}
	h.log.Debugw("http_request", kv...)
}
