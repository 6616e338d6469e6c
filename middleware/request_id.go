package middleware

import (
	"movie-catalog/helper"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an id, reusing the caller's when sent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(helper.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
