package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"task-manager/internal/models"
)

// MaxBodyBytes is the request body ceiling.
const MaxBodyBytes = 1 << 20

const bodyTooLarge = "Request body too large"

// BodyLimit caps request bodies. A declared Content-Length over the limit
// is rejected up front; otherwise reading past the limit fails and
// IsBodyTooLarge reports it.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			AbortBodyTooLarge(c)
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func AbortBodyTooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Message: bodyTooLarge})
}
