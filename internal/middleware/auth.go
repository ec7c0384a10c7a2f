package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-manager/internal/auth"
	"task-manager/internal/models"
)

const identityKey = "auth.identity"

type Authenticator interface {
	Authenticate(header string) auth.Result
}

// Auth rejects requests without a valid bearer token and stores the
// caller's identity for Identity to read.
func Auth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := authenticator.Authenticate(c.GetHeader("Authorization"))
		if !result.OK() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Message: result.Failure.Message()})
			return
		}

		c.Set(identityKey, result.Identity)
		c.Next()
	}
}

// Identity returns the caller resolved by Auth.
func Identity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}
