package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/uniflow/uniflow-api/internal/models"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
	"github.com/uniflow/uniflow-api/pkg/response"
)

// RequireCapability rejects requests whose authenticated role lacks the
// capability. Must run after Authenticate.
func RequireCapability(cap models.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !models.HasCapability(claims.Role, cap) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
