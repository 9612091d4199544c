// Package middleware holds the gin middleware of the API: token
// authentication, capability checks and request metrics.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uniflow/uniflow-api/internal/models"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
	"github.com/uniflow/uniflow-api/pkg/response"
)

// ContextUserKey is the gin context key under which validated claims are
// stored.
const ContextUserKey = "current_user"

type tokenValidator interface {
	ValidateToken(tokenString string) (*models.JWTClaims, error)
}

// Authenticate parses the Bearer token and stores the claims in the request
// context. Requests without a valid token are rejected.
func Authenticate(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "authorization header must be a bearer token"))
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the validated claims of the current request, or
// nil when the request is unauthenticated.
func ClaimsFromContext(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
