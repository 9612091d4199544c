package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/uniflow/uniflow-api/internal/models"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
)

type validatorStub struct {
	claims *models.JWTClaims
}

func (s *validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if s.claims == nil || token != "valid-token" {
		return nil, appErrors.ErrUnauthorized
	}
	return s.claims, nil
}

func newAuthRouter(claims *models.JWTClaims, caps ...models.Capability) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := []gin.HandlerFunc{Authenticate(&validatorStub{claims: claims})}
	for _, cap := range caps {
		chain = append(chain, RequireCapability(cap))
	}
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": ClaimsFromContext(c).UserID})
	})
	r.GET("/protected", chain...)
	return r
}

func doGet(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateMissingHeader(t *testing.T) {
	r := newAuthRouter(&models.JWTClaims{UserID: "user-1", Role: models.RoleTutor})
	w := doGet(r, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	r := newAuthRouter(&models.JWTClaims{UserID: "user-1", Role: models.RoleTutor})
	w := doGet(r, "Token abc")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateValidToken(t *testing.T) {
	r := newAuthRouter(&models.JWTClaims{UserID: "user-1", Role: models.RoleTutor})
	w := doGet(r, "Bearer valid-token")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "user-1")
}

func TestRequireCapabilityAllowsTutorWrites(t *testing.T) {
	r := newAuthRouter(&models.JWTClaims{UserID: "tutor-1", Role: models.RoleTutor}, models.CapSchedulesFill)
	w := doGet(r, "Bearer valid-token")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireCapabilityRejectsStudentWrites(t *testing.T) {
	r := newAuthRouter(&models.JWTClaims{UserID: "student-1", Role: models.RoleStudent}, models.CapSchedulesFill)
	w := doGet(r, "Bearer valid-token")
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireCapabilityAllowsStudentReads(t *testing.T) {
	r := newAuthRouter(&models.JWTClaims{UserID: "student-1", Role: models.RoleStudent}, models.CapSchedulesRead)
	w := doGet(r, "Bearer valid-token")
	require.Equal(t, http.StatusOK, w.Code)
}
