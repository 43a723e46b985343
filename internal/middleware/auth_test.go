package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/triage-api/internal/model"
	"github.com/jwalitptl/triage-api/pkg/auth"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt := auth.NewJWTService("test-secret", 1)

	r := gin.New()
	r.GET("/protected", NewAuthMiddleware(jwt).RequireStaff(), func(c *gin.Context) {
		claims := c.MustGet(ClaimsKey).(*auth.Claims)
		c.JSON(http.StatusOK, gin.H{"email": claims.Email})
	})
	return r, jwt
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireStaffRejectsMissingToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)
	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
}

func TestRequireStaffRejectsGarbageToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)
	assert.Equal(t, http.StatusUnauthorized, get(r, "not-a-jwt").Code)
}

func TestRequireStaffAcceptsNurse(t *testing.T) {
	r, jwt := newAuthTestRouter(t)

	token, _, err := jwt.GenerateToken(&model.StaffUser{
		ID:    uuid.New(),
		Email: "nurse@clinic.test",
		Role:  model.RoleNurse,
	})
	require.NoError(t, err)

	w := get(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "nurse@clinic.test")
}

func TestRequireStaffRejectsUnknownRole(t *testing.T) {
	r, jwt := newAuthTestRouter(t)

	token, _, err := jwt.GenerateToken(&model.StaffUser{
		ID:    uuid.New(),
		Email: "someone@clinic.test",
		Role:  "patient",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, token).Code)
}
