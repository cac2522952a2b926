package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/utils"
)

const secret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(secret), func(c *gin.Context) {
		id, _ := GetUserIDFromContext(c)
		role, _ := GetUserRoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	r.GET("/admin", AuthMiddleware(secret), RoleAuthMiddleware(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/no-auth", RoleAuthMiddleware(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func token(t *testing.T, role models.Role, ttl time.Duration, key string) string {
	t.Helper()
	tok, err := utils.GenerateToken(&models.User{BaseModel: models.BaseModel{ID: "u-1"}, Role: role}, key, ttl)
	require.NoError(t, err)
	return tok
}

func get(r *gin.Engine, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		auth   string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"wrong key", "Bearer " + token(t, models.RoleStaff, time.Hour, "other"), http.StatusUnauthorized},
		{"expired", "Bearer " + token(t, models.RoleStaff, -time.Minute, secret), http.StatusUnauthorized},
		{"valid", "Bearer " + token(t, models.RoleStaff, time.Hour, secret), http.StatusOK},
		{"scheme is case insensitive", "bearer " + token(t, models.RoleStaff, time.Hour, secret), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/me", tt.auth)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":"u-1","role":"staff"}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
}

func TestRoleAuthMiddleware(t *testing.T) {
	r := newRouter()

	w := get(r, "/admin", "Bearer "+token(t, models.RoleStaff, time.Hour, secret))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(r, "/admin", "Bearer "+token(t, models.RoleAdmin, time.Hour, secret))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = get(r, "/no-auth", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	claims, err := utils.ValidateToken(token(t, models.RoleAdmin, time.Hour, secret), secret)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}
