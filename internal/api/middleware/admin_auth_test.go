package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "admin-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, roles []string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops",
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Roles: roles,
	})
	s, err := token.SignedString(key)
	require.NoError(t, err)
	return s
}

func TestAdminAuth_EmptySecretDisables(t *testing.T) {
	assert.Nil(t, AdminAuth(""))
}

func TestAdminAuth(t *testing.T) {
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		header func(t *testing.T) string
		want   int
	}{
		{
			name: "admin token",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), []string{"user", "admin"}, future)
			},
			want: http.StatusOK,
		},
		{
			name:   "no header",
			header: func(*testing.T) string { return "" },
			want:   http.StatusUnauthorized,
		},
		{
			name:   "wrong scheme",
			header: func(*testing.T) string { return "Basic abc" },
			want:   http.StatusUnauthorized,
		},
		{
			name: "wrong secret",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), []string{"admin"}, future)
			},
			want: http.StatusUnauthorized,
		},
		{
			name: "other algorithm",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testSecret), []string{"admin"}, future)
			},
			want: http.StatusUnauthorized,
		},
		{
			name: "expired",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), []string{"admin"}, time.Now().Add(-time.Minute))
			},
			want: http.StatusUnauthorized,
		},
		{
			name: "missing role",
			header: func(t *testing.T) string {
				return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), []string{"user"}, future)
			},
			want: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/admin/events", func(c echo.Context) error {
				return c.String(http.StatusOK, c.Get("admin_subject").(string))
			}, AdminAuth(testSecret))

			req := httptest.NewRequest(http.MethodGet, "/admin/events", nil)
			if h := tt.header(t); h != "" {
				req.Header.Set(echo.HeaderAuthorization, h)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "ops", rec.Body.String())
			}
		})
	}
}
