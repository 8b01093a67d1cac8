package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-listing/internal/pkg/logger"
)

// RoleAdmin is the role claim required on /admin routes
const RoleAdmin = "admin"

// AdminClaims is the token payload accepted by AdminAuth
type AdminClaims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

var (
	errMissingToken = errors.New("missing bearer token")
	errNotAdmin     = errors.New("token lacks the admin role")
)

// AdminAuth requires an HS256 bearer token signed with secret whose roles
// include admin. It returns nil when secret is empty so routes stay open in
// local setups.
func AdminAuth(secret string) echo.MiddlewareFunc {
	if secret == "" {
		return nil
	}
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c.Request())
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			var claims AdminClaims
			if _, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
				return key, nil
			}); err != nil {
				logger.FromContext(c.Request().Context()).Debug("admin token rejected", zap.Error(err))
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if !slices.Contains(claims.Roles, RoleAdmin) {
				return echo.NewHTTPError(http.StatusForbidden, errNotAdmin.Error())
			}

			c.Set("admin_subject", claims.Subject)
			return next(c)
		}
	}
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errMissingToken
	}
	return strings.TrimSpace(token), nil
}
