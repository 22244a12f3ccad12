package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"marketplace-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// Claims are the bearer token claims. Tokens are issued by the identity service.
type Claims struct {
	jwt.RegisteredClaims
	Email string         `json:"email"`
	Role  model.UserRole `json:"role"`
}

type JWTValidator struct {
	secret []byte
}

// NewJWTValidator returns nil for an empty secret; Auth then rejects every request.
func NewJWTValidator(secret string) *JWTValidator {
	if secret == "" {
		return nil
	}
	return &JWTValidator{secret: []byte(secret)}
}

func (v *JWTValidator) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Auth resolves the caller from the Authorization header and, when roles are given,
// requires the caller to hold one of them.
func Auth(validator *JWTValidator, roles ...model.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "You are not authorized")
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

			if validator == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication not configured")
			}

			claims, err := validator.Validate(tokenStr)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}
			if claims.Email == "" || claims.Role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token email and role are required")
			}

			if len(roles) > 0 && !hasRole(claims.Role, roles) {
				return echo.NewHTTPError(http.StatusForbidden, "You are not allowed to access this resource")
			}

			c.Set(principalKey, model.Principal{
				Email: strings.ToLower(claims.Email),
				Role:  claims.Role,
			})
			return next(c)
		}
	}
}

func hasRole(role model.UserRole, allowed []model.UserRole) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// PrincipalFrom returns the caller set by Auth.
func PrincipalFrom(c echo.Context) (model.Principal, error) {
	principal, ok := c.Get(principalKey).(model.Principal)
	if !ok {
		return model.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "You are not authorized")
	}
	return principal, nil
}
