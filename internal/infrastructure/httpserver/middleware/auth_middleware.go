package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/storelaunch/storelaunch/internal/core/domain/auth"
	"github.com/storelaunch/storelaunch/internal/core/ports"
	"github.com/storelaunch/storelaunch/internal/infrastructure/httpserver/helpers"
)

type AuthMiddleware struct {
	tokens ports.TokenService
	logger *logrus.Logger
}

func NewAuthMiddleware(tokens ports.TokenService, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// RequireAuth creates middleware that verifies bearer tokens and attaches
// the resolved identity to the request context. Expiry is reported
// distinctly from other failures; everything else collapses into a single
// message.
func (m *AuthMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, ok := helpers.GetBearerToken(c)
			if !ok {
				return helpers.Fail(c, http.StatusUnauthorized, "Missing or invalid authorization header")
			}

			claims, err := m.tokens.VerifyAccessToken(tokenString)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{
						"ip":    helpers.ClientIdentifier(c),
						"path":  c.Request().URL.Path,
						"error": err.Error(),
					}).Warn("token verification failed")
				}
				if errors.Is(err, auth.ErrTokenExpired) {
					return helpers.Fail(c, http.StatusUnauthorized, "Token expired")
				}
				return helpers.Fail(c, http.StatusUnauthorized, "Invalid token")
			}

			helpers.SetUserID(c, claims.UserID)
			helpers.SetUserRole(c, claims.Role)
			helpers.SetUserEmail(c, claims.Email)

			return next(c)
		}
	}
}
