package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/storelaunch/storelaunch/internal/core/domain/auth"
	"github.com/storelaunch/storelaunch/internal/core/domain/user"
	"github.com/storelaunch/storelaunch/internal/infrastructure/httpserver/helpers"
	"github.com/storelaunch/storelaunch/internal/utils"
)

func isWeakPasswordError(err error) bool {
	return errors.Is(err, utils.ErrPasswordTooShort) ||
		errors.Is(err, utils.ErrPasswordNoUppercase) ||
		errors.Is(err, utils.ErrPasswordNoLowercase) ||
		errors.Is(err, utils.ErrPasswordNoDigit)
}

const refreshCookieName = "refresh_token"

// Auth handlers
func (s *Server) register(c echo.Context) error {
	var req auth.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return helpers.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return validationFail(c, err)
	}

	u, tokens, err := s.authSvc.Register(c.Request().Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			return helpers.Fail(c, http.StatusConflict, "Email is already registered")
		case isWeakPasswordError(err):
			return helpers.Fail(c, http.StatusBadRequest, err.Error())
		default:
			return err
		}
	}

	s.setRefreshCookie(c, tokens.RefreshToken, s.tokenSvc.RefreshTokenTTL(false))

	return helpers.OK(c, http.StatusCreated, map[string]interface{}{
		"user":   u,
		"tokens": tokens,
	})
}

func (s *Server) login(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return helpers.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return validationFail(c, err)
	}

	tokens, err := s.authSvc.Login(c.Request().Context(), &req, helpers.ClientIdentifier(c))
	if err != nil {
		var lockErr *auth.LockoutError
		switch {
		case errors.As(err, &lockErr):
			retryAfter := int(time.Until(lockErr.LockedUntil).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return helpers.Fail(c, http.StatusTooManyRequests,
				"Too many failed login attempts, please try again later")
		case errors.Is(err, auth.ErrInvalidCredentials):
			return helpers.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, auth.ErrAccountDisabled):
			return helpers.Fail(c, http.StatusForbidden, "Account is disabled")
		default:
			return err
		}
	}

	s.setRefreshCookie(c, tokens.RefreshToken, s.tokenSvc.RefreshTokenTTL(req.Remember))

	return helpers.OK(c, http.StatusOK, map[string]interface{}{
		"tokens": tokens,
	})
}

func (s *Server) refreshToken(c echo.Context) error {
	var req auth.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return helpers.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	// Web clients carry the refresh token in a cookie rather than the body.
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie(refreshCookieName); err == nil {
			req.RefreshToken = cookie.Value
		}
	}
	if req.RefreshToken == "" {
		return helpers.Fail(c, http.StatusBadRequest, "Refresh token is required")
	}

	tokens, err := s.authSvc.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRefreshToken):
			return helpers.Fail(c, http.StatusUnauthorized, "Invalid refresh token")
		case errors.Is(err, auth.ErrAccountDisabled):
			s.clearRefreshCookie(c)
			return helpers.Fail(c, http.StatusForbidden, "Account is disabled")
		}
		return err
	}

	// Rotation invalidated the presented token; re-issue the cookie.
	remember := false
	if claims, err := s.tokenSvc.VerifyRefreshToken(tokens.RefreshToken); err == nil {
		remember = claims.Remember
	}
	s.setRefreshCookie(c, tokens.RefreshToken, s.tokenSvc.RefreshTokenTTL(remember))

	return helpers.OK(c, http.StatusOK, map[string]interface{}{
		"tokens": tokens,
	})
}

func (s *Server) logout(c echo.Context) error {
	var req auth.RefreshRequest
	_ = c.Bind(&req)
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie(refreshCookieName); err == nil {
			req.RefreshToken = cookie.Value
		}
	}

	if req.RefreshToken != "" {
		if err := s.authSvc.Logout(c.Request().Context(), req.RefreshToken); err != nil {
			s.logger.WithError(err).Warn("Failed to revoke refresh token on logout")
		}
	}

	s.clearRefreshCookie(c)

	return helpers.OK(c, http.StatusOK, map[string]interface{}{
		"message": "logged out",
	})
}

func (s *Server) setRefreshCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/api/auth",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteStrictMode,
	})
}
