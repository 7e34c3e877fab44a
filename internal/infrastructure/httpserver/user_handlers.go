package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storelaunch/storelaunch/internal/core/domain/user"
	"github.com/storelaunch/storelaunch/internal/infrastructure/httpserver/helpers"
)

// User profile handlers
func (s *Server) getProfile(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	u, err := s.userService.GetUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return helpers.Fail(c, http.StatusNotFound, "User not found")
		}
		return err
	}

	return helpers.OK(c, http.StatusOK, map[string]interface{}{
		"user": u,
	})
}

func (s *Server) updateProfile(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req user.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return helpers.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	u, err := s.userService.UpdateProfile(c.Request().Context(), userID, &req)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return helpers.Fail(c, http.StatusNotFound, "User not found")
		}
		return err
	}

	return helpers.OK(c, http.StatusOK, map[string]interface{}{
		"user": u,
	})
}
