package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/storelaunch/storelaunch/internal/core/domain/store"
	"github.com/storelaunch/storelaunch/internal/infrastructure/httpserver/helpers"
)

// Store handlers
func (s *Server) createStore(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req store.CreateStoreRequest
	if err := c.Bind(&req); err != nil {
		return helpers.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return validationFail(c, err)
	}

	st, err := s.storeService.CreateStore(c.Request().Context(), userID, &req)
	if err != nil {
		if errors.Is(err, store.ErrSubdomainTaken) {
			return helpers.Fail(c, http.StatusConflict, "Subdomain is already taken")
		}
		return err
	}

	return helpers.OK(c, http.StatusCreated, map[string]interface{}{
		"store": st,
	})
}

func (s *Server) listStores(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	stores, err := s.storeService.ListStores(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return helpers.OK(c, http.StatusOK, map[string]interface{}{
		"stores": stores,
		"count":  len(stores),
	})
}

func (s *Server) getStore(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return helpers.Fail(c, http.StatusBadRequest, "Invalid store ID")
	}

	st, err := s.storeService.GetStore(c.Request().Context(), userID, storeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return helpers.Fail(c, http.StatusNotFound, "Store not found")
		}
		return err
	}

	return helpers.OK(c, http.StatusOK, map[string]interface{}{
		"store": st,
	})
}

func (s *Server) getStoreProgress(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return helpers.Fail(c, http.StatusBadRequest, "Invalid store ID")
	}

	progress, err := s.storeService.GetProgress(c.Request().Context(), userID, storeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return helpers.Fail(c, http.StatusNotFound, "Store not found")
		}
		return err
	}

	return helpers.OK(c, http.StatusOK, map[string]interface{}{
		"progress": progress,
	})
}
