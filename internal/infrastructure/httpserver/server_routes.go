package httpserver

import (
	"github.com/storelaunch/storelaunch/internal/core/ports"
)

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	window := s.rateLimits.Window
	registerLimit := ports.Limit{Max: s.rateLimits.RegisterMax, Window: window}
	loginLimit := ports.Limit{Max: s.rateLimits.LoginMax, Window: window}
	profileLimit := ports.Limit{Max: s.rateLimits.ProfileMax, Window: window}
	storesLimit := ports.Limit{Max: s.rateLimits.StoresMax, Window: window}

	api := s.echo.Group("/api")

	// rate limiting runs before token verification on every guarded route
	auth := api.Group("/auth")
	auth.POST("/register", s.register, s.middleware.RateLimit.Limit("register", registerLimit))
	auth.POST("/login", s.login, s.middleware.RateLimit.Limit("login", loginLimit))
	auth.POST("/refresh", s.refreshToken, s.middleware.RateLimit.Limit("refresh", loginLimit))
	auth.POST("/logout", s.logout, s.middleware.Auth.RequireAuth())

	user := api.Group("/user",
		s.middleware.RateLimit.Limit("profile", profileLimit),
		s.middleware.Auth.RequireAuth(),
	)
	user.GET("/profile", s.getProfile)
	user.PUT("/profile", s.updateProfile)

	stores := api.Group("/stores",
		s.middleware.RateLimit.Limit("stores", storesLimit),
		s.middleware.Auth.RequireAuth(),
	)
	stores.GET("", s.listStores)
	stores.POST("", s.createStore)
	stores.GET("/:id", s.getStore)
	stores.GET("/:id/progress", s.getStoreProgress)
}
