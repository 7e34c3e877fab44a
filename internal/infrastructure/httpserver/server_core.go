package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	config "github.com/storelaunch/storelaunch/configs"
	"github.com/storelaunch/storelaunch/internal/core/ports"
	customMiddleware "github.com/storelaunch/storelaunch/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type ServerDeps struct {
	AuthService    ports.AuthService
	TokenService   ports.TokenService
	UserService    ports.UserService
	StoreService   ports.StoreService
	RateLimiter    ports.RateLimiter
	HealthCheckers []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	rateLimits     *config.RateLimitConfig
	logger         *logrus.Logger
	authSvc        ports.AuthService
	tokenSvc       ports.TokenService
	userService    ports.UserService
	storeService   ports.StoreService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, rateLimits *config.RateLimitConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewRequestValidator()

	server := &Server{
		echo:           e,
		config:         serverConfig,
		rateLimits:     rateLimits,
		logger:         logger,
		authSvc:        deps.AuthService,
		tokenSvc:       deps.TokenService,
		userService:    deps.UserService,
		storeService:   deps.StoreService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.TokenService,
			deps.RateLimiter,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
			GetRateLimitRejections(),
		),
	}

	e.HTTPErrorHandler = server.errorHandler

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// errorHandler converts anything escaping the handlers into the standard
// envelope. Internal detail is logged, never returned to the client.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	if code >= http.StatusInternalServerError && s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Request().URL.Path,
		}).WithError(err).Error("unhandled error in request handler")
		msg = "Internal server error"
	}

	if writeErr := c.JSON(code, map[string]interface{}{"success": false, "error": msg}); writeErr != nil && s.logger != nil {
		s.logger.WithError(writeErr).Error("failed to write error response")
	}
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}
