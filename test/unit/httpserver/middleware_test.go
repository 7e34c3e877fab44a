package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/storelaunch/storelaunch/internal/core/domain/auth"
	"github.com/storelaunch/storelaunch/internal/core/domain/user"
	"github.com/storelaunch/storelaunch/internal/core/ports"
	"github.com/storelaunch/storelaunch/internal/infrastructure/httpserver/helpers"
	"github.com/storelaunch/storelaunch/internal/infrastructure/httpserver/middleware"
	tmocks "github.com/storelaunch/storelaunch/test/mocks"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestRequireAuth_MissingHeaderReturns401(t *testing.T) {
	e := echo.New()
	m := middleware.NewAuthMiddleware(&tmocks.TokenServiceMock{}, logrus.New())
	handler := m.RequireAuth()(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeEnvelope(t, rec)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Missing or invalid authorization header", body["error"])
}

func TestRequireAuth_MalformedHeaderReturns401(t *testing.T) {
	e := echo.New()
	m := middleware.NewAuthMiddleware(&tmocks.TokenServiceMock{}, logrus.New())
	handler := m.RequireAuth()(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Missing or invalid authorization header", decodeEnvelope(t, rec)["error"])
}

func TestRequireAuth_ExpiredTokenReturns401(t *testing.T) {
	e := echo.New()
	tokens := &tmocks.TokenServiceMock{
		VerifyAccessTokenFn: func(token string) (*auth.Claims, error) {
			return nil, auth.ErrTokenExpired
		},
	}
	m := middleware.NewAuthMiddleware(tokens, logrus.New())
	handler := m.RequireAuth()(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Token expired", decodeEnvelope(t, rec)["error"])
}

func TestRequireAuth_InvalidTokenReturns401(t *testing.T) {
	e := echo.New()
	tokens := &tmocks.TokenServiceMock{
		VerifyAccessTokenFn: func(token string) (*auth.Claims, error) {
			return nil, auth.ErrTokenSignature
		},
	}
	m := middleware.NewAuthMiddleware(tokens, logrus.New())
	handler := m.RequireAuth()(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tampered")
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid token", decodeEnvelope(t, rec)["error"])
}

func TestRequireAuth_ValidTokenAttachesIdentity(t *testing.T) {
	e := echo.New()
	userID := uuid.New()
	tokens := &tmocks.TokenServiceMock{
		VerifyAccessTokenFn: func(token string) (*auth.Claims, error) {
			return &auth.Claims{UserID: userID, Email: "merchant@example.com", Role: user.RoleUser}, nil
		},
	}
	m := middleware.NewAuthMiddleware(tokens, logrus.New())
	handler := m.RequireAuth()(func(c echo.Context) error {
		id, err := helpers.GetUserIDFromContext(c)
		require.NoError(t, err)
		require.Equal(t, userID, id)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_DeniedReturns429WithHeaders(t *testing.T) {
	e := echo.New()
	reset := time.Now().Add(10 * time.Minute)
	limiter := &tmocks.RateLimiterMock{
		CheckFn: func(ctx context.Context, identifier, endpoint string, limit ports.Limit) (*ports.Decision, error) {
			return &ports.Decision{Allowed: false, Remaining: 0, Reset: reset}, nil
		},
	}
	m := middleware.NewRateLimitMiddleware(limiter, logrus.New(), nil)
	handler := m.Limit("login", ports.Limit{Max: 5, Window: 15 * time.Minute})(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	retryAfter, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	require.Greater(t, retryAfter, 0)

	body := decodeEnvelope(t, rec)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Too many requests, please try again later", body["error"])
}

func TestRateLimit_AllowedSetsRemainingHeader(t *testing.T) {
	e := echo.New()
	limiter := &tmocks.RateLimiterMock{
		CheckFn: func(ctx context.Context, identifier, endpoint string, limit ports.Limit) (*ports.Decision, error) {
			return &ports.Decision{Allowed: true, Remaining: 3, Reset: time.Now().Add(time.Minute)}, nil
		},
	}
	m := middleware.NewRateLimitMiddleware(limiter, logrus.New(), nil)
	handler := m.Limit("login", ports.Limit{Max: 5, Window: 15 * time.Minute})(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "3", rec.Header().Get("X-RateLimit-Remaining"))
	require.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_FailsOpenOnLimiterError(t *testing.T) {
	e := echo.New()
	limiter := &tmocks.RateLimiterMock{
		CheckFn: func(ctx context.Context, identifier, endpoint string, limit ports.Limit) (*ports.Decision, error) {
			return &ports.Decision{Allowed: true, Remaining: limit.Max - 1}, errors.New("redis down")
		},
	}
	m := middleware.NewRateLimitMiddleware(limiter, logrus.New(), nil)
	handler := m.Limit("login", ports.Limit{Max: 5, Window: 15 * time.Minute})(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityHeaders_AlwaysPresent(t *testing.T) {
	e := echo.New()
	m := middleware.NewSecurityHeadersMiddleware()
	handler := m.Headers()(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))

	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
}

func TestClientIdentifier_Derivation(t *testing.T) {
	e := echo.New()

	newCtx := func(hdr map[string]string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for k, v := range hdr {
			req.Header.Set(k, v)
		}
		return e.NewContext(req, httptest.NewRecorder())
	}

	// first X-Forwarded-For entry wins
	c := newCtx(map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1", "X-Real-IP": "10.0.0.2"})
	require.Equal(t, "203.0.113.7", helpers.ClientIdentifier(c))

	// X-Real-IP fallback
	c = newCtx(map[string]string{"X-Real-IP": "10.0.0.2"})
	require.Equal(t, "10.0.0.2", helpers.ClientIdentifier(c))

	// neither header present
	c = newCtx(nil)
	require.Equal(t, "unknown", helpers.ClientIdentifier(c))
}

func TestRequestLogging_CarriesRequestID(t *testing.T) {
	e := echo.New()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	m := middleware.NewLoggingMiddleware(logger)
	handler := m.RequestLogging()(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/stores", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-1234")
	require.NoError(t, handler(c))

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	require.Equal(t, "req-1234", entry.Data["request_id"])
	require.Equal(t, http.MethodGet, entry.Data["method"])
	require.Equal(t, http.StatusOK, entry.Data["status"])
}

func TestCollectHTTPMetrics_RecordsRouteAndStatus(t *testing.T) {
	e := echo.New()
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "test_http_requests_total"},
		[]string{"method", "path", "status"},
	)
	durations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "test_http_request_duration_seconds"},
		[]string{"method", "path"},
	)
	m := middleware.NewMetricsMiddleware(requests, durations)
	handler := m.CollectHTTPMetrics()(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/stores/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/stores/:id")
	require.NoError(t, handler(c))

	require.Equal(t, 1.0, testutil.ToFloat64(requests.WithLabelValues(http.MethodGet, "/api/stores/:id", "200")))
}
