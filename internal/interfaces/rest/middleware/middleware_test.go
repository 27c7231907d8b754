package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pot-code/coursecert/internal/infrastructure/auth"
	"github.com/pot-code/coursecert/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newContext(e *echo.Echo, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func ok(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mw := RateLimit(&RateLimitOption{
		PerMinute: 2,
		KeyFunc:   func(c echo.Context) string { return c.Request().Header.Get("X-User") },
		Now:       func() time.Time { return now },
	})
	h := mw(ok)

	call := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-User", user)
		c, rec := newContext(e, req)
		require.NoError(t, h(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("u1"))
	assert.Equal(t, http.StatusOK, call("u1"))
	assert.Equal(t, http.StatusTooManyRequests, call("u1"))
	assert.Equal(t, http.StatusOK, call("u2"), "buckets are per caller")

	now = now.Add(30 * time.Second)
	assert.Equal(t, http.StatusOK, call("u1"), "one token refilled")
	assert.Equal(t, http.StatusTooManyRequests, call("u1"))
}

func TestRateLimit_disabled(t *testing.T) {
	e := echo.New()
	h := RateLimit(&RateLimitOption{})(ok)
	for i := 0; i < 100; i++ {
		c, rec := newContext(e, httptest.NewRequest(http.MethodPost, "/", nil))
		require.NoError(t, h(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestVerifyToken(t *testing.T) {
	e := echo.New()
	ju := auth.NewJWTUtil("HS256", "secret", "token")
	revoked := map[string]bool{}
	mw := VerifyToken(ju, &ValidateTokenOption{
		InBlackList: func(ctx context.Context, token string) (bool, error) {
			return revoked[token], nil
		},
	})
	var seen string
	h := mw(func(c echo.Context) error {
		seen = ju.GetContextToken(c).UID
		return c.NoContent(http.StatusOK)
	})

	sign := func(uid string, exp time.Duration) string {
		token, err := ju.Sign(&auth.AppTokenClaims{UID: uid, StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(exp).Unix()}})
		require.NoError(t, err)
		return token
	}
	good := sign("u1", time.Hour)
	blocked := sign("u2", time.Hour)
	revoked[blocked] = true

	tests := []struct {
		name     string
		header   string
		cookie   string
		wantCode int
	}{
		{"no token", "", "", http.StatusUnauthorized},
		{"bearer", "Bearer " + good, "", http.StatusOK},
		{"cookie", "", good, http.StatusOK},
		{"expired", "Bearer " + sign("u1", -time.Hour), "", http.StatusUnauthorized},
		{"revoked", "Bearer " + blocked, "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + func() string {
			s, _ := auth.NewJWTUtil("HS256", "other", "token").Sign(&auth.AppTokenClaims{UID: "u1"})
			return s
		}(), "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			c, rec := newContext(e, req)
			require.NoError(t, h(c))
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "u1", seen)
			}
		})
	}
}

func TestVerifyToken_blacklistUnavailable(t *testing.T) {
	e := echo.New()
	ju := auth.NewJWTUtil("HS256", "secret", "token")
	kvErr := errors.New("redis down")
	h := VerifyToken(ju, &ValidateTokenOption{
		InBlackList: func(context.Context, string) (bool, error) { return false, kvErr },
	})(ok)

	token, err := ju.Sign(&auth.AppTokenClaims{UID: "u1"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	c, _ := newContext(e, req)
	assert.ErrorIs(t, h(c), kvErr)
}

func TestAbortRequest(t *testing.T) {
	e := echo.New()
	h := AbortRequest(&AbortRequestOption{Timeout: 10 * time.Millisecond})(func(c echo.Context) error {
		<-c.Request().Context().Done()
		return c.Request().Context().Err()
	})
	c, _ := newContext(e, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, h(c), context.DeadlineExceeded)
}

func TestErrorHandling(t *testing.T) {
	e := echo.New()
	var handled []error
	mw := ErrorHandling(&ErrorHandlingOption{
		Handler: func(c echo.Context, err error) {
			handled = append(handled, err)
			c.NoContent(http.StatusTeapot)
		},
	})

	c, rec := newContext(e, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, mw(func(echo.Context) error { return errors.New("boom") })(c))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	c, rec = newContext(e, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, mw(func(echo.Context) error { panic("nil map") })(c))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.Len(t, handled, 2)
	assert.EqualError(t, handled[1], "nil map")

	c, rec = newContext(e, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, mw(func(echo.Context) error { return echo.ErrNotFound })(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, handled, 2, "echo errors keep their status")
}

func TestMetrics(t *testing.T) {
	e := echo.New()
	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder("test", reg)

	c, _ := newContext(e, httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil))
	c.SetPath("/api/v1/courses")
	require.NoError(t, Metrics(recorder)(ok)(c))

	families, err := reg.Gather()
	require.NoError(t, err)
	var count uint64
	for _, mf := range families {
		if mf.GetName() != "test_http_request_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			count += m.GetHistogram().GetSampleCount()
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "route" {
					assert.Equal(t, "/api/v1/courses", lp.GetValue())
				}
			}
		}
	}
	assert.Equal(t, uint64(1), count)
}

func TestLogging(t *testing.T) {
	e := echo.New()
	core, logs := observer.New(zapcore.DebugLevel)
	mw := Logging(zap.New(core), &LoggingConfig{
		Skipper:   func(c echo.Context) bool { return c.Request().URL.Path == "/healthz" },
		Principal: func(c echo.Context) string { return "u1" },
	})

	c, _ := newContext(e, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, mw(ok)(c))
	assert.Equal(t, 0, logs.Len())

	c, _ = newContext(e, httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil))
	require.NoError(t, mw(ok)(c))
	c, _ = newContext(e, httptest.NewRequest(http.MethodGet, "/api/v1/exams/x", nil))
	require.NoError(t, mw(func(c echo.Context) error { return c.NoContent(http.StatusNotFound) })(c))
	c, _ = newContext(e, httptest.NewRequest(http.MethodGet, "/api/v1/progress/status", nil))
	require.NoError(t, mw(func(c echo.Context) error { return c.NoContent(http.StatusServiceUnavailable) })(c))

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "u1", entries[0].ContextMap()["user.id"])
	assert.EqualValues(t, http.StatusNotFound, entries[1].ContextMap()["http.response.status_code"])
}
