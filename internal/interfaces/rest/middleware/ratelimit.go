package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimitOption ...
type RateLimitOption struct {
	PerMinute int
	Burst     int
	// KeyFunc identifies the caller, defaults to the client IP
	KeyFunc func(c echo.Context) string
	// Expiry drop idle callers after this long
	Expiry time.Duration
	Now    func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit token bucket per caller, responds 429 once the bucket is empty
func RateLimit(option *RateLimitOption) echo.MiddlewareFunc {
	keyFunc := option.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c echo.Context) string { return c.RealIP() }
	}
	burst := option.Burst
	if burst < 1 {
		burst = option.PerMinute
	}
	expiry := option.Expiry
	if expiry <= 0 {
		expiry = 10 * time.Minute
	}
	now := option.Now
	if now == nil {
		now = time.Now
	}
	limit := rate.Limit(float64(option.PerMinute) / 60)

	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitor)
		lastGC   = now()
	)
	allow := func(key string) bool {
		mu.Lock()
		defer mu.Unlock()

		t := now()
		if t.Sub(lastGC) > expiry {
			for k, v := range visitors {
				if t.Sub(v.lastSeen) > expiry {
					delete(visitors, k)
				}
			}
			lastGC = t
		}
		v, ok := visitors[key]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(limit, burst)}
			visitors[key] = v
		}
		v.lastSeen = t
		return v.limiter.AllowN(t, 1)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if option.PerMinute <= 0 {
				return next(c)
			}
			if !allow(keyFunc(c)) {
				c.Response().Header().Set("Retry-After", "60")
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"code":  http.StatusTooManyRequests,
					"title": http.StatusText(http.StatusTooManyRequests),
				})
			}
			return next(c)
		}
	}
}
