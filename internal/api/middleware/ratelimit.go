package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shadownet/contract-desk/internal/api/metrics"
	"github.com/shadownet/contract-desk/internal/core/ports"
)

// RateLimitConfig describes one fixed-window limiter.
type RateLimitConfig struct {
	// Scope namespaces the counter keys and labels the metrics.
	Scope string
	// Window is the fixed window length.
	Window time.Duration
	// Max is the number of counted requests allowed per window.
	Max int64
	// FailuresOnly makes only failed requests (status >= 400 or handler
	// error) consume budget. Used for login, where a successful attempt
	// must not block subsequent legitimate ones.
	FailuresOnly bool
	// Message is returned to throttled callers.
	Message string
}

type rateLimitResponse struct {
	Error             string `json:"error"`
	RetryAfterSeconds int64  `json:"retry_after_seconds"`
}

// RateLimit enforces a fixed window keyed by client address. The budget check
// runs before the handler (so throttled logins are rejected before any
// credential work); consumption happens afterwards so that FailuresOnly can
// look at the outcome. Limiter store errors fail open with a warning.
func RateLimit(limiter ports.RateLimiter, cfg RateLimitConfig, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("ratelimit:%s:%s", cfg.Scope, c.RealIP())

			count, resetIn, err := limiter.Peek(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("scope", cfg.Scope).Msg("rate limit check failed, allowing request")
				return next(c)
			}

			if resetIn <= 0 {
				resetIn = cfg.Window
			}
			setRateLimitHeaders(c, cfg.Max, count, resetIn)

			if count >= cfg.Max {
				metrics.RateLimitedTotal.WithLabelValues(cfg.Scope).Inc()
				retry := int64(resetIn.Round(time.Second).Seconds())
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", retry))
				return c.JSON(http.StatusTooManyRequests, rateLimitResponse{
					Error:             cfg.Message,
					RetryAfterSeconds: retry,
				})
			}

			if !cfg.FailuresOnly {
				if _, err := limiter.Record(c.Request().Context(), key, cfg.Window); err != nil {
					log.Warn().Err(err).Str("scope", cfg.Scope).Msg("rate limit record failed")
				}
			}

			handlerErr := next(c)

			if cfg.FailuresOnly && failed(c, handlerErr) {
				if _, err := limiter.Record(c.Request().Context(), key, cfg.Window); err != nil {
					log.Warn().Err(err).Str("scope", cfg.Scope).Msg("rate limit record failed")
				}
			}

			return handlerErr
		}
	}
}

func setRateLimitHeaders(c echo.Context, max, count int64, resetIn time.Duration) {
	remaining := max - count
	if remaining < 0 {
		remaining = 0
	}
	h := c.Response().Header()
	h.Set("RateLimit-Limit", fmt.Sprintf("%d", max))
	h.Set("RateLimit-Remaining", fmt.Sprintf("%d", remaining))
	h.Set("RateLimit-Reset", fmt.Sprintf("%d", int64(resetIn.Round(time.Second).Seconds())))
}

// failed reports whether the request ended in an error response.
func failed(c echo.Context, err error) bool {
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he.Code >= http.StatusBadRequest
		}
		return true
	}
	return c.Response().Status >= http.StatusBadRequest
}
