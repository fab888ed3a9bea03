package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Guards run after Resolve and before the route handler touches the request
// body. They are pure predicates over the context state Resolve left behind.

// RequireAuthenticated rejects requests that did not resolve to a user.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IsAuthenticated(c) {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects requests unless the user has the admin role and the
// session carries the admin flag. An authenticated non-admin gets 403, not
// 401: the caller is known, just not allowed.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IsAuthenticated(c) {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !IsAdminSession(c) {
				return echo.NewHTTPError(http.StatusForbidden, "access denied")
			}
			return next(c)
		}
	}
}

// RequireClient gates the client dashboard. It is deliberately just an
// authentication check with no role filter; admins may view their own
// contracts through it as well.
func RequireClient() echo.MiddlewareFunc {
	return RequireAuthenticated()
}
