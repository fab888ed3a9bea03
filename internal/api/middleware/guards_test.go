package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shadownet/contract-desk/internal/core/domain"
)

func guardContext(user *domain.User, session *domain.Session) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(userContextKey, user)
	}
	if session != nil {
		c.Set(sessionContextKey, session)
	}
	return c
}

func runGuard(t *testing.T, mw echo.MiddlewareFunc, c echo.Context) (bool, error) {
	t.Helper()
	reached := false
	handler := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	return reached, handler(c)
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func session(userID string, isAdmin bool) *domain.Session {
	return &domain.Session{
		ID:        "sess-" + userID,
		UserID:    userID,
		IsAdmin:   isAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestRequireAuthenticated(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		c := guardContext(nil, nil)
		reached, err := runGuard(t, RequireAuthenticated(), c)
		if reached {
			t.Fatalf("handler must not run")
		}
		if code := httpCode(t, err); code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", code)
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		user := testUser("user-1", domain.RoleClient)
		c := guardContext(user, session(user.ID, false))
		reached, err := runGuard(t, RequireAuthenticated(), c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reached {
			t.Fatalf("handler should run")
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("anonymous gets 401", func(t *testing.T) {
		c := guardContext(nil, nil)
		reached, err := runGuard(t, RequireAdmin(), c)
		if reached {
			t.Fatalf("handler must not run")
		}
		if code := httpCode(t, err); code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", code)
		}
	})

	t.Run("client session gets 403", func(t *testing.T) {
		user := testUser("user-1", domain.RoleClient)
		c := guardContext(user, session(user.ID, false))
		reached, err := runGuard(t, RequireAdmin(), c)
		if reached {
			t.Fatalf("handler must not run")
		}
		if code := httpCode(t, err); code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", code)
		}
	})

	// A user promoted to admin after logging in keeps a non-admin session.
	// The guard must keep refusing until a fresh admin login issues a
	// flagged session.
	t.Run("admin role without admin session gets 403", func(t *testing.T) {
		user := testUser("admin-1", domain.RoleAdmin)
		c := guardContext(user, session(user.ID, false))
		reached, err := runGuard(t, RequireAdmin(), c)
		if reached {
			t.Fatalf("handler must not run")
		}
		if code := httpCode(t, err); code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", code)
		}
	})

	// The inverse: an admin-flagged session whose user lost the role.
	t.Run("admin session without admin role gets 403", func(t *testing.T) {
		user := testUser("user-1", domain.RoleClient)
		c := guardContext(user, session(user.ID, true))
		reached, err := runGuard(t, RequireAdmin(), c)
		if reached {
			t.Fatalf("handler must not run")
		}
		if code := httpCode(t, err); code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", code)
		}
	})

	t.Run("admin role and admin session pass", func(t *testing.T) {
		user := testUser("admin-1", domain.RoleAdmin)
		c := guardContext(user, session(user.ID, true))
		reached, err := runGuard(t, RequireAdmin(), c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reached {
			t.Fatalf("handler should run")
		}
	})
}

func TestRequireClient_AllowsAnyAuthenticatedUser(t *testing.T) {
	admin := testUser("admin-1", domain.RoleAdmin)
	c := guardContext(admin, session(admin.ID, true))
	reached, err := runGuard(t, RequireClient(), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reached {
		t.Fatalf("admins may use the client dashboard")
	}
}
