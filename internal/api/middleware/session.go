package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shadownet/contract-desk/internal/core/domain"
	"github.com/shadownet/contract-desk/internal/core/ports"
)

// CookieName carries the securecookie-encoded session id.
const CookieName = "sid"

const (
	userContextKey    = "auth.user"
	sessionContextKey = "auth.session"
)

// SessionManager owns the session lifecycle: issuing on login, resolving on
// every request, destroying on logout. It is constructed once at startup and
// injected wherever sessions are needed; there is no package-level state.
type SessionManager struct {
	sessions ports.SessionRepository
	users    ports.UserRepository
	codec    *securecookie.SecureCookie
	ttl      time.Duration
	secure   bool
	log      zerolog.Logger
}

// NewSessionManager builds a manager. blockKey may be nil, in which case the
// cookie is authenticated but not encrypted.
func NewSessionManager(
	sessions ports.SessionRepository,
	users ports.UserRepository,
	hashKey, blockKey []byte,
	ttl time.Duration,
	secure bool,
	log zerolog.Logger,
) *SessionManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionManager{
		sessions: sessions,
		users:    users,
		codec:    securecookie.New(hashKey, blockKey),
		ttl:      ttl,
		secure:   secure,
		log:      log,
	}
}

// Resolve attaches the authenticated user and session to the request context
// when the session cookie resolves to a live session. It never rejects a
// request: unauthenticated requests simply proceed without a user, and the
// guards decide what that means per route.
func (m *SessionManager) Resolve() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := m.sessionID(c)
			if !ok {
				return next(c)
			}

			session, err := m.sessions.Find(c.Request().Context(), id)
			if err != nil {
				if !errors.Is(err, domain.ErrSessionNotFound) {
					m.log.Error().Err(err).Msg("session lookup failed")
				}
				return next(c)
			}

			now := time.Now().UTC()
			if session.Expired(now) {
				_ = m.sessions.Delete(c.Request().Context(), session.ID)
				return next(c)
			}

			user, err := m.users.FindByID(c.Request().Context(), session.UserID)
			if err != nil {
				// Session outlived its user; drop it.
				_ = m.sessions.Delete(c.Request().Context(), session.ID)
				return next(c)
			}

			// Keep-alive: activity pushes the server-side expiry forward.
			// Best effort; a failed touch leaves the old expiry in place.
			if err := m.sessions.Touch(c.Request().Context(), session.ID, now.Add(m.ttl)); err != nil {
				m.log.Debug().Err(err).Msg("session touch failed")
			}

			c.Set(userContextKey, user)
			c.Set(sessionContextKey, session)
			return next(c)
		}
	}
}

// Issue establishes a fresh session for user. Any session the request arrived
// with is destroyed first and the id is regenerated, so a pre-auth session id
// never survives past login.
func (m *SessionManager) Issue(c echo.Context, user *domain.User, isAdmin bool) error {
	if id, ok := m.sessionID(c); ok {
		if err := m.sessions.Delete(c.Request().Context(), id); err != nil {
			m.log.Warn().Err(err).Msg("failed to delete superseded session")
		}
	}

	id, err := newSessionID()
	if err != nil {
		return fmt.Errorf("issue session: %w", err)
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        id,
		UserID:    user.ID,
		IsAdmin:   isAdmin,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.sessions.Create(c.Request().Context(), session); err != nil {
		return fmt.Errorf("issue session: %w", err)
	}

	encoded, err := m.codec.Encode(CookieName, id)
	if err != nil {
		return fmt.Errorf("issue session: encode cookie: %w", err)
	}
	c.SetCookie(m.newCookie(encoded, int(m.ttl.Seconds())))

	c.Set(userContextKey, user)
	c.Set(sessionContextKey, session)
	return nil
}

// Destroy removes the current session server-side and clears the cookie.
// Destroying an absent or already-destroyed session is not an error.
func (m *SessionManager) Destroy(c echo.Context) error {
	if id, ok := m.sessionID(c); ok {
		if err := m.sessions.Delete(c.Request().Context(), id); err != nil {
			return fmt.Errorf("destroy session: %w", err)
		}
	}

	c.SetCookie(m.newCookie("", -1))
	c.Set(userContextKey, nil)
	c.Set(sessionContextKey, nil)
	return nil
}

// sessionID extracts and authenticates the session id from the request
// cookie. Tampered or undecodable cookies are treated as absent.
func (m *SessionManager) sessionID(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	var id string
	if err := m.codec.Decode(CookieName, cookie.Value, &id); err != nil {
		m.log.Debug().Err(err).Msg("rejecting undecodable session cookie")
		return "", false
	}
	return id, true
}

func (m *SessionManager) newCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	}
}

// newSessionID returns 128 bits of hex from the system CSPRNG.
func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// CurrentUser returns the user attached by Resolve, or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userContextKey).(*domain.User)
	return user
}

// CurrentSession returns the session attached by Resolve, or nil.
func CurrentSession(c echo.Context) *domain.Session {
	session, _ := c.Get(sessionContextKey).(*domain.Session)
	return session
}

// IsAuthenticated reports whether the request carries a resolved user.
func IsAuthenticated(c echo.Context) bool {
	return CurrentUser(c) != nil
}

// IsAdminSession reports whether the request may use admin routes: the user
// row must carry the admin role AND the session must have been issued by the
// admin login path. The flag is session-scoped on purpose; flipping a user's
// role out of band grants nothing until a fresh admin login.
func IsAdminSession(c echo.Context) bool {
	user := CurrentUser(c)
	session := CurrentSession(c)
	return user != nil && session != nil && user.IsAdmin() && session.IsAdmin
}
