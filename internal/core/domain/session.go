package domain

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side record behind one authenticated browser. The ID
// is the opaque value carried by the cookie; it is generated server-side and
// never derived from request input.
//
// IsAdmin is set only by the admin login path. Admin routes require both
// user.Role == admin and this flag on the same session, so a client session
// cannot be upgraded by an out-of-band role change.
type Session struct {
	ID        string
	UserID    string
	IsAdmin   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at time now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
