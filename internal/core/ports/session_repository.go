package ports

import (
	"context"
	"time"

	"github.com/shadownet/contract-desk/internal/core/domain"
)

// SessionRepository is the durable session backend. It lives in the same
// relational database as business data; the table is created on first use.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	Find(ctx context.Context, id string) (*domain.Session, error)
	// Delete removes a session. Deleting an unknown id is not an error
	// (logout must be idempotent).
	Delete(ctx context.Context, id string) error
	// Touch extends the session expiry to the given instant.
	Touch(ctx context.Context, id string, expiresAt time.Time) error
	// DeleteExpired prunes sessions whose expiry is at or before now and
	// returns how many rows were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	CountActive(ctx context.Context, now time.Time) (int64, error)
}
