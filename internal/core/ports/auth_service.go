package ports

import (
	"context"

	"github.com/shadownet/contract-desk/internal/core/domain"
)

// RegisterInput carries a validated self-registration request. The role is
// not part of the input: registration always produces a client.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type AuthService interface {
	// Register checks username and email uniqueness (in that order), hashes
	// the password and persists the user with the client role.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login verifies credentials. Unknown usernames and wrong passwords are
	// indistinguishable to the caller: both yield ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*domain.User, error)
	// GetUser resolves a user id, used by the session middleware on every
	// authenticated request.
	GetUser(ctx context.Context, id string) (*domain.User, error)
}
