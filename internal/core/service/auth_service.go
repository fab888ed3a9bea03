package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/shadownet/contract-desk/internal/core/domain"
	"github.com/shadownet/contract-desk/internal/core/ports"
	"github.com/shadownet/contract-desk/internal/pkg/password"
)

// AuthService implements registration and credential verification.
type AuthService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewAuthService(users ports.UserRepository, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, log: log}
}

// Register creates a client account. Username and email uniqueness are
// checked independently and reported in that order. The check-then-insert
// pair is not transactional; the unique indexes in storage are the backstop
// for concurrent registrations of the same name.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleClient,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login verifies credentials. Unknown usernames, wrong passwords and
// malformed stored hashes all collapse into ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, pass string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	ok, err := password.Verify(pass, user.PasswordHash)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("stored password hash unusable")
		return nil, domain.ErrInvalidCredentials
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// GetUser resolves a user id for session resolution.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// EnsureAdmin creates the bootstrap admin account when the users table is
// empty. A blank admin password disables seeding.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, pass string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if count != 0 {
		return nil
	}
	if pass == "" {
		s.log.Warn().Msg("no users exist and ADMIN_PASSWORD is unset, skipping admin bootstrap")
		return nil
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	admin := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if _, err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	s.log.Info().Str("username", username).Msg("bootstrap admin created")
	return nil
}
