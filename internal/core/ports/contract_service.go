package ports

import (
	"context"

	"github.com/shadownet/contract-desk/internal/core/domain"
)

// CreateContractInput carries a validated submission. UserID is nil for
// anonymous submissions.
type CreateContractInput struct {
	Target  string
	Type    domain.ContractType
	Details string
	Bounty  string
	UserID  *string
}

// Requester identifies the caller for per-contract access checks. IsAdmin is
// true only when the request arrived on an admin-flagged session.
type Requester struct {
	UserID  string
	IsAdmin bool
}

type ContractService interface {
	// Create persists a contract in the pending state and dispatches a
	// best-effort notification; notification failures never fail the call.
	Create(ctx context.Context, input CreateContractInput) (*domain.Contract, error)
	// Get returns the contract when the requester is an admin session or the
	// owning client, domain.ErrForbidden otherwise.
	Get(ctx context.Context, id string, requester Requester) (*domain.Contract, error)
	List(ctx context.Context) ([]domain.Contract, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.Contract, error)
	// UpdateStatus sets the status unconditionally; any status may follow any
	// other.
	UpdateStatus(ctx context.Context, id string, status domain.ContractStatus) (*domain.Contract, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.ContractStats, error)
}
