package ports

import (
	"context"

	"github.com/shadownet/contract-desk/internal/core/domain"
)

// Notifier delivers a notification about a newly submitted contract to an
// external collaborator (email dispatch). Callers treat it as fire-and-forget:
// errors are logged, never propagated to the submitting client.
type Notifier interface {
	ContractSubmitted(ctx context.Context, contract *domain.Contract) error
}
