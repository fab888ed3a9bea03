package ports

import (
	"context"

	"github.com/shadownet/contract-desk/internal/core/domain"
)

// ContractRepository defines contract persistence. Lookups and mutations on a
// missing id return domain.ErrContractNotFound.
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) (*domain.Contract, error)
	FindByID(ctx context.Context, id string) (*domain.Contract, error)
	// FindAll returns every contract, newest first.
	FindAll(ctx context.Context) ([]domain.Contract, error)
	// FindByUser returns the contracts owned by userID, newest first.
	FindByUser(ctx context.Context, userID string) ([]domain.Contract, error)
	UpdateStatus(ctx context.Context, id string, status domain.ContractStatus) (*domain.Contract, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[domain.ContractStatus]int64, error)
}
