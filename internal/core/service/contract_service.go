package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shadownet/contract-desk/internal/api/metrics"
	"github.com/shadownet/contract-desk/internal/core/domain"
	"github.com/shadownet/contract-desk/internal/core/ports"
)

// notifyTimeout bounds the background notification dispatch, which is
// detached from the request context.
const notifyTimeout = 10 * time.Second

// ContractService implements the contract workflow.
type ContractService struct {
	contracts ports.ContractRepository
	notifier  ports.Notifier
	log       zerolog.Logger
}

func NewContractService(contracts ports.ContractRepository, notifier ports.Notifier, log zerolog.Logger) *ContractService {
	return &ContractService{contracts: contracts, notifier: notifier, log: log}
}

// Create persists a new contract in the pending state and dispatches a
// best-effort notification. The notification runs detached: its failure is
// logged and never surfaces to the submitter.
func (s *ContractService) Create(ctx context.Context, input ports.CreateContractInput) (*domain.Contract, error) {
	bounty := input.Bounty
	if bounty == "" {
		bounty = domain.DefaultBounty
	}

	contract := &domain.Contract{
		UserID:  input.UserID,
		Target:  input.Target,
		Type:    input.Type,
		Details: input.Details,
		Bounty:  bounty,
		Status:  domain.StatusPending,
	}

	created, err := s.contracts.Create(ctx, contract)
	if err != nil {
		return nil, fmt.Errorf("create contract: %w", err)
	}

	metrics.ContractsCreatedTotal.WithLabelValues(string(created.Type)).Inc()
	s.log.Info().Str("contract_id", created.ID).Str("type", string(created.Type)).Msg("contract created")

	go s.dispatchNotification(created)

	return created, nil
}

func (s *ContractService) dispatchNotification(contract *domain.Contract) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.notifier.ContractSubmitted(ctx, contract); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		s.log.Error().Err(err).Str("contract_id", contract.ID).Msg("contract notification failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
}

// Get returns the contract when the requester is an admin session or the
// owning client.
func (s *ContractService) Get(ctx context.Context, id string, requester ports.Requester) (*domain.Contract, error) {
	contract, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin && !contract.OwnedBy(requester.UserID) {
		return nil, domain.ErrForbidden
	}
	return contract, nil
}

func (s *ContractService) List(ctx context.Context) ([]domain.Contract, error) {
	return s.contracts.FindAll(ctx)
}

func (s *ContractService) ListByOwner(ctx context.Context, userID string) ([]domain.Contract, error) {
	return s.contracts.FindByUser(ctx, userID)
}

// UpdateStatus applies a status unconditionally. The workflow is admin-driven
// with no transition graph; the handler has already validated the enum value.
func (s *ContractService) UpdateStatus(ctx context.Context, id string, status domain.ContractStatus) (*domain.Contract, error) {
	updated, err := s.contracts.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	metrics.ContractStatusUpdatesTotal.WithLabelValues(string(status)).Inc()
	s.log.Info().Str("contract_id", id).Str("status", string(status)).Msg("contract status updated")
	return updated, nil
}

func (s *ContractService) Delete(ctx context.Context, id string) error {
	if err := s.contracts.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("contract_id", id).Msg("contract deleted")
	return nil
}

// Stats aggregates contract counts into the public status buckets.
func (s *ContractService) Stats(ctx context.Context) (*domain.ContractStats, error) {
	counts, err := s.contracts.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("contract stats: %w", err)
	}

	stats := &domain.ContractStats{}
	for status, n := range counts {
		stats.Total += n
		switch status {
		case domain.StatusPending, domain.StatusReviewing:
			stats.Pending += n
		case domain.StatusAccepted, domain.StatusInProgress:
			stats.Active += n
		case domain.StatusCompleted, domain.StatusRejected:
			stats.Completed += n
		}
	}
	return stats, nil
}
