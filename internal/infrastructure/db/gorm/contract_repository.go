package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shadownet/contract-desk/internal/core/domain"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, contract *domain.Contract) (*domain.Contract, error) {
	now := time.Now().UTC()
	row := contractRow{
		ID:        newID(),
		UserID:    contract.UserID,
		Target:    contract.Target,
		Type:      string(contract.Type),
		Details:   contract.Details,
		Bounty:    contract.Bounty,
		Status:    string(contract.Status),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("insert contract: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ContractRepository) FindByID(ctx context.Context, id string) (*domain.Contract, error) {
	var row contractRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrContractNotFound
		}
		return nil, fmt.Errorf("find contract: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ContractRepository) FindAll(ctx context.Context) ([]domain.Contract, error) {
	var rows []contractRow
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return toDomainList(rows), nil
}

func (r *ContractRepository) FindByUser(ctx context.Context, userID string) ([]domain.Contract, error) {
	var rows []contractRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list contracts by user: %w", err)
	}
	return toDomainList(rows), nil
}

// UpdateStatus is a last-write-wins update; there is no optimistic locking on
// contracts.
func (r *ContractRepository) UpdateStatus(ctx context.Context, id string, status domain.ContractStatus) (*domain.Contract, error) {
	res := r.db.WithContext(ctx).Model(&contractRow{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update contract status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrContractNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *ContractRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&contractRow{})
	if res.Error != nil {
		return fmt.Errorf("delete contract: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrContractNotFound
	}
	return nil
}

func (r *ContractRepository) CountByStatus(ctx context.Context) (map[domain.ContractStatus]int64, error) {
	var buckets []struct {
		Status string
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&contractRow{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&buckets).Error
	if err != nil {
		return nil, fmt.Errorf("count contracts: %w", err)
	}

	counts := make(map[domain.ContractStatus]int64, len(buckets))
	for _, b := range buckets {
		counts[domain.ContractStatus(b.Status)] = b.N
	}
	return counts, nil
}

func toDomainList(rows []contractRow) []domain.Contract {
	contracts := make([]domain.Contract, 0, len(rows))
	for i := range rows {
		contracts = append(contracts, *rows[i].toDomain())
	}
	return contracts
}
