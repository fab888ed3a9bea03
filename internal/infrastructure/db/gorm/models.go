package gorm

import (
	"time"

	"github.com/shadownet/contract-desk/internal/core/domain"
)

// Row types are private to the storage layer; domain types never carry gorm
// tags.

type userRow struct {
	ID           string `gorm:"primaryKey;size:32"`
	Username     string `gorm:"not null;uniqueIndex"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:client"`
	CreatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt,
	}
}

type contractRow struct {
	ID        string  `gorm:"primaryKey;size:32"`
	UserID    *string `gorm:"index"`
	Target    string  `gorm:"not null"`
	Type      string  `gorm:"not null"`
	Details   string  `gorm:"not null"`
	Bounty    string  `gorm:"not null"`
	Status    string  `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (contractRow) TableName() string { return "contracts" }

func (r *contractRow) toDomain() *domain.Contract {
	return &domain.Contract{
		ID:        r.ID,
		UserID:    r.UserID,
		Target:    r.Target,
		Type:      domain.ContractType(r.Type),
		Details:   r.Details,
		Bounty:    r.Bounty,
		Status:    domain.ContractStatus(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type sessionRow struct {
	ID        string    `gorm:"primaryKey;size:64"`
	UserID    string    `gorm:"not null;index"`
	IsAdmin   bool      `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

func (sessionRow) TableName() string { return "sessions" }

func (r *sessionRow) toDomain() *domain.Session {
	return &domain.Session{
		ID:        r.ID,
		UserID:    r.UserID,
		IsAdmin:   r.IsAdmin,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
	}
}
