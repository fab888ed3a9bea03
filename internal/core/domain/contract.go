package domain

import (
	"errors"
	"time"
)

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	StatusPending    ContractStatus = "pending"
	StatusReviewing  ContractStatus = "reviewing"
	StatusAccepted   ContractStatus = "accepted"
	StatusInProgress ContractStatus = "in_progress"
	StatusCompleted  ContractStatus = "completed"
	StatusRejected   ContractStatus = "rejected"
)

// ContractType is the requested operation category.
type ContractType string

const (
	TypeTargetInfiltration ContractType = "target_infiltration"
	TypeDataExtraction     ContractType = "data_extraction"
	TypeAccountTakeover    ContractType = "account_takeover"
	TypeNetworkBreach      ContractType = "network_breach"
)

// DefaultBounty is stored when a submission leaves the bounty blank.
const DefaultBounty = "TBD"

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrForbidden        = errors.New("access forbidden")
)

// ValidStatus reports whether s is one of the six known lifecycle states.
// There is deliberately no transition graph: any status may follow any other,
// admins drive the workflow by hand.
func ValidStatus(s ContractStatus) bool {
	switch s {
	case StatusPending, StatusReviewing, StatusAccepted, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Contract is a client-submitted request record. UserID is nil for anonymous
// submissions from the public site.
type Contract struct {
	ID        string         `json:"id"`
	UserID    *string        `json:"userId"`
	Target    string         `json:"target"`
	Type      ContractType   `json:"type"`
	Details   string         `json:"details"`
	Bounty    string         `json:"bounty"`
	Status    ContractStatus `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// OwnedBy reports whether the contract belongs to the given user id.
func (c *Contract) OwnedBy(userID string) bool {
	return c.UserID != nil && *c.UserID == userID
}

// ContractStats aggregates contract counts for the public status endpoint.
// Buckets: pending covers pending+reviewing, active covers
// accepted+in_progress, completed covers completed+rejected.
type ContractStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
}
