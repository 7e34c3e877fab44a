package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("store not found")
	ErrSubdomainTaken = errors.New("subdomain is already taken")
)

type StoreStatus string

const (
	StatusPending      StoreStatus = "pending"
	StatusProvisioning StoreStatus = "provisioning"
	StatusActive       StoreStatus = "active"
	StatusFailed       StoreStatus = "failed"
)

// Store represents a merchant storefront managed by the platform
type Store struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	UserID      uuid.UUID   `json:"user_id" db:"user_id"`
	Name        string      `json:"name" db:"name"`
	Subdomain   string      `json:"subdomain" db:"subdomain"`
	Template    string      `json:"template" db:"template"`
	Description string      `json:"description" db:"description"`
	Status      StoreStatus `json:"status" db:"status"`
	StepIndex   int         `json:"step_index" db:"step_index"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// ProvisioningSteps are the ordered stages a store passes through between
// creation and going live.
var ProvisioningSteps = []string{
	"reserving subdomain",
	"creating storefront",
	"applying template",
	"configuring checkout",
	"publishing",
}

// Progress is the provisioning state reported to clients.
type Progress struct {
	StoreID    uuid.UUID   `json:"store_id"`
	Status     StoreStatus `json:"status"`
	Step       string      `json:"step"`
	StepIndex  int         `json:"step_index"`
	TotalSteps int         `json:"total_steps"`
	Percent    int         `json:"percent"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// ProgressFor derives the reported progress from the store's persisted state.
func (s *Store) ProgressFor() *Progress {
	total := len(ProvisioningSteps)
	idx := s.StepIndex
	if idx < 0 {
		idx = 0
	}
	if idx > total {
		idx = total
	}
	step := "complete"
	if s.Status == StatusFailed {
		step = "failed"
	} else if idx < total {
		step = ProvisioningSteps[idx]
	}
	return &Progress{
		StoreID:    s.ID,
		Status:     s.Status,
		Step:       step,
		StepIndex:  idx,
		TotalSteps: total,
		Percent:    idx * 100 / total,
		UpdatedAt:  s.UpdatedAt,
	}
}

// CreateStoreRequest represents the request to create a new store
type CreateStoreRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Subdomain   string `json:"subdomain" validate:"required,hostname_rfc1123,max=63"`
	Template    string `json:"template" validate:"required"`
	Description string `json:"description" validate:"max=500"`
}
