package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/storelaunch/storelaunch/internal/core/domain/store"
)

// StoreRepository defines the interface for store data operations
type StoreRepository interface {
	Create(ctx context.Context, s *store.Store) error
	GetByID(ctx context.Context, id uuid.UUID) (*store.Store, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*store.Store, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*store.Store, error)
	Update(ctx context.Context, s *store.Store) error
}

// StoreService defines the interface for store provisioning logic
type StoreService interface {
	CreateStore(ctx context.Context, userID uuid.UUID, req *store.CreateStoreRequest) (*store.Store, error)
	GetStore(ctx context.Context, userID, storeID uuid.UUID) (*store.Store, error)
	ListStores(ctx context.Context, userID uuid.UUID) ([]*store.Store, error)
	GetProgress(ctx context.Context, userID, storeID uuid.UUID) (*store.Progress, error)
}
