package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/storelaunch/storelaunch/internal/core/domain/store"
	"github.com/storelaunch/storelaunch/internal/core/ports"
	"github.com/storelaunch/storelaunch/internal/infrastructure/db"
)

// StoreRepository implements the store repository interface on Postgres
type StoreRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewStoreRepository(database *db.Database, logger *logrus.Logger) ports.StoreRepository {
	return &StoreRepository{db: database, logger: logger}
}

func (r *StoreRepository) Create(ctx context.Context, s *store.Store) error {
	query := `
		INSERT INTO stores (id, user_id, name, subdomain, template, description, status, step_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.DB.ExecContext(ctx, query,
		s.ID, s.UserID, s.Name, s.Subdomain, s.Template, s.Description, s.Status, s.StepIndex)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"store_id": s.ID, "subdomain": s.Subdomain}).WithError(err).Error("db: failed to create store")
		}
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

func (r *StoreRepository) GetByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	var s store.Store
	query := `
		SELECT id, user_id, name, subdomain, template, description, status, step_index, created_at, updated_at
		FROM stores
		WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &s, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"store_id": id}).WithError(err).Error("db: failed to get store by ID")
		}
		return nil, fmt.Errorf("failed to get store by ID: %w", err)
	}
	return &s, nil
}

func (r *StoreRepository) GetBySubdomain(ctx context.Context, subdomain string) (*store.Store, error) {
	var s store.Store
	query := `
		SELECT id, user_id, name, subdomain, template, description, status, step_index, created_at, updated_at
		FROM stores
		WHERE subdomain = $1`

	err := r.db.DB.GetContext(ctx, &s, query, subdomain)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get store by subdomain: %w", err)
	}
	return &s, nil
}

func (r *StoreRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*store.Store, error) {
	stores := []*store.Store{}
	query := `
		SELECT id, user_id, name, subdomain, template, description, status, step_index, created_at, updated_at
		FROM stores
		WHERE user_id = $1
		ORDER BY created_at DESC`

	if err := r.db.DB.SelectContext(ctx, &stores, query, userID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to list stores")
		}
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}

func (r *StoreRepository) Update(ctx context.Context, s *store.Store) error {
	s.UpdatedAt = time.Now()
	query := `
		UPDATE stores
		SET name = $2, template = $3, description = $4, status = $5, step_index = $6, updated_at = $7
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		s.ID, s.Name, s.Template, s.Description, s.Status, s.StepIndex, s.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"store_id": s.ID}).WithError(err).Error("db: failed to update store")
		}
		return fmt.Errorf("failed to update store: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}
