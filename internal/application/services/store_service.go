package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/storelaunch/storelaunch/internal/core/domain/store"
	"github.com/storelaunch/storelaunch/internal/core/ports"
	"github.com/storelaunch/storelaunch/internal/utils"
)

// StoreService creates stores and drives their provisioning in the
// background. Provisioning advances through store.ProvisioningSteps with a
// delay per step, persisting progress so clients can poll it.
type StoreService struct {
	storeRepo ports.StoreRepository
	logger    *logrus.Logger
	stepDelay time.Duration
}

func NewStoreService(storeRepo ports.StoreRepository, logger *logrus.Logger) ports.StoreService {
	return &StoreService{storeRepo: storeRepo, logger: logger, stepDelay: 3 * time.Second}
}

// NewStoreServiceWithStepDelay lets tests shrink the provisioning delay.
func NewStoreServiceWithStepDelay(storeRepo ports.StoreRepository, logger *logrus.Logger, stepDelay time.Duration) ports.StoreService {
	return &StoreService{storeRepo: storeRepo, logger: logger, stepDelay: stepDelay}
}

func (s *StoreService) CreateStore(ctx context.Context, userID uuid.UUID, req *store.CreateStoreRequest) (*store.Store, error) {
	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))

	if existing, err := s.storeRepo.GetBySubdomain(ctx, subdomain); err == nil && existing != nil {
		return nil, store.ErrSubdomainTaken
	}

	st := &store.Store{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        utils.Sanitize(req.Name, 100),
		Subdomain:   subdomain,
		Template:    utils.Sanitize(req.Template, 50),
		Description: utils.Sanitize(req.Description, 500),
		Status:      store.StatusPending,
		StepIndex:   0,
	}
	if err := s.storeRepo.Create(ctx, st); err != nil {
		return nil, err
	}

	go s.provision(st.ID)

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"store_id": st.ID, "subdomain": st.Subdomain}).Info("store created, provisioning started")
	}
	return st, nil
}

func (s *StoreService) GetStore(ctx context.Context, userID, storeID uuid.UUID) (*store.Store, error) {
	st, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, store.ErrNotFound
	}
	// ownership is not revealed: someone else's store looks absent
	if st.UserID != userID {
		return nil, store.ErrNotFound
	}
	return st, nil
}

func (s *StoreService) ListStores(ctx context.Context, userID uuid.UUID) ([]*store.Store, error) {
	return s.storeRepo.ListByUser(ctx, userID)
}

func (s *StoreService) GetProgress(ctx context.Context, userID, storeID uuid.UUID) (*store.Progress, error) {
	st, err := s.GetStore(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	return st.ProgressFor(), nil
}

// provision walks the store through each provisioning step, persisting the
// step index after every stage. Runs detached from the creating request.
func (s *StoreService) provision(storeID uuid.UUID) {
	total := len(store.ProvisioningSteps)
	for i := 0; i < total; i++ {
		time.Sleep(s.stepDelay)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		st, err := s.storeRepo.GetByID(ctx, storeID)
		if err != nil {
			cancel()
			if s.logger != nil {
				s.logger.WithField("store_id", storeID).WithError(err).Error("provisioning: store vanished")
			}
			return
		}

		st.StepIndex = i + 1
		if st.StepIndex >= total {
			st.Status = store.StatusActive
		} else {
			st.Status = store.StatusProvisioning
		}
		st.UpdatedAt = time.Now()

		if err := s.storeRepo.Update(ctx, st); err != nil {
			cancel()
			s.markFailed(storeID)
			return
		}
		cancel()
	}

	if s.logger != nil {
		s.logger.WithField("store_id", storeID).Info("store provisioning complete")
	}
}

func (s *StoreService) markFailed(storeID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return
	}
	st.Status = store.StatusFailed
	st.UpdatedAt = time.Now()
	if err := s.storeRepo.Update(ctx, st); err != nil && s.logger != nil {
		s.logger.WithField("store_id", storeID).WithError(err).Error("provisioning: failed to mark store failed")
	}
}
