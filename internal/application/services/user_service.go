package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/storelaunch/storelaunch/internal/core/domain/user"
	"github.com/storelaunch/storelaunch/internal/core/ports"
	"github.com/storelaunch/storelaunch/internal/utils"
)

type UserService struct {
	userRepo ports.UserRepository
	logger   *logrus.Logger
}

func NewUserService(userRepo ports.UserRepository, logger *logrus.Logger) ports.UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		u.FirstName = utils.Sanitize(*req.FirstName, 100)
	}
	if req.LastName != nil {
		u.LastName = utils.Sanitize(*req.LastName, 100)
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.WithField("user_id", u.ID).Debug("profile updated")
	}
	return u, nil
}
