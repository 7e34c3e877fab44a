package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/storelaunch/storelaunch/internal/core/domain/auth"
	"github.com/storelaunch/storelaunch/internal/core/domain/user"
	"github.com/storelaunch/storelaunch/internal/core/ports"
	"github.com/storelaunch/storelaunch/internal/utils"
)

type AuthService struct {
	userRepo  ports.UserRepository
	tokenRepo ports.TokenRepository
	tokens    ports.TokenService
	lockout   ports.LoginLockout
	email     ports.EmailService
	logger    *logrus.Logger
}

func NewAuthService(userRepo ports.UserRepository, tokenRepo ports.TokenRepository, tokens ports.TokenService, lockout ports.LoginLockout, email ports.EmailService, logger *logrus.Logger) ports.AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
		lockout:   lockout,
		email:     email,
		logger:    logger,
	}
}

func (s *AuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*user.User, *auth.AuthTokens, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := utils.ValidatePasswordStrength(req.Password); err != nil {
		return nil, nil, err
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, nil, user.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    utils.Sanitize(req.FirstName, 100),
		LastName:     utils.Sanitize(req.LastName, 100),
		Role:         user.RoleUser,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueTokenPair(ctx, u, false)
	if err != nil {
		return nil, nil, err
	}

	if s.email != nil {
		// best effort; registration must not fail on email trouble
		go func(email, name string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.email.SendWelcomeEmail(ctx, email, name); err != nil && s.logger != nil {
				s.logger.WithField("email", email).WithError(err).Warn("failed to send welcome email")
			}
		}(u.Email, u.FirstName)
	}

	return u, tokens, nil
}

func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest, clientIP string) (*auth.AuthTokens, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	status, err := s.lockout.Check(ctx, email)
	if err != nil {
		return nil, err
	}
	if !status.Allowed {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"email": email, "ip": clientIP}).Warn("login attempt while locked out")
		}
		return nil, &auth.LockoutError{LockedUntil: *status.LockedUntil}
	}

	foundUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		_ = s.lockout.RecordFailure(ctx, email)
		return nil, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(foundUser.PasswordHash), []byte(req.Password)); err != nil {
		_ = s.lockout.RecordFailure(ctx, email)
		return nil, auth.ErrInvalidCredentials
	}

	if !foundUser.IsActive {
		return nil, auth.ErrAccountDisabled
	}

	if err := s.lockout.Clear(ctx, email); err != nil && s.logger != nil {
		s.logger.WithField("email", email).WithError(err).Warn("failed to clear lockout entry")
	}

	tokens, err := s.issueTokenPair(ctx, foundUser, req.Remember)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	foundUser.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, foundUser); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": foundUser.ID}).WithError(err).Warn("failed to update user last login time")
		}
	}

	return tokens, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*auth.AuthTokens, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, auth.ErrInvalidRefreshToken
	}

	stored, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, auth.ErrInvalidRefreshToken
	}
	if time.Now().After(stored.ExpiresAt) {
		if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil && s.logger != nil {
			s.logger.WithError(err).Warn("failed to delete expired refresh token")
		}
		return nil, auth.ErrInvalidRefreshToken
	}

	foundUser, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, auth.ErrInvalidRefreshToken
	}
	if !foundUser.IsActive {
		// a disabled account keeps no sessions; drop every token it holds
		if err := s.tokenRepo.DeleteUserTokens(ctx, foundUser.ID); err != nil && s.logger != nil {
			s.logger.WithError(err).Warn("failed to revoke tokens for disabled account")
		}
		return nil, auth.ErrAccountDisabled
	}

	// rotation: the presented token is consumed before a new pair is minted
	if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("failed to delete used refresh token")
	}

	return s.issueTokenPair(ctx, foundUser, claims.Remember)
}

// Logout discards the server-held refresh token. The access token stays
// valid until its natural expiry; there is no revocation list to consult.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokenRepo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *AuthService) issueTokenPair(ctx context.Context, u *user.User, remember bool) (*auth.AuthTokens, error) {
	accessToken, err := s.tokens.IssueAccessToken(u)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(u.ID, remember)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().Add(s.tokens.RefreshTokenTTL(remember))
	if err := s.tokenRepo.StoreRefreshToken(ctx, u.ID, refreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &auth.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}
