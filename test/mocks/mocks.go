package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/storelaunch/storelaunch/internal/core/domain/auth"
	"github.com/storelaunch/storelaunch/internal/core/domain/store"
	"github.com/storelaunch/storelaunch/internal/core/domain/user"
	"github.com/storelaunch/storelaunch/internal/core/ports"
)

// UserRepositoryMock is a lightweight mock for UserRepository
type UserRepositoryMock struct {
	CreateFn     func(ctx context.Context, u *user.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*user.User, error)
	UpdateFn     func(ctx context.Context, u *user.User) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
}

func (m *UserRepositoryMock) Create(ctx context.Context, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, user.ErrNotFound
}
func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, user.ErrNotFound
}
func (m *UserRepositoryMock) Update(ctx context.Context, u *user.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// TokenRepositoryMock is a lightweight mock for TokenRepository
type TokenRepositoryMock struct {
	StoreRefreshTokenFn  func(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshTokenFn    func(ctx context.Context, token string) (*ports.RefreshToken, error)
	DeleteRefreshTokenFn func(ctx context.Context, token string) error
	DeleteUserTokensFn   func(ctx context.Context, userID uuid.UUID) error
}

func (m *TokenRepositoryMock) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	if m.StoreRefreshTokenFn != nil {
		return m.StoreRefreshTokenFn(ctx, userID, token, expiresAt)
	}
	return nil
}
func (m *TokenRepositoryMock) GetRefreshToken(ctx context.Context, token string) (*ports.RefreshToken, error) {
	if m.GetRefreshTokenFn != nil {
		return m.GetRefreshTokenFn(ctx, token)
	}
	return nil, fmt.Errorf("not found")
}
func (m *TokenRepositoryMock) DeleteRefreshToken(ctx context.Context, token string) error {
	if m.DeleteRefreshTokenFn != nil {
		return m.DeleteRefreshTokenFn(ctx, token)
	}
	return nil
}
func (m *TokenRepositoryMock) DeleteUserTokens(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteUserTokensFn != nil {
		return m.DeleteUserTokensFn(ctx, userID)
	}
	return nil
}

// TokenServiceMock is a lightweight mock for TokenService
type TokenServiceMock struct {
	IssueAccessTokenFn   func(u *user.User) (string, error)
	IssueRefreshTokenFn  func(subjectID uuid.UUID, remember bool) (string, error)
	VerifyAccessTokenFn  func(token string) (*auth.Claims, error)
	VerifyRefreshTokenFn func(token string) (*auth.RefreshClaims, error)
	AccessTokenTTLFn     func() time.Duration
	RefreshTokenTTLFn    func(remember bool) time.Duration
}

func (m *TokenServiceMock) IssueAccessToken(u *user.User) (string, error) {
	if m.IssueAccessTokenFn != nil {
		return m.IssueAccessTokenFn(u)
	}
	return "access-token", nil
}
func (m *TokenServiceMock) IssueRefreshToken(subjectID uuid.UUID, remember bool) (string, error) {
	if m.IssueRefreshTokenFn != nil {
		return m.IssueRefreshTokenFn(subjectID, remember)
	}
	return "refresh-token", nil
}
func (m *TokenServiceMock) VerifyAccessToken(token string) (*auth.Claims, error) {
	if m.VerifyAccessTokenFn != nil {
		return m.VerifyAccessTokenFn(token)
	}
	return nil, auth.ErrTokenMalformed
}
func (m *TokenServiceMock) VerifyRefreshToken(token string) (*auth.RefreshClaims, error) {
	if m.VerifyRefreshTokenFn != nil {
		return m.VerifyRefreshTokenFn(token)
	}
	return nil, auth.ErrTokenMalformed
}
func (m *TokenServiceMock) AccessTokenTTL() time.Duration {
	if m.AccessTokenTTLFn != nil {
		return m.AccessTokenTTLFn()
	}
	return 15 * time.Minute
}
func (m *TokenServiceMock) RefreshTokenTTL(remember bool) time.Duration {
	if m.RefreshTokenTTLFn != nil {
		return m.RefreshTokenTTLFn(remember)
	}
	if remember {
		return 30 * 24 * time.Hour
	}
	return 7 * 24 * time.Hour
}

// LoginLockoutMock is a lightweight mock for LoginLockout
type LoginLockoutMock struct {
	CheckFn         func(ctx context.Context, identifier string) (*ports.LockoutStatus, error)
	RecordFailureFn func(ctx context.Context, identifier string) error
	ClearFn         func(ctx context.Context, identifier string) error
}

func (m *LoginLockoutMock) Check(ctx context.Context, identifier string) (*ports.LockoutStatus, error) {
	if m.CheckFn != nil {
		return m.CheckFn(ctx, identifier)
	}
	return &ports.LockoutStatus{Allowed: true, Remaining: 5}, nil
}
func (m *LoginLockoutMock) RecordFailure(ctx context.Context, identifier string) error {
	if m.RecordFailureFn != nil {
		return m.RecordFailureFn(ctx, identifier)
	}
	return nil
}
func (m *LoginLockoutMock) Clear(ctx context.Context, identifier string) error {
	if m.ClearFn != nil {
		return m.ClearFn(ctx, identifier)
	}
	return nil
}

// RateLimitStoreMock is a lightweight mock for RateLimitStore
type RateLimitStoreMock struct {
	IncrementFn func(ctx context.Context, key string, window time.Duration) (int, time.Time, error)
	RemoveFn    func(ctx context.Context, key string) error
}

func (m *RateLimitStoreMock) Increment(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	if m.IncrementFn != nil {
		return m.IncrementFn(ctx, key, window)
	}
	return 1, time.Now(), nil
}
func (m *RateLimitStoreMock) Remove(ctx context.Context, key string) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, key)
	}
	return nil
}

// RateLimiterMock is a lightweight mock for RateLimiter
type RateLimiterMock struct {
	CheckFn func(ctx context.Context, identifier, endpoint string, limit ports.Limit) (*ports.Decision, error)
	ResetFn func(ctx context.Context, identifier, endpoint string) error
}

func (m *RateLimiterMock) Check(ctx context.Context, identifier, endpoint string, limit ports.Limit) (*ports.Decision, error) {
	if m.CheckFn != nil {
		return m.CheckFn(ctx, identifier, endpoint, limit)
	}
	return &ports.Decision{Allowed: true, Remaining: limit.Max - 1, Reset: time.Now().Add(limit.Window)}, nil
}
func (m *RateLimiterMock) Reset(ctx context.Context, identifier, endpoint string) error {
	if m.ResetFn != nil {
		return m.ResetFn(ctx, identifier, endpoint)
	}
	return nil
}

// EmailServiceMock is a lightweight mock for EmailService
type EmailServiceMock struct {
	SendWelcomeEmailFn func(ctx context.Context, email, userName string) error
}

func (m *EmailServiceMock) SendWelcomeEmail(ctx context.Context, email, userName string) error {
	if m.SendWelcomeEmailFn != nil {
		return m.SendWelcomeEmailFn(ctx, email, userName)
	}
	return nil
}

// StoreRepositoryMock is a lightweight mock for StoreRepository
type StoreRepositoryMock struct {
	CreateFn         func(ctx context.Context, s *store.Store) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*store.Store, error)
	GetBySubdomainFn func(ctx context.Context, subdomain string) (*store.Store, error)
	ListByUserFn     func(ctx context.Context, userID uuid.UUID) ([]*store.Store, error)
	UpdateFn         func(ctx context.Context, s *store.Store) error
}

func (m *StoreRepositoryMock) Create(ctx context.Context, s *store.Store) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}
func (m *StoreRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}
func (m *StoreRepositoryMock) GetBySubdomain(ctx context.Context, subdomain string) (*store.Store, error) {
	if m.GetBySubdomainFn != nil {
		return m.GetBySubdomainFn(ctx, subdomain)
	}
	return nil, store.ErrNotFound
}
func (m *StoreRepositoryMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]*store.Store, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}
func (m *StoreRepositoryMock) Update(ctx context.Context, s *store.Store) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, s)
	}
	return nil
}

// AuthServiceMock is a lightweight mock for AuthService
type AuthServiceMock struct {
	RegisterFn     func(ctx context.Context, req *auth.RegisterRequest) (*user.User, *auth.AuthTokens, error)
	LoginFn        func(ctx context.Context, req *auth.LoginRequest, clientIP string) (*auth.AuthTokens, error)
	RefreshTokenFn func(ctx context.Context, refreshToken string) (*auth.AuthTokens, error)
	LogoutFn       func(ctx context.Context, refreshToken string) error
}

func (m *AuthServiceMock) Register(ctx context.Context, req *auth.RegisterRequest) (*user.User, *auth.AuthTokens, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, req)
	}
	return nil, nil, fmt.Errorf("not implemented")
}
func (m *AuthServiceMock) Login(ctx context.Context, req *auth.LoginRequest, clientIP string) (*auth.AuthTokens, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, req, clientIP)
	}
	return nil, auth.ErrInvalidCredentials
}
func (m *AuthServiceMock) RefreshToken(ctx context.Context, refreshToken string) (*auth.AuthTokens, error) {
	if m.RefreshTokenFn != nil {
		return m.RefreshTokenFn(ctx, refreshToken)
	}
	return nil, auth.ErrInvalidRefreshToken
}
func (m *AuthServiceMock) Logout(ctx context.Context, refreshToken string) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, refreshToken)
	}
	return nil
}

// UserServiceMock is a lightweight mock for UserService
type UserServiceMock struct {
	GetUserFn        func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetUserByEmailFn func(ctx context.Context, email string) (*user.User, error)
	UpdateProfileFn  func(ctx context.Context, id uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error)
}

func (m *UserServiceMock) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, id)
	}
	return nil, user.ErrNotFound
}
func (m *UserServiceMock) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetUserByEmailFn != nil {
		return m.GetUserByEmailFn(ctx, email)
	}
	return nil, user.ErrNotFound
}
func (m *UserServiceMock) UpdateProfile(ctx context.Context, id uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error) {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, id, req)
	}
	return nil, user.ErrNotFound
}

// StoreServiceMock is a lightweight mock for StoreService
type StoreServiceMock struct {
	CreateStoreFn func(ctx context.Context, userID uuid.UUID, req *store.CreateStoreRequest) (*store.Store, error)
	GetStoreFn    func(ctx context.Context, userID, storeID uuid.UUID) (*store.Store, error)
	ListStoresFn  func(ctx context.Context, userID uuid.UUID) ([]*store.Store, error)
	GetProgressFn func(ctx context.Context, userID, storeID uuid.UUID) (*store.Progress, error)
}

func (m *StoreServiceMock) CreateStore(ctx context.Context, userID uuid.UUID, req *store.CreateStoreRequest) (*store.Store, error) {
	if m.CreateStoreFn != nil {
		return m.CreateStoreFn(ctx, userID, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *StoreServiceMock) GetStore(ctx context.Context, userID, storeID uuid.UUID) (*store.Store, error) {
	if m.GetStoreFn != nil {
		return m.GetStoreFn(ctx, userID, storeID)
	}
	return nil, store.ErrNotFound
}
func (m *StoreServiceMock) ListStores(ctx context.Context, userID uuid.UUID) ([]*store.Store, error) {
	if m.ListStoresFn != nil {
		return m.ListStoresFn(ctx, userID)
	}
	return nil, nil
}
func (m *StoreServiceMock) GetProgress(ctx context.Context, userID, storeID uuid.UUID) (*store.Progress, error) {
	if m.GetProgressFn != nil {
		return m.GetProgressFn(ctx, userID, storeID)
	}
	return nil, store.ErrNotFound
}
