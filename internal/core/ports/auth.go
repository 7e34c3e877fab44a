package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storelaunch/storelaunch/internal/core/domain/auth"
	"github.com/storelaunch/storelaunch/internal/core/domain/user"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *auth.RegisterRequest) (*user.User, *auth.AuthTokens, error)
	Login(ctx context.Context, req *auth.LoginRequest, clientIP string) (*auth.AuthTokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (*auth.AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
}

// TokenService issues and verifies signed, time-bounded tokens.
// Verification is purely cryptographic: an unexpired, correctly signed access
// token is accepted without consulting any revocation store.
type TokenService interface {
	IssueAccessToken(u *user.User) (string, error)
	IssueRefreshToken(subjectID uuid.UUID, remember bool) (string, error)
	VerifyAccessToken(token string) (*auth.Claims, error)
	VerifyRefreshToken(token string) (*auth.RefreshClaims, error)
	AccessTokenTTL() time.Duration
	RefreshTokenTTL(remember bool) time.Duration
}

// TokenRepository defines the interface for refresh token storage. Tokens are
// stored by hash so a datastore dump does not yield usable credentials.
type TokenRepository interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteUserTokens(ctx context.Context, userID uuid.UUID) error
}

// RefreshToken represents a stored refresh token
type RefreshToken struct {
	UserID    uuid.UUID `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
