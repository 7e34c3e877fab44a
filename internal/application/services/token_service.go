package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	config "github.com/storelaunch/storelaunch/configs"
	"github.com/storelaunch/storelaunch/internal/core/domain/auth"
	"github.com/storelaunch/storelaunch/internal/core/domain/user"
	"github.com/storelaunch/storelaunch/internal/core/ports"
)

// TokenService mints and verifies HS256-signed access and refresh tokens.
// Verification is stateless: a correctly signed, unexpired token is accepted
// without consulting any revocation store. Rotating the shared secret is the
// only way to invalidate outstanding tokens.
type TokenService struct {
	jwtConfig *config.JWTConfig
	now       func() time.Time
}

func NewTokenService(jwtConfig *config.JWTConfig) ports.TokenService {
	return &TokenService{jwtConfig: jwtConfig, now: time.Now}
}

// NewTokenServiceWithClock allows tests to control the time source used for
// signing and validation.
func NewTokenServiceWithClock(jwtConfig *config.JWTConfig, now func() time.Time) ports.TokenService {
	return &TokenService{jwtConfig: jwtConfig, now: now}
}

func (s *TokenService) AccessTokenTTL() time.Duration {
	return s.jwtConfig.AccessTokenTTL
}

func (s *TokenService) RefreshTokenTTL(remember bool) time.Duration {
	if remember {
		return s.jwtConfig.RememberMeTTL
	}
	return s.jwtConfig.RefreshTokenTTL
}

func (s *TokenService) IssueAccessToken(u *user.User) (string, error) {
	now := s.now()

	claims := &auth.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    s.jwtConfig.Issuer,
			Audience:  jwt.ClaimStrings{s.jwtConfig.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) IssueRefreshToken(subjectID uuid.UUID, remember bool) (string, error) {
	now := s.now()

	claims := &auth.RefreshClaims{
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			// jti makes rotated tokens distinct even when minted within one second
			ID:        uuid.New().String(),
			Subject:   subjectID.String(),
			Issuer:    s.jwtConfig.Issuer,
			Audience:  jwt.ClaimStrings{s.jwtConfig.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.RefreshTokenTTL(remember))),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) VerifyAccessToken(tokenString string) (*auth.Claims, error) {
	claims := &auth.Claims{}
	if err := s.verify(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) VerifyRefreshToken(tokenString string) (*auth.RefreshClaims, error) {
	claims := &auth.RefreshClaims{}
	if err := s.verify(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) verify(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC (prevent alg confusion)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	},
		jwt.WithIssuer(s.jwtConfig.Issuer),
		jwt.WithAudience(s.jwtConfig.Audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return classifyTokenError(err)
	}
	if !token.Valid {
		return auth.ErrTokenMalformed
	}
	return nil
}

// classifyTokenError folds jwt/v5 parse errors into the three failure kinds
// the HTTP boundary distinguishes.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return auth.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return auth.ErrTokenSignature
	default:
		return auth.ErrTokenMalformed
	}
}
