package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	config "github.com/storelaunch/storelaunch/configs"
	impl "github.com/storelaunch/storelaunch/internal/application/services"
	"github.com/storelaunch/storelaunch/internal/core/domain/auth"
	"github.com/storelaunch/storelaunch/internal/core/domain/user"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:          "test-secret-0123456789",
		Issuer:          "storelaunch",
		Audience:        "storelaunch-api",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		RememberMeTTL:   30 * 24 * time.Hour,
	}
}

func testUser() *user.User {
	return &user.User{
		ID:    uuid.New(),
		Email: "merchant@example.com",
		Role:  user.RoleUser,
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := impl.NewTokenService(testJWTConfig())
	u := testUser()

	token, err := svc.IssueAccessToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)
	require.Equal(t, u.Email, claims.Email)
	require.Equal(t, u.Role, claims.Role)
	require.Equal(t, "storelaunch", claims.Issuer)
}

func TestAccessToken_Expired(t *testing.T) {
	current := time.Now()
	svc := impl.NewTokenServiceWithClock(testJWTConfig(), func() time.Time { return current })

	token, err := svc.IssueAccessToken(testUser())
	require.NoError(t, err)

	// still valid just before expiry
	current = current.Add(15*time.Minute - time.Second)
	_, err = svc.VerifyAccessToken(token)
	require.NoError(t, err)

	current = current.Add(2 * time.Second)
	_, err = svc.VerifyAccessToken(token)
	require.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	issuer := impl.NewTokenService(testJWTConfig())
	token, err := issuer.IssueAccessToken(testUser())
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "a-different-secret"
	verifier := impl.NewTokenService(otherCfg)

	_, err = verifier.VerifyAccessToken(token)
	require.ErrorIs(t, err, auth.ErrTokenSignature)
}

func TestAccessToken_Malformed(t *testing.T) {
	svc := impl.NewTokenService(testJWTConfig())
	_, err := svc.VerifyAccessToken("not.a.token")
	require.ErrorIs(t, err, auth.ErrTokenMalformed)
}

func TestRefreshToken_RememberLifetimes(t *testing.T) {
	current := time.Now()
	svc := impl.NewTokenServiceWithClock(testJWTConfig(), func() time.Time { return current })
	subject := uuid.New()

	shortLived, err := svc.IssueRefreshToken(subject, false)
	require.NoError(t, err)
	longLived, err := svc.IssueRefreshToken(subject, true)
	require.NoError(t, err)

	// eight days in: the 7-day token is gone, the 30-day one survives
	current = current.Add(8 * 24 * time.Hour)

	_, err = svc.VerifyRefreshToken(shortLived)
	require.ErrorIs(t, err, auth.ErrTokenExpired)

	claims, err := svc.VerifyRefreshToken(longLived)
	require.NoError(t, err)
	require.True(t, claims.Remember)
	require.Equal(t, subject.String(), claims.Subject)

	current = current.Add(23 * 24 * time.Hour)
	_, err = svc.VerifyRefreshToken(longLived)
	require.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestRefreshToken_RotationMintsDistinctTokens(t *testing.T) {
	svc := impl.NewTokenService(testJWTConfig())
	subject := uuid.New()

	first, err := svc.IssueRefreshToken(subject, false)
	require.NoError(t, err)
	second, err := svc.IssueRefreshToken(subject, false)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
