package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	impl "github.com/storelaunch/storelaunch/internal/application/services"
	"github.com/storelaunch/storelaunch/internal/core/domain/auth"
	"github.com/storelaunch/storelaunch/internal/core/domain/user"
	"github.com/storelaunch/storelaunch/internal/core/ports"
	tmocks "github.com/storelaunch/storelaunch/test/mocks"
)

func activeUser(t *testing.T, password string) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &user.User{
		ID:           uuid.New(),
		Email:        "merchant@example.com",
		PasswordHash: string(hash),
		Role:         user.RoleUser,
		IsActive:     true,
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ur := &tmocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			return &user.User{Email: email}, nil
		},
	}
	svc := impl.NewAuthService(ur, &tmocks.TokenRepositoryMock{}, &tmocks.TokenServiceMock{}, &tmocks.LoginLockoutMock{}, nil, nil)

	_, _, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email: "merchant@example.com", Password: "TestPass123", FirstName: "Ada", LastName: "L",
	})
	require.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestRegister_WeakPasswordRejected(t *testing.T) {
	svc := impl.NewAuthService(&tmocks.UserRepositoryMock{}, &tmocks.TokenRepositoryMock{}, &tmocks.TokenServiceMock{}, &tmocks.LoginLockoutMock{}, nil, nil)

	_, _, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email: "merchant@example.com", Password: "alllowercase1", FirstName: "Ada", LastName: "L",
	})
	require.Error(t, err)
}

func TestRegister_SanitizesNames(t *testing.T) {
	var created *user.User
	ur := &tmocks.UserRepositoryMock{
		CreateFn: func(ctx context.Context, u *user.User) error {
			created = u
			return nil
		},
	}
	svc := impl.NewAuthService(ur, &tmocks.TokenRepositoryMock{}, &tmocks.TokenServiceMock{}, &tmocks.LoginLockoutMock{}, nil, nil)

	_, tokens, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email: "Merchant@Example.com", Password: "TestPass123",
		FirstName: "<script>Ada</script>", LastName: "Lovelace",
	})
	require.NoError(t, err)
	require.NotNil(t, tokens)
	require.NotNil(t, created)
	require.Equal(t, "merchant@example.com", created.Email)
	require.NotContains(t, created.FirstName, "<")
	require.NotContains(t, created.FirstName, ">")
}

func TestLogin_Success(t *testing.T) {
	u := activeUser(t, "TestPass123")
	cleared := false
	ur := &tmocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
	}
	lockout := &tmocks.LoginLockoutMock{
		ClearFn: func(ctx context.Context, identifier string) error {
			cleared = true
			require.Equal(t, "merchant@example.com", identifier)
			return nil
		},
	}
	svc := impl.NewAuthService(ur, &tmocks.TokenRepositoryMock{}, &tmocks.TokenServiceMock{}, lockout, nil, nil)

	tokens, err := svc.Login(context.Background(), &auth.LoginRequest{
		Email: "merchant@example.com", Password: "TestPass123",
	}, "1.2.3.4")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	require.True(t, cleared)
}

func TestLogin_WrongPasswordRecordsFailure(t *testing.T) {
	u := activeUser(t, "TestPass123")
	recorded := false
	ur := &tmocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
	}
	lockout := &tmocks.LoginLockoutMock{
		RecordFailureFn: func(ctx context.Context, identifier string) error {
			recorded = true
			return nil
		},
	}
	svc := impl.NewAuthService(ur, &tmocks.TokenRepositoryMock{}, &tmocks.TokenServiceMock{}, lockout, nil, nil)

	_, err := svc.Login(context.Background(), &auth.LoginRequest{
		Email: "merchant@example.com", Password: "wrong",
	}, "1.2.3.4")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	require.True(t, recorded)
}

func TestLogin_UnknownEmailRecordsFailure(t *testing.T) {
	recorded := false
	lockout := &tmocks.LoginLockoutMock{
		RecordFailureFn: func(ctx context.Context, identifier string) error {
			recorded = true
			return nil
		},
	}
	svc := impl.NewAuthService(&tmocks.UserRepositoryMock{}, &tmocks.TokenRepositoryMock{}, &tmocks.TokenServiceMock{}, lockout, nil, nil)

	_, err := svc.Login(context.Background(), &auth.LoginRequest{
		Email: "nobody@example.com", Password: "TestPass123",
	}, "1.2.3.4")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	require.True(t, recorded)
}

func TestLogin_LockedOut(t *testing.T) {
	until := time.Now().Add(30 * time.Minute)
	lockout := &tmocks.LoginLockoutMock{
		CheckFn: func(ctx context.Context, identifier string) (*ports.LockoutStatus, error) {
			return &ports.LockoutStatus{Allowed: false, LockedUntil: &until}, nil
		},
	}
	svc := impl.NewAuthService(&tmocks.UserRepositoryMock{}, &tmocks.TokenRepositoryMock{}, &tmocks.TokenServiceMock{}, lockout, nil, nil)

	_, err := svc.Login(context.Background(), &auth.LoginRequest{
		Email: "merchant@example.com", Password: "TestPass123",
	}, "1.2.3.4")

	var lockErr *auth.LockoutError
	require.ErrorAs(t, err, &lockErr)
	require.Equal(t, until, lockErr.LockedUntil)
}

func TestLogin_DisabledAccount(t *testing.T) {
	u := activeUser(t, "TestPass123")
	u.IsActive = false
	ur := &tmocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
	}
	svc := impl.NewAuthService(ur, &tmocks.TokenRepositoryMock{}, &tmocks.TokenServiceMock{}, &tmocks.LoginLockoutMock{}, nil, nil)

	_, err := svc.Login(context.Background(), &auth.LoginRequest{
		Email: "merchant@example.com", Password: "TestPass123",
	}, "1.2.3.4")
	require.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestRefreshToken_RotatesStoredToken(t *testing.T) {
	u := activeUser(t, "TestPass123")
	deleted := false
	storedNew := false

	ts := &tmocks.TokenServiceMock{
		VerifyRefreshTokenFn: func(token string) (*auth.RefreshClaims, error) {
			return &auth.RefreshClaims{Remember: true}, nil
		},
		IssueRefreshTokenFn: func(subjectID uuid.UUID, remember bool) (string, error) {
			require.True(t, remember)
			return "rotated-token", nil
		},
	}
	tr := &tmocks.TokenRepositoryMock{
		GetRefreshTokenFn: func(ctx context.Context, token string) (*ports.RefreshToken, error) {
			return &ports.RefreshToken{UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		DeleteRefreshTokenFn: func(ctx context.Context, token string) error {
			require.Equal(t, "old-token", token)
			deleted = true
			return nil
		},
		StoreRefreshTokenFn: func(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
			storedNew = true
			require.Equal(t, "rotated-token", token)
			return nil
		},
	}
	ur := &tmocks.UserRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) { return u, nil },
	}
	svc := impl.NewAuthService(ur, tr, ts, &tmocks.LoginLockoutMock{}, nil, nil)

	tokens, err := svc.RefreshToken(context.Background(), "old-token")
	require.NoError(t, err)
	require.Equal(t, "rotated-token", tokens.RefreshToken)
	require.True(t, deleted)
	require.True(t, storedNew)
}

func TestRefreshToken_UnknownTokenRejected(t *testing.T) {
	ts := &tmocks.TokenServiceMock{
		VerifyRefreshTokenFn: func(token string) (*auth.RefreshClaims, error) {
			return &auth.RefreshClaims{}, nil
		},
	}
	svc := impl.NewAuthService(&tmocks.UserRepositoryMock{}, &tmocks.TokenRepositoryMock{}, ts, &tmocks.LoginLockoutMock{}, nil, nil)

	_, err := svc.RefreshToken(context.Background(), "never-stored")
	require.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestRefreshToken_ExpiredStoredTokenRejected(t *testing.T) {
	ts := &tmocks.TokenServiceMock{
		VerifyRefreshTokenFn: func(token string) (*auth.RefreshClaims, error) {
			return &auth.RefreshClaims{}, nil
		},
	}
	tr := &tmocks.TokenRepositoryMock{
		GetRefreshTokenFn: func(ctx context.Context, token string) (*ports.RefreshToken, error) {
			return &ports.RefreshToken{UserID: uuid.New(), ExpiresAt: time.Now().Add(-time.Hour)}, nil
		},
	}
	svc := impl.NewAuthService(&tmocks.UserRepositoryMock{}, tr, ts, &tmocks.LoginLockoutMock{}, nil, nil)

	_, err := svc.RefreshToken(context.Background(), "stale")
	require.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestRefreshToken_DisabledAccountRevokesAllTokens(t *testing.T) {
	u := activeUser(t, "TestPass123")
	u.IsActive = false
	revoked := false

	ts := &tmocks.TokenServiceMock{
		VerifyRefreshTokenFn: func(token string) (*auth.RefreshClaims, error) {
			return &auth.RefreshClaims{}, nil
		},
	}
	tr := &tmocks.TokenRepositoryMock{
		GetRefreshTokenFn: func(ctx context.Context, token string) (*ports.RefreshToken, error) {
			return &ports.RefreshToken{UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		DeleteUserTokensFn: func(ctx context.Context, userID uuid.UUID) error {
			require.Equal(t, u.ID, userID)
			revoked = true
			return nil
		},
	}
	ur := &tmocks.UserRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) { return u, nil },
	}
	svc := impl.NewAuthService(ur, tr, ts, &tmocks.LoginLockoutMock{}, nil, nil)

	_, err := svc.RefreshToken(context.Background(), "held-by-disabled-account")
	require.ErrorIs(t, err, auth.ErrAccountDisabled)
	require.True(t, revoked)
}

func TestLogout_DeletesRefreshToken(t *testing.T) {
	deleted := false
	tr := &tmocks.TokenRepositoryMock{
		DeleteRefreshTokenFn: func(ctx context.Context, token string) error {
			deleted = true
			return nil
		},
	}
	svc := impl.NewAuthService(&tmocks.UserRepositoryMock{}, tr, &tmocks.TokenServiceMock{}, &tmocks.LoginLockoutMock{}, nil, nil)

	require.NoError(t, svc.Logout(context.Background(), "some-token"))
	require.True(t, deleted)
}
