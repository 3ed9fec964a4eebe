package service_test

import (
	"context"
	"errors"
	"testing"

	"mini_one/internal/app/service"
	"mini_one/internal/common"
	"mini_one/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewServices(t, testutil.TestConfig())

	reg, err := svc.Accounts.Register(ctx, service.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.User.ID)
	assert.Equal(t, "alice", reg.User.Username)
	assert.Equal(t, "alice@example.com", reg.User.Email)
	assert.NotEmpty(t, reg.Token)

	stored, err := svc.Users.FindByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.HashedPassword)

	for _, identifier := range []string{"alice", "alice@example.com", "  ALICE@example.com "} {
		t.Run(identifier, func(t *testing.T) {
			res, err := svc.Accounts.Login(ctx, service.LoginRequest{EmailOrUsername: identifier, Password: "secret1"})
			require.NoError(t, err)
			assert.Equal(t, reg.User.ID, res.User.ID)

			identity, err := svc.Tokens.Verify(res.Token)
			require.NoError(t, err)
			assert.Equal(t, reg.User.ID, identity.UserID)
			assert.Equal(t, "alice", identity.Username)
		})
	}
}

func TestAccountService_RegisterConflict(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewServices(t, testutil.TestConfig())
	testutil.NewUserBuilder().WithUsername("alice").WithEmail("alice@example.com").Build(t, svc.Accounts)

	tests := []struct {
		name string
		req  service.RegisterRequest
	}{
		{"same email different case", service.RegisterRequest{Username: "alice2", Email: "ALICE@example.com", Password: "secret1"}},
		{"same username", service.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Accounts.Register(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrConflict)
			assert.Equal(t, "User with that email or username already exists", err.Error())
		})
	}
}

func TestAccountService_RegisterValidation(t *testing.T) {
	svc := testutil.NewServices(t, testutil.TestConfig())

	_, err := svc.Accounts.Register(context.Background(), service.RegisterRequest{Username: "al", Email: "a@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "Username must be at least 3 characters", err.Error())
}

func TestAccountService_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewServices(t, testutil.TestConfig())
	testutil.NewUserBuilder().WithUsername("alice").WithPassword("secret1").Build(t, svc.Accounts)

	_, unknownErr := svc.Accounts.Login(ctx, service.LoginRequest{EmailOrUsername: "nobody", Password: "secret1"})
	_, wrongErr := svc.Accounts.Login(ctx, service.LoginRequest{EmailOrUsername: "alice", Password: "wrong-password"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.ErrorIs(t, unknownErr, common.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, common.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.Equal(t, "Invalid credentials", wrongErr.Error())
}

func TestAccountService_LoginWithNULIdentifier(t *testing.T) {
	svc := testutil.NewServices(t, testutil.TestConfig())
	testutil.NewUserBuilder().WithUsername("alice").WithPassword("secret1").Build(t, svc.Accounts)
	// A store error would surface as 500; the lookup must not reach the store.
	svc.Users.Err = errors.New("invalid byte sequence for encoding UTF8: 0x00")

	_, err := svc.Accounts.Login(context.Background(), service.LoginRequest{EmailOrUsername: "alice\x00", Password: "secret1"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestAccountService_LoginValidation(t *testing.T) {
	svc := testutil.NewServices(t, testutil.TestConfig())

	tests := []struct {
		name    string
		req     service.LoginRequest
		wantMsg string
	}{
		{"missing identifier", service.LoginRequest{Password: "secret1"}, "Email/username and password are required"},
		{"missing password", service.LoginRequest{EmailOrUsername: "alice"}, "Email/username and password are required"},
		{"blank identifier", service.LoginRequest{EmailOrUsername: "   ", Password: "secret1"}, "Email/username cannot be empty"},
		{"short password", service.LoginRequest{EmailOrUsername: "alice", Password: "123"}, "Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Accounts.Login(context.Background(), tt.req)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestAccountService_StoreFailureIsInternal(t *testing.T) {
	svc := testutil.NewServices(t, testutil.TestConfig())
	svc.Users.Err = errors.New("connection reset")

	_, err := svc.Accounts.Login(context.Background(), service.LoginRequest{EmailOrUsername: "alice", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, 500, common.HTTPStatusFromError(err))

	_, err = svc.Accounts.Register(context.Background(), testutil.NewUserBuilder().Request())
	require.Error(t, err)
	assert.Equal(t, 500, common.HTTPStatusFromError(err))
}

func TestAccountService_CurrentUser(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewServices(t, testutil.TestConfig())
	alice, token := testutil.NewUserBuilder().WithUsername("alice").Build(t, svc.Accounts)

	t.Run("valid token", func(t *testing.T) {
		got := svc.Accounts.CurrentUser(ctx, token)
		require.NotNil(t, got)
		assert.Equal(t, alice, got)
	})

	t.Run("no token", func(t *testing.T) {
		assert.Nil(t, svc.Accounts.CurrentUser(ctx, ""))
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Nil(t, svc.Accounts.CurrentUser(ctx, "not.a.jwt"))
	})

	t.Run("user gone", func(t *testing.T) {
		ghost, ghostToken := testutil.NewUserBuilder().Build(t, svc.Accounts)
		svc.Users.Remove(ghost.ID)
		assert.Nil(t, svc.Accounts.CurrentUser(ctx, ghostToken))
	})
}

func TestAccountService_LoadUser(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewServices(t, testutil.TestConfig())
	alice, _ := testutil.NewUserBuilder().Build(t, svc.Accounts)

	got, err := svc.Accounts.LoadUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = svc.Accounts.LoadUser(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Accounts.LoadUser(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	svc.Users.Err = errors.New("connection reset")
	_, err = svc.Accounts.LoadUser(ctx, alice.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrUnauthorized)
}
