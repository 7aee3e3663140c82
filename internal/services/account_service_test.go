package services

import (
	"context"
	"testing"

	"github.com/ArowuTest/lotto-backend/internal/apperror"
	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	a := env.register(t, "Ann@Example.com", "100")
	assert.Equal(t, "ann@example.com", a.Email)
	assert.Equal(t, models.AccountStatusActive, a.Status)
	assert.NotEqual(t, "secret1", a.PasswordHash)

	got, err := env.accounts.Login(ctx, &models.LoginRequest{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = env.accounts.Login(ctx, &models.LoginRequest{Email: "ann@example.com", Password: "nope"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	_, err = env.accounts.Login(ctx, &models.LoginRequest{Email: "ghost@example.com", Password: "secret1"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	env.register(t, "bob@example.com", "0")

	_, err := env.accounts.Register(ctx, &models.RegisterRequest{Email: "bob@example.com", Name: "Bob", Password: "secret1"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = env.accounts.Register(ctx, &models.RegisterRequest{Email: "neg@example.com", Name: "Neg", Password: "secret1", Wallet: decimal.NewFromInt(-1)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = env.accounts.Register(ctx, &models.RegisterRequest{Email: "frac@example.com", Name: "Frac", Password: "secret1", Wallet: decimal.RequireFromString("1.005")})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	huge := decimal.RequireFromString("1234567890123456789012345678901234567.89")
	_, err = env.accounts.Register(ctx, &models.RegisterRequest{Email: "huge@example.com", Name: "Huge", Password: "secret1", Wallet: huge})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestLoginRejectsSuspendedAccount(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	hash, err := env.accounts.verifier.Hash("secret1")
	require.NoError(t, err)
	require.NoError(t, env.store.Accounts.Create(ctx, &models.Account{
		ID: 500, Email: "sus@example.com", Name: "Sus", PasswordHash: hash, Status: models.AccountStatusSuspended,
	}))

	_, err = env.accounts.Login(ctx, &models.LoginRequest{Email: "sus@example.com", Password: "secret1"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestAdjustWallet(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	a := env.register(t, "carl@example.com", "20")

	got, err := env.accounts.AdjustWallet(ctx, a.ID, decimal.NewFromInt(-15))
	require.NoError(t, err)
	assert.True(t, got.Wallet.Equal(decimal.NewFromInt(5)))

	_, err = env.accounts.AdjustWallet(ctx, a.ID, decimal.NewFromInt(-6))
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = env.accounts.AdjustWallet(ctx, a.ID, decimal.Zero)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = env.accounts.AdjustWallet(ctx, a.ID, decimal.RequireFromString("0.001"))
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = env.accounts.AdjustWallet(ctx, a.ID, MaxAmount)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = env.accounts.AdjustWallet(ctx, 9999, decimal.NewFromInt(1))
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	profile, err := env.accounts.GetProfile(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, profile.Wallet.Equal(decimal.NewFromInt(5)))
}
