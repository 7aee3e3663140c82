package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ArowuTest/lotto-backend/internal/apperror"
	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"github.com/ArowuTest/lotto-backend/pkg/credentials"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Compile-time check to ensure AccountServiceImpl implements AccountService
var _ AccountService = (*AccountServiceImpl)(nil)

// AccountServiceImpl handles registration, login and wallet updates
type AccountServiceImpl struct {
	accounts  repositories.AccountRepository
	sequences repositories.SequenceGenerator
	verifier  credentials.Verifier
}

// NewAccountService creates a new AccountServiceImpl
func NewAccountService(store *repositories.Store, verifier credentials.Verifier) *AccountServiceImpl {
	return &AccountServiceImpl{
		accounts:  store.Accounts,
		sequences: store.Sequences,
		verifier:  verifier,
	}
}

// Register handles account registration
func (s *AccountServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Name) == "" || req.Password == "" {
		return nil, apperror.Validation("email, name and password are required")
	}
	if req.Wallet.IsNegative() {
		return nil, apperror.Validation("initial wallet must not be negative")
	}
	if err := validateAmount("wallet", req.Wallet); err != nil {
		return nil, err
	}

	_, err := s.accounts.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperror.Conflict("account with email %s already exists", email)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storeError("find account by email", err)
	}

	hash, err := s.verifier.Hash(req.Password)
	if err != nil {
		return nil, apperror.Validation("password cannot be hashed: %v", err)
	}

	id, err := s.sequences.Next(ctx, repositories.SeqAccounts)
	if err != nil {
		return nil, storeError("next account id", err)
	}

	account := &models.Account{
		ID:           id,
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Wallet:       req.Wallet,
		Status:       models.AccountStatusActive,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("account with email %s already exists", email)
		}
		return nil, storeError("create account", err)
	}

	log.WithFields(log.Fields{"accountId": account.ID, "email": account.Email}).Info("account registered")
	return account, nil
}

// Login checks the credentials of an active account
func (s *AccountServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.Account, error) {
	account, err := s.accounts.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, storeError("find account by email", err)
	}

	if err := s.verifier.Verify(account.PasswordHash, req.Password); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}
	if account.Status != models.AccountStatusActive {
		return nil, apperror.Unauthorized("account %d is %s", account.ID, account.Status)
	}
	return account, nil
}

// GetProfile retrieves an account by ID
func (s *AccountServiceImpl) GetProfile(ctx context.Context, id int64) (*models.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("find account", err, "account %d not found", id)
	}
	return account, nil
}

// AdjustWallet applies a signed delta to the wallet
func (s *AccountServiceImpl) AdjustWallet(ctx context.Context, id int64, delta decimal.Decimal) (*models.Account, error) {
	if delta.IsZero() {
		return nil, apperror.Validation("delta must not be zero")
	}
	if err := validateAmount("delta", delta); err != nil {
		return nil, err
	}

	account, err := s.accounts.AdjustWallet(ctx, id, delta)
	switch {
	case errors.Is(err, repositories.ErrInsufficientFunds):
		return nil, apperror.Conflict("insufficient funds in account %d", id)
	case err != nil:
		return nil, lookupError("adjust wallet", err, "account %d not found", id)
	}

	log.WithFields(log.Fields{"accountId": id, "delta": delta.String(), "wallet": account.Wallet.String()}).Info("wallet adjusted")
	return account, nil
}
