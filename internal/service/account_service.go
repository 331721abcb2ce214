package service

import (
	"context"
	"errors"
	"fmt"

	"kantor/internal/domain"
	"kantor/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AccountRepo interface {
	Create(ctx context.Context, account *domain.Account) error
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByFirstName(ctx context.Context, firstName string) (*domain.Account, error)
	AdjustBalance(ctx context.Context, accountID, currency string, delta float64) (float64, error)
	Exchange(ctx context.Context, t domain.Transaction) error
}

type TransactionRepo interface {
	ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error)
}

// Converter prices an amount of one currency in another at current rates.
type Converter interface {
	ConvertAmount(ctx context.Context, amount float64, from, to string) (float64, error)
}

// AccountService handles registration, login, balances and exchanges.
type AccountService struct {
	tracer       trace.Tracer
	accounts     AccountRepo
	transactions TransactionRepo
	converter    Converter
}

func NewAccountService(
	tracer trace.Tracer,
	accounts AccountRepo,
	transactions TransactionRepo,
	converter Converter,
) *AccountService {
	return &AccountService{
		tracer:       tracer,
		accounts:     accounts,
		transactions: transactions,
		converter:    converter,
	}
}

// Register creates a new account with a hashed password and an empty base
// currency balance.
func (s *AccountService) Register(ctx context.Context, firstName, email, password string) (*domain.Account, error) {
	_, span := s.tracer.Start(ctx, "account-service.register")
	defer span.End()

	if firstName == "" || email == "" {
		return nil, fmt.Errorf("first name and email are required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		FirstName:    firstName,
		Email:        email,
		PasswordHash: string(hash),
		Balances:     map[string]float64{domain.BaseCurrency: 0},
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Login verifies credentials and returns the account.
func (s *AccountService) Login(ctx context.Context, firstName, password string) (*domain.Account, error) {
	_, span := s.tracer.Start(ctx, "account-service.login")
	defer span.End()

	account, err := s.accounts.FindByFirstName(ctx, firstName)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// Get returns an account by ID or ErrAccountNotFound.
func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	_, span := s.tracer.Start(ctx, "account-service.get")
	defer span.End()

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// Deposit credits a currency balance and returns the new amount.
func (s *AccountService) Deposit(ctx context.Context, accountID, currency string, amount float64) (float64, error) {
	_, span := s.tracer.Start(ctx, "account-service.deposit")
	defer span.End()

	if !domain.ValidCode(currency) {
		return 0, fmt.Errorf("invalid currency code %q", currency)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("deposit amount must be positive")
	}
	if _, err := s.Get(ctx, accountID); err != nil {
		return 0, err
	}
	return s.accounts.AdjustBalance(ctx, accountID, currency, amount)
}

// Exchange converts amount of the from currency into the to currency at
// current rates, debiting and crediting the account atomically.
func (s *AccountService) Exchange(ctx context.Context, accountID, from, to string, amount float64) (*domain.Transaction, error) {
	_, span := s.tracer.Start(ctx, "account-service.exchange")
	defer span.End()

	if !domain.ValidCode(from) || !domain.ValidCode(to) {
		return nil, fmt.Errorf("invalid currency pair %s/%s", from, to)
	}
	if from == to {
		return nil, fmt.Errorf("cannot exchange a currency for itself")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("exchange amount must be positive")
	}
	if _, err := s.Get(ctx, accountID); err != nil {
		return nil, err
	}

	toAmount, err := s.converter.ConvertAmount(ctx, amount, from, to)
	if err != nil {
		return nil, err
	}
	if toAmount <= 0 {
		return nil, fmt.Errorf("no rate available for %s/%s", from, to)
	}

	t := domain.Transaction{
		AccountID:    accountID,
		FromCurrency: from,
		ToCurrency:   to,
		FromAmount:   amount,
		ToAmount:     toAmount,
	}
	if err := s.accounts.Exchange(ctx, t); err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, err
		}
		return nil, fmt.Errorf("exchange %s/%s: %w", from, to, err)
	}
	return &t, nil
}

// Transactions lists an account's exchange history, newest first.
func (s *AccountService) Transactions(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	_, span := s.tracer.Start(ctx, "account-service.transactions")
	defer span.End()

	if _, err := s.Get(ctx, accountID); err != nil {
		return nil, err
	}
	return s.transactions.ListByAccount(ctx, accountID, limit)
}
