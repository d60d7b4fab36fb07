package server

import (
	"context"
	"errors"
	"time"

	"github.com/mirabank/mirabank/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type Customer struct {
	ID           string
	FirstName    string
	LastName     string
	MobileNum    string
	Email        string
	PancardNum   string
	DOB          string
	AccountType  string
	PasswordHash string
	CreatedAt    time.Time
}

type Account struct {
	Number     string
	CustomerID string
	Email      string
	Type       string
	Balance    float64
	CreatedAt  time.Time
}

// Card is the stub's stored card. The PIN lives only here; it is never
// listed, only returned once by generatePIN.
type Card struct {
	Number        string
	AccountNumber string
	Type          models.CardType
	IssuedDate    time.Time
	PIN           string
}

// Store is the stub server's persistence. The memory implementation
// backs tests and local development; the Postgres one survives
// restarts. The stub makes no ledger-consistency promises: it exists to
// honor the HTTP contract, not to be a bank.
type Store interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	CustomerByEmail(ctx context.Context, email string) (*Customer, error)
	CustomerByID(ctx context.Context, id string) (*Customer, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error

	CreateAccount(ctx context.Context, a *Account) error
	AccountByNumber(ctx context.Context, number string) (*Account, error)
	AccountByEmail(ctx context.Context, email string) (*Account, error)
	// UpdateBalance applies delta and returns the new balance.
	// A negative delta that would overdraw fails with ErrInsufficientFunds.
	UpdateBalance(ctx context.Context, number string, delta float64) (float64, error)

	RecordTransaction(ctx context.Context, accountNumber string, tx models.Transaction) (int64, error)
	TransactionsByEmail(ctx context.Context, email string) ([]models.Transaction, error)

	CreateCard(ctx context.Context, card *Card) error
	CardsByAccount(ctx context.Context, accountNumber string) ([]Card, error)
	CardByNumber(ctx context.Context, number string) (*Card, error)
	SetPIN(ctx context.Context, cardNumber, pin string) error

	Close() error
}
