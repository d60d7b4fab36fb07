package server

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/mirabank/mirabank/internal/models"
)

// PostgresStore persists stub data across restarts. Balance updates go
// through a single UPDATE with an overdraft guard in the WHERE clause.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Close() error { return p.db.Close() }

// InitSchema creates the stub tables when absent.
func (p *PostgresStore) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS customers (
		id VARCHAR(36) PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		mobile_num VARCHAR(10) NOT NULL,
		email TEXT UNIQUE NOT NULL,
		pancard_num VARCHAR(10) NOT NULL,
		dob TEXT NOT NULL,
		account_type TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS accounts (
		number VARCHAR(8) PRIMARY KEY,
		customer_id VARCHAR(36) NOT NULL REFERENCES customers(id),
		email TEXT NOT NULL,
		account_type TEXT NOT NULL,
		balance DECIMAL(20, 2) NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS transactions (
		id SERIAL PRIMARY KEY,
		account_number VARCHAR(8) NOT NULL REFERENCES accounts(number),
		transaction_type TEXT NOT NULL,
		amount DECIMAL(20, 2) NOT NULL,
		transaction_date TIMESTAMP NOT NULL,
		from_account VARCHAR(8),
		to_account VARCHAR(8)
	);
	CREATE TABLE IF NOT EXISTS cards (
		number VARCHAR(16) PRIMARY KEY,
		account_number VARCHAR(8) NOT NULL REFERENCES accounts(number),
		card_type TEXT NOT NULL,
		issued_date TIMESTAMP NOT NULL,
		pin VARCHAR(4)
	);`

	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (p *PostgresStore) CreateCustomer(ctx context.Context, c *Customer) error {
	query := `
	INSERT INTO customers (id, first_name, last_name, mobile_num, email, pancard_num, dob, account_type, password_hash, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (email) DO NOTHING`

	res, err := p.db.ExecContext(ctx, query,
		c.ID, c.FirstName, c.LastName, c.MobileNum, c.Email,
		c.PancardNum, c.DOB, c.AccountType, c.PasswordHash, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDuplicate
	}
	return nil
}

func (p *PostgresStore) CustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	return p.customerBy(ctx, "email = $1", email)
}

func (p *PostgresStore) CustomerByID(ctx context.Context, id string) (*Customer, error) {
	return p.customerBy(ctx, "id = $1", id)
}

func (p *PostgresStore) customerBy(ctx context.Context, where string, arg any) (*Customer, error) {
	query := `
	SELECT id, first_name, last_name, mobile_num, email, pancard_num, dob, account_type, password_hash, created_at
	FROM customers WHERE ` + where

	var c Customer
	err := p.db.QueryRowContext(ctx, query, arg).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.MobileNum, &c.Email,
		&c.PancardNum, &c.DOB, &c.AccountType, &c.PasswordHash, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (p *PostgresStore) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	res, err := p.db.ExecContext(ctx, `UPDATE customers SET password_hash = $1 WHERE email = $2`, passwordHash, email)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) CreateAccount(ctx context.Context, a *Account) error {
	query := `
	INSERT INTO accounts (number, customer_id, email, account_type, balance, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := p.db.ExecContext(ctx, query,
		a.Number, a.CustomerID, a.Email, a.Type, a.Balance, a.CreatedAt,
	); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (p *PostgresStore) AccountByNumber(ctx context.Context, number string) (*Account, error) {
	return p.accountBy(ctx, "number = $1", number)
}

func (p *PostgresStore) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	return p.accountBy(ctx, "email = $1", email)
}

func (p *PostgresStore) accountBy(ctx context.Context, where string, arg any) (*Account, error) {
	query := `
	SELECT number, customer_id, email, account_type, balance, created_at
	FROM accounts WHERE ` + where

	var a Account
	err := p.db.QueryRowContext(ctx, query, arg).Scan(
		&a.Number, &a.CustomerID, &a.Email, &a.Type, &a.Balance, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

func (p *PostgresStore) UpdateBalance(ctx context.Context, number string, delta float64) (float64, error) {
	query := `
	UPDATE accounts SET balance = balance + $1
	WHERE number = $2 AND balance + $1 >= 0
	RETURNING balance`

	var balance float64
	err := p.db.QueryRowContext(ctx, query, delta, number).Scan(&balance)
	if err == sql.ErrNoRows {
		// Either the account is missing or the guard rejected an overdraw.
		if _, lookupErr := p.AccountByNumber(ctx, number); lookupErr != nil {
			return 0, lookupErr
		}
		return 0, ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("update balance: %w", err)
	}
	return balance, nil
}

func (p *PostgresStore) RecordTransaction(ctx context.Context, accountNumber string, tx models.Transaction) (int64, error) {
	query := `
	INSERT INTO transactions (account_number, transaction_type, amount, transaction_date, from_account, to_account)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
	RETURNING id`

	var id int64
	err := p.db.QueryRowContext(ctx, query,
		accountNumber, string(tx.Type), tx.Amount, tx.Date, tx.FromAccount, tx.ToAccount,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("record transaction: %w", err)
	}
	return id, nil
}

func (p *PostgresStore) TransactionsByEmail(ctx context.Context, email string) ([]models.Transaction, error) {
	query := `
	SELECT t.id, t.transaction_type, t.amount, t.transaction_date, t.from_account, t.to_account
	FROM transactions t
	JOIN accounts a ON a.number = t.account_number
	WHERE a.email = $1`

	rows, err := p.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var txType string
		var from, to sql.NullString
		if err := rows.Scan(&tx.ID, &txType, &tx.Amount, &tx.Date, &from, &to); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = models.TransactionType(txType)
		tx.FromAccount = from.String
		tx.ToAccount = to.String
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (p *PostgresStore) CreateCard(ctx context.Context, card *Card) error {
	query := `
	INSERT INTO cards (number, account_number, card_type, issued_date, pin)
	VALUES ($1, $2, $3, $4, $5)`

	if _, err := p.db.ExecContext(ctx, query,
		card.Number, card.AccountNumber, string(card.Type), card.IssuedDate, card.PIN,
	); err != nil {
		return fmt.Errorf("create card: %w", err)
	}
	return nil
}

func (p *PostgresStore) CardsByAccount(ctx context.Context, accountNumber string) ([]Card, error) {
	query := `
	SELECT number, account_number, card_type, issued_date, COALESCE(pin, '')
	FROM cards WHERE account_number = $1`

	rows, err := p.db.QueryContext(ctx, query, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		var c Card
		var cardType string
		if err := rows.Scan(&c.Number, &c.AccountNumber, &cardType, &c.IssuedDate, &c.PIN); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		c.Type = models.CardType(cardType)
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (p *PostgresStore) CardByNumber(ctx context.Context, number string) (*Card, error) {
	query := `
	SELECT number, account_number, card_type, issued_date, COALESCE(pin, '')
	FROM cards WHERE number = $1`

	var c Card
	var cardType string
	err := p.db.QueryRowContext(ctx, query, number).Scan(
		&c.Number, &c.AccountNumber, &cardType, &c.IssuedDate, &c.PIN,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}
	c.Type = models.CardType(cardType)
	return &c, nil
}

func (p *PostgresStore) SetPIN(ctx context.Context, cardNumber, pin string) error {
	res, err := p.db.ExecContext(ctx, `UPDATE cards SET pin = $1 WHERE number = $2`, pin, cardNumber)
	if err != nil {
		return fmt.Errorf("set pin: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
