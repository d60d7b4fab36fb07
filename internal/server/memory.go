package server

import (
	"context"
	"sync"

	"github.com/mirabank/mirabank/internal/models"
)

// MemoryStore is the default stub store: mutex-guarded maps, data lost
// on restart.
type MemoryStore struct {
	mu           sync.Mutex
	customers    map[string]*Customer // keyed by email
	accounts     map[string]*Account  // keyed by account number
	cards        map[string]*Card     // keyed by card number
	transactions map[string][]models.Transaction
	nextTxID     int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers:    make(map[string]*Customer),
		accounts:     make(map[string]*Account),
		cards:        make(map[string]*Card),
		transactions: make(map[string][]models.Transaction),
	}
}

func (s *MemoryStore) CreateCustomer(ctx context.Context, c *Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[c.Email]; ok {
		return ErrDuplicate
	}
	cp := *c
	s.customers[c.Email] = &cp
	return nil
}

func (s *MemoryStore) CustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) CustomerByID(ctx context.Context, id string) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[email]
	if !ok {
		return ErrNotFound
	}
	c.PasswordHash = passwordHash
	return nil
}

func (s *MemoryStore) CreateAccount(ctx context.Context, a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[a.Number]; ok {
		return ErrDuplicate
	}
	cp := *a
	s.accounts[a.Number] = &cp
	return nil
}

func (s *MemoryStore) AccountByNumber(ctx context.Context, number string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[number]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateBalance(ctx context.Context, number string, delta float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[number]
	if !ok {
		return 0, ErrNotFound
	}
	if a.Balance+delta < 0 {
		return a.Balance, ErrInsufficientFunds
	}
	a.Balance += delta
	return a.Balance, nil
}

func (s *MemoryStore) RecordTransaction(ctx context.Context, accountNumber string, tx models.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[accountNumber]; !ok {
		return 0, ErrNotFound
	}
	s.nextTxID++
	tx.ID = s.nextTxID
	s.transactions[accountNumber] = append(s.transactions[accountNumber], tx)
	return tx.ID, nil
}

func (s *MemoryStore) TransactionsByEmail(ctx context.Context, email string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var txs []models.Transaction
	for _, a := range s.accounts {
		if a.Email == email {
			txs = append(txs, s.transactions[a.Number]...)
		}
	}
	return txs, nil
}

func (s *MemoryStore) CreateCard(ctx context.Context, card *Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[card.Number]; ok {
		return ErrDuplicate
	}
	cp := *card
	s.cards[card.Number] = &cp
	return nil
}

func (s *MemoryStore) CardsByAccount(ctx context.Context, accountNumber string) ([]Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cards []Card
	for _, c := range s.cards {
		if c.AccountNumber == accountNumber {
			cards = append(cards, *c)
		}
	}
	return cards, nil
}

func (s *MemoryStore) CardByNumber(ctx context.Context, number string) (*Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[number]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) SetPIN(ctx context.Context, cardNumber, pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[cardNumber]
	if !ok {
		return ErrNotFound
	}
	c.PIN = pin
	return nil
}

func (s *MemoryStore) Close() error { return nil }
