package bank

import (
	"context"
	"log"
	"time"

	"github.com/mirabank/mirabank/internal/models"
)

// MutationOutcome is the server-confirmed result of a mutating call: the
// message plus whichever derived values the endpoint returns.
type MutationOutcome struct {
	Message       string
	NewBalance    *float64
	PIN           string
	AccountNumber string
	CustomerID    string
}

// Deposit posts a deposit. The contract allows this without a bearer
// token; one is attached when a session exists.
func (m *Manager) Deposit(ctx context.Context, r models.DepositRequest) (*MutationOutcome, error) {
	if err := preflight(r); err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := m.api.DepositMoney(ctx, m.optionalToken(ctx), r)
	m.collector.Observe("deposit", start, err)
	if err != nil {
		return nil, err
	}
	nb := resp.NewBalance
	return &MutationOutcome{Message: resp.Message, NewBalance: &nb}, nil
}

func (m *Manager) Withdraw(ctx context.Context, r models.WithdrawRequest) (*MutationOutcome, error) {
	if err := preflight(r); err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := m.api.Withdraw(ctx, m.optionalToken(ctx), r)
	m.collector.Observe("withdraw", start, err)
	if err != nil {
		return nil, err
	}
	nb := resp.NewBalance
	return &MutationOutcome{Message: resp.Message, NewBalance: &nb}, nil
}

func (m *Manager) Transfer(ctx context.Context, r models.TransferRequest) (*MutationOutcome, error) {
	if err := preflight(r); err != nil {
		return nil, err
	}
	sess, err := m.Session(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	msg, err := m.api.TransferMoney(ctx, sess.Token, r)
	m.collector.Observe("transfer", start, err)
	if err != nil {
		return nil, err
	}
	return &MutationOutcome{Message: msg}, nil
}

func (m *Manager) ApplyForCard(ctx context.Context, r models.ApplyCardRequest) (*MutationOutcome, error) {
	if err := preflight(r); err != nil {
		return nil, err
	}
	sess, err := m.Session(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	msg, err := m.api.ApplyForCard(ctx, sess.Token, r)
	m.collector.Observe("applyForCard", start, err)
	if err != nil {
		return nil, err
	}
	return &MutationOutcome{Message: msg}, nil
}

func (m *Manager) GeneratePIN(ctx context.Context, r models.GeneratePINRequest) (*MutationOutcome, error) {
	if err := preflight(r); err != nil {
		return nil, err
	}
	sess, err := m.Session(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := m.api.GeneratePIN(ctx, sess.Token, r)
	m.collector.Observe("generatePIN", start, err)
	if err != nil {
		return nil, err
	}
	return &MutationOutcome{Message: resp.Message, PIN: resp.PIN}, nil
}

func (m *Manager) UpdatePIN(ctx context.Context, r models.UpdatePINRequest) (*MutationOutcome, error) {
	if err := preflight(r); err != nil {
		return nil, err
	}
	sess, err := m.Session(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	msg, err := m.api.UpdatePIN(ctx, sess.Token, r)
	m.collector.Observe("updatePIN", start, err)
	if err != nil {
		return nil, err
	}
	return &MutationOutcome{Message: msg}, nil
}

// CreateCustomer signs up a new customer. No session involved.
func (m *Manager) CreateCustomer(ctx context.Context, r models.CreateCustomerRequest) (*MutationOutcome, error) {
	if err := preflight(r); err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := m.api.CreateCustomer(ctx, r)
	m.collector.Observe("createCustomer", start, err)
	if err != nil {
		return nil, err
	}
	return &MutationOutcome{Message: resp.Message, CustomerID: resp.CustomerID}, nil
}

// OpenAccount opens a bank account for an existing customer and caches
// the returned account number when the session email matches.
func (m *Manager) OpenAccount(ctx context.Context, r models.CreateAccountRequest) (*MutationOutcome, error) {
	if err := preflight(r); err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := m.api.CreateAccount(ctx, r)
	m.collector.Observe("createAccount", start, err)
	if err != nil {
		return nil, err
	}
	if sess, serr := m.Session(ctx); serr == nil && sess.Email == r.Email {
		if err := m.store.SetAccountNumber(ctx, resp.AccountNumber); err != nil {
			log.Printf("persist account number: %v", err)
		}
	}
	return &MutationOutcome{Message: resp.Message, AccountNumber: resp.AccountNumber}, nil
}

func (m *Manager) UpdatePassword(ctx context.Context, r models.UpdatePasswordRequest) (*MutationOutcome, error) {
	if err := preflight(r); err != nil {
		return nil, err
	}
	start := time.Now()
	msg, err := m.api.UpdatePassword(ctx, r)
	m.collector.Observe("updatePassword", start, err)
	if err != nil {
		return nil, err
	}
	return &MutationOutcome{Message: msg}, nil
}

// optionalToken returns the session token if one exists, else "".
func (m *Manager) optionalToken(ctx context.Context) string {
	sess, err := m.Session(ctx)
	if err != nil {
		return ""
	}
	return sess.Token
}

// Mutation describes a confirmed balance-affecting action for local
// reconciliation.
type Mutation struct {
	Kind models.TransactionType
	// Amount in currency units.
	Amount float64
	// From and To are set for transfers only.
	From, To string
}

// ApplyOutcome merges a confirmed mutation into locally cached view
// state instead of forcing a full re-fetch. The server-returned balance
// wins when present; otherwise the cached balance is patched by the
// mutation amount. A synthesized transaction is prepended for display.
//
// Optimistic state is display-only: the next full fetch overwrites it
// unconditionally, so any drift from the server ledger lasts at most
// until the next navigation.
func ApplyOutcome(sum *AccountSummary, txs []models.Transaction, mut Mutation, out *MutationOutcome) []models.Transaction {
	if sum != nil && sum.BalanceErr == nil {
		switch {
		case out != nil && out.NewBalance != nil:
			sum.Balance = *out.NewBalance
		case mut.Kind == models.TypeDeposit:
			sum.Balance += mut.Amount
		default:
			sum.Balance -= mut.Amount
		}
	}

	synthesized := models.Transaction{
		Type:        mut.Kind,
		Amount:      mut.Amount,
		Date:        time.Now(),
		FromAccount: mut.From,
		ToAccount:   mut.To,
	}
	return append([]models.Transaction{synthesized}, txs...)
}
