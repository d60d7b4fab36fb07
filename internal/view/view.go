// Package view implements the data-loading lifecycle of a protected
// view: Unauthenticated -> Loading -> {Ready, PartialError, FullError}.
// Each independent fetch owns one slice of state and transitions it
// without blocking the others; the overall state is the join of the
// slices, never a single gate.
package view

import (
	"context"
	"errors"
	"sync"

	"github.com/mirabank/mirabank/internal/bank"
	"github.com/mirabank/mirabank/internal/models"
)

type SliceStatus int

const (
	Pending SliceStatus = iota
	Ready
	Failed
)

// Slice is the load state of one independent fetch.
type Slice struct {
	Status SliceStatus
	Err    error
}

type State int

const (
	StateUnauthenticated State = iota
	StateLoading
	StateReady
	StatePartialError
	StateFullError
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StatePartialError:
		return "partial error"
	case StateFullError:
		return "full error"
	default:
		return "unknown"
	}
}

// DashboardView loads the five slices a protected page needs: balance,
// transactions, account number, username, and cards. Load starts all
// fetches concurrently; Close cancels the view-scoped context and marks
// the view dead so completions that straggle in afterwards are
// discarded instead of mutating a view nobody is looking at.
type DashboardView struct {
	mgr     *bank.Manager
	txLimit int

	mu      sync.Mutex
	wg      sync.WaitGroup
	closed  bool
	cancel  context.CancelFunc
	loadCtx context.Context

	unauthenticated bool

	balanceSlice  Slice
	txSlice       Slice
	accountSlice  Slice
	usernameSlice Slice
	cardSlice     Slice

	balance       float64
	transactions  []models.Transaction
	accountNumber string
	username      string
	cards         []models.Card
}

// NewDashboardView builds a view over the manager. txLimit bounds the
// transaction list (the dashboard shows the latest 4; pass 0 for the
// full transactions page).
func NewDashboardView(mgr *bank.Manager, txLimit int) *DashboardView {
	return &DashboardView{mgr: mgr, txLimit: txLimit}
}

// Load starts the concurrent fetches and returns immediately. When the
// session has no email the view settles in StateUnauthenticated and no
// fetch is issued; that state is terminal until a login happens
// elsewhere and Load is called again.
func (v *DashboardView) Load(ctx context.Context) {
	if _, err := v.mgr.Session(ctx); errors.Is(err, bank.ErrUnauthenticated) {
		v.mu.Lock()
		v.unauthenticated = true
		v.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	v.mu.Lock()
	v.unauthenticated = false
	v.cancel = cancel
	v.loadCtx = ctx
	v.mu.Unlock()

	v.spawn(func(ctx context.Context) {
		balance, err := v.mgr.Balance(ctx)
		v.settle(&v.balanceSlice, err, func() { v.balance = balance })
	})
	v.spawn(func(ctx context.Context) {
		txs, err := v.mgr.Transactions(ctx, v.txLimit)
		v.settle(&v.txSlice, err, func() { v.transactions = txs })
	})
	v.spawn(func(ctx context.Context) {
		accountNumber, err := v.mgr.AccountNumber(ctx)
		v.settle(&v.accountSlice, err, func() { v.accountNumber = accountNumber })
	})
	v.spawn(func(ctx context.Context) {
		username, err := v.mgr.Username(ctx)
		v.settle(&v.usernameSlice, err, func() { v.username = username })
	})
	v.spawn(func(ctx context.Context) {
		cards, err := v.mgr.Cards(ctx)
		v.settle(&v.cardSlice, err, func() { v.cards = cards })
	})
}

func (v *DashboardView) spawn(fetch func(ctx context.Context)) {
	v.mu.Lock()
	ctx := v.loadCtx
	v.mu.Unlock()
	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		fetch(ctx)
	}()
}

// Wait blocks until every in-flight fetch has settled or been discarded.
func (v *DashboardView) Wait() {
	v.wg.Wait()
}

// Close cancels outstanding fetches and freezes the view. Responses
// arriving after Close are dropped.
func (v *DashboardView) Close() {
	v.mu.Lock()
	v.closed = true
	cancel := v.cancel
	v.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// settle records a fetch result unless the view has been closed.
func (v *DashboardView) settle(s *Slice, err error, commit func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	if err != nil {
		s.Status = Failed
		s.Err = err
		return
	}
	s.Status = Ready
	s.Err = nil
	commit()
}

// State joins the slice states into the view state.
func (v *DashboardView) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.unauthenticated {
		return StateUnauthenticated
	}

	slices := []Slice{v.balanceSlice, v.txSlice, v.accountSlice, v.usernameSlice, v.cardSlice}
	pending, failed := 0, 0
	for _, s := range slices {
		switch s.Status {
		case Pending:
			pending++
		case Failed:
			failed++
		}
	}
	switch {
	case pending > 0:
		return StateLoading
	case failed == len(slices):
		return StateFullError
	case failed > 0:
		return StatePartialError
	default:
		return StateReady
	}
}

func (v *DashboardView) Balance() (float64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balance, v.balanceSlice.Err
}

func (v *DashboardView) Transactions() ([]models.Transaction, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.transactions, v.txSlice.Err
}

func (v *DashboardView) AccountNumber() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.accountNumber, v.accountSlice.Err
}

func (v *DashboardView) Username() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.username, v.usernameSlice.Err
}

func (v *DashboardView) Cards() ([]models.Card, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cards, v.cardSlice.Err
}
