// Package bank is the session and account cache manager: the single
// consumer-facing surface for authentication state, cached account
// identifiers, and derived balance/transaction views. Views and the CLI
// are pure consumers; no other package talks to the session store or the
// HTTP client directly.
package bank

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mirabank/mirabank/internal/client"
	"github.com/mirabank/mirabank/internal/metrics"
	"github.com/mirabank/mirabank/internal/models"
	"github.com/mirabank/mirabank/internal/session"
)

// ErrUnauthenticated is returned by account-scoped operations when no
// session email is present. Callers surface a "create account / log in"
// prompt, not an error page.
var ErrUnauthenticated = errors.New("not logged in")

// Manager mediates all reads and writes of session state and cached
// account data. It is safe for concurrent use: the store serialises its
// own writes and every fetch writes only its own result.
type Manager struct {
	api       *client.Client
	store     session.Store
	collector *metrics.Collector
}

// NewManager wires the manager to a REST client and a session store.
// collector may be nil.
func NewManager(api *client.Client, store session.Store, collector *metrics.Collector) *Manager {
	return &Manager{api: api, store: store, collector: collector}
}

// Session returns the current session, or ErrUnauthenticated when none is
// stored or the stored session has no email.
func (m *Manager) Session(ctx context.Context) (*session.Session, error) {
	s, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Email == "" {
		return nil, ErrUnauthenticated
	}
	return s, nil
}

// Login authenticates and persists the session. On success the token and
// email are stored, then the display name is fetched best-effort: a
// failed name lookup degrades to the local part of the email rather than
// failing the login. On failure nothing is stored.
func (m *Manager) Login(ctx context.Context, email, password string) (*session.Session, error) {
	if err := preflight(models.LoginRequest{Email: email, Password: password}); err != nil {
		return nil, err
	}

	start := time.Now()
	token, err := m.api.Login(ctx, email, password)
	m.collector.Observe("login", start, err)
	if err != nil {
		return nil, err
	}

	sess := session.Session{Token: token, Email: email}
	name, err := m.api.UserName(ctx, token, email)
	if err != nil || name == "" {
		name = localPart(email)
	}
	sess.Username = name

	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Logout clears the session and the cached account number. Idempotent:
// logging out twice is not an error.
func (m *Manager) Logout(ctx context.Context) error {
	return m.store.Clear(ctx)
}

// AccountSummary holds the two independently fetched halves of the
// account view. Either side may fail without failing the other: a
// missing balance means "no account yet", a missing account number means
// "account not found".
type AccountSummary struct {
	Balance          float64
	BalanceErr       error
	AccountNumber    string
	AccountNumberErr error
}

// AccountSummary fetches balance and account number concurrently. A
// successful account-number fetch refreshes the persisted cache.
func (m *Manager) AccountSummary(ctx context.Context) (*AccountSummary, error) {
	sess, err := m.Session(ctx)
	if err != nil {
		return nil, err
	}

	var sum AccountSummary
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sum.Balance, sum.BalanceErr = m.fetchBalance(ctx, sess)
	}()
	go func() {
		defer wg.Done()
		sum.AccountNumber, sum.AccountNumberErr = m.fetchAccountNumber(ctx, sess)
	}()
	wg.Wait()
	return &sum, nil
}

// Balance fetches only the balance slice.
func (m *Manager) Balance(ctx context.Context) (float64, error) {
	sess, err := m.Session(ctx)
	if err != nil {
		return 0, err
	}
	return m.fetchBalance(ctx, sess)
}

// AccountNumber returns the cached account number when present,
// otherwise fetches and caches it. Stale-vs-fetched reconciliation is
// fetch-wins: AccountSummary always refreshes the cache.
func (m *Manager) AccountNumber(ctx context.Context) (string, error) {
	sess, err := m.Session(ctx)
	if err != nil {
		return "", err
	}
	if cached, err := m.store.AccountNumber(ctx); err == nil && cached != "" {
		return cached, nil
	}
	return m.fetchAccountNumber(ctx, sess)
}

// Username returns the stored display name, fetching it when the session
// was persisted without one. Unlike Login there is no local-part
// fallback here: a session missing its name plus a failed lookup is a
// failed slice, not a guess.
func (m *Manager) Username(ctx context.Context) (string, error) {
	sess, err := m.Session(ctx)
	if err != nil {
		return "", err
	}
	if sess.Username != "" {
		return sess.Username, nil
	}
	start := time.Now()
	name, err := m.api.UserName(ctx, sess.Token, sess.Email)
	m.collector.Observe("userName", start, err)
	if err != nil {
		return "", err
	}
	if name == "" {
		name = localPart(sess.Email)
	}
	sess.Username = name
	if err := m.store.Save(ctx, *sess); err != nil {
		log.Printf("persist username: %v", err)
	}
	return name, nil
}

// Transactions fetches the full list, sorted by date descending. The
// sort is stable so same-timestamp entries keep their server order.
// limit <= 0 means no truncation; otherwise the latest limit entries are
// returned.
func (m *Manager) Transactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	sess, err := m.Session(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	txs, err := m.api.Transactions(ctx, sess.Token, sess.Email)
	m.collector.Observe("transactions", start, err)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

// Cards lists the cards issued against the holder's account.
func (m *Manager) Cards(ctx context.Context) ([]models.Card, error) {
	sess, err := m.Session(ctx)
	if err != nil {
		return nil, err
	}
	accountNumber, err := m.AccountNumber(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	cards, err := m.api.CardDetails(ctx, sess.Token, accountNumber)
	m.collector.Observe("cardDetails", start, err)
	return cards, err
}

func (m *Manager) fetchBalance(ctx context.Context, sess *session.Session) (float64, error) {
	start := time.Now()
	balance, err := m.api.Balance(ctx, sess.Token, sess.Email)
	m.collector.Observe("balance", start, err)
	return balance, err
}

func (m *Manager) fetchAccountNumber(ctx context.Context, sess *session.Session) (string, error) {
	start := time.Now()
	accountNumber, err := m.api.AccountNumber(ctx, sess.Token, sess.Email)
	m.collector.Observe("accountNumber", start, err)
	if err != nil {
		return "", err
	}
	if err := m.store.SetAccountNumber(ctx, accountNumber); err != nil {
		log.Printf("persist account number: %v", err)
	}
	return accountNumber, nil
}

func preflight(req any) error {
	if verrs := models.ValidateRequest(req); verrs != nil {
		v := verrs[0]
		return client.NewValidationError(v.Field, v.Message)
	}
	return nil
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
