package view

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mirabank/mirabank/internal/bank"
	"github.com/mirabank/mirabank/internal/client"
	"github.com/mirabank/mirabank/internal/models"
	"github.com/mirabank/mirabank/internal/session"
)

// failSet names the endpoints that should answer 500 instead of data.
type failSet map[string]bool

func dashboardBackend(t *testing.T, fails failSet) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	route := func(pattern, key string, body func() any) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			if fails[key] {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(body())
		})
	}
	route("/v1/bank/getBalanceCid/", "balance", func() any {
		return []models.BalanceRow{{Balance: 250.50}}
	})
	route("/v1/bank/getTransactionByMail/", "transactions", func() any {
		return []models.Transaction{{ID: 1, Type: models.TypeDeposit, Amount: 250.50}}
	})
	route("/v1/bank/getAccnoByMail/", "accountNumber", func() any {
		return models.AccountNumberResponse{AccountNumber: "01234567"}
	})
	route("/v1/bank/getUserName/", "username", func() any {
		return models.UserNameResponse{Name: "Asha"}
	})
	route("/v1/bank/getCardDetails/", "cards", func() any {
		return []models.Card{{CardNumber: "4000000000000001", CardType: models.CardDebit}}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func loggedInManager(t *testing.T, baseURL string) *bank.Manager {
	t.Helper()
	store := session.NewMemoryStore()
	ctx := context.Background()
	if err := store.Save(ctx, session.Session{Token: "tok1", Email: "a@b.com", Username: "Asha"}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return bank.NewManager(client.New(baseURL, nil), store, nil)
}

func TestDashboardReady(t *testing.T) {
	srv := dashboardBackend(t, nil)
	v := NewDashboardView(loggedInManager(t, srv.URL), 4)

	if got := v.State(); got != StateLoading {
		t.Fatalf("before load: got %v, want loading", got)
	}

	v.Load(context.Background())
	v.Wait()

	if got := v.State(); got != StateReady {
		t.Fatalf("got state %v, want ready", got)
	}
	if balance, err := v.Balance(); err != nil || balance != 250.50 {
		t.Errorf("balance: got (%v, %v)", balance, err)
	}
	if txs, err := v.Transactions(); err != nil || len(txs) != 1 {
		t.Errorf("transactions: got (%v, %v)", txs, err)
	}
	if acc, err := v.AccountNumber(); err != nil || acc != "01234567" {
		t.Errorf("account number: got (%q, %v)", acc, err)
	}
	if name, err := v.Username(); err != nil || name != "Asha" {
		t.Errorf("username: got (%q, %v)", name, err)
	}
	if cards, err := v.Cards(); err != nil || len(cards) != 1 {
		t.Errorf("cards: got (%v, %v)", cards, err)
	}
}

func TestDashboardPartialError(t *testing.T) {
	srv := dashboardBackend(t, failSet{"balance": true})
	v := NewDashboardView(loggedInManager(t, srv.URL), 4)

	v.Load(context.Background())
	v.Wait()

	if got := v.State(); got != StatePartialError {
		t.Fatalf("got state %v, want partial error", got)
	}
	if _, err := v.Balance(); err == nil {
		t.Error("expected balance slice error")
	}
	// The healthy slices still delivered.
	if txs, err := v.Transactions(); err != nil || len(txs) != 1 {
		t.Errorf("transactions should be unaffected: got (%v, %v)", txs, err)
	}
	if acc, err := v.AccountNumber(); err != nil || acc != "01234567" {
		t.Errorf("account number should be unaffected: got (%q, %v)", acc, err)
	}
}

func TestDashboardFullError(t *testing.T) {
	srv := dashboardBackend(t, failSet{
		"balance": true, "transactions": true, "accountNumber": true,
		"username": true, "cards": true,
	})
	store := session.NewMemoryStore()
	ctx := context.Background()
	// No stored username, so the username slice has to hit the wire too.
	store.Save(ctx, session.Session{Token: "tok1", Email: "a@b.com"})
	mgr := bank.NewManager(client.New(srv.URL, nil), store, nil)

	v := NewDashboardView(mgr, 4)
	v.Load(ctx)
	v.Wait()

	if got := v.State(); got != StateFullError {
		t.Fatalf("got state %v, want full error", got)
	}
}

func TestDashboardUnauthenticated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no fetch may be issued without a session: %s", r.URL.Path)
	}))
	t.Cleanup(srv.Close)

	mgr := bank.NewManager(client.New(srv.URL, nil), session.NewMemoryStore(), nil)
	v := NewDashboardView(mgr, 4)

	v.Load(context.Background())
	v.Wait()

	if got := v.State(); got != StateUnauthenticated {
		t.Fatalf("got state %v, want unauthenticated", got)
	}
}

func TestCloseDiscardsLateCompletions(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode([]models.BalanceRow{{Balance: 999}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	v := NewDashboardView(loggedInManager(t, srv.URL), 4)
	v.Load(context.Background())
	v.Close()
	v.Wait()

	// Whatever came back after Close must not have been committed.
	if balance, _ := v.Balance(); balance == 999 {
		t.Error("stale completion mutated a closed view")
	}
	if got := v.State(); got == StateReady {
		t.Error("closed view must not settle to ready")
	}
}
