package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "session.json")),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if sess, err := store.Load(ctx); err != nil || sess != nil {
				t.Fatalf("empty store must load (nil, nil), got (%+v, %v)", sess, err)
			}

			want := Session{Token: "tok1", Email: "a@b.com", Username: "Asha"}
			if err := store.Save(ctx, want); err != nil {
				t.Fatalf("save failed: %v", err)
			}
			got, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if got == nil || *got != want {
				t.Errorf("loaded %+v, want %+v", got, want)
			}
		})
	}
}

func TestStoreClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Clear(ctx); err != nil {
				t.Fatalf("clearing an empty store failed: %v", err)
			}

			store.Save(ctx, Session{Token: "tok1", Email: "a@b.com"})
			store.SetAccountNumber(ctx, "01234567")
			if err := store.Clear(ctx); err != nil {
				t.Fatalf("clear failed: %v", err)
			}
			if err := store.Clear(ctx); err != nil {
				t.Fatalf("second clear failed: %v", err)
			}

			if sess, _ := store.Load(ctx); sess != nil {
				t.Errorf("session survived clear: %+v", sess)
			}
			if acc, _ := store.AccountNumber(ctx); acc != "" {
				t.Errorf("account number survived clear: %q", acc)
			}
		})
	}
}

func TestStoreAccountNumber(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if acc, err := store.AccountNumber(ctx); err != nil || acc != "" {
				t.Fatalf("empty store account number: got (%q, %v)", acc, err)
			}
			if err := store.SetAccountNumber(ctx, "01234567"); err != nil {
				t.Fatalf("set failed: %v", err)
			}
			if acc, _ := store.AccountNumber(ctx); acc != "01234567" {
				t.Errorf("got %q, want 01234567", acc)
			}
		})
	}
}

func TestFileStoreAccountNumberKeepsSession(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	want := Session{Token: "tok1", Email: "a@b.com", Username: "Asha"}
	store.Save(ctx, want)
	store.SetAccountNumber(ctx, "01234567")

	got, err := store.Load(ctx)
	if err != nil || got == nil || *got != want {
		t.Errorf("session clobbered by SetAccountNumber: got (%+v, %v)", got, err)
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestTokenExpired(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"live token", "", false},
		{"expired token", "", true},
		{"opaque token", "not-a-jwt", false},
		{"empty token", "", false},
	}
	tests[0].token = signedToken(t, time.Now().Add(time.Hour))
	tests[1].token = signedToken(t, time.Now().Add(-time.Hour))

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TokenExpired(tc.token); got != tc.want {
				t.Errorf("TokenExpired(%q) = %v, want %v", tc.token, got, tc.want)
			}
		})
	}
}
