package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mirabank/mirabank/internal/models"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantToken string
		wantErr   error
	}{
		{
			name:      "success",
			status:    http.StatusOK,
			body:      `{"token":"tok1"}`,
			wantToken: "tok1",
		},
		{
			name:    "rejected credentials",
			status:  http.StatusUnauthorized,
			body:    `{"message":"Invalid credentials"}`,
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "server error also maps to invalid credentials",
			status:  http.StatusInternalServerError,
			body:    `{}`,
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/login" || r.Method != http.MethodPost {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			token, err := New(srv.URL, nil).Login(context.Background(), "a@b.com", "x")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token != tt.wantToken {
				t.Errorf("expected token %q, got %q", tt.wantToken, token)
			}
		})
	}
}

func TestFetchErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantKind FetchErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, Unauthorized},
		{"forbidden", http.StatusForbidden, Unauthorized},
		{"not found", http.StatusNotFound, NotFound},
		{"server error", http.StatusInternalServerError, NetworkFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := New(srv.URL, nil).Balance(context.Background(), "tok", "a@b.com")
			if !IsFetchKind(err, tt.wantKind) {
				t.Errorf("expected kind %v, got %v", tt.wantKind, err)
			}
		})
	}
}

func TestFetchNetworkFailure(t *testing.T) {
	// A server that is already closed refuses connections.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := New(srv.URL, nil).Balance(context.Background(), "tok", "a@b.com")
	if !IsFetchKind(err, NetworkFailure) {
		t.Errorf("expected NetworkFailure, got %v", err)
	}
}

func TestBalanceEmptyBodyIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Balance(context.Background(), "tok", "a@b.com")
	if !IsFetchKind(err, NotFound) {
		t.Errorf("expected NotFound for empty balance rows, got %v", err)
	}
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[{"balance":42.50}]`))
	}))
	defer srv.Close()

	balance, err := New(srv.URL, nil).Balance(context.Background(), "tok1", "a@b.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok1" {
		t.Errorf("expected Authorization header %q, got %q", "Bearer tok1", gotAuth)
	}
	if balance != 42.50 {
		t.Errorf("expected balance 42.50, got %v", balance)
	}
}

func TestMutationServerRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Insufficient funds"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Withdraw(context.Background(), "tok", models.WithdrawRequest{
		AccountNumber: "01234567",
		Amount:        1000,
	})
	var me *MutationError
	if !errors.As(err, &me) {
		t.Fatalf("expected MutationError, got %v", err)
	}
	if me.Reason != ServerRejected {
		t.Errorf("expected ServerRejected, got %v", me.Reason)
	}
	if me.Message != "Insufficient funds" {
		t.Errorf("expected server message passed through, got %q", me.Message)
	}
}
