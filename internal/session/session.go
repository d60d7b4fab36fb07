// Package session holds the client's record of being authenticated and
// the persisted account-number cache. Storage is behind the Store
// interface so the CLI, tests, and shared deployments can pick a backend
// without touching the manager. All writes are last-write-wins; Clear is
// idempotent.
package session

import "context"

// Storage keys. Every backend persists under these fixed names.
const (
	KeyToken         = "token"
	KeyEmail         = "email"
	KeyUsername      = "username"
	KeyAccountNumber = "accountNumber"
)

// Session is the authenticated identity: an opaque bearer token plus the
// fields protected views display. A zero Session means "not logged in".
type Session struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Store persists the session and the cached account number.
//
// Load returns (nil, nil) when no session is stored. Clear removes the
// session and the account-number cache together: a cached account number
// must never outlive a logout.
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error

	AccountNumber(ctx context.Context) (string, error)
	SetAccountNumber(ctx context.Context, accountNumber string) error
}
