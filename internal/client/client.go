// Package client is the low-level HTTP client for the /v1 banking
// contract. It maps each endpoint to one method, attaches the bearer
// token where the contract requires one, and translates failures into
// the FetchError/MutationError taxonomy. It holds no session state; the
// caller passes the token explicitly on every protected call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mirabank/mirabank/internal/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL (e.g. "http://localhost:8000").
// Pass nil to use a default client with a 10 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Login exchanges credentials for a bearer token. Any non-2xx response is
// reported as ErrInvalidCredentials; the contract does not distinguish
// further.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("marshal login request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &FetchError{Kind: NetworkFailure, Op: "login", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", ErrInvalidCredentials
	}

	var out models.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &FetchError{Kind: NetworkFailure, Op: "login", Err: err}
	}
	return out.Token, nil
}

func (c *Client) UpdatePassword(ctx context.Context, r models.UpdatePasswordRequest) (string, error) {
	var out models.MessageResponse
	if err := c.mutate(ctx, "updatePassword", http.MethodPut, "/v1/updatePassword", "", r, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) CreateCustomer(ctx context.Context, r models.CreateCustomerRequest) (*models.CreateCustomerResponse, error) {
	var out models.CreateCustomerResponse
	if err := c.mutate(ctx, "createCustomer", http.MethodPost, "/v1/bank/createCustomer", "", r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateAccount(ctx context.Context, r models.CreateAccountRequest) (*models.CreateAccountResponse, error) {
	var out models.CreateAccountResponse
	if err := c.mutate(ctx, "createAccount", http.MethodPost, "/v1/bank/createAccount", "", r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Balance fetches the account balance rows for an email. An empty result
// set maps to NotFound: the holder has no account yet ("create an
// account"), which callers surface differently from a missing account
// number.
func (c *Client) Balance(ctx context.Context, token, email string) (float64, error) {
	var rows []models.BalanceRow
	if err := c.get(ctx, "balance", "/v1/bank/getBalanceCid/"+url.PathEscape(email), token, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, &FetchError{Kind: NotFound, Op: "balance"}
	}
	return rows[0].Balance, nil
}

func (c *Client) Transactions(ctx context.Context, token, email string) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := c.get(ctx, "transactions", "/v1/bank/getTransactionByMail/"+url.PathEscape(email), token, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (c *Client) AccountNumber(ctx context.Context, token, email string) (string, error) {
	var out models.AccountNumberResponse
	if err := c.get(ctx, "accountNumber", "/v1/bank/getAccnoByMail/"+url.PathEscape(email), token, &out); err != nil {
		return "", err
	}
	if out.AccountNumber == "" {
		return "", &FetchError{Kind: NotFound, Op: "accountNumber"}
	}
	return out.AccountNumber, nil
}

func (c *Client) UserName(ctx context.Context, token, email string) (string, error) {
	var out models.UserNameResponse
	if err := c.get(ctx, "userName", "/v1/bank/getUserName/"+url.PathEscape(email), token, &out); err != nil {
		return "", err
	}
	return out.Name, nil
}

func (c *Client) CardDetails(ctx context.Context, token, accountNumber string) ([]models.Card, error) {
	var cards []models.Card
	if err := c.get(ctx, "cardDetails", "/v1/bank/getCardDetails/"+url.PathEscape(accountNumber), token, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *Client) CardNumbers(ctx context.Context, token, accountNumber string) ([]models.CardNumberRow, error) {
	var rows []models.CardNumberRow
	if err := c.get(ctx, "cardNumbers", "/v1/bank/getCardNumbers/"+url.PathEscape(accountNumber), token, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) DepositMoney(ctx context.Context, token string, r models.DepositRequest) (*models.DepositResponse, error) {
	var out models.DepositResponse
	if err := c.mutate(ctx, "deposit", http.MethodPut, "/v1/bank/depositMoney", token, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Withdraw(ctx context.Context, token string, r models.WithdrawRequest) (*models.DepositResponse, error) {
	var out models.DepositResponse
	if err := c.mutate(ctx, "withdraw", http.MethodPost, "/v1/bank/withdraw", token, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TransferMoney(ctx context.Context, token string, r models.TransferRequest) (string, error) {
	var out models.MessageResponse
	if err := c.mutate(ctx, "transfer", http.MethodPost, "/v1/bank/transferMoney", token, r, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) ApplyForCard(ctx context.Context, token string, r models.ApplyCardRequest) (string, error) {
	var out models.MessageResponse
	if err := c.mutate(ctx, "applyForCard", http.MethodPost, "/v1/bank/applyForCard", token, r, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) GeneratePIN(ctx context.Context, token string, r models.GeneratePINRequest) (*models.GeneratePINResponse, error) {
	var out models.GeneratePINResponse
	if err := c.mutate(ctx, "generatePIN", http.MethodPut, "/v1/bank/generatePIN", token, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePIN(ctx context.Context, token string, r models.UpdatePINRequest) (string, error) {
	var out models.MessageResponse
	if err := c.mutate(ctx, "updatePIN", http.MethodPut, "/v1/bank/updatePIN", token, r, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// get performs a protected GET and maps failures into FetchError.
func (c *Client) get(ctx context.Context, op, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Kind: NetworkFailure, Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &FetchError{Kind: Unauthorized, Op: op}
	case resp.StatusCode == http.StatusNotFound:
		return &FetchError{Kind: NotFound, Op: op}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &FetchError{Kind: NetworkFailure, Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Kind: NetworkFailure, Op: op, Err: err}
	}
	return nil
}

// mutate performs a mutating call. Non-2xx responses become
// MutationError{ServerRejected} carrying the server's message; transport
// failures surface as FetchError{NetworkFailure}.
func (c *Client) mutate(ctx context.Context, op, method, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Kind: NetworkFailure, Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Kind: NetworkFailure, Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg models.MessageResponse
		message := strings.TrimSpace(string(respBody))
		if err := json.Unmarshal(respBody, &msg); err == nil && msg.Message != "" {
			message = msg.Message
		}
		return &MutationError{Reason: ServerRejected, Message: message}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &FetchError{Kind: NetworkFailure, Op: op, Err: err}
		}
	}
	return nil
}
