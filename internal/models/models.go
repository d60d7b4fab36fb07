package models

import "time"

type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeTransfer   TransactionType = "transfer"
)

type CardType string

const (
	CardDebit   CardType = "debit"
	CardCredit  CardType = "credit"
	CardPrepaid CardType = "prepaid"
)

// Transaction carries the wire field names of the /v1 contract.
// FromAccount and ToAccount are only populated for transfers.
type Transaction struct {
	ID          int64           `json:"transaction_id"`
	Type        TransactionType `json:"transaction_type"`
	Amount      float64         `json:"amount"`
	Date        time.Time       `json:"transaction_date"`
	FromAccount string          `json:"from_account_number,omitempty"`
	ToAccount   string          `json:"to_account_number,omitempty"`
}

type Card struct {
	CardNumber string    `json:"card_number"`
	CardType   CardType  `json:"card_type"`
	IssuedDate time.Time `json:"issued_date"`
}

// CardNumberRow is the reduced projection returned by getCardNumbers.
type CardNumberRow struct {
	CardNumber string   `json:"card_number"`
	CardType   CardType `json:"card_type"`
}

// BalanceRow is one element of the array returned by getBalanceCid.
type BalanceRow struct {
	Balance float64 `json:"balance"`
}

type AccountNumberResponse struct {
	AccountNumber string `json:"acc_no"`
}

type UserNameResponse struct {
	Name string `json:"name"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreateCustomerResponse struct {
	Message    string `json:"message"`
	CustomerID string `json:"customer_id"`
}

type CreateAccountResponse struct {
	Message       string `json:"message"`
	AccountNumber string `json:"account_number"`
}

type DepositResponse struct {
	Message    string  `json:"message"`
	NewBalance float64 `json:"new_balance"`
}

type GeneratePINResponse struct {
	Message string `json:"message"`
	PIN     string `json:"pin"`
}
