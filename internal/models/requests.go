package models

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdatePasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type CreateCustomerRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	MobileNum   string `json:"mobile_num" validate:"required,len=10,numeric"`
	Email       string `json:"email" validate:"required,email"`
	PancardNum  string `json:"pancard_num" validate:"required,pancard"`
	DOB         string `json:"dob" validate:"required"`
	AccountType string `json:"account_type" validate:"required,oneof=savings current"`
	Password    string `json:"password" validate:"required,min=8"`
}

type CreateAccountRequest struct {
	CustomerID  string  `json:"customer_id" validate:"required"`
	Balance     float64 `json:"balance" validate:"gte=0"`
	AccountType string  `json:"account_type" validate:"required,oneof=savings current"`
	Email       string  `json:"email" validate:"required,email"`
}

type DepositRequest struct {
	AccountNumber string  `json:"account_number" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
}

type WithdrawRequest struct {
	AccountNumber string  `json:"account_number" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
}

type TransferRequest struct {
	FromAccountNumber string  `json:"from_account_number" validate:"required"`
	ToAccountNumber   string  `json:"to_account_number" validate:"required,nefield=FromAccountNumber"`
	Amount            float64 `json:"amount" validate:"required,gt=0"`
}

type ApplyCardRequest struct {
	AccountNumber string   `json:"account_number" validate:"required"`
	CardType      CardType `json:"card_type" validate:"required,oneof=debit credit prepaid"`
}

type GeneratePINRequest struct {
	CardNumber    string `json:"card_number" validate:"required,len=16,numeric"`
	AccountNumber string `json:"account_number" validate:"required"`
}

type UpdatePINRequest struct {
	CardNumber string `json:"card_number" validate:"required,len=16,numeric"`
	PIN        string `json:"pin" validate:"required,len=4,numeric"`
}
