package models

import "testing"

func TestValidateCreateCustomer(t *testing.T) {
	valid := CreateCustomerRequest{
		FirstName:   "Asha",
		LastName:    "Rao",
		MobileNum:   "9876543210",
		Email:       "asha@example.com",
		PancardNum:  "ABCDE1234F",
		DOB:         "1990-04-12",
		AccountType: "savings",
		Password:    "hunter22pass",
	}

	tests := []struct {
		name      string
		mutate    func(r *CreateCustomerRequest)
		wantField string
	}{
		{
			name:   "valid request",
			mutate: func(r *CreateCustomerRequest) {},
		},
		{
			name:      "mobile too short",
			mutate:    func(r *CreateCustomerRequest) { r.MobileNum = "12345" },
			wantField: "MobileNum",
		},
		{
			name:      "mobile non-numeric",
			mutate:    func(r *CreateCustomerRequest) { r.MobileNum = "98765abcde" },
			wantField: "MobileNum",
		},
		{
			name:      "bad pan format",
			mutate:    func(r *CreateCustomerRequest) { r.PancardNum = "1234ABCDEF" },
			wantField: "PancardNum",
		},
		{
			name:      "password too short",
			mutate:    func(r *CreateCustomerRequest) { r.Password = "short" },
			wantField: "Password",
		},
		{
			name:      "unknown account type",
			mutate:    func(r *CreateCustomerRequest) { r.AccountType = "offshore" },
			wantField: "AccountType",
		},
		{
			name:      "bad email",
			mutate:    func(r *CreateCustomerRequest) { r.Email = "not-an-email" },
			wantField: "Email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			errs := ValidateRequest(req)
			if tt.wantField == "" {
				if errs != nil {
					t.Fatalf("expected no validation errors, got %v", errs)
				}
				return
			}
			if len(errs) == 0 {
				t.Fatalf("expected validation error on %s, got none", tt.wantField)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("expected first error on %s, got %s", tt.wantField, errs[0].Field)
			}
		})
	}
}

func TestValidateAmounts(t *testing.T) {
	tests := []struct {
		name    string
		req     any
		wantErr bool
	}{
		{"valid deposit", DepositRequest{AccountNumber: "01234567", Amount: 50}, false},
		{"zero amount", DepositRequest{AccountNumber: "01234567", Amount: 0}, true},
		{"negative withdrawal", WithdrawRequest{AccountNumber: "01234567", Amount: -5}, true},
		{"transfer to self", TransferRequest{FromAccountNumber: "01234567", ToAccountNumber: "01234567", Amount: 10}, true},
		{"valid transfer", TransferRequest{FromAccountNumber: "01234567", ToAccountNumber: "01765432", Amount: 10}, false},
		{"short pin", UpdatePINRequest{CardNumber: "4000123412341234", PIN: "12"}, true},
		{"valid pin", UpdatePINRequest{CardNumber: "4000123412341234", PIN: "1234"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRequest(tt.req)
			if tt.wantErr && errs == nil {
				t.Error("expected validation errors, got none")
			}
			if !tt.wantErr && errs != nil {
				t.Errorf("expected no validation errors, got %v", errs)
			}
		})
	}
}
