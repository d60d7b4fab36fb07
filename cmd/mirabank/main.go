package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mirabank/mirabank/internal/bank"
	"github.com/mirabank/mirabank/internal/client"
	"github.com/mirabank/mirabank/internal/models"
	"github.com/mirabank/mirabank/internal/session"
	"github.com/mirabank/mirabank/internal/view"
)

// Default server base URL; override with MIRABANK_SERVER or --server.
var serverBaseURL = "http://localhost:8000"

func main() {
	cmd := flag.String("cmd", "dashboard", "Command: login|logout|signup|open-account|forgot-password|dashboard|transactions|deposit|withdraw|transfer|cards|apply-card|generate-pin|update-pin")
	serverFlag := flag.String("server", "", "Override server base URL")
	email := flag.String("email", "", "Email address")
	password := flag.String("password", "", "Password")
	amount := flag.Float64("amount", 0, "Amount in currency units")
	account := flag.String("account", "", "Account number")
	from := flag.String("from", "", "Source account number")
	to := flag.String("to", "", "Destination account number")
	card := flag.String("card", "", "Card number")
	pin := flag.String("pin", "", "New 4-digit PIN")
	kind := flag.String("type", "", "Account type (savings|current) or card type (debit|credit|prepaid)")
	first := flag.String("first", "", "First name")
	last := flag.String("last", "", "Last name")
	mobile := flag.String("mobile", "", "10-digit mobile number")
	pan := flag.String("pan", "", "PAN card number")
	dob := flag.String("dob", "", "Date of birth (YYYY-MM-DD)")
	customer := flag.String("customer", "", "Customer ID")
	balance := flag.Float64("balance", 0, "Opening balance")
	flag.Parse()

	if env := os.Getenv("MIRABANK_SERVER"); env != "" {
		serverBaseURL = strings.TrimRight(env, "/")
	}
	if *serverFlag != "" {
		serverBaseURL = strings.TrimRight(*serverFlag, "/")
	}

	store, err := session.DefaultFileStore()
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	mgr := bank.NewManager(client.New(serverBaseURL, nil), store, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var runErr error
	switch *cmd {
	case "login":
		runErr = runLogin(ctx, mgr, *email, *password)
	case "logout":
		runErr = mgr.Logout(ctx)
		if runErr == nil {
			fmt.Println("Logged out.")
		}
	case "signup":
		runErr = runOutcome(mgr.CreateCustomer(ctx, models.CreateCustomerRequest{
			FirstName: *first, LastName: *last, MobileNum: *mobile,
			Email: *email, PancardNum: *pan, DOB: *dob,
			AccountType: *kind, Password: *password,
		}))
	case "open-account":
		runErr = runOutcome(mgr.OpenAccount(ctx, models.CreateAccountRequest{
			CustomerID: *customer, Balance: *balance, AccountType: *kind, Email: *email,
		}))
	case "forgot-password":
		runErr = runOutcome(mgr.UpdatePassword(ctx, models.UpdatePasswordRequest{
			Email: *email, NewPassword: *password,
		}))
	case "dashboard":
		runErr = runDashboard(ctx, mgr)
	case "transactions":
		runErr = runTransactions(ctx, mgr)
	case "deposit":
		runErr = runOutcome(mgr.Deposit(ctx, models.DepositRequest{AccountNumber: *account, Amount: *amount}))
	case "withdraw":
		runErr = runOutcome(mgr.Withdraw(ctx, models.WithdrawRequest{AccountNumber: *account, Amount: *amount}))
	case "transfer":
		runErr = runOutcome(mgr.Transfer(ctx, models.TransferRequest{
			FromAccountNumber: *from, ToAccountNumber: *to, Amount: *amount,
		}))
	case "cards":
		runErr = runCards(ctx, mgr)
	case "apply-card":
		runErr = runApplyCard(ctx, mgr, *account, *kind)
	case "generate-pin":
		runErr = runOutcome(mgr.GeneratePIN(ctx, models.GeneratePINRequest{
			CardNumber: *card, AccountNumber: *account,
		}))
	case "update-pin":
		runErr = runOutcome(mgr.UpdatePIN(ctx, models.UpdatePINRequest{
			CardNumber: *card, PIN: *pin,
		}))
	default:
		fmt.Println("Unknown command:", *cmd)
		os.Exit(1)
	}

	if runErr != nil {
		fmt.Println("Error:", friendlyError(runErr))
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, mgr *bank.Manager, email, password string) error {
	sess, err := mgr.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, %s.\n", sess.Username)
	return nil
}

func runOutcome(out *bank.MutationOutcome, err error) error {
	if err != nil {
		return err
	}
	fmt.Println(out.Message)
	if out.NewBalance != nil {
		fmt.Printf("New balance: %.2f\n", *out.NewBalance)
	}
	if out.PIN != "" {
		fmt.Printf("Your new PIN: %s\n", out.PIN)
	}
	if out.AccountNumber != "" {
		fmt.Printf("Account number: %s\n", out.AccountNumber)
	}
	if out.CustomerID != "" {
		fmt.Printf("Customer ID: %s\n", out.CustomerID)
	}
	return nil
}

func runDashboard(ctx context.Context, mgr *bank.Manager) error {
	v := view.NewDashboardView(mgr, 4)
	v.Load(ctx)
	v.Wait()
	defer v.Close()

	if v.State() == view.StateUnauthenticated {
		fmt.Println("Please log in or create an account.")
		return nil
	}

	if name, err := v.Username(); err == nil {
		fmt.Printf("Hello, %s\n", name)
	}
	if accountNumber, err := v.AccountNumber(); err == nil {
		fmt.Printf("Account Number: %s\n", maskAccountNumber(accountNumber))
	} else {
		fmt.Println("Account number not found.")
	}
	if balance, err := v.Balance(); err == nil {
		fmt.Printf("Current Balance: $%.2f\n", balance)
	} else {
		fmt.Println("No balance found. Please create an account.")
	}

	txs, err := v.Transactions()
	if err != nil {
		fmt.Println("Error fetching transactions.")
	} else if len(txs) == 0 {
		fmt.Println("No transactions found.")
	} else {
		fmt.Println("\nLatest Transactions:")
		printTransactions(txs)
	}

	if cards, err := v.Cards(); err == nil && len(cards) > 0 {
		fmt.Printf("\nCards on file: %d\n", len(cards))
	}
	return nil
}

func runTransactions(ctx context.Context, mgr *bank.Manager) error {
	txs, err := mgr.Transactions(ctx, 0)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		fmt.Println("No transactions found.")
		return nil
	}
	printTransactions(txs)
	return nil
}

func runCards(ctx context.Context, mgr *bank.Manager) error {
	cards, err := mgr.Cards(ctx)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Println("No cards on file.")
		return nil
	}
	for _, c := range cards {
		fmt.Printf("%-8s  %s  issued %s\n", c.CardType, formatCardNumber(c.CardNumber), c.IssuedDate.Format("Jan 2006"))
	}
	return nil
}

func runApplyCard(ctx context.Context, mgr *bank.Manager, account, cardType string) error {
	if account == "" {
		// Fall back to the cached account number.
		cached, err := mgr.AccountNumber(ctx)
		if err != nil {
			return err
		}
		account = cached
	}
	return runOutcome(mgr.ApplyForCard(ctx, models.ApplyCardRequest{
		AccountNumber: account,
		CardType:      models.CardType(cardType),
	}))
}

func printTransactions(txs []models.Transaction) {
	fmt.Printf("%-12s %-12s %10s  %-10s %-10s\n", "Type", "Date", "Amount", "From", "To")
	for _, tx := range txs {
		from, to := "-", "-"
		if tx.Type == models.TypeTransfer {
			from, to = tx.FromAccount, tx.ToAccount
		}
		fmt.Printf("%-12s %-12s %10.2f  %-10s %-10s\n",
			tx.Type, tx.Date.Format("2006-01-02"), tx.Amount, from, to)
	}
}

// maskAccountNumber hides all but the last four digits, grouped in
// fours for readability.
func maskAccountNumber(accountNumber string) string {
	if len(accountNumber) <= 4 {
		return accountNumber
	}
	masked := strings.Repeat("*", len(accountNumber)-4) + accountNumber[len(accountNumber)-4:]
	var groups []string
	for len(masked) > 4 {
		groups = append(groups, masked[:4])
		masked = masked[4:]
	}
	groups = append(groups, masked)
	return strings.Join(groups, " ")
}

func formatCardNumber(cardNumber string) string {
	var groups []string
	for len(cardNumber) > 4 {
		groups = append(groups, cardNumber[:4])
		cardNumber = cardNumber[4:]
	}
	groups = append(groups, cardNumber)
	return strings.Join(groups, " ")
}

func friendlyError(err error) string {
	switch {
	case errors.Is(err, client.ErrInvalidCredentials):
		return "check username or password"
	case errors.Is(err, bank.ErrUnauthenticated):
		return "not logged in; run -cmd login first"
	case client.IsFetchKind(err, client.Unauthorized):
		return "session expired; run -cmd login again"
	case client.IsFetchKind(err, client.NetworkFailure):
		return "could not reach " + serverBaseURL
	}
	return err.Error()
}
