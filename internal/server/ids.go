package server

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateAccountNumber returns an 8-digit account number with the
// institution prefix 01.
func GenerateAccountNumber() string {
	num, _ := rand.Int(rand.Reader, big.NewInt(1000000))
	return fmt.Sprintf("01%06d", num.Int64())
}

// GenerateCardNumber returns a 16-digit card number.
func GenerateCardNumber() string {
	num, _ := rand.Int(rand.Reader, big.NewInt(1000000000000000))
	return fmt.Sprintf("4%015d", num.Int64())
}

// GeneratePINValue returns a 4-digit PIN.
func GeneratePINValue() string {
	num, _ := rand.Int(rand.Reader, big.NewInt(10000))
	return fmt.Sprintf("%04d", num.Int64())
}
