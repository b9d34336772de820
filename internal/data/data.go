// Package data provides the three tiered customer-data providers: authentic
// records, perturbed records for medium-risk sessions, and generated decoys
// for sessions routed to the honey tier. Callers pick a provider by tier and
// never inspect the payload themselves.
package data

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a customer does not exist
var ErrNotFound = errors.New("customer not found")

// Customer is a banking-demo customer record
type Customer struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	SSN               string  `json:"ssn"`
	AccountBalance    float64 `json:"account_balance"`
	CreditScore       int     `json:"credit_score"`
	Address           string  `json:"address"`
	DateOfBirth       string  `json:"date_of_birth"`
	AccountCreated    string  `json:"account_created"`
	LastLogin         string  `json:"last_login"`
	AccountType       string  `json:"account_type"`
	Status            string  `json:"status"`
	TransactionCount  int     `json:"transaction_count"`
	AvgMonthlySpend   float64 `json:"avg_monthly_spend"`
	KYCVerified       bool    `json:"kyc_verified"`
	RiskCategory      string  `json:"risk_category"`
	ContactPreference string  `json:"contact_preference"`
	Timezone          string  `json:"timezone"`
	TwoFactorEnabled  bool    `json:"two_factor_enabled"`
}

// Transaction is a single ledger entry in a customer's history
type Transaction struct {
	TransactionID string  `json:"transaction_id"`
	CustomerID    int64   `json:"customer_id"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Type          string  `json:"type"` // "debit" or "credit"
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	BalanceAfter  float64 `json:"balance_after"`
	Merchant      string  `json:"merchant"`
	Category      string  `json:"category"`
}

// Source serves customer data for one tier. Implementations decide what the
// caller actually sees; the HTTP layer treats all tiers identically.
type Source interface {
	// Account returns the customer profile, or ErrNotFound.
	Account(ctx context.Context, customerID int64) (*Customer, error)

	// Transactions returns up to limit entries, most recent first.
	Transactions(ctx context.Context, customerID int64, limit int) ([]Transaction, error)
}

// Store holds the authentic customer records
type Store interface {
	CustomerByID(ctx context.Context, customerID int64) (*Customer, error)
	TransactionsByCustomer(ctx context.Context, customerID int64, limit int) ([]Transaction, error)
}
