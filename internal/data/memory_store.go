package data

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store seeded with demo customers.
// Used when DATABASE_URL is not configured.
type MemoryStore struct {
	mu           sync.RWMutex
	customers    map[int64]*Customer
	transactions map[int64][]Transaction
}

// NewMemoryStore creates a store pre-loaded with the demo dataset
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		customers:    make(map[int64]*Customer),
		transactions: make(map[int64][]Transaction),
	}
	s.seed()
	return s
}

// CustomerByID returns a copy of the customer record
func (s *MemoryStore) CustomerByID(ctx context.Context, customerID int64) (*Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[customerID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

// TransactionsByCustomer returns up to limit transactions, most recent first
func (s *MemoryStore) TransactionsByCustomer(ctx context.Context, customerID int64, limit int) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.customers[customerID]; !ok {
		return nil, ErrNotFound
	}

	txns := s.transactions[customerID]
	if limit > 0 && limit < len(txns) {
		txns = txns[:limit]
	}

	out := make([]Transaction, len(txns))
	copy(out, txns)
	return out, nil
}

func (s *MemoryStore) seed() {
	customers := []*Customer{
		{
			ID: 1001, Name: "John Smith", Email: "john.smith@techcorp.com",
			Phone: "+1-555-0101", SSN: "123-45-6789",
			AccountBalance: 125000.50, CreditScore: 750,
			Address:     "123 Main St, San Francisco, CA 94102",
			DateOfBirth: "1980-03-15", AccountCreated: "2018-01-10",
			LastLogin: "2026-02-03T10:15:42Z", AccountType: "Premium Business",
			Status: "Active", TransactionCount: 2134, AvgMonthlySpend: 9250.75,
			KYCVerified: true, RiskCategory: "Low", ContactPreference: "email",
			Timezone: "America/Los_Angeles", TwoFactorEnabled: true,
		},
		{
			ID: 1002, Name: "Sarah Chen", Email: "sarah.chen@medgroup.org",
			Phone: "+1-555-0102", SSN: "234-56-7890",
			AccountBalance: 87340.12, CreditScore: 782,
			Address:     "456 Oak Ave, Seattle, WA 98101",
			DateOfBirth: "1985-07-22", AccountCreated: "2019-06-03",
			LastLogin: "2026-02-02T18:44:09Z", AccountType: "Premium",
			Status: "Active", TransactionCount: 1567, AvgMonthlySpend: 6100.40,
			KYCVerified: true, RiskCategory: "Low", ContactPreference: "email",
			Timezone: "America/Los_Angeles", TwoFactorEnabled: true,
		},
		{
			ID: 1003, Name: "Miguel Alvarez", Email: "m.alvarez@buildright.com",
			Phone: "+1-555-0103", SSN: "345-67-8901",
			AccountBalance: 42780.00, CreditScore: 701,
			Address:     "789 Pine Rd, Austin, TX 78701",
			DateOfBirth: "1978-11-02", AccountCreated: "2016-09-21",
			LastLogin: "2026-01-30T08:05:17Z", AccountType: "Standard",
			Status: "Active", TransactionCount: 3010, AvgMonthlySpend: 4890.15,
			KYCVerified: true, RiskCategory: "Low", ContactPreference: "phone",
			Timezone: "America/Chicago", TwoFactorEnabled: false,
		},
		{
			ID: 1004, Name: "Priya Patel", Email: "priya.patel@finserve.io",
			Phone: "+1-555-0104", SSN: "456-78-9012",
			AccountBalance: 230450.88, CreditScore: 810,
			Address:     "12 Harbor Blvd, Boston, MA 02110",
			DateOfBirth: "1990-01-30", AccountCreated: "2020-02-14",
			LastLogin: "2026-02-03T07:58:33Z", AccountType: "Premium Business",
			Status: "Active", TransactionCount: 980, AvgMonthlySpend: 12770.60,
			KYCVerified: true, RiskCategory: "Low", ContactPreference: "email",
			Timezone: "America/New_York", TwoFactorEnabled: true,
		},
		{
			ID: 1005, Name: "Daniel Okafor", Email: "d.okafor@northwind.net",
			Phone: "+1-555-0105", SSN: "567-89-0123",
			AccountBalance: 15980.45, CreditScore: 668,
			Address:     "34 Elm Ct, Denver, CO 80202",
			DateOfBirth: "1994-05-09", AccountCreated: "2022-12-01",
			LastLogin: "2026-02-01T21:12:50Z", AccountType: "Basic",
			Status: "Active", TransactionCount: 412, AvgMonthlySpend: 2210.30,
			KYCVerified: true, RiskCategory: "Medium", ContactPreference: "email",
			Timezone: "America/Denver", TwoFactorEnabled: false,
		},
	}

	for _, c := range customers {
		s.customers[c.ID] = c
		s.transactions[c.ID] = seedTransactions(c)
	}
}

// seedTransactions builds a small deterministic history per customer so the
// demo dataset is stable across restarts.
func seedTransactions(c *Customer) []Transaction {
	return []Transaction{
		{
			TransactionID: "TXN-20260203-001", CustomerID: c.ID,
			Date: "2026-02-03", Time: "14:30:22", Type: "debit",
			Description: "Amazon Purchase", Amount: -89.99,
			BalanceAfter: c.AccountBalance,
			Merchant:     "Amazon.com", Category: "Shopping",
		},
		{
			TransactionID: "TXN-20260202-045", CustomerID: c.ID,
			Date: "2026-02-02", Time: "09:15:00", Type: "credit",
			Description: "Salary Deposit", Amount: 5000.00,
			BalanceAfter: c.AccountBalance + 89.99,
			Merchant:     "ABC Corporation", Category: "Income",
		},
		{
			TransactionID: "TXN-20260201-112", CustomerID: c.ID,
			Date: "2026-02-01", Time: "19:42:10", Type: "debit",
			Description: "Grocery Run", Amount: -134.52,
			BalanceAfter: c.AccountBalance - 4910.01,
			Merchant:     "Whole Foods Market", Category: "Food",
		},
		{
			TransactionID: "TXN-20260130-078", CustomerID: c.ID,
			Date: "2026-01-30", Time: "07:55:31", Type: "debit",
			Description: "Monthly Transit Pass", Amount: -98.00,
			BalanceAfter: c.AccountBalance - 4775.49,
			Merchant:     "Metro Transit", Category: "Transport",
		},
	}
}
