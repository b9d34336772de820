package data

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// DecoySource fabricates plausible customer records for sessions routed to
// the honey tier. Nothing it returns corresponds to a real person; every
// call generates fresh values so a scraper that retries sees an ordinary,
// slightly noisy API rather than a canned response.
type DecoySource struct{}

// NewDecoySource creates the honey-tier provider
func NewDecoySource() *DecoySource {
	return &DecoySource{}
}

var (
	decoyNames = []string{
		"Robert Johnson", "Michael Williams", "David Brown", "James Davis",
	}
	decoyEmails = []string{
		"user12345@tempmail.com",
		"test_account@guerrillamail.com",
		"random4567@10minutemail.com",
	}
	decoyAccountTypes = []string{"Premium Business", "Standard", "Basic"}
	decoyTimezones    = []string{
		"America/New_York", "America/Los_Angeles", "America/Chicago",
	}
	decoyMerchants = []string{
		"Netflix Subscription",
		"Starbucks Coffee",
		"Shell Gas Station",
		"Walmart Supercenter",
		"Target Store",
		"McDonald's",
		"Best Buy Electronics",
	}
	decoyCategories = []string{"Shopping", "Food", "Gas", "Entertainment", "Bills"}
)

// Account returns a fake profile keyed by the requested ID so repeated
// requests for the same customer at least agree on the identifier.
func (s *DecoySource) Account(ctx context.Context, customerID int64) (*Customer, error) {
	return &Customer{
		ID:    customerID,
		Name:  decoyNames[rand.Intn(len(decoyNames))],
		Email: decoyEmails[rand.Intn(len(decoyEmails))],
		Phone: fmt.Sprintf("+1-555-%04d", rand.Intn(9000)+1000),
		SSN: fmt.Sprintf("%03d-%02d-%04d",
			rand.Intn(900)+100, rand.Intn(90)+10, rand.Intn(9000)+1000),
		AccountBalance: roundCents(randFloat(10000, 150000)),
		CreditScore:    rand.Intn(201) + 600,
		Address: fmt.Sprintf("%d Fake St, Decoy City, XX %05d",
			rand.Intn(9900)+100, rand.Intn(90000)+10000),
		DateOfBirth: fmt.Sprintf("%d-%02d-%02d",
			rand.Intn(26)+1970, rand.Intn(12)+1, rand.Intn(28)+1),
		AccountCreated: fmt.Sprintf("%d-%02d-%02d",
			rand.Intn(9)+2015, rand.Intn(12)+1, rand.Intn(28)+1),
		LastLogin:         time.Now().UTC().Format(time.RFC3339),
		AccountType:       decoyAccountTypes[rand.Intn(len(decoyAccountTypes))],
		Status:            "Active",
		TransactionCount:  rand.Intn(2501) + 500,
		AvgMonthlySpend:   roundCents(randFloat(5000, 15000)),
		KYCVerified:       true,
		RiskCategory:      "Low",
		ContactPreference: "email",
		Timezone:          decoyTimezones[rand.Intn(len(decoyTimezones))],
		TwoFactorEnabled:  rand.Intn(2) == 0,
	}, nil
}

// Transactions returns limit fabricated entries, one per day going backward
// from today.
func (s *DecoySource) Transactions(ctx context.Context, customerID int64, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 10
	}

	txns := make([]Transaction, 0, limit)
	for i := 0; i < limit; i++ {
		day := time.Now().AddDate(0, 0, -i)
		txType := "debit"
		if rand.Intn(2) == 0 {
			txType = "credit"
		}
		merchant := decoyMerchants[rand.Intn(len(decoyMerchants))]

		txns = append(txns, Transaction{
			TransactionID: fmt.Sprintf("TXN-FAKE-%05d", rand.Intn(90000)+10000),
			CustomerID:    customerID,
			Date:          day.Format("2006-01-02"),
			Time: fmt.Sprintf("%02d:%02d:%02d",
				rand.Intn(24), rand.Intn(60), rand.Intn(60)),
			Type:         txType,
			Description:  merchant,
			Amount:       roundCents(randFloat(-500, 1000)),
			BalanceAfter: roundCents(randFloat(10000, 150000)),
			Merchant:     merchant,
			Category:     decoyCategories[rand.Intn(len(decoyCategories))],
		})
	}
	return txns, nil
}

func randFloat(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
