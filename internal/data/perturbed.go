package data

import (
	"context"
	"math"
	"math/rand"
)

// PerturbedSource serves authentic records with the account balance jittered
// by up to ±100, rounded to cents. Medium-risk sessions see data that is
// close enough to be plausible but useless for exact reconciliation.
// Transaction history is passed through unmodified.
type PerturbedSource struct {
	store Store
}

// NewPerturbedSource creates the randomized-tier provider
func NewPerturbedSource(store Store) *PerturbedSource {
	return &PerturbedSource{store: store}
}

func (s *PerturbedSource) Account(ctx context.Context, customerID int64) (*Customer, error) {
	c, err := s.store.CustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	jitter := rand.Float64()*200 - 100
	c.AccountBalance = math.Round((c.AccountBalance+jitter)*100) / 100

	return c, nil
}

func (s *PerturbedSource) Transactions(ctx context.Context, customerID int64, limit int) ([]Transaction, error) {
	return s.store.TransactionsByCustomer(ctx, customerID, limit)
}
