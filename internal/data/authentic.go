package data

import "context"

// AuthenticSource serves untouched records for low-risk sessions.
type AuthenticSource struct {
	store Store
}

// NewAuthenticSource creates the real-data provider
func NewAuthenticSource(store Store) *AuthenticSource {
	return &AuthenticSource{store: store}
}

func (s *AuthenticSource) Account(ctx context.Context, customerID int64) (*Customer, error) {
	return s.store.CustomerByID(ctx, customerID)
}

func (s *AuthenticSource) Transactions(ctx context.Context, customerID int64, limit int) ([]Transaction, error) {
	return s.store.TransactionsByCustomer(ctx, customerID, limit)
}
