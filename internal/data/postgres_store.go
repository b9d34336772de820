package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore serves authentic customer records from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed customer store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the customer tables if they don't exist.
// Seeding demo data is handled by cmd/migrate.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS customers (
			id                 BIGINT PRIMARY KEY,
			name               TEXT NOT NULL,
			email              TEXT NOT NULL,
			phone              TEXT NOT NULL DEFAULT '',
			ssn                TEXT NOT NULL DEFAULT '',
			account_balance    NUMERIC(14,2) NOT NULL DEFAULT 0,
			credit_score       SMALLINT NOT NULL DEFAULT 0,
			address            TEXT NOT NULL DEFAULT '',
			date_of_birth      TEXT NOT NULL DEFAULT '',
			account_created    TEXT NOT NULL DEFAULT '',
			last_login         TEXT NOT NULL DEFAULT '',
			account_type       TEXT NOT NULL DEFAULT '',
			status             TEXT NOT NULL DEFAULT 'Active',
			transaction_count  INTEGER NOT NULL DEFAULT 0,
			avg_monthly_spend  NUMERIC(14,2) NOT NULL DEFAULT 0,
			kyc_verified       BOOLEAN NOT NULL DEFAULT FALSE,
			risk_category      TEXT NOT NULL DEFAULT '',
			contact_preference TEXT NOT NULL DEFAULT '',
			timezone           TEXT NOT NULL DEFAULT '',
			two_factor_enabled BOOLEAN NOT NULL DEFAULT FALSE
		);

		CREATE TABLE IF NOT EXISTS transactions (
			transaction_id TEXT PRIMARY KEY,
			customer_id    BIGINT NOT NULL REFERENCES customers(id),
			date           TEXT NOT NULL,
			time           TEXT NOT NULL,
			type           TEXT NOT NULL CHECK (type IN ('debit', 'credit')),
			description    TEXT NOT NULL DEFAULT '',
			amount         NUMERIC(14,2) NOT NULL,
			balance_after  NUMERIC(14,2) NOT NULL,
			merchant       TEXT NOT NULL DEFAULT '',
			category       TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_transactions_customer
			ON transactions (customer_id, date DESC, time DESC);
	`)
	return err
}

func (s *PostgresStore) CustomerByID(ctx context.Context, customerID int64) (*Customer, error) {
	var c Customer
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, ssn, account_balance, credit_score,
		       address, date_of_birth, account_created, last_login,
		       account_type, status, transaction_count, avg_monthly_spend,
		       kyc_verified, risk_category, contact_preference, timezone,
		       two_factor_enabled
		FROM customers
		WHERE id = $1
	`, customerID).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.SSN, &c.AccountBalance,
		&c.CreditScore, &c.Address, &c.DateOfBirth, &c.AccountCreated,
		&c.LastLogin, &c.AccountType, &c.Status, &c.TransactionCount,
		&c.AvgMonthlySpend, &c.KYCVerified, &c.RiskCategory,
		&c.ContactPreference, &c.Timezone, &c.TwoFactorEnabled,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) TransactionsByCustomer(ctx context.Context, customerID int64, limit int) ([]Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, customer_id, date, time, type, description,
		       amount, balance_after, merchant, category
		FROM transactions
		WHERE customer_id = $1
		ORDER BY date DESC, time DESC
		LIMIT $2
	`, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.TransactionID, &t.CustomerID, &t.Date, &t.Time,
			&t.Type, &t.Description, &t.Amount, &t.BalanceAfter,
			&t.Merchant, &t.Category); err != nil {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}
