package risk

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresStore persists risk assessments in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed assessment store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the risk_assessments table if it doesn't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS risk_assessments (
			id              VARCHAR(36) PRIMARY KEY,
			session_id      VARCHAR(64) NOT NULL,
			endpoint        TEXT NOT NULL DEFAULT '',
			identity_risk   SMALLINT NOT NULL CHECK (identity_risk BETWEEN 0 AND 100),
			behavioral_risk SMALLINT NOT NULL CHECK (behavioral_risk BETWEEN 0 AND 100),
			final_risk      SMALLINT NOT NULL CHECK (final_risk BETWEEN 0 AND 100),
			tier            VARCHAR(12) NOT NULL CHECK (tier IN ('real', 'randomized', 'honey')),
			fallback        BOOLEAN NOT NULL DEFAULT FALSE,
			evaluated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_risk_assessments_session
			ON risk_assessments (session_id, evaluated_at DESC);

		CREATE INDEX IF NOT EXISTS idx_risk_assessments_honey
			ON risk_assessments (evaluated_at DESC) WHERE tier = 'honey';
	`)
	return err
}

func (s *PostgresStore) Record(ctx context.Context, assessment *Assessment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO risk_assessments
			(id, session_id, endpoint, identity_risk, behavioral_risk, final_risk, tier, fallback, evaluated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		assessment.ID,
		assessment.SessionID,
		assessment.Endpoint,
		assessment.IdentityRisk,
		assessment.BehavioralRisk,
		assessment.FinalRisk,
		string(assessment.Tier),
		assessment.Fallback,
		assessment.EvaluatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record risk assessment: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBySession(ctx context.Context, sessionID string, limit int) ([]*Assessment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, endpoint, identity_risk, behavioral_risk, final_risk, tier, fallback, evaluated_at
		FROM risk_assessments
		WHERE session_id = $1
		ORDER BY evaluated_at DESC
		LIMIT $2
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list risk assessments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*Assessment
	for rows.Next() {
		var a Assessment
		var tier string
		var evaluatedAt time.Time

		if err := rows.Scan(&a.ID, &a.SessionID, &a.Endpoint, &a.IdentityRisk,
			&a.BehavioralRisk, &a.FinalRisk, &tier, &a.Fallback, &evaluatedAt); err != nil {
			continue
		}
		a.Tier = Tier(tier)
		a.EvaluatedAt = evaluatedAt
		result = append(result, &a)
	}
	return result, nil
}
