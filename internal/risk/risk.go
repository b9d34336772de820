// Package risk implements per-request risk scoring and data-tier routing.
//
// Every data request is evaluated against two signals: a one-time identity
// score computed at login (email, name, user agent, account age) and a
// behavioral score recomputed from the session's request pattern. The
// weighted combination maps to one of three data tiers (authentic,
// lightly perturbed, or fully synthetic decoy data) so that suspected
// automated clients are quietly fed fakes instead of being blocked.
package risk

import (
	"context"
	"time"
)

// Tier identifies which data-provider collaborator answers a request.
type Tier string

const (
	TierReal       Tier = "real"
	TierRandomized Tier = "randomized"
	TierHoney      Tier = "honey"
)

// Default policy constants. Thresholds and weights are tunable via the
// engine configuration; these are the reference values.
const (
	DefaultRealThreshold  = 35
	DefaultHoneyThreshold = 70

	DefaultIdentityWeight   = 0.6
	DefaultBehavioralWeight = 0.4

	// NeutralRisk is the defensive fallback score used when a session
	// vanishes between the existence check and evaluation.
	NeutralRisk = 50
)

// Assessment is the result of evaluating a single data request.
type Assessment struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"sessionId"`
	Endpoint       string    `json:"endpoint"`
	IdentityRisk   int       `json:"identityRisk"`
	BehavioralRisk int       `json:"behavioralRisk"`
	FinalRisk      int       `json:"finalRisk"`
	Tier           Tier      `json:"tier"`
	Fallback       bool      `json:"fallback,omitempty"` // neutral-default path, not a genuine score
	EvaluatedAt    time.Time `json:"evaluatedAt"`
}

// Store persists assessments for the audit trail.
type Store interface {
	Record(ctx context.Context, assessment *Assessment) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*Assessment, error)
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
