package risk

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/honeyguard/honeyguard/internal/idgen"
	"github.com/honeyguard/honeyguard/internal/metrics"
	"github.com/honeyguard/honeyguard/internal/session"
)

// SessionSource is the slice of the session store the engine needs.
type SessionSource interface {
	Get(sessionID string) (session.Snapshot, bool)
}

// Weights controls how identity and behavioral risk combine into the final
// score. Both must be positive and sum to 1.
type Weights struct {
	Identity   float64
	Behavioral float64
}

// DefaultWeights returns the reference 60/40 split.
func DefaultWeights() Weights {
	return Weights{Identity: DefaultIdentityWeight, Behavioral: DefaultBehavioralWeight}
}

// Thresholds are the tier band boundaries: [0, Real) serves real data,
// [Real, Honey) randomized, [Honey, 100] honey.
type Thresholds struct {
	Real  int
	Honey int
}

// DefaultThresholds returns the reference 35/70 bands.
func DefaultThresholds() Thresholds {
	return Thresholds{Real: DefaultRealThreshold, Honey: DefaultHoneyThreshold}
}

// Engine evaluates data requests: behavioral features in, tier decision out.
type Engine struct {
	sessions   SessionSource
	identity   IdentityScorer
	behavioral BehavioralScorer
	store      Store
	weights    Weights
	thresholds Thresholds
	logger     *slog.Logger
}

// NewEngine creates a risk engine with the reference scorers and policy.
func NewEngine(sessions SessionSource, store Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		sessions:   sessions,
		identity:   NewIdentityScorer(),
		behavioral: NewBehavioralScorer(),
		store:      store,
		weights:    DefaultWeights(),
		thresholds: DefaultThresholds(),
		logger:     logger,
	}
}

// WithWeights overrides the combiner weights.
func (e *Engine) WithWeights(w Weights) *Engine {
	e.weights = w
	return e
}

// WithThresholds overrides the tier band boundaries.
func (e *Engine) WithThresholds(t Thresholds) *Engine {
	e.thresholds = t
	return e
}

// WithIdentityScorer swaps in a custom identity scoring strategy.
func (e *Engine) WithIdentityScorer(s IdentityScorer) *Engine {
	e.identity = s
	return e
}

// WithBehavioralScorer swaps in a custom behavioral scoring strategy
// (e.g. a model-backed anomaly detector).
func (e *Engine) WithBehavioralScorer(s BehavioralScorer) *Engine {
	e.behavioral = s
	return e
}

// ScoreLogin computes the one-time identity risk for a login.
func (e *Engine) ScoreLogin(sig LoginSignals) int {
	return clamp(e.identity.ScoreIdentity(sig))
}

// Evaluate scores one data request against the session's current behavior
// and returns the routing assessment. Pure in-memory computation; the audit
// record is persisted asynchronously, best-effort.
//
// A session that vanishes between the caller's existence check and this
// read degrades to the neutral default score. That path is anomalous in a
// correctly synchronized deployment and is flagged in the assessment, the
// logs, and a dedicated counter so repeated occurrences can alert.
func (e *Engine) Evaluate(ctx context.Context, sessionID, endpoint string) *Assessment {
	now := time.Now()

	a := &Assessment{
		ID:          idgen.WithPrefix("risk_"),
		SessionID:   sessionID,
		Endpoint:    endpoint,
		EvaluatedAt: now,
	}

	snap, ok := e.sessions.Get(sessionID)
	if !ok {
		e.logger.Warn("session vanished during risk evaluation, using neutral default",
			"session_id", sessionID,
			"endpoint", endpoint,
		)
		metrics.RiskFallbacksTotal.Inc()
		a.IdentityRisk = NeutralRisk
		a.BehavioralRisk = NeutralRisk
		a.FinalRisk = NeutralRisk
		a.Fallback = true
	} else {
		fv := session.ExtractFeatures(snap, now)
		a.IdentityRisk = clamp(snap.IdentityRisk)
		a.BehavioralRisk = clamp(e.behavioral.ScoreBehavior(&fv))
		a.FinalRisk = e.Combine(a.IdentityRisk, a.BehavioralRisk)
	}

	a.Tier = e.DetermineTier(a.FinalRisk)

	metrics.FinalRiskScore.Observe(float64(a.FinalRisk))
	metrics.TierDecisionsTotal.WithLabelValues(string(a.Tier)).Inc()

	// Persist asynchronously (best-effort audit trail)
	if e.store != nil {
		go func() {
			_ = e.store.Record(context.Background(), a)
		}()
	}

	return a
}

// Combine merges identity and behavioral risk into the final score:
// floor(identity*wI + behavioral*wB), clamped to [0, 100].
func (e *Engine) Combine(identityRisk, behavioralRisk int) int {
	weighted := float64(clamp(identityRisk))*e.weights.Identity +
		float64(clamp(behavioralRisk))*e.weights.Behavioral
	return clamp(int(math.Floor(weighted)))
}

// DetermineTier maps a final score to a data tier. Total and deterministic
// over [0, 100]: bands are inclusive-low/exclusive-high, top band closed.
func (e *Engine) DetermineTier(score int) Tier {
	switch {
	case score < e.thresholds.Real:
		return TierReal
	case score < e.thresholds.Honey:
		return TierRandomized
	default:
		return TierHoney
	}
}
