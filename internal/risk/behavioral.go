package risk

import "github.com/honeyguard/honeyguard/internal/session"

// BehavioralScorer computes a per-request risk score from a session's
// behavioral feature vector. Implementations must return a value in
// [0, 100] and tolerate a nil vector. This is the seam where a trained
// anomaly detector can replace the reference rule set without touching
// callers.
type BehavioralScorer interface {
	ScoreBehavior(fv *session.FeatureVector) int
}

// Behavioral rule constants.
const (
	// DefaultBehavioralRisk is the conservative score for sessions with no
	// usable features.
	DefaultBehavioralRisk = 20

	pointsVeryHighRate = 40 // > 20 req/min
	pointsHighRate     = 25 // > 10 req/min
	pointsElevatedRate = 10 // > 5 req/min

	pointsBurstySession = 30 // new session, high volume
	pointsSubSecondGaps = 30 // bot-like pacing
	burstMaxDuration    = 2.0
	burstMinRequests    = 10
	subSecondGapSeconds = 1.0
)

// RuleBasedBehavioralScorer is the reference BehavioralScorer.
type RuleBasedBehavioralScorer struct{}

// NewBehavioralScorer creates the reference rule-based behavioral scorer.
func NewBehavioralScorer() *RuleBasedBehavioralScorer {
	return &RuleBasedBehavioralScorer{}
}

// ScoreBehavior applies the rule set to the feature vector and returns a
// score in [0, 100]. A nil vector yields the conservative default.
func (s *RuleBasedBehavioralScorer) ScoreBehavior(fv *session.FeatureVector) int {
	// Absent or empty features: nothing to score yet, return the
	// conservative default rather than failing.
	if fv == nil || fv.TotalRequests == 0 {
		return DefaultBehavioralRisk
	}

	score := 0

	switch {
	case fv.RequestsPerMinute > 20:
		score += pointsVeryHighRate
	case fv.RequestsPerMinute > 10:
		score += pointsHighRate
	case fv.RequestsPerMinute > 5:
		score += pointsElevatedRate
	}

	if fv.SessionDuration < burstMaxDuration && fv.TotalRequests > burstMinRequests {
		score += pointsBurstySession
	}

	// The gap defaults to zero below two requests, so a session's very
	// first data request carries this bonus. Intentional: bots that go
	// straight for data with no pacing history look exactly like this.
	if fv.AvgTimeGap < subSecondGapSeconds {
		score += pointsSubSecondGaps
	}

	return clamp(score)
}
