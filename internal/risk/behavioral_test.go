package risk

import (
	"testing"

	"github.com/honeyguard/honeyguard/internal/session"
)

func TestBehavioralScoreNilFeatures(t *testing.T) {
	scorer := NewBehavioralScorer()

	if score := scorer.ScoreBehavior(nil); score != DefaultBehavioralRisk {
		t.Errorf("nil features score = %d, want %d", score, DefaultBehavioralRisk)
	}
}

func TestBehavioralScoreEmptySession(t *testing.T) {
	scorer := NewBehavioralScorer()

	fv := &session.FeatureVector{SessionDuration: 0.1}
	if score := scorer.ScoreBehavior(fv); score != DefaultBehavioralRisk {
		t.Errorf("empty session score = %d, want %d", score, DefaultBehavioralRisk)
	}
}

func TestBehavioralScoreRequestRateBands(t *testing.T) {
	scorer := NewBehavioralScorer()

	tests := []struct {
		rpm  int
		want int
	}{
		{3, 0},
		{5, 0},
		{6, 10},
		{10, 10},
		{11, 25},
		{20, 25},
		{21, 40},
		{100, 40},
	}

	for _, tt := range tests {
		fv := &session.FeatureVector{
			RequestsPerMinute: tt.rpm,
			AvgTimeGap:        30, // calm pacing, no other rule fires
			SessionDuration:   60,
			TotalRequests:     5,
		}
		if score := scorer.ScoreBehavior(fv); score != tt.want {
			t.Errorf("rpm=%d score = %d, want %d", tt.rpm, score, tt.want)
		}
	}
}

func TestBehavioralScoreBurstySession(t *testing.T) {
	scorer := NewBehavioralScorer()

	// New session, high volume
	fv := &session.FeatureVector{
		RequestsPerMinute: 4,
		AvgTimeGap:        5,
		SessionDuration:   1.5,
		TotalRequests:     11,
	}
	if score := scorer.ScoreBehavior(fv); score != 30 {
		t.Errorf("bursty session score = %d, want 30", score)
	}

	// Same volume on an older session: nothing fires
	fv.SessionDuration = 30
	if score := scorer.ScoreBehavior(fv); score != 0 {
		t.Errorf("aged session score = %d, want 0", score)
	}
}

func TestBehavioralScoreSubSecondPacing(t *testing.T) {
	scorer := NewBehavioralScorer()

	fv := &session.FeatureVector{
		RequestsPerMinute: 3,
		AvgTimeGap:        0.4,
		SessionDuration:   10,
		TotalRequests:     4,
	}
	if score := scorer.ScoreBehavior(fv); score != 30 {
		t.Errorf("sub-second pacing score = %d, want 30", score)
	}

	// The gap defaults to zero below two requests, so the very first
	// request still carries the pacing bonus.
	fv = &session.FeatureVector{
		RequestsPerMinute: 1,
		AvgTimeGap:        0,
		SessionDuration:   10,
		TotalRequests:     1,
	}
	if score := scorer.ScoreBehavior(fv); score != 30 {
		t.Errorf("single-request score = %d, want 30", score)
	}
}

func TestBehavioralScoreMaxedOut(t *testing.T) {
	scorer := NewBehavioralScorer()

	// 25 req/min on a 1-minute-old session with 15 total requests and
	// half-second pacing: 40 + 30 + 30 = 100.
	fv := &session.FeatureVector{
		RequestsPerMinute: 25,
		AvgTimeGap:        0.5,
		SessionDuration:   1,
		TotalRequests:     15,
	}
	if score := scorer.ScoreBehavior(fv); score != 100 {
		t.Errorf("maxed-out score = %d, want 100", score)
	}
}

func TestBehavioralScoreClamped(t *testing.T) {
	scorer := NewBehavioralScorer()

	inputs := []*session.FeatureVector{
		nil,
		{},
		{RequestsPerMinute: 1000, AvgTimeGap: 0.001, SessionDuration: 0.01, TotalRequests: 5000},
	}
	for _, fv := range inputs {
		if score := scorer.ScoreBehavior(fv); score < 0 || score > 100 {
			t.Errorf("score %d out of [0, 100] for %+v", score, fv)
		}
	}
}
