package session

import (
	"testing"
	"time"
)

func TestExtractFeaturesEmptySession(t *testing.T) {
	now := time.Now()
	snap := Snapshot{CreatedAt: now.Add(-5 * time.Minute)}

	fv := ExtractFeatures(snap, now)

	if fv.RequestsPerMinute != 0 {
		t.Errorf("requests_per_minute = %d, want 0", fv.RequestsPerMinute)
	}
	if fv.AvgTimeGap != 0 {
		t.Errorf("avg_time_gap = %f, want 0", fv.AvgTimeGap)
	}
	if fv.UniqueEndpoints != 0 {
		t.Errorf("unique_endpoints = %d, want 0", fv.UniqueEndpoints)
	}
	if fv.TotalRequests != 0 {
		t.Errorf("total_requests = %d, want 0", fv.TotalRequests)
	}
	if fv.SessionDuration < 4.9 || fv.SessionDuration > 5.1 {
		t.Errorf("session_duration = %f, want ~5", fv.SessionDuration)
	}
}

func TestExtractFeaturesSingleRequest(t *testing.T) {
	now := time.Now()
	snap := Snapshot{
		CreatedAt:     now.Add(-time.Minute),
		Requests:      []time.Time{now.Add(-10 * time.Second)},
		Endpoints:     []string{"/account"},
		TotalRequests: 1,
	}

	fv := ExtractFeatures(snap, now)

	if fv.AvgTimeGap != 0 {
		t.Errorf("avg_time_gap with one request = %f, want 0", fv.AvgTimeGap)
	}
	if fv.RequestsPerMinute != 1 {
		t.Errorf("requests_per_minute = %d, want 1", fv.RequestsPerMinute)
	}
	if fv.UniqueEndpoints != 1 {
		t.Errorf("unique_endpoints = %d, want 1", fv.UniqueEndpoints)
	}
}

func TestExtractFeaturesWindowAndGaps(t *testing.T) {
	now := time.Now()

	// Three requests inside the trailing minute, two well outside it,
	// touching two distinct endpoints.
	snap := Snapshot{
		CreatedAt: now.Add(-10 * time.Minute),
		Requests: []time.Time{
			now.Add(-5 * time.Minute),
			now.Add(-4 * time.Minute),
			now.Add(-30 * time.Second),
			now.Add(-20 * time.Second),
			now.Add(-10 * time.Second),
		},
		Endpoints:     []string{"/account", "/account", "/balance", "/account", "/balance"},
		TotalRequests: 5,
	}

	fv := ExtractFeatures(snap, now)

	if fv.RequestsPerMinute != 3 {
		t.Errorf("requests_per_minute = %d, want 3", fv.RequestsPerMinute)
	}
	if fv.UniqueEndpoints != 2 {
		t.Errorf("unique_endpoints = %d, want 2", fv.UniqueEndpoints)
	}
	if fv.TotalRequests != 5 {
		t.Errorf("total_requests = %d, want 5", fv.TotalRequests)
	}

	// Gaps: 60s, 210s, 10s, 10s → mean 72.5s
	if fv.AvgTimeGap < 72.4 || fv.AvgTimeGap > 72.6 {
		t.Errorf("avg_time_gap = %f, want ~72.5", fv.AvgTimeGap)
	}
}

func TestExtractFeaturesIsPure(t *testing.T) {
	now := time.Now()
	snap := Snapshot{
		CreatedAt: now.Add(-3 * time.Minute),
		Requests: []time.Time{
			now.Add(-90 * time.Second),
			now.Add(-45 * time.Second),
			now.Add(-5 * time.Second),
		},
		Endpoints:     []string{"/account", "/transactions", "/account"},
		TotalRequests: 3,
	}

	first := ExtractFeatures(snap, now)
	second := ExtractFeatures(snap, now)

	if first != second {
		t.Errorf("same snapshot and time produced different vectors: %+v vs %+v", first, second)
	}
}
