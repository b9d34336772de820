package session

import "time"

// FeatureVector holds the behavioral signals derived from one session's
// request log. It is recomputed on demand and never stored.
type FeatureVector struct {
	RequestsPerMinute int     `json:"requests_per_minute"`
	AvgTimeGap        float64 `json:"avg_time_gap"`     // seconds between consecutive requests
	SessionDuration   float64 `json:"session_duration"` // minutes since session creation
	UniqueEndpoints   int     `json:"unique_endpoints"`
	TotalRequests     int     `json:"total_requests"`
}

// ExtractFeatures derives the behavioral feature vector from a session
// snapshot at the given instant. Pure: no I/O, no side effects, identical
// inputs yield identical output. A session with no requests yields a zero
// gap and zero rate.
func ExtractFeatures(snap Snapshot, now time.Time) FeatureVector {
	fv := FeatureVector{
		SessionDuration: now.Sub(snap.CreatedAt).Minutes(),
		TotalRequests:   snap.TotalRequests,
	}

	// Requests within the trailing 60-second window.
	windowStart := now.Add(-time.Minute)
	for _, ts := range snap.Requests {
		if ts.After(windowStart) {
			fv.RequestsPerMinute++
		}
	}

	// Mean inter-request gap over the retained log.
	if len(snap.Requests) > 1 {
		var total float64
		for i := 1; i < len(snap.Requests); i++ {
			total += snap.Requests[i].Sub(snap.Requests[i-1]).Seconds()
		}
		fv.AvgTimeGap = total / float64(len(snap.Requests)-1)
	}

	seen := make(map[string]struct{}, len(snap.Endpoints))
	for _, ep := range snap.Endpoints {
		seen[ep] = struct{}{}
	}
	fv.UniqueEndpoints = len(seen)

	return fv
}
