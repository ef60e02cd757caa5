package metrics

import "time"

// RankingObserved records one ranking pass for a listing surface.
func RankingObserved(surface string, candidates int, duration time.Duration) {
	RankingCandidates.WithLabelValues(surface).Observe(float64(candidates))
	RankingDuration.WithLabelValues(surface).Observe(duration.Seconds())
}

// QuotaDenied records a refused create attempt.
func QuotaDenied(resource string) {
	QuotaDenialsTotal.WithLabelValues(resource).Inc()
}

// QuotaDeactivated records items taken out of circulation by enforcement.
func QuotaDeactivated(resource string, n int) {
	if n > 0 {
		QuotaDeactivationsTotal.WithLabelValues(resource).Add(float64(n))
	}
}
