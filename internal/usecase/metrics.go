package usecase

import "time"

// Metrics receives engine counters. The prometheus implementation lives in
// internal/observability; services fall back to a no-op recorder.
type Metrics interface {
	BoostDecision(code, outcome string)
	BoostApplied(code string)
	BoostConflict(code string)
	PredictionsWritten(count int)
	PredictionRejected(reason string)
	RoundTransitioned(status string)
	RoundFinalized(leagues int, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) BoostDecision(string, string)      {}
func (nopMetrics) BoostApplied(string)               {}
func (nopMetrics) BoostConflict(string)              {}
func (nopMetrics) PredictionsWritten(int)            {}
func (nopMetrics) PredictionRejected(string)         {}
func (nopMetrics) RoundTransitioned(string)          {}
func (nopMetrics) RoundFinalized(int, time.Duration) {}

func metricsOrNop(m Metrics) Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
