// Package metrics exposes the counters the repositories report to.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"

	OutcomeCommitted = "committed"
	OutcomeAborted   = "aborted"
)

// Recorder groups the repository counters. A nil *Recorder is valid and records nothing.
type Recorder struct {
	cacheRequests *prometheus.CounterVec
	transactions  *prometheus.CounterVec
}

// NewRecorder creates the counters and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "suggestions_cache_requests_total",
			Help: "Cache lookups made by the repositories, by cache and result.",
		}, []string{"cache", "result"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "suggestions_transactions_total",
			Help: "Multi-document transactions, by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}
	for _, c := range []prometheus.Collector{r.cacheRequests, r.transactions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// CacheLookup records one cache lookup for the named cache.
func (r *Recorder) CacheLookup(cache, result string) {
	if r == nil {
		return
	}
	r.cacheRequests.WithLabelValues(cache, result).Inc()
}

// Transaction records the outcome of one transactional operation.
func (r *Recorder) Transaction(operation string, err error) {
	if r == nil {
		return
	}
	outcome := OutcomeCommitted
	if err != nil {
		outcome = OutcomeAborted
	}
	r.transactions.WithLabelValues(operation, outcome).Inc()
}
