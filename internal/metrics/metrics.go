// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics holds the Prometheus counters of a resolution run. The
// CLI writes them to a node-exporter textfile after each batch.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pdiddy/codefinder/pkg/types"
)

var (
	// requestsTotal counts GitHub API calls by endpoint and outcome.
	// Labels: endpoint (search, repo, readme), status (ok, empty, not_found, rate_limited, failed)
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codefinder",
		Subsystem: "github",
		Name:      "requests_total",
		Help:      "GitHub API calls by endpoint and outcome",
	}, []string{"endpoint", "status"})

	// queriesTotal counts cascade queries by strategy and result.
	// Labels: strategy, result (accepted, below_threshold, rejected, no_results)
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codefinder",
		Subsystem: "cascade",
		Name:      "queries_total",
		Help:      "Search queries issued by the cascade, by strategy and result",
	}, []string{"strategy", "result"})

	// topScore observes the best candidate score of each ranked query.
	topScore = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "codefinder",
		Subsystem: "ranker",
		Name:      "top_score",
		Help:      "Score of the best candidate per ranked query",
		Buckets:   []float64{0, 5, 8, 10, 12, 15, 18, 25, 35, 50},
	}, []string{"strategy"})

	// assignmentsTotal counts per-paper outcomes before reconciliation.
	// Labels: result (matched, unmatched)
	assignmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codefinder",
		Subsystem: "resolver",
		Name:      "assignments_total",
		Help:      "Per-paper resolution outcomes",
	}, []string{"result"})

	// clearedTotal counts assignments cleared after resolution.
	// Labels: reason (conflict, blacklist, generic, low_overlap, model_name)
	clearedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codefinder",
		Subsystem: "reconcile",
		Name:      "cleared_total",
		Help:      "Assignments cleared by conflict resolution or audit",
	}, []string{"reason"})
)

// RecordRequest records one GitHub API call.
func RecordRequest(endpoint string, status types.FetchStatus) {
	requestsTotal.WithLabelValues(endpoint, string(status)).Inc()
}

// RecordQuery records the result of one cascade query.
func RecordQuery(strategy types.SearchStrategy, result string) {
	queriesTotal.WithLabelValues(string(strategy), result).Inc()
}

// ObserveTopScore records the best score seen for a query.
func ObserveTopScore(strategy types.SearchStrategy, score float64) {
	topScore.WithLabelValues(string(strategy)).Observe(score)
}

// RecordAssignment records whether a paper resolved to a repository.
func RecordAssignment(matched bool) {
	result := "unmatched"
	if matched {
		result = "matched"
	}
	assignmentsTotal.WithLabelValues(result).Inc()
}

// RecordCleared records an assignment cleared for reason.
func RecordCleared(reason string) {
	clearedTotal.WithLabelValues(reason).Inc()
}

// WriteTextfile writes all registered metrics to path in the text
// exposition format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
