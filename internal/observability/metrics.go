// README: Prometheus metrics for assignment, lifecycle and HTTP activity.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SuggestionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "navette", Name: "suggestions_total",
		Help: "Total suggestion computations",
	})
	AssignmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "navette", Name: "assignments_total",
		Help: "Total committed mission assignments",
	}, []string{"method"})
	AssignmentConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "navette", Name: "assignment_conflicts_total",
		Help: "Assignments rejected by the commit-time conflict guard",
	})
	MissionTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "navette", Name: "mission_transitions_total",
		Help: "Mission lifecycle transitions",
	}, []string{"event"})
	NotifyFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "navette", Name: "notify_failures_total",
		Help: "Notification publishes that failed and were dropped",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "navette", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "navette",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
