// Package metrics defines the Prometheus collectors exported by the API.
//
// All collectors are registered with the default registry on package load
// and served by promhttp at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booklist"

// HTTPRequestsTotal counts finished requests.
// Labels: route (mux pattern or "unmatched"), method, status.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"route", "method", "status"},
)

// HTTPRequestDuration observes request latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

// AuthFailuresTotal counts rejected passcodes and credentials.
// Label reason: bad_passcode, missing_bearer, expired, invalid.
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of authentication failures by reason.",
	},
	[]string{"reason"},
)

// TokensIssuedTotal counts credentials handed out.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of session tokens issued.",
	},
)

// RateLimitedTotal counts requests rejected with 429.
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
	[]string{"route"},
)

// BookMutationsTotal counts add/delete attempts.
// Labels: op (add, delete), outcome (ok, conflict, not_found, error).
var BookMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "book_mutations_total",
		Help:      "Total number of book add/delete operations by outcome.",
	},
	[]string{"op", "outcome"},
)

// CatalogLookupsTotal counts upstream catalog searches.
// Label outcome: ok, error.
var CatalogLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_lookups_total",
		Help:      "Total number of Open Library catalog searches by outcome.",
	},
	[]string{"outcome"},
)
