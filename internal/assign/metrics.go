package assign

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeReused   = "reused"
	outcomeRotation = "rotation"
	outcomeDirect   = "direct"
	outcomeChosen   = "chosen"

	reasonNoCandidate    = "no_candidate"
	reasonValidation     = "validation_fault"
	reasonIllegalType    = "illegal_type"
	reasonTargetNotFound = "target_not_found"
	reasonInternal       = "internal"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "assigner_requests_total",
	Help: "number of moderation requests served, by target type and outcome",
}, []string{"type", "outcome"})

var failuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "assigner_failures_total",
	Help: "number of moderation requests that failed, by reason",
}, []string{"reason"})

var resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "assigner_resolutions_total",
	Help: "number of resolved assignments, by target type and decision",
}, []string{"type", "status"})

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "assigner_request_duration_seconds",
	Help:    "duration of moderation requests",
	Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
}, []string{"type"})
