package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var alertsEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "assigner_alerts_enqueued_total",
	Help: "number of alerts written to the queue, by kind",
}, []string{"kind"})

var alertsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "assigner_alerts_delivered_total",
	Help: "number of alerts delivered, by kind",
}, []string{"kind"})

var alertsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "assigner_alerts_failed_total",
	Help: "number of alerts that exhausted their delivery attempts, by kind",
}, []string{"kind"})
