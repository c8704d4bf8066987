// README: Prometheus metrics for poll cycles, transitions, and the journal.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PollCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ridepool", Name: "poll_cycles_total",
		Help: "Completed status reconciliation cycles"})
	PollFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ridepool", Name: "poll_failures_total",
		Help: "Reconciliation cycles skipped due to gateway failure"})
	TransitionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ridepool", Name: "transitions_total",
		Help: "Status transition events emitted by the reconciler"})
	EnrichFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ridepool", Name: "enrich_failures_total",
		Help: "Price lookups that failed during enrichment"})
	UndeliveredNotifications = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ridepool", Name: "undelivered_notifications",
		Help: "Journal records not yet acknowledged by the UI"})
)
