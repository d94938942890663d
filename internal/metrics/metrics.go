// Package metrics exposes Prometheus instrumentation for siminfod.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsTotal counts change notifications emitted per kind
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "siminfo_notifications_total",
		Help: "Change notifications emitted, by change kind.",
	}, []string{"kind"})

	// StoreWrites counts accepted persistence writes per table
	StoreWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "siminfo_store_writes_total",
		Help: "Persistence writes issued, by store table.",
	}, []string{"table"})

	// StoreWriteSkips counts writes avoided because the stored value
	// already matched (write-minimization on flash storage)
	StoreWriteSkips = promauto.NewCounter(prometheus.CounterOpts{
		Name: "siminfo_store_write_skips_total",
		Help: "Persistence writes skipped because the stored value was unchanged.",
	})

	// StoreErrors counts failed store operations
	StoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "siminfo_store_errors_total",
		Help: "Failed persistence operations.",
	})

	// ObservationsTotal counts ingested telephony observations per type
	ObservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "siminfo_observations_total",
		Help: "Telephony observations ingested, by observation type.",
	}, []string{"type"})
)
