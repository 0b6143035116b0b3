package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// CommandDispatchTotal counts dispatch attempts by outcome
	// (accepted, unknown_command, missing_credentials, invalid_parameters, rejected).
	CommandDispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vehicle_dashboard_command_dispatch_total",
			Help: "Total number of command dispatch attempts.",
		},
		[]string{"command", "outcome"},
	)

	CommandDispatchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vehicle_dashboard_command_dispatch_latency_seconds",
			Help:    "Latency of command submissions to the backend.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	// CommandPollOutcomeTotal counts finished poll tasks by final state.
	CommandPollOutcomeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vehicle_dashboard_command_poll_outcome_total",
			Help: "Total number of command poll tasks by final state.",
		},
		[]string{"state"},
	)

	ActivePollTasks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vehicle_dashboard_command_poll_active",
			Help: "Number of command poll tasks currently running.",
		},
	)

	// VehicleStateUpdateTotal counts snapshots handled by the state cache.
	// source: pull/push, result: applied/stale/failed
	VehicleStateUpdateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vehicle_dashboard_vehicle_state_update_total",
			Help: "Total number of vehicle state updates by source and result.",
		},
		[]string{"source", "result"},
	)

	VehicleStateFetchLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vehicle_dashboard_vehicle_state_fetch_latency_seconds",
			Help:    "Latency of vehicle state fetches from the backend.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		CommandDispatchTotal,
		CommandDispatchLatency,
		CommandPollOutcomeTotal,
		ActivePollTasks,
		VehicleStateUpdateTotal,
		VehicleStateFetchLatency,
	)
}
