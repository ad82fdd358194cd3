// Package metrics defines the Prometheus collectors for the authorization
// domain. HTTP-level metrics live in the middleware package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Role metrics
var (
	// RoleOperationsTotal tracks role operations by operation and outcome.
	// Outcome is "success" or the domain status code returned to the client.
	RoleOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "role_operations_total",
			Help: "Total number of role operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// RolesTotal tracks the current number of roles.
	RolesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "roles_total",
			Help: "Current number of roles",
		},
	)

	// RoleCacheHitsTotal tracks role detail cache hits.
	RoleCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "role_cache_hits_total",
			Help: "Total number of role detail cache hits",
		},
	)

	// RoleCacheMissesTotal tracks role detail cache misses.
	RoleCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "role_cache_misses_total",
			Help: "Total number of role detail cache misses",
		},
	)
)

// Seed metrics
var (
	// SeedRolesCreatedTotal tracks baseline roles inserted by the seed step.
	SeedRolesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seed_roles_created_total",
			Help: "Total number of baseline roles created by the seed step",
		},
	)
)
