// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry is the debug/metrics surface named in spec §4.13's
// ambient stack, adapted from iamvalenciia-kick-game-stream's
// internal/api/observability.go: bounded-cardinality Prometheus gauges and
// counters plus a localhost-only debug mux, rebuilt on go-chi here instead
// of a bare http.ServeMux (see server.go).
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forgehold_tick_duration_seconds",
		Help:    "Time spent running one fixed-timestep room tick.",
		Buckets: []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016},
	})

	broadcastDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forgehold_broadcast_duration_seconds",
		Help:    "Time spent encoding and fanning out one TransformSnapshot round.",
		Buckets: []float64{0.0002, 0.0005, 0.001, 0.002, 0.005},
	})

	playerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forgehold_player_count",
		Help: "Current number of connected players in the room.",
	})

	projectileCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forgehold_projectile_count",
		Help: "Current number of in-flight authoritative projectiles.",
	})

	buildingCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forgehold_building_count",
		Help: "Current number of live building workspaces.",
	})

	itemCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forgehold_item_count",
		Help: "Current number of live world items (consumables and dropped weapons).",
	})

	octreeEntryCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forgehold_octree_entry_count",
		Help: "Current number of static colliders indexed by the room's octree.",
	})

	tickSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forgehold_tick_skipped_total",
		Help: "Ticks skipped by the falling-behind kludge-factor guard.",
	})

	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forgehold_connection_rejected_total",
		Help: "Connections rejected before upgrade.",
	}, []string{"reason"}) // bounded: "ip_limit", "upgrade_error"

	inboundRateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forgehold_inbound_rate_limited_total",
		Help: "Inbound messages dropped by the per-connection opcode-class rate limiter.",
	}, []string{"class"}) // bounded: movement/combat/build/misc

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forgehold_ws_connections_active",
		Help: "Currently active websocket connections.",
	})
)

// Snapshot is a point-in-time reading of the room's scale, gathered once per
// maintenance tick (spec §4.10 "maintenanceTicker... drives... metric gauge
// updates").
type Snapshot struct {
	Players     int
	Projectiles int
	Buildings   int
	Items       int
	OctreeSize  int
}

// ObserveRoomSnapshot writes a Snapshot into the room-scale gauges.
func ObserveRoomSnapshot(s Snapshot) {
	playerCount.Set(float64(s.Players))
	projectileCount.Set(float64(s.Projectiles))
	buildingCount.Set(float64(s.Buildings))
	itemCount.Set(float64(s.Items))
	octreeEntryCount.Set(float64(s.OctreeSize))
}

// ObserveTick records one tick's wall-clock duration.
func ObserveTick(d time.Duration) { tickDuration.Observe(d.Seconds()) }

// ObserveBroadcast records one broadcast round's wall-clock duration.
func ObserveBroadcast(d time.Duration) { broadcastDuration.Observe(d.Seconds()) }

// RecordTickSkipped increments the falling-behind skip counter.
func RecordTickSkipped() { tickSkipped.Inc() }

// RecordConnectionRejected increments the pre-upgrade rejection counter.
// reason must be one of "ip_limit" or "upgrade_error".
func RecordConnectionRejected(reason string) { connectionRejected.WithLabelValues(reason).Inc() }

// RecordInboundRateLimited increments the per-opcode-class throttle counter.
func RecordInboundRateLimited(class string) { inboundRateLimited.WithLabelValues(class).Inc() }

// SetActiveConnections updates the live websocket connection gauge.
func SetActiveConnections(n int) { wsConnectionsActive.Set(float64(n)) }
