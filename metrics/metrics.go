//----------------------------------------------------------------------
// This file is part of uavnetsim.
// Copyright (C) 2022 Bernd Fix >Y<
//
// uavnetsim is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// uavnetsim is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

// Package metrics collects the counters and time-series samples a run
// produces, both for in-process inspection (experiment CSV emission,
// property tests) and for export over Prometheus.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"uavnetsim/engine"
)

// DropCause names why a packet did not reach its destination.
type DropCause int

const (
	DropQueue DropCause = iota
	DropTTL
	DropRetry
	DropChannel
)

func (c DropCause) String() string {
	switch c {
	case DropQueue:
		return "queue"
	case DropTTL:
		return "ttl"
	case DropRetry:
		return "retry"
	case DropChannel:
		return "channel"
	default:
		return "unknown"
	}
}

// LatencySample is one delivered packet's end-to-end latency record.
type LatencySample struct {
	At      engine.Time
	Latency engine.Duration
}

// PDRSample is a (time, PDR) snapshot.
type PDRSample struct {
	At  engine.Time
	PDR float64
}

// EnergySample is a (time, residual joules) snapshot. It does not
// record which node the residual belongs to.
type EnergySample struct {
	At       engine.Time
	Residual float64
}

// Collector aggregates metrics for one simulation run. Its state is
// guarded by a mutex, so it may be read from a goroutine other than
// the single cooperative simulation thread that writes it.
type Collector struct {
	mu sync.RWMutex

	generated   int
	delivered   int
	dropped     map[DropCause]int
	collisions  int
	controlSent int

	latency []LatencySample
	pdr     []PDRSample
	energy  []EnergySample

	deliveredPayloadBits int64

	promGenerated   prometheus.Counter
	promDelivered   prometheus.Counter
	promDropped     *prometheus.CounterVec
	promCollisions  prometheus.Counter
	promControlSent prometheus.Counter
}

// New returns an empty collector. Prometheus counters are registered
// against reg so a caller can mount multiple independent collectors
// (e.g. one per experiment run) without metric name collisions.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		dropped: make(map[DropCause]int),
		promGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uavnetsim_packets_generated_total",
			Help: "Data packets generated by traffic generators.",
		}),
		promDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uavnetsim_packets_delivered_total",
			Help: "Data packets delivered to their destination.",
		}),
		promDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uavnetsim_packets_dropped_total",
			Help: "Data packets dropped, by cause.",
		}, []string{"cause"}),
		promCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uavnetsim_collisions_total",
			Help: "Channel-token contention events resolved by backoff.",
		}),
		promControlSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uavnetsim_control_packets_total",
			Help: "Routing and MAC control packets sent.",
		}),
	}
	if reg != nil {
		reg.MustRegister(c.promGenerated, c.promDelivered, c.promDropped, c.promCollisions, c.promControlSent)
	}
	return c
}

// Generated records one newly-generated data packet.
func (c *Collector) Generated() {
	c.mu.Lock()
	c.generated++
	c.mu.Unlock()
	c.promGenerated.Inc()
}

// Delivered records one successfully delivered data packet, at now,
// having been created at createdAt and carrying payloadBits.
func (c *Collector) Delivered(now, createdAt engine.Time, payloadBits int) {
	c.mu.Lock()
	c.delivered++
	c.deliveredPayloadBits += int64(payloadBits)
	c.latency = append(c.latency, LatencySample{At: now, Latency: engine.Duration(now - createdAt)})
	c.mu.Unlock()
	c.promDelivered.Inc()
}

// Dropped records one dropped data packet, by cause.
func (c *Collector) Dropped(cause DropCause) {
	c.mu.Lock()
	c.dropped[cause]++
	c.mu.Unlock()
	c.promDropped.WithLabelValues(cause.String()).Inc()
}

// Collision records one channel-token contention event.
func (c *Collector) Collision() {
	c.mu.Lock()
	c.collisions++
	c.mu.Unlock()
	c.promCollisions.Inc()
}

// ControlSent records one routing/MAC control packet transmission.
func (c *Collector) ControlSent() {
	c.mu.Lock()
	c.controlSent++
	c.mu.Unlock()
	c.promControlSent.Inc()
}

// SamplePDR appends a (time, PDR-so-far) snapshot.
func (c *Collector) SamplePDR(at engine.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pdr := 0.0
	if c.generated > 0 {
		pdr = float64(c.delivered) / float64(c.generated)
	}
	c.pdr = append(c.pdr, PDRSample{At: at, PDR: pdr})
}

// SampleEnergy appends a residual-energy snapshot.
func (c *Collector) SampleEnergy(at engine.Time, residual float64) {
	c.mu.Lock()
	c.energy = append(c.energy, EnergySample{At: at, Residual: residual})
	c.mu.Unlock()
}

// Snapshot is a read-only, concurrency-safe copy of a collector's
// current totals, for the visualizer and experiment driver.
type Snapshot struct {
	Generated            int
	Delivered            int
	Dropped              map[DropCause]int
	Collisions           int
	ControlSent          int
	DeliveredPayloadBits int64
	PDR                  float64
	Latency              []LatencySample
	PDRSeries            []PDRSample
	Energy               []EnergySample
}

// Snapshot copies out the collector's current state.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dropped := make(map[DropCause]int, len(c.dropped))
	for k, v := range c.dropped {
		dropped[k] = v
	}
	pdr := 0.0
	if c.generated > 0 {
		pdr = float64(c.delivered) / float64(c.generated)
	}
	return Snapshot{
		Generated:            c.generated,
		Delivered:            c.delivered,
		Dropped:              dropped,
		Collisions:           c.collisions,
		ControlSent:          c.controlSent,
		DeliveredPayloadBits: c.deliveredPayloadBits,
		PDR:                  pdr,
		Latency:              append([]LatencySample(nil), c.latency...),
		PDRSeries:            append([]PDRSample(nil), c.pdr...),
		Energy:               append([]EnergySample(nil), c.energy...),
	}
}

// Throughput returns delivered payload bits per elapsed second over
// elapsed (virtual-time duration of the run).
func (s Snapshot) Throughput(elapsed engine.Duration) float64 {
	seconds := float64(elapsed) / float64(engine.Second)
	if seconds <= 0 {
		return 0
	}
	return float64(s.DeliveredPayloadBits) / seconds
}
