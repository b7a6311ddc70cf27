// Package pwmetrics exposes the runtime counters a Pathwinder-embedding
// process would scrape: how decisions resolved, which enumeration producer
// contributed entries, and how large the open-handle registry has grown.
package pwmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/samuelgr/pathwinder/internal/decision"
)

// Collectors groups the metrics a running core instance updates. A nil
// *Collectors is valid and every method on it is a no-op, so callers do not
// need to special-case metrics being disabled.
type Collectors struct {
	instructionsTotal *prometheus.CounterVec
	producerEntries   *prometheus.CounterVec
	openHandles       prometheus.Gauge
}

// NewCollectors builds a fresh set of collectors and registers them against
// reg. Passing prometheus.NewRegistry() keeps Pathwinder's metrics isolated
// from whatever else the embedding process registers globally.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		instructionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pathwinder",
			Name:      "instructions_total",
			Help:      "Decisions rendered, broken down by outcome kind.",
		}, []string{"kind"}),
		producerEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pathwinder",
			Name:      "enumeration_entries_total",
			Help:      "Directory entries emitted by a merged enumeration, broken down by producer.",
		}, []string{"producer"}),
		openHandles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pathwinder",
			Name:      "open_handles",
			Help:      "Number of handles currently tracked in the open-handle registry.",
		}),
	}
	reg.MustRegister(c.instructionsTotal, c.producerEntries, c.openHandles)
	return c
}

// ObserveInstruction records that Decide returned an instruction of the
// given kind.
func (c *Collectors) ObserveInstruction(kind decision.InstructionKind) {
	if c == nil {
		return
	}
	c.instructionsTotal.WithLabelValues(kind.String()).Inc()
}

// ObserveProducerEntry records that one entry was emitted by the named
// producer ("origin", "target" or "insertion") while draining a merged
// enumeration queue.
func (c *Collectors) ObserveProducerEntry(producer string) {
	if c == nil {
		return
	}
	c.producerEntries.WithLabelValues(producer).Inc()
}

// SetOpenHandles sets the open-handle gauge to n.
func (c *Collectors) SetOpenHandles(n int) {
	if c == nil {
		return
	}
	c.openHandles.Set(float64(n))
}
