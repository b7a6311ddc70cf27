package pwmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelgr/pathwinder/internal/decision"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, m := range fam.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestCollectors_ObserveInstruction(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollectors(reg)

	c.ObserveInstruction(decision.KindRedirect)
	c.ObserveInstruction(decision.KindRedirect)
	c.ObserveInstruction(decision.KindPassThrough)

	assert.Equal(t, float64(2), counterValue(t, reg, "pathwinder_instructions_total", "kind", "redirect"))
	assert.Equal(t, float64(1), counterValue(t, reg, "pathwinder_instructions_total", "kind", "pass_through"))
}

func TestCollectors_NilIsNoOp(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.ObserveInstruction(decision.KindRedirect)
		c.ObserveProducerEntry("origin")
		c.SetOpenHandles(3)
	})
}
