// Package metrics instruments ray traversal with Prometheus collectors.
package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const outcomeLabel = "outcome"

// Traversal outcomes.
const (
	OutcomeHit  = "hit"
	OutcomeMiss = "miss"
)

// Traversal records ray march results. It is safe for concurrent use.
type Traversal struct {
	rays  *prometheus.CounterVec
	cells prometheus.Histogram
	ids   prometheus.Counter
}

// NewTraversal registers the traversal collectors with reg.
func NewTraversal(reg prometheus.Registerer) *Traversal {
	factory := promauto.With(reg)
	return &Traversal{
		rays: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxel_rays_marched_total",
			Help: "The number of rays marched through the grid.",
		}, []string{
			outcomeLabel,
		}),
		cells: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxel_cells_per_ray",
			Help:    "The number of cells visited by rays that hit the grid.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		ids: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxel_cells_visited_total",
			Help: "The total number of cell visits across all rays.",
		}),
	}
}

// ObserveRay records one traversal that visited n cells.
func (t *Traversal) ObserveRay(n int) {
	if n == 0 {
		t.rays.With(prometheus.Labels{outcomeLabel: OutcomeMiss}).Inc()
		return
	}
	t.rays.With(prometheus.Labels{outcomeLabel: OutcomeHit}).Inc()
	t.cells.Observe(float64(n))
	t.ids.Add(float64(n))
}

// Summary is a flattened view of gathered metric values, keyed by metric
// name plus label pairs, e.g. `voxel_rays_marched_total{outcome="hit"}`.
type Summary map[string]float64

// Keys returns the summary keys in sorted order.
func (s Summary) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Gather collects counters, gauges and histogram sums/counts from g.
func Gather(g prometheus.Gatherer) (Summary, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}

	out := make(Summary)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			if len(m.GetLabel()) > 0 {
				key += "{"
				for i, lp := range m.GetLabel() {
					if i > 0 {
						key += ","
					}
					key += lp.GetName() + `="` + lp.GetValue() + `"`
				}
				key += "}"
			}

			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				out[key+"_count"] = float64(h.GetSampleCount())
				out[key+"_sum"] = h.GetSampleSum()
			}
		}
	}
	return out, nil
}
