// Package metrics exposes per-round counters as Prometheus collectors. The
// batch tools have no scrape endpoint; the registry is written to a textfile
// for node_exporter's textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"chaincomp/internal/engine"
)

const namespace = "chaincomp"

type Metrics struct {
	reg *prometheus.Registry

	Rounds       *prometheus.CounterVec // by outcome: merged, stalled, fixpoint
	Nodes        prometheus.Gauge
	Claims       prometheus.Counter
	Compressible prometheus.Counter
	Promoted     prometheus.Counter
	LinkUpdates  prometheus.Counter
	Merges       prometheus.Counter
	Retries      prometheus.Counter
	Failures     *prometheus.CounterVec // by reason
	RoundSeconds prometheus.Histogram
}

// New builds the collectors on a private registry labelled with runID.
func New(runID string) *Metrics {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"run_id": runID}
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		Rounds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "rounds_total", ConstLabels: labels,
			Help: "Committed rounds by outcome.",
		}, []string{"outcome"}),
		Nodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "nodes", ConstLabels: labels,
			Help: "Nodes in the last committed snapshot.",
		}),
		Claims: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "claims_total", ConstLabels: labels,
			Help: "Unique-predecessor claims exchanged.",
		}),
		Compressible: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "compressible_strands_total", ConstLabels: labels,
			Help: "Strands found on a compressible link.",
		}),
		Promoted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "promotions_total", ConstLabels: labels,
			Help: "Down nodes promoted by the smallest-id tie-break.",
		}),
		LinkUpdates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "link_updates_total", ConstLabels: labels,
			Help: "Neighbour edges re-pointed before merging.",
		}),
		Merges: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "merges_total", ConstLabels: labels,
			Help: "Merges applied.",
		}),
		Retries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "round_retries_total", ConstLabels: labels,
			Help: "Round attempts retried after a transient error.",
		}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "failures_total", ConstLabels: labels,
			Help: "Job failures by reason.",
		}, []string{"reason"}),
		RoundSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "round_duration_seconds", ConstLabels: labels,
			Help:    "Wall time of one round, excluding the commit.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// ObserveRound folds one round's stats into the collectors.
func (m *Metrics) ObserveRound(st engine.Stats) {
	outcome := "merged"
	switch {
	case st.Fixpoint():
		outcome = "fixpoint"
	case st.Merges == 0:
		outcome = "stalled"
	}
	m.Rounds.WithLabelValues(outcome).Inc()
	m.Nodes.Set(float64(st.NodesOut))
	m.Claims.Add(float64(st.Claims))
	m.Compressible.Add(float64(st.Compressible))
	m.Promoted.Add(float64(st.Promoted))
	m.LinkUpdates.Add(float64(st.LinkUpdates))
	m.Merges.Add(float64(st.Merges))
	m.RoundSeconds.Observe(st.Duration.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// WriteFile writes the registry atomically in the text exposition format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
