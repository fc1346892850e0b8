// Package metrics counts generation work in a dedicated Prometheus
// registry. pkgen writes it as a node-exporter textfile after each pass.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/generator"
)

const namespace = "pkgen"

// Collector implements generator.Observer.
type Collector struct {
	reg *prometheus.Registry

	candidates  *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	documents   *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	passes      prometheus.Counter
	passSeconds prometheus.Histogram
	lastDocs    prometheus.Gauge
	lastErrors  prometheus.Gauge
}

var _ generator.Observer = (*Collector)(nil)

// New registers the collectors in a fresh registry
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Collector{
		reg: reg,
		candidates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "candidates_total",
				Help:      "Candidates processed, by pattern and result source",
			},
			[]string{"pattern", "source"},
		),
		diagnostics: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagnostics_total",
				Help:      "Diagnostics reported by candidates, by rule and severity",
			},
			[]string{"id", "severity"},
		),
		documents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_total",
				Help:      "Documents produced, by pattern",
			},
			[]string{"pattern"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "candidate_duration_seconds",
				Help:      "Time spent on one candidate",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"pattern"},
		),
		passes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "Generation passes run",
		}),
		passSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of a whole pass",
		}),
		lastDocs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_pass_documents",
			Help:      "Documents produced by the most recent pass",
		}),
		lastErrors: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_pass_errors",
			Help:      "Errors reported by the most recent pass",
		}),
	}
}

// Registry exposes the registry, e.g. for tests or an HTTP handler
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

func (c *Collector) CandidateDone(cr *generator.CandidateResult, elapsed time.Duration) {
	c.candidates.WithLabelValues(cr.Pattern, string(cr.Source)).Inc()
	c.documents.WithLabelValues(cr.Pattern).Add(float64(len(cr.Documents)))
	for _, d := range cr.Diagnostics {
		c.diagnostics.WithLabelValues(d.ID, d.Severity.String()).Inc()
	}
	// reused results cost nothing worth timing
	if cr.Source == generator.Generated {
		c.duration.WithLabelValues(cr.Pattern).Observe(elapsed.Seconds())
	}
}

func (c *Collector) PassDone(r *generator.Result, elapsed time.Duration) {
	c.passes.Inc()
	c.passSeconds.Observe(elapsed.Seconds())
	c.lastDocs.Set(float64(len(r.Documents)))
	errs, _ := diag.Count(r.Diagnostics)
	c.lastErrors.Set(float64(errs))
}

// WriteTextfile writes the registry in the text exposition format
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.reg); err != nil {
		return errors.Wrapf(err, "write metrics to %s", path)
	}
	return nil
}
