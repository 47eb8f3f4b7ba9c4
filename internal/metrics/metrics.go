// Package metrics exports run results as Prometheus metrics.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sunit/internal/domain"
	"sunit/internal/execution"
)

const namespace = "sunit"

// Collector is a run listener recording Prometheus metrics on its own registry.
type Collector struct {
	execution.NopListener

	registry *prometheus.Registry

	TestsTotal       *prometheus.CounterVec
	CasesTotal       *prometheus.CounterVec
	TestDuration     *prometheus.HistogramVec
	SuitesAborted    *prometheus.CounterVec
	TeardownFailures *prometheus.CounterVec
	LastRunSuccess   prometheus.Gauge
	LastRunDuration  prometheus.Gauge
	LastRunTimestamp prometheus.Gauge

	now func() time.Time
}

// NewCollector creates a Collector with all metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		TestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tests_total",
				Help:      "Total number of tests run, by suite and result",
			},
			[]string{"suite", "result"},
		),
		CasesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cases_total",
				Help:      "Total number of parameterized cases run, by suite and result",
			},
			[]string{"suite", "result"},
		),
		TestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "test_duration_seconds",
				Help:      "Test duration in seconds, setup and teardown included",
				Buckets:   []float64{.0001, .001, .005, .01, .05, .1, .5, 1, 5, 10},
			},
			[]string{"suite"},
		),
		SuitesAborted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "suites_aborted_total",
				Help:      "Suites that ran no test because construction or one-time setup failed",
			},
			[]string{"suite", "phase"},
		),
		TeardownFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "teardown_failures_total",
				Help:      "Failed one-time teardowns",
			},
			[]string{"suite"},
		),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run passed, 0 otherwise",
		}),
		LastRunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Duration of the last run in seconds",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
		now: time.Now,
	}
	c.registry.MustRegister(
		c.TestsTotal, c.CasesTotal, c.TestDuration, c.SuitesAborted, c.TeardownFailures,
		c.LastRunSuccess, c.LastRunDuration, c.LastRunTimestamp,
	)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// TestFinished records one test.
func (c *Collector) TestFinished(rec domain.ResultRecord) {
	c.TestsTotal.WithLabelValues(rec.Suite, result(!rec.Failed())).Inc()
	c.TestDuration.WithLabelValues(rec.Suite).Observe(rec.Duration.Seconds())
	if rec.Mode == domain.Parameterized {
		c.CasesTotal.WithLabelValues(rec.Suite, result(true)).Add(float64(rec.Successes))
		c.CasesTotal.WithLabelValues(rec.Suite, result(false)).Add(float64(rec.Total - rec.Successes))
	}
}

// SuiteAborted records an aborted suite.
func (c *Collector) SuiteAborted(err *execution.SuiteFatalError) {
	c.SuitesAborted.WithLabelValues(err.Suite, string(err.Phase)).Inc()
}

// TeardownFailed records a failed one-time teardown.
func (c *Collector) TeardownFailed(suite string, _ domain.TestFailure) {
	c.TeardownFailures.WithLabelValues(suite).Inc()
}

// RunFinished records the run verdict.
func (c *Collector) RunFinished(summary domain.Summary) {
	if summary.Passed() {
		c.LastRunSuccess.Set(1)
	} else {
		c.LastRunSuccess.Set(0)
	}
	c.LastRunDuration.Set(summary.Duration.Seconds())
	c.LastRunTimestamp.Set(float64(c.now().Unix()))
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func result(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}
