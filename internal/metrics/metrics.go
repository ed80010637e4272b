// Package metrics exposes planner operation counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "semana"

// Collector records engine operations and persistence calls.
type Collector struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	saves      *prometheus.CounterVec
	saveTime   prometheus.Histogram
	pool       prometheus.Gauge
	scheduled  prometheus.Gauge
}

// New creates a collector with its own registry.
// Go runtime and process collectors are registered alongside.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Planner operations by name and result kind.",
		}, []string{"operation", "result"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Snapshot writes by result.",
		}, []string{"result"}),
		saveTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "save_duration_seconds",
			Help:      "Time spent writing a snapshot.",
			Buckets:   prometheus.DefBuckets,
		}),
		pool: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_tasks",
			Help:      "Tasks waiting in the pool.",
		}),
		scheduled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scheduled_tasks",
			Help:      "Task instances placed on the grid.",
		}),
	}
	c.registry.MustRegister(
		c.operations, c.saves, c.saveTime, c.pool, c.scheduled,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveOperation counts one operation. result is "ok" or an error kind.
func (c *Collector) ObserveOperation(op, result string) {
	c.operations.WithLabelValues(op, result).Inc()
}

// ObserveSave records a snapshot write.
func (c *Collector) ObserveSave(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.saves.WithLabelValues(result).Inc()
	c.saveTime.Observe(d.Seconds())
}

// SetSizes updates the pool and grid gauges.
func (c *Collector) SetSizes(pool, scheduled int) {
	c.pool.Set(float64(pool))
	c.scheduled.Set(float64(scheduled))
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collected metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
