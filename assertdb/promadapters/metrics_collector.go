package promadapters

import (
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector implements soft.MetricsCollector and dbsource.MetricsCollector with Prometheus instruments:
//   - RecordDuration -> HistogramVec (observed in seconds)
//   - IncrementCounter -> CounterVec
//   - RecordValue -> GaugeVec
type MetricsCollector struct {
	registerer prometheus.Registerer
	histograms map[string]*labeled[*prometheus.HistogramVec]
	counters   map[string]*labeled[*prometheus.CounterVec]
	gauges     map[string]*labeled[*prometheus.GaugeVec]
	mu         sync.Mutex
}

type labeled[V any] struct {
	vec        V
	labelNames []string
}

func (l *labeled[V]) values(labels map[string]string) []string {
	values := make([]string, len(l.labelNames))

	for i, name := range l.labelNames {
		values[i] = labels[name]
	}

	return values
}

// NewMetricsCollector creates a new Prometheus metrics collector registering its instruments with registerer.
func NewMetricsCollector(registerer prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		registerer: registerer,
		histograms: make(map[string]*labeled[*prometheus.HistogramVec]),
		counters:   make(map[string]*labeled[*prometheus.CounterVec]),
		gauges:     make(map[string]*labeled[*prometheus.GaugeVec]),
	}
}

// RecordDuration observes a duration in seconds.
func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	histogram := m.getOrCreateHistogram(metric, labels)
	if histogram == nil {
		return
	}

	histogram.vec.WithLabelValues(histogram.values(labels)...).Observe(duration.Seconds())
}

// IncrementCounter increments a counter by one.
func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	counter := m.getOrCreateCounter(metric, labels)
	if counter == nil {
		return
	}

	counter.vec.WithLabelValues(counter.values(labels)...).Inc()
}

// RecordValue sets a gauge to value.
func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	gauge := m.getOrCreateGauge(metric, labels)
	if gauge == nil {
		return
	}

	gauge.vec.WithLabelValues(gauge.values(labels)...).Set(value)
}

func (m *MetricsCollector) getOrCreateHistogram(name string, labels map[string]string) *labeled[*prometheus.HistogramVec] {
	m.mu.Lock()
	defer m.mu.Unlock()

	if histogram, exists := m.histograms[name]; exists {
		return histogram
	}

	labelNames := sortedKeys(labels)
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name + "_seconds",
		Help:    "assertdb operation duration",
		Buckets: prometheus.DefBuckets,
	}, labelNames)

	registered, ok := register(m.registerer, vec)
	if !ok {
		return nil
	}

	histogram := &labeled[*prometheus.HistogramVec]{vec: registered, labelNames: labelNames}
	m.histograms[name] = histogram

	return histogram
}

func (m *MetricsCollector) getOrCreateCounter(name string, labels map[string]string) *labeled[*prometheus.CounterVec] {
	m.mu.Lock()
	defer m.mu.Unlock()

	if counter, exists := m.counters[name]; exists {
		return counter
	}

	labelNames := sortedKeys(labels)
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: "assertdb operation counter",
	}, labelNames)

	registered, ok := register(m.registerer, vec)
	if !ok {
		return nil
	}

	counter := &labeled[*prometheus.CounterVec]{vec: registered, labelNames: labelNames}
	m.counters[name] = counter

	return counter
}

func (m *MetricsCollector) getOrCreateGauge(name string, labels map[string]string) *labeled[*prometheus.GaugeVec] {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gauge, exists := m.gauges[name]; exists {
		return gauge
	}

	labelNames := sortedKeys(labels)
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: name,
		Help: "assertdb current value",
	}, labelNames)

	registered, ok := register(m.registerer, vec)
	if !ok {
		return nil
	}

	gauge := &labeled[*prometheus.GaugeVec]{vec: registered, labelNames: labelNames}
	m.gauges[name] = gauge

	return gauge
}

// register registers collector and falls back to an identical collector registered earlier.
func register[C prometheus.Collector](registerer prometheus.Registerer, collector C) (C, bool) {
	err := registerer.Register(collector)
	if err == nil {
		return collector, true
	}

	var alreadyRegistered prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		existing, ok := alreadyRegistered.ExistingCollector.(C)
		return existing, ok
	}

	var zero C

	return zero, false
}

func sortedKeys(labels map[string]string) []string {
	return slices.Sorted(maps.Keys(labels))
}
