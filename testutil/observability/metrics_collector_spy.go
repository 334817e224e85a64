package observability

import (
	"maps"
	"sync"
	"time"
)

// MetricsCollectorSpy captures MetricsCollector calls for testing.
type MetricsCollectorSpy struct {
	durationRecords []SpyDurationRecord
	counterRecords  []SpyCounterRecord
	valueRecords    []SpyValueRecord
	mu              sync.Mutex
}

// SpyDurationRecord represents a recorded duration metric call.
type SpyDurationRecord struct {
	Metric   string
	Duration time.Duration
	Labels   map[string]string
}

// SpyCounterRecord represents a recorded counter increment call.
type SpyCounterRecord struct {
	Metric string
	Labels map[string]string
}

// SpyValueRecord represents a recorded value metric call.
type SpyValueRecord struct {
	Metric string
	Value  float64
	Labels map[string]string
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{
		durationRecords: make([]SpyDurationRecord, 0),
		counterRecords:  make([]SpyCounterRecord, 0),
		valueRecords:    make([]SpyValueRecord, 0),
	}
}

// RecordDuration implements the MetricsCollector interface.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durationRecords = append(s.durationRecords, SpyDurationRecord{
		Metric:   metric,
		Duration: duration,
		Labels:   maps.Clone(labels),
	})
}

// IncrementCounter implements the MetricsCollector interface.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counterRecords = append(s.counterRecords, SpyCounterRecord{
		Metric: metric,
		Labels: maps.Clone(labels),
	})
}

// RecordValue implements the MetricsCollector interface.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.valueRecords = append(s.valueRecords, SpyValueRecord{
		Metric: metric,
		Value:  value,
		Labels: maps.Clone(labels),
	})
}

// GetCounterRecords returns a copy of all captured counter records.
func (s *MetricsCollectorSpy) GetCounterRecords() []SpyCounterRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpyCounterRecord, len(s.counterRecords))
	copy(records, s.counterRecords)

	return records
}

// GetValueRecords returns a copy of all captured value records.
func (s *MetricsCollectorSpy) GetValueRecords() []SpyValueRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpyValueRecord, len(s.valueRecords))
	copy(records, s.valueRecords)

	return records
}

// CountCounterRecords returns how many increments were recorded for metric.
func (s *MetricsCollectorSpy) CountCounterRecords(metric string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0

	for _, record := range s.counterRecords {
		if record.Metric == metric {
			count++
		}
	}

	return count
}

// HasDurationRecord checks if there's a duration record with the specified metric name.
func (s *MetricsCollectorSpy) HasDurationRecord(metric string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.durationRecords {
		if record.Metric == metric {
			return true
		}
	}

	return false
}

// Reset clears all captured metric records.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durationRecords = s.durationRecords[:0]
	s.counterRecords = s.counterRecords[:0]
	s.valueRecords = s.valueRecords[:0]
}
