package soft

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// ErrNilRegistry is returned when a session is created without a reconstruction registry.
var ErrNilRegistry = errors.New("nil reconstruction registry")

// Session is the soft assertion facade: it wraps root nodes so that assertion failures anywhere
// in their object graph are collected instead of raised.
//
// A Session is driven from one goroutine at a time. Failures, LastChainSucceeded, AssertAll and
// ReportJSON may be called from any goroutine.
type Session struct {
	id          uuid.UUID
	registry    *Registry
	aggregator  *Aggregator
	interceptor *Interceptor
	observer    *observer
}

// Option defines a functional option for configuring a Session.
type Option func(*Session) error

// WithLogger sets the logger for the Session.
//
// Debug level: recorded failures and built wrapper types
// Info level: AssertAll summaries and session end
// Error level: fatal errors that end the session.
func WithLogger(logger Logger) Option {
	return func(s *Session) error {
		s.observer.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Session.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *Session) error {
		s.observer.metrics = collector
		return nil
	}
}

// NewSession creates a Session whose navigation results are rebuilt with registry.
func NewSession(registry *Registry, options ...Option) (*Session, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("creating session id: %w", err)
	}

	s := &Session{
		id:         id,
		registry:   registry,
		aggregator: NewAggregator(),
		observer:   &observer{sessionID: id.String()},
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	s.interceptor = newInterceptor(registry, s.aggregator, s.observer)

	return s, nil
}

// Wrap returns the failure-collecting equivalent of root, bound to session.
func Wrap[N Node](session *Session, root N) (N, error) {
	var zero N

	wrapped, err := session.interceptor.Wrap(root)
	if err != nil {
		return zero, err
	}

	typed, ok := wrapped.(N)
	if !ok {
		return zero, fmt.Errorf("%w: rebuilt %T, want %T", ErrIdentityMismatch, wrapped, root)
	}

	return typed, nil
}

// ID returns the unique id of the session, used to correlate logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Interceptor returns the interception layer of the session.
func (s *Session) Interceptor() *Interceptor {
	return s.interceptor
}

// Failures returns all recorded failures in recording order.
func (s *Session) Failures() []*AssertionError {
	return s.aggregator.Failures()
}

// LastChainSucceeded reports whether the most recently completed top-level call chain succeeded.
func (s *Session) LastChainSucceeded() bool {
	return s.aggregator.LastChainSucceeded()
}

// AssertAll returns one *MultipleFailuresError aggregating every recorded failure, or nil.
func (s *Session) AssertAll() error {
	failures := s.aggregator.Failures()
	s.observer.assertAll(len(failures))

	if len(failures) == 0 {
		return nil
	}

	return &MultipleFailuresError{Failures: failures}
}

// End ends the session. Later calls into its wrapped nodes panic with ErrSessionEnded.
// Recorded failures stay readable.
func (s *Session) End() {
	s.interceptor.end(nil)
	s.observer.ended(len(s.aggregator.Failures()))
}

// Err returns why the session ended, or nil while it is usable.
func (s *Session) Err() error {
	return s.interceptor.endErr()
}

type failureReport struct {
	Description string `json:"description,omitempty"`
	Message     string `json:"message"`
	Method      string `json:"method,omitempty"`
	NodeType    string `json:"node_type,omitempty"`
}

type sessionReport struct {
	SessionID          string          `json:"session_id"`
	LastChainSucceeded bool            `json:"last_chain_succeeded"`
	FailureCount       int             `json:"failure_count"`
	Failures           []failureReport `json:"failures"`
}

// ReportJSON renders the recorded failures as a JSON document.
func (s *Session) ReportJSON() ([]byte, error) {
	failures := s.aggregator.Failures()

	report := sessionReport{
		SessionID:          s.id.String(),
		LastChainSucceeded: s.aggregator.LastChainSucceeded(),
		FailureCount:       len(failures),
		Failures:           make([]failureReport, 0, len(failures)),
	}

	for _, failure := range failures {
		report.Failures = append(report.Failures, failureReport{
			Description: failure.Description,
			Message:     failure.Message,
			Method:      failure.Method,
			NodeType:    failure.NodeType,
		})
	}

	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(report)
}
