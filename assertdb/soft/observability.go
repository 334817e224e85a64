package soft

import (
	"time"
)

// Logger interface for recorded failures, session summaries and fatal configuration errors.
// It is satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector interface for collecting soft assertion metrics.
// It follows the dependency-free pattern so that any metrics backend can be plugged in.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

const (
	// MetricFailuresRecorded counts failures appended to a session's failure log.
	MetricFailuresRecorded = "soft_assertion_failures_recorded_total"

	// MetricFatalErrors counts fatal errors that ended a session.
	MetricFatalErrors = "soft_assertion_fatal_errors_total"

	// MetricAssertAllFailures records the number of failures reported by AssertAll.
	MetricAssertAllFailures = "soft_assertion_assert_all_failures"

	// MetricWrapperTypeBuild records how long building a wrapper type took.
	MetricWrapperTypeBuild = "soft_assertion_wrapper_type_build_duration"

	labelNodeType = "node_type"
	labelMethod   = "method"
	labelReason   = "reason"

	logMsgFailureRecorded = "soft assertion failure recorded"
	logMsgAssertAll       = "soft assertion session asserted"
	logMsgSessionEnded    = "soft assertion session ended"
	logMsgFatal           = "soft assertion session ended by fatal error"
	logMsgWrapperType     = "soft assertion wrapper type built"
	logAttrSessionID      = "session_id"
	logAttrNodeType       = "node_type"
	logAttrMethod         = "method"
	logAttrMessage        = "message"
	logAttrFailureCount   = "failure_count"
	logAttrMethodCount    = "method_count"
	logAttrError          = "error"
)
