package soft

import (
	"errors"
	"time"
)

// observer forwards session events to the optional logger and metrics collector.
type observer struct {
	sessionID string
	logger    Logger
	metrics   MetricsCollector
}

func (o *observer) failureRecorded(failure *AssertionError) {
	if o.logger != nil {
		o.logger.Debug(
			logMsgFailureRecorded,
			logAttrSessionID, o.sessionID,
			logAttrNodeType, failure.NodeType,
			logAttrMethod, failure.Method,
			logAttrMessage, failure.Error(),
		)
	}

	if o.metrics != nil {
		o.metrics.IncrementCounter(MetricFailuresRecorded, map[string]string{
			labelNodeType: failure.NodeType,
			labelMethod:   failure.Method,
		})
	}
}

func (o *observer) fatal(err error) {
	if o.logger != nil {
		o.logger.Error(logMsgFatal, logAttrSessionID, o.sessionID, logAttrError, err.Error())
	}

	if o.metrics != nil {
		o.metrics.IncrementCounter(MetricFatalErrors, map[string]string{labelReason: reasonOf(err)})
	}
}

func (o *observer) wrapperTypeBuilt(wrapperType *WrapperType, duration time.Duration) {
	if o.logger != nil {
		o.logger.Debug(
			logMsgWrapperType,
			logAttrSessionID, o.sessionID,
			logAttrNodeType, wrapperType.nodeType.String(),
			logAttrMethodCount, len(wrapperType.methods),
		)
	}

	if o.metrics != nil {
		o.metrics.RecordDuration(MetricWrapperTypeBuild, duration, map[string]string{
			labelNodeType: wrapperType.nodeType.String(),
		})
	}
}

func (o *observer) assertAll(failureCount int) {
	if o.logger != nil {
		o.logger.Info(logMsgAssertAll, logAttrSessionID, o.sessionID, logAttrFailureCount, failureCount)
	}

	if o.metrics != nil {
		o.metrics.RecordValue(MetricAssertAllFailures, float64(failureCount), nil)
	}
}

func (o *observer) ended(failureCount int) {
	if o.logger != nil {
		o.logger.Info(logMsgSessionEnded, logAttrSessionID, o.sessionID, logAttrFailureCount, failureCount)
	}
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, ErrNoDescriptor):
		return "no_descriptor"
	case errors.Is(err, ErrUnclassifiedMethod):
		return "unclassified_method"
	case errors.Is(err, ErrIdentityMismatch):
		return "identity_mismatch"
	case errors.Is(err, ErrNotANode):
		return "not_a_node"
	case errors.Is(err, ErrNilNode):
		return "nil_node"
	default:
		return "other"
	}
}
