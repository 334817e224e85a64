package soft_test

import (
	"errors"
	"log/slog"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
	"github.com/AntonStoeckl/assertdb-go/testutil/observability"
)

func givenSession(t *testing.T, options ...soft.Option) *soft.Session {
	t.Helper()

	session, err := soft.NewSession(newTestRegistry(), options...)
	require.NoError(t, err)

	return session
}

func givenWrappedValue(t *testing.T, session *soft.Session, value int) *valueNode {
	t.Helper()

	wrapped, err := soft.Wrap(session, newValueNode(value))
	require.NoError(t, err)

	return wrapped
}

func Test_NewSession_ShouldFail_WithNilRegistry(t *testing.T) {
	_, err := soft.NewSession(nil)

	assert.ErrorIs(t, err, soft.ErrNilRegistry)
}

func Test_Wrap_ReturnsBoundEquivalent(t *testing.T) {
	session := givenSession(t)
	root := newValueNode(2)

	wrapped, err := soft.Wrap(session, root)
	require.NoError(t, err)

	assert.NotSame(t, root, wrapped)
	assert.Equal(t, root.value, wrapped.value)
	assert.True(t, soft.IsBound(wrapped))
	assert.False(t, soft.IsBound(root), "the caller's root stays strict")

	again, err := soft.Wrap(session, wrapped)
	require.NoError(t, err)
	assert.Same(t, wrapped, again, "wrapping a bound node is idempotent")
}

func Test_UnboundNode_FailsHard(t *testing.T) {
	root := newValueNode(2)

	assert.PanicsWithError(t, "[value 2] expected 1 but was 2", func() {
		root.IsEqualTo(1)
	})
}

// P1
func Test_Session_AllCallsSucceed_NoFailures(t *testing.T) {
	session := givenSession(t)
	value := givenWrappedValue(t, session, 2)

	value.IsEqualTo(2).IsOneOf(1, 2).Value(1).IsEqualTo(3).ReturnToOrigin().IsEqualTo(2)

	assert.Empty(t, session.Failures())
	assert.True(t, session.LastChainSucceeded())
	assert.NoError(t, session.AssertAll())
}

// P2
func Test_Session_SingleFailingCall_RecordsOneFailure(t *testing.T) {
	session := givenSession(t)
	value := givenWrappedValue(t, session, 2)

	value.IsEqualTo(2)
	value.IsEqualTo(5)

	require.Len(t, session.Failures(), 1)
	assert.False(t, session.LastChainSucceeded())
}

func Test_Session_FailedCall_ReturnsReceiverForChaining(t *testing.T) {
	session := givenSession(t)
	value := givenWrappedValue(t, session, 2)

	returned := value.IsEqualTo(5)

	assert.Same(t, value, returned)
	assert.NotPanics(t, func() {
		value.IsEqualTo(5).IsEqualTo(6).IsEqualTo(2)
	})
	assert.Len(t, session.Failures(), 3)
}

func Test_Session_FailedCall_WithPrimitiveResult_ReturnsZeroValue(t *testing.T) {
	session := givenSession(t)
	value := givenWrappedValue(t, session, 3)

	assert.False(t, value.IsEven())
	assert.Len(t, session.Failures(), 1)
	assert.False(t, session.LastChainSucceeded())
}

// P3
func Test_Session_SelfDelegation_CollapsesIntoOneFailure(t *testing.T) {
	tests := []struct {
		name   string
		assert func(value *valueNode)
	}{
		{name: "one level", assert: func(value *valueNode) { value.IsZero() }},
		{name: "two levels", assert: func(value *valueNode) { value.IsSmall() }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			session := givenSession(t)
			value := givenWrappedValue(t, session, 2)

			tc.assert(value)

			failures := session.Failures()
			require.Len(t, failures, 1)
			assert.Equal(t, "expected 0 but was 2", failures[0].Message, "detail of the innermost failure")
			assert.Equal(t, "IsEqualTo", failures[0].Method, "attributed to the innermost method")
			assert.False(t, session.LastChainSucceeded())
			assert.Equal(t, int64(1), session.Interceptor().WrapperTypeBuilds(), "one wrapper type for the root")
		})
	}
}

func Test_Session_RecoveredNestedFailure_DoesNotCount(t *testing.T) {
	session := givenSession(t)
	value := givenWrappedValue(t, session, 2)

	value.IsOneOf(0, 1, 2)

	assert.Empty(t, session.Failures())
	assert.True(t, session.LastChainSucceeded())

	value.IsOneOf(7, 8)

	require.Len(t, session.Failures(), 1)
	assert.Equal(t, "expected one of [7 8] but was 2", session.Failures()[0].Message)
}

// P4
func Test_Session_LastChainSucceeded_IsPerChain(t *testing.T) {
	session := givenSession(t)
	value := givenWrappedValue(t, session, 2)

	value.IsEqualTo(1)
	value.IsEqualTo(2)

	require.Len(t, session.Failures(), 1)
	assert.Contains(t, session.Failures()[0].Error(), "expected 1 but was 2")
	assert.True(t, session.LastChainSucceeded())
}

// P5
func Test_Session_Navigation_PropagatesTheSession(t *testing.T) {
	session := givenSession(t)
	value := givenWrappedValue(t, session, 2)

	child := value.Value(3)
	assert.True(t, soft.IsBound(child))
	assert.Same(t, value, child.origin)

	value.IsEqualTo(9)
	child.IsEqualTo(9)
	child.ReturnToOrigin().IsEqualTo(8)

	failures := session.Failures()
	require.Len(t, failures, 3)
	assert.Equal(t, "[value 2] expected 9 but was 2", failures[0].Error())
	assert.Equal(t, "[child 5 of value 2] expected 9 but was 5", failures[1].Error())
	assert.Equal(t, "[value 2] expected 8 but was 2", failures[2].Error())
}

func Test_Session_Navigation_IsReferenceStable(t *testing.T) {
	session := givenSession(t)
	value := givenWrappedValue(t, session, 2)

	first := value.Value(1)
	second := value.Value(1)

	assert.Same(t, first, second)
	assert.Same(t, value, first.ReturnToOrigin(), "returning to an already wrapped origin")
}

// P6
func Test_Session_Passthrough_MutatesTheRealNode(t *testing.T) {
	session := givenSession(t)
	value := givenWrappedValue(t, session, 2)

	value.As("answer").UsingComparator(func(_, _ int) bool { return true })
	value.IsEqualTo(40)

	assert.Empty(t, session.Failures())
	assert.Equal(t, "answer", value.Description())

	value.UsingComparator(nil).IsEqualTo(40)

	require.Len(t, session.Failures(), 1)
	assert.Equal(t, "answer", session.Failures()[0].Description)
}

func Test_Session_AssertAll_AggregatesInRecordingOrder(t *testing.T) {
	session := givenSession(t)
	value := givenWrappedValue(t, session, 2)

	value.IsEqualTo(1)
	value.IsZero()

	err := session.AssertAll()
	require.Error(t, err)

	var multiple *soft.MultipleFailuresError
	require.ErrorAs(t, err, &multiple)
	require.Len(t, multiple.Failures, 2)
	assert.ErrorIs(t, err, soft.ErrAssertionFailed)
	assert.Equal(t,
		"soft assertions failed: 2 failure(s)\n"+
			"1) [value 2] expected 1 but was 2\n"+
			"2) [value 2] expected 0 but was 2",
		err.Error(),
	)
}

func Test_Session_FatalError_PropagatesAndKeepsDepthBalanced(t *testing.T) {
	session := givenSession(t)
	value := givenWrappedValue(t, session, 2)

	assert.PanicsWithError(t, errBoom.Error(), func() {
		value.IsExploding()
	})

	assert.Equal(t, int64(1), session.Interceptor().WrapperTypeBuilds())
	assert.Empty(t, session.Failures(), "fatal errors are never recorded")
	assert.NoError(t, session.Err(), "domain errors do not end the session")

	value.IsEqualTo(3)
	assert.Len(t, session.Failures(), 1)
	assert.False(t, session.LastChainSucceeded())
}

func Test_Session_MissingDescriptor_EndsTheSession(t *testing.T) {
	session := givenSession(t)
	value := givenWrappedValue(t, session, 2)

	assert.Panics(t, func() {
		value.ValueWithoutDescriptor()
	})

	assert.ErrorIs(t, session.Err(), soft.ErrSessionEnded)
	assert.ErrorIs(t, session.Err(), soft.ErrNoDescriptor)

	assert.Panics(t, func() {
		value.IsEqualTo(2)
	})
}

func Test_Wrap_ShouldFail_ForUnclassifiableNodeType(t *testing.T) {
	session := givenSession(t)

	_, err := soft.Wrap(session, &strangeNode{})

	assert.ErrorIs(t, err, soft.ErrUnclassifiedMethod)
	assert.ErrorIs(t, session.Err(), soft.ErrSessionEnded)
}

func Test_Wrap_ShouldFail_ForNilNode(t *testing.T) {
	session := givenSession(t)

	_, err := soft.Wrap(session, (*valueNode)(nil))

	assert.ErrorIs(t, err, soft.ErrNilNode)
	assert.NoError(t, session.Err())
}

func Test_Session_End_MakesWrappersUnusable(t *testing.T) {
	session := givenSession(t)
	value := givenWrappedValue(t, session, 2)
	value.IsEqualTo(1)

	session.End()

	assert.Panics(t, func() {
		value.IsEqualTo(2)
	})

	_, err := soft.Wrap(session, newValueNode(1))
	assert.True(t, errors.Is(err, soft.ErrSessionEnded))
	assert.Len(t, session.Failures(), 1, "failures stay readable")
}

func Test_Session_Observability(t *testing.T) {
	logger, logSpy := observability.NewSpyLogger()
	metricsSpy := observability.NewMetricsCollectorSpy()
	session := givenSession(t, soft.WithLogger(logger), soft.WithMetrics(metricsSpy))
	value := givenWrappedValue(t, session, 2)

	value.IsEqualTo(1)
	value.IsSmall()
	_ = session.AssertAll()

	assert.Equal(t, 2, logSpy.CountRecords(slog.LevelDebug, "soft assertion failure recorded"))
	assert.True(t, logSpy.HasLogWithAttr(slog.LevelDebug, "soft assertion failure recorded", "method", "IsEqualTo"))
	assert.True(t, logSpy.HasLogWithAttr(slog.LevelInfo, "soft assertion session asserted", "failure_count", "2"))
	assert.Equal(t, 2, metricsSpy.CountCounterRecords(soft.MetricFailuresRecorded))
	assert.True(t, metricsSpy.HasDurationRecord(soft.MetricWrapperTypeBuild))

	values := metricsSpy.GetValueRecords()
	require.Len(t, values, 1)
	assert.Equal(t, soft.MetricAssertAllFailures, values[0].Metric)
	assert.InDelta(t, 2.0, values[0].Value, 0)
}

func Test_Session_ReportJSON(t *testing.T) {
	session := givenSession(t)
	value := givenWrappedValue(t, session, 2)

	value.IsEqualTo(1)

	report, err := session.ReportJSON()
	require.NoError(t, err)

	var decoded struct {
		SessionID          string `json:"session_id"`
		LastChainSucceeded bool   `json:"last_chain_succeeded"`
		FailureCount       int    `json:"failure_count"`
		Failures           []struct {
			Description string `json:"description"`
			Message     string `json:"message"`
			Method      string `json:"method"`
		} `json:"failures"`
	}
	require.NoError(t, jsoniter.Unmarshal(report, &decoded))

	assert.Equal(t, session.ID().String(), decoded.SessionID)
	assert.False(t, decoded.LastChainSucceeded)
	assert.Equal(t, 1, decoded.FailureCount)
	require.Len(t, decoded.Failures, 1)
	assert.Equal(t, "value 2", decoded.Failures[0].Description)
	assert.Equal(t, "expected 1 but was 2", decoded.Failures[0].Message)
	assert.Equal(t, "IsEqualTo", decoded.Failures[0].Method)
}
