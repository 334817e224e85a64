package soft

import (
	"errors"
	"sync"
)

// ErrUnbalancedLeave is raised when a frame is left more often than it was entered.
var ErrUnbalancedLeave = errors.New("soft aggregator left without matching enter")

// Aggregator owns the ordered failure log and the nesting-depth bookkeeping of one session.
//
// nestingDepth counts the interception frames currently active on the goroutine driving the
// session. Only the outermost frame records a failure; inner frames hand it upwards. This
// collapses any number of self-delegation levels into exactly one recorded failure.
type Aggregator struct {
	mu                 sync.Mutex
	failureLog         []*AssertionError
	nestingDepth       int
	errorFound         bool
	lastChainSucceeded bool
}

// NewAggregator creates an empty Aggregator. Before any chain completed, the last chain counts as successful.
func NewAggregator() *Aggregator {
	return &Aggregator{
		failureLog:         make([]*AssertionError, 0),
		lastChainSucceeded: true,
	}
}

// Enter opens an interception frame.
func (a *Aggregator) Enter() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.nestingDepth++
}

// LeaveOnSuccess closes a frame whose real implementation returned normally.
// Leaving the outermost frame commits the result of the chain.
func (a *Aggregator) LeaveOnSuccess() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.mustBeEntered()

	a.errorFound = a.errorFound || false
	a.nestingDepth--

	if a.nestingDepth == 0 {
		a.lastChainSucceeded = !a.errorFound
		a.errorFound = false
	}
}

// LeaveOnFailure closes a frame whose real implementation raised an assertion failure.
//
// It returns true when the failure was recorded and must be suppressed (outermost frame),
// and false when the caller has to re-raise it for the enclosing frame.
func (a *Aggregator) LeaveOnFailure(failure *AssertionError) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.mustBeEntered()

	if a.nestingDepth > 1 {
		a.nestingDepth--
		return false
	}

	a.failureLog = append(a.failureLog, failure)
	a.errorFound = true
	a.nestingDepth = 0
	a.lastChainSucceeded = false
	a.errorFound = false

	return true
}

// LeaveOnFatal closes a frame that is being unwound by a fatal (non-assertion) panic.
// The chain is aborted, so nothing is committed.
func (a *Aggregator) LeaveOnFatal() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.nestingDepth == 0 {
		return
	}

	a.nestingDepth--

	if a.nestingDepth == 0 {
		a.errorFound = false
	}
}

// Failures returns a snapshot of the failure log in recording order.
func (a *Aggregator) Failures() []*AssertionError {
	a.mu.Lock()
	defer a.mu.Unlock()

	failures := make([]*AssertionError, len(a.failureLog))
	copy(failures, a.failureLog)

	return failures
}

// LastChainSucceeded reports whether the most recently completed top-level chain succeeded.
// It is not a conjunction over the session's history.
func (a *Aggregator) LastChainSucceeded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.lastChainSucceeded
}

// NestingDepth returns the number of currently active interception frames.
func (a *Aggregator) NestingDepth() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.nestingDepth
}

func (a *Aggregator) mustBeEntered() {
	if a.nestingDepth <= 0 {
		panic(ErrUnbalancedLeave)
	}
}
