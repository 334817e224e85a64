package soft

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrAssertionFailed is the sentinel error for failed assertions.
var ErrAssertionFailed = errors.New("assertion failed")

// AssertionError is the one failure kind the interception layer collects.
// Any other panic value raised inside an intercepted call is treated as fatal.
type AssertionError struct {
	Description string // description of the node the assertion ran on
	Message     string
	Method      string // innermost intercepted method that failed, stamped by the interception layer
	NodeType    string
}

// NewAssertionError creates an AssertionError with a formatted message.
func NewAssertionError(description string, format string, args ...any) *AssertionError {
	return &AssertionError{
		Description: description,
		Message:     fmt.Sprintf(format, args...),
	}
}

// Fail raises an AssertionError. Nodes call it from their real implementations.
func Fail(description string, format string, args ...any) {
	panic(NewAssertionError(description, format, args...))
}

// Error returns the formatted assertion failure message.
func (e *AssertionError) Error() string {
	if e == nil {
		return ErrAssertionFailed.Error()
	}

	if e.Description == "" {
		return e.Message
	}

	return "[" + e.Description + "] " + e.Message
}

// Unwrap returns the sentinel assertion error for errors.Is.
func (e *AssertionError) Unwrap() error {
	return ErrAssertionFailed
}

// stamp records where a failure was raised. The innermost frame stamps first, outer frames keep it.
func (e *AssertionError) stamp(method string, nodeType string) {
	if e.Method == "" {
		e.Method = method
	}

	if e.NodeType == "" {
		e.NodeType = nodeType
	}
}

// MultipleFailuresError aggregates all failures recorded by a session, in recording order.
type MultipleFailuresError struct {
	Failures []*AssertionError
}

// Error concatenates every failure message in recording order.
func (e *MultipleFailuresError) Error() string {
	var sb strings.Builder

	sb.WriteString("soft assertions failed: ")
	sb.WriteString(strconv.Itoa(len(e.Failures)))
	sb.WriteString(" failure(s)")

	for i, failure := range e.Failures {
		sb.WriteString("\n")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(") ")
		sb.WriteString(failure.Error())
	}

	return sb.String()
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *MultipleFailuresError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, failure := range e.Failures {
		errs[i] = failure
	}

	return errs
}

// asFailure reports whether a recovered panic value is the collectible failure kind.
func asFailure(recovered any) (*AssertionError, bool) {
	err, ok := recovered.(error)
	if !ok {
		return nil, false
	}

	var failure *AssertionError
	if errors.As(err, &failure) && failure != nil {
		return failure, true
	}

	return nil, false
}
