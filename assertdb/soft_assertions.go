package assertdb

import (
	"fmt"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
)

// SoftAssertions collects assertion failures of tables, requests and changes instead of failing
// on the first one. Call AssertAll to get all failures as one error.
type SoftAssertions struct {
	session *soft.Session
}

// NewSoftAssertions creates a SoftAssertions backed by a new soft.Session.
func NewSoftAssertions(options ...soft.Option) (*SoftAssertions, error) {
	registry, err := Registry()
	if err != nil {
		return nil, fmt.Errorf("building node registry: %w", err)
	}

	session, err := soft.NewSession(registry, options...)
	if err != nil {
		return nil, err
	}

	return &SoftAssertions{session: session}, nil
}

// AssertThatTable starts a soft assertion chain on table.
// It panics with soft.ErrSessionEnded once End was called.
func (s *SoftAssertions) AssertThatTable(table data.Table) *TableAssert {
	return mustWrap(s.session, AssertThatTable(table))
}

// AssertThatRequest starts a soft assertion chain on request.
func (s *SoftAssertions) AssertThatRequest(request data.Request) *RequestAssert {
	return mustWrap(s.session, AssertThatRequest(request))
}

// AssertThatChanges starts a soft assertion chain on changes.
func (s *SoftAssertions) AssertThatChanges(changes data.Changes) *ChangesAssert {
	return mustWrap(s.session, AssertThatChanges(changes))
}

// Errors returns the recorded failures in recording order.
func (s *SoftAssertions) Errors() []*soft.AssertionError {
	return s.session.Failures()
}

// WasSuccess reports whether the most recent assertion chain succeeded.
func (s *SoftAssertions) WasSuccess() bool {
	return s.session.LastChainSucceeded()
}

// AssertAll returns one error aggregating every recorded failure, nil if there is none.
func (s *SoftAssertions) AssertAll() error {
	return s.session.AssertAll()
}

func (s *SoftAssertions) End() {
	s.session.End()
}

func (s *SoftAssertions) Session() *soft.Session {
	return s.session
}

func mustWrap[N soft.Node](session *soft.Session, root N) N {
	wrapped, err := soft.Wrap(session, root)
	if err != nil {
		panic(err)
	}

	return wrapped
}
