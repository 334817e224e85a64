// Package soft turns fluent assertion chains into failure-collecting ones.
//
// A Session wraps root nodes. Every exported method of a wrapped node is routed through the
// session's Interceptor, which classifies the method by name:
//   - Passthrough: identity, description and comparator configuration run unchanged
//   - Collect: assertion predicates; failures are recorded instead of raised
//   - CollectAndRewrap: navigations; the returned child node is rebuilt with the Registry
//     and bound to the same session, so it collects failures as well
//
// Assertion failures are *AssertionError values raised with panic. The Aggregator tracks how
// many interception frames are active, so a method implemented by calling another assertion
// method on the same node records exactly one failure. Every other panic is fatal and
// propagates unchanged.
//
// Usage:
//
//	session, _ := soft.NewSession(registry, soft.WithLogger(logger))
//	root, _ := soft.Wrap(session, node)
//	root.IsTrue()          // failure recorded, chain continues
//	err := session.AssertAll()
package soft
