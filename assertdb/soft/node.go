package soft

// Node is any fluent object that can be wrapped by a session.
// Node types satisfy it by embedding Base.
type Node interface {
	base() *Base
}

// Base carries the session binding of a node. The zero value is an unbound (strict) node.
type Base struct {
	layer *Interceptor
}

func (b *Base) base() *Base {
	return b
}

// Shaped is the default identity shape of a node: an origin plus a single domain value.
// Roots return a nil origin.
type Shaped interface {
	Node
	Identity() (origin Node, value any)
}

// Call routes a method of node through the interception layer the node is bound to.
//
// method must be the exported name of the calling method; call is its real implementation.
// Unbound nodes run call directly, so failures panic out to the caller.
// When a bound call fails and the failure is suppressed, the node itself is returned if T
// accepts it, the zero value of T otherwise.
func Call[T any](node Node, method string, call func() T) T {
	layer := node.base().layer
	if layer == nil {
		return call()
	}

	result, ok := layer.invoke(node, method, func() any { return call() })
	if !ok {
		if self, isT := any(node).(T); isT {
			return self
		}

		var zero T

		return zero
	}

	if result == nil {
		var zero T

		return zero
	}

	return result.(T) //nolint:forcetypeassert // the layer returns the real result or its rewrapped equivalent
}

// IsBound reports whether node is wrapped by a session.
func IsBound(node Node) bool {
	return node.base().layer != nil
}
