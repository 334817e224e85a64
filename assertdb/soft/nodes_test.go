package soft_test

import (
	"errors"
	"fmt"

	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
)

var errBoom = errors.New("boom")

// valueNode is a minimal root node asserting about an int.
type valueNode struct {
	soft.Base
	value       int
	description string
	equal       func(actual, expected int) bool
	children    map[int]*childNode
}

func newValueNode(value int) *valueNode {
	return &valueNode{
		value:       value,
		description: fmt.Sprintf("value %d", value),
		children:    make(map[int]*childNode),
	}
}

func (n *valueNode) Identity() (soft.Node, any) {
	return nil, n.value
}

func (n *valueNode) Description() string {
	return n.description
}

func (n *valueNode) As(description string) *valueNode {
	return soft.Call(n, "As", func() *valueNode {
		n.description = description
		return n
	})
}

func (n *valueNode) UsingComparator(equal func(actual, expected int) bool) *valueNode {
	return soft.Call(n, "UsingComparator", func() *valueNode {
		n.equal = equal
		return n
	})
}

func (n *valueNode) IsEqualTo(expected int) *valueNode {
	return soft.Call(n, "IsEqualTo", func() *valueNode {
		equal := n.value == expected
		if n.equal != nil {
			equal = n.equal(n.value, expected)
		}

		if !equal {
			soft.Fail(n.description, "expected %d but was %d", expected, n.value)
		}

		return n
	})
}

// IsZero delegates to IsEqualTo on the same receiver.
func (n *valueNode) IsZero() *valueNode {
	return soft.Call(n, "IsZero", func() *valueNode {
		return n.IsEqualTo(0)
	})
}

// IsSmall delegates two levels deep: IsSmall -> IsZero -> IsEqualTo.
func (n *valueNode) IsSmall() *valueNode {
	return soft.Call(n, "IsSmall", func() *valueNode {
		return n.IsZero()
	})
}

// IsEven returns a primitive-like result.
func (n *valueNode) IsEven() bool {
	return soft.Call(n, "IsEven", func() bool {
		if n.value%2 != 0 {
			soft.Fail(n.description, "expected even value but was %d", n.value)
		}

		return true
	})
}

func (n *valueNode) IsExploding() *valueNode {
	return soft.Call(n, "IsExploding", func() *valueNode {
		panic(errBoom)
	})
}

// IsOneOf recovers failures of the methods it delegates to.
func (n *valueNode) IsOneOf(candidates ...int) *valueNode {
	return soft.Call(n, "IsOneOf", func() *valueNode {
		for _, candidate := range candidates {
			if tryAssert(func() { n.IsEqualTo(candidate) }) {
				return n
			}
		}

		soft.Fail(n.description, "expected one of %v but was %d", candidates, n.value)

		return n
	})
}

func (n *valueNode) Value(offset int) *childNode {
	return soft.Call(n, "Value", func() *childNode {
		if child, ok := n.children[offset]; ok {
			return child
		}

		child := newChildNode(n, n.value+offset)
		n.children[offset] = child

		return child
	})
}

func (n *valueNode) ValueWithoutDescriptor() *orphanNode {
	return soft.Call(n, "ValueWithoutDescriptor", func() *orphanNode {
		return &orphanNode{}
	})
}

func tryAssert(assertion func()) (ok bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			if err, isErr := recovered.(error); isErr && errors.Is(err, soft.ErrAssertionFailed) {
				ok = false
				return
			}

			panic(recovered)
		}
	}()

	assertion()

	return true
}

// childNode is navigated to from a valueNode.
type childNode struct {
	soft.Base
	origin *valueNode
	value  int
}

func newChildNode(origin *valueNode, value int) *childNode {
	return &childNode{origin: origin, value: value}
}

func (c *childNode) Identity() (soft.Node, any) {
	return c.origin, c.value
}

func (c *childNode) Description() string {
	return fmt.Sprintf("child %d of %s", c.value, c.origin.Description())
}

func (c *childNode) IsEqualTo(expected int) *childNode {
	return soft.Call(c, "IsEqualTo", func() *childNode {
		if c.value != expected {
			soft.Fail(c.Description(), "expected %d but was %d", expected, c.value)
		}

		return c
	})
}

func (c *childNode) ReturnToOrigin() *valueNode {
	return soft.Call(c, "ReturnToOrigin", func() *valueNode {
		return c.origin
	})
}

// orphanNode has no reconstruction descriptor.
type orphanNode struct {
	soft.Base
}

func (o *orphanNode) IsAnything() *orphanNode {
	return soft.Call(o, "IsAnything", func() *orphanNode { return o })
}

// strangeNode has a method the classifier does not know.
type strangeNode struct {
	soft.Base
}

func (s *strangeNode) Identity() (soft.Node, any) {
	return nil, 0
}

func (s *strangeNode) Frobnicate() *strangeNode {
	return soft.Call(s, "Frobnicate", func() *strangeNode { return s })
}

func newTestRegistry() *soft.Registry {
	registry := soft.NewRegistry()

	mustRegister(soft.RegisterRoot(registry, newValueNode))
	mustRegister(soft.RegisterShape(registry, newChildNode))
	mustRegister(soft.RegisterRoot(registry, func(int) *strangeNode { return &strangeNode{} }))

	return registry
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}
