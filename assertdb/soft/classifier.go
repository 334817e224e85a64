package soft

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnclassifiedMethod is returned for node methods the classifier has no policy for.
var ErrUnclassifiedMethod = errors.New("method has no soft interception policy")

// Classification is the interception policy of one node method.
type Classification int

const (
	// Passthrough methods run directly on the node and never take part in failure collection:
	// identity, string conversion, description and comparator configuration.
	Passthrough Classification = iota

	// Collect methods are assertion predicates returning the receiver or a primitive-like value.
	Collect

	// CollectAndRewrap methods are navigations returning a new node that must be wrapped as well.
	CollectAndRewrap
)

// String provides a string representation of Classification for logging and debugging.
func (c Classification) String() string {
	switch c {
	case Passthrough:
		return "passthrough"
	case Collect:
		return "collect"
	case CollectAndRewrap:
		return "collect_and_rewrap"
	default:
		return "unknown"
	}
}

var passthroughMethods = map[string]struct{}{
	"As":                     {},
	"Description":            {},
	"String":                 {},
	"Equal":                  {},
	"Hash":                   {},
	"Identity":               {},
	"ColumnName":             {},
	"UsingComparator":        {},
	"UsingDefaultComparator": {},
}

type prefixRule struct {
	prefix         string
	classification Classification
}

// Order matters: the first matching prefix wins.
var prefixRules = []prefixRule{
	{prefix: "Using", classification: Passthrough},
	{prefix: "Is", classification: Collect},
	{prefix: "Has", classification: Collect},
	{prefix: "Contains", classification: Collect},
	{prefix: "Exists", classification: Collect},
	{prefix: "DoesNot", classification: Collect},
	{prefix: "ReturnTo", classification: CollectAndRewrap},
	{prefix: "Row", classification: CollectAndRewrap},
	{prefix: "Column", classification: CollectAndRewrap},
	{prefix: "Value", classification: CollectAndRewrap},
	{prefix: "Change", classification: CollectAndRewrap},
}

// Classify maps the name of an exported node method onto its interception policy.
// The policy is static and safe to share across sessions.
func Classify(method string) (Classification, error) {
	if _, ok := passthroughMethods[method]; ok {
		return Passthrough, nil
	}

	for _, rule := range prefixRules {
		if strings.HasPrefix(method, rule.prefix) {
			return rule.classification, nil
		}
	}

	return Passthrough, fmt.Errorf("%w: %q", ErrUnclassifiedMethod, method)
}
