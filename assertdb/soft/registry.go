package soft

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	// ErrNoDescriptor is returned when a navigation result has no reconstruction descriptor.
	ErrNoDescriptor = errors.New("no reconstruction descriptor registered for node type")

	// ErrDuplicateDescriptor is returned when a node type is registered twice.
	ErrDuplicateDescriptor = errors.New("reconstruction descriptor already registered for node type")

	// ErrInvalidDescriptor is returned for descriptors lacking a type, fields, or functions.
	ErrInvalidDescriptor = errors.New("invalid reconstruction descriptor")

	// ErrIdentityMismatch is returned when extracted identity fields do not fit the descriptor.
	ErrIdentityMismatch = errors.New("identity fields do not match reconstruction descriptor")

	// ErrNilNode is returned when a nil node is passed for wrapping or reconstruction.
	ErrNilNode = errors.New("nil node")
)

// Descriptor is the immutable recipe to rebuild one concrete node type from a raw instance.
//
// Fields names the ordered identity fields; the first one is always the origin reference.
// Extract pulls those fields out of a raw node, Build constructs an equivalent unbound node from them.
type Descriptor struct {
	Type    reflect.Type
	Fields  []string
	Extract func(raw Node) ([]any, error)
	Build   func(fields []any) (Node, error)
}

// Registry maps concrete node types to their reconstruction descriptors.
// It is filled once at build time and read-only afterwards.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[reflect.Type]Descriptor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[reflect.Type]Descriptor),
	}
}

// Register adds an explicit descriptor.
func (r *Registry) Register(descriptor Descriptor) error {
	if descriptor.Type == nil || len(descriptor.Fields) == 0 || descriptor.Extract == nil || descriptor.Build == nil {
		return ErrInvalidDescriptor
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[descriptor.Type]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDescriptor, descriptor.Type)
	}

	r.descriptors[descriptor.Type] = descriptor

	return nil
}

// Lookup returns the descriptor registered for the given dynamic node type.
func (r *Registry) Lookup(nodeType reflect.Type) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptor, ok := r.descriptors[nodeType]

	return descriptor, ok
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.descriptors)
}

// Reconstruct builds an unbound node equivalent to raw: same origin, same domain values.
// The descriptor is looked up by the dynamic type of raw.
func (r *Registry) Reconstruct(raw Node) (Node, error) {
	if isNilNode(raw) {
		return nil, ErrNilNode
	}

	nodeType := reflect.TypeOf(raw)

	descriptor, ok := r.Lookup(nodeType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoDescriptor, nodeType)
	}

	fields, extractErr := descriptor.Extract(raw)
	if extractErr != nil {
		return nil, errors.Join(ErrIdentityMismatch, extractErr)
	}

	if len(fields) != len(descriptor.Fields) {
		return nil, fmt.Errorf(
			"%w: %s expects %d fields %v, got %d",
			ErrIdentityMismatch, nodeType, len(descriptor.Fields), descriptor.Fields, len(fields),
		)
	}

	node, buildErr := descriptor.Build(fields)
	if buildErr != nil {
		return nil, errors.Join(ErrIdentityMismatch, buildErr)
	}

	if isNilNode(node) {
		return nil, fmt.Errorf("%w: descriptor for %s built a nil node", ErrNilNode, nodeType)
	}

	return node, nil
}

// ExtractShape is the default extractor: it reads origin and value from a Shaped node.
func ExtractShape(raw Node) ([]any, error) {
	shaped, ok := raw.(Shaped)
	if !ok {
		return nil, fmt.Errorf("%T does not declare an identity shape", raw)
	}

	origin, value := shaped.Identity()

	return []any{origin, value}, nil
}

// RegisterShape registers the default descriptor for node type N: origin O plus one value V.
func RegisterShape[N Shaped, O Node, V any](r *Registry, build func(origin O, value V) N) error {
	return r.Register(Descriptor{
		Type:    reflect.TypeFor[N](),
		Fields:  []string{"origin", "value"},
		Extract: ExtractShape,
		Build: func(fields []any) (Node, error) {
			origin, ok := Field[O](fields, 0)
			if !ok {
				return nil, fmt.Errorf("origin is %T, want %s", fields[0], reflect.TypeFor[O]())
			}

			value, ok := Field[V](fields, 1)
			if !ok {
				return nil, fmt.Errorf("value is %T, want %s", fields[1], reflect.TypeFor[V]())
			}

			return build(origin, value), nil
		},
	})
}

// RegisterRoot registers the default descriptor for a root node type N: no origin plus one value V.
func RegisterRoot[N Shaped, V any](r *Registry, build func(value V) N) error {
	return r.Register(Descriptor{
		Type:    reflect.TypeFor[N](),
		Fields:  []string{"origin", "value"},
		Extract: ExtractShape,
		Build: func(fields []any) (Node, error) {
			if fields[0] != nil && !isNilNode(fields[0]) {
				return nil, fmt.Errorf("root node has origin %T", fields[0])
			}

			value, ok := Field[V](fields, 1)
			if !ok {
				return nil, fmt.Errorf("value is %T, want %s", fields[1], reflect.TypeFor[V]())
			}

			return build(value), nil
		},
	})
}

// Field reads identity field i as type T. A nil field yields the zero value of T.
func Field[T any](fields []any, i int) (T, bool) {
	var zero T

	if i < 0 || i >= len(fields) {
		return zero, false
	}

	if fields[i] == nil {
		return zero, true
	}

	value, ok := fields[i].(T)

	return value, ok
}

func isNilNode(node any) bool {
	if node == nil {
		return true
	}

	rv := reflect.ValueOf(node)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
