package soft

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrSessionEnded is raised when a wrapped node is used after its session ended.
	ErrSessionEnded = errors.New("soft assertion session has ended")

	// ErrNotANode is raised when a navigation method returns something that is not a Node.
	ErrNotANode = errors.New("navigation result is not a node")
)

// WrapperType is the cached interception method table of one concrete node type.
type WrapperType struct {
	nodeType reflect.Type
	methods  map[string]Classification
}

// NodeType returns the concrete node type the wrapper type was built for.
func (w *WrapperType) NodeType() reflect.Type {
	return w.nodeType
}

// Classification returns the policy of the named method, false if the type has no such method.
func (w *WrapperType) Classification(method string) (Classification, bool) {
	c, ok := w.methods[method]

	return c, ok
}

// Interceptor routes calls on bound nodes through the classifier and the aggregator,
// rewrapping navigation results with the registry.
type Interceptor struct {
	registry   *Registry
	aggregator *Aggregator
	observer   *observer

	wrapperTypes sync.Map // reflect.Type -> *WrapperType
	group        singleflight.Group
	typeBuilds   atomic.Int64

	mu        sync.Mutex
	rewrapped map[Node]Node
	ended     error
}

func newInterceptor(registry *Registry, aggregator *Aggregator, observer *observer) *Interceptor {
	return &Interceptor{
		registry:   registry,
		aggregator: aggregator,
		observer:   observer,
		rewrapped:  make(map[Node]Node),
	}
}

// Wrap returns the bound equivalent of node. Nodes already bound to this interceptor are returned as-is.
func (l *Interceptor) Wrap(node Node) (Node, error) {
	if err := l.endErr(); err != nil {
		return nil, err
	}

	if isNilNode(node) {
		return nil, ErrNilNode
	}

	if node.base().layer == l {
		return node, nil
	}

	wrapped, err := l.rewrap(node)
	if err != nil {
		l.end(err)
		l.observer.fatal(err)

		return nil, err
	}

	return wrapped, nil
}

// WrapperType returns the cached wrapper type for nodeType, building it at most once.
func (l *Interceptor) WrapperType(nodeType reflect.Type) (*WrapperType, error) {
	if cached, ok := l.wrapperTypes.Load(nodeType); ok {
		return cached.(*WrapperType), nil //nolint:forcetypeassert // only *WrapperType is stored
	}

	key := wrapperTypeKey(nodeType)

	built, err, _ := l.group.Do(key, func() (any, error) {
		if cached, ok := l.wrapperTypes.Load(nodeType); ok {
			return cached, nil
		}

		start := time.Now()

		wrapperType, buildErr := buildWrapperType(nodeType)
		if buildErr != nil {
			return nil, buildErr
		}

		l.typeBuilds.Add(1)
		l.wrapperTypes.Store(nodeType, wrapperType)
		l.observer.wrapperTypeBuilt(wrapperType, time.Since(start))

		return wrapperType, nil
	})
	if err != nil {
		return nil, err
	}

	return built.(*WrapperType), nil //nolint:forcetypeassert // only *WrapperType is returned
}

// WrapperTypeBuilds returns how many wrapper types this interceptor has constructed.
func (l *Interceptor) WrapperTypeBuilds() int64 {
	return l.typeBuilds.Load()
}

func (l *Interceptor) invoke(node Node, method string, call func() any) (any, bool) {
	if err := l.endErr(); err != nil {
		panic(err)
	}

	nodeType := reflect.TypeOf(node)

	wrapperType, err := l.WrapperType(nodeType)
	if err != nil {
		l.fatal(err)
	}

	classification, ok := wrapperType.Classification(method)
	if !ok {
		panic(fmt.Errorf("%w: %s has no method %q", ErrUnclassifiedMethod, nodeType, method))
	}

	if classification == Passthrough {
		return call(), true
	}

	return l.collect(node, nodeType, method, classification, call)
}

// collect runs one classified call: Entered -> Succeeded (committed or propagated)
// or Failed (recorded and suppressed, or re-raised to the enclosing frame).
func (l *Interceptor) collect(
	node Node,
	nodeType reflect.Type,
	method string,
	classification Classification,
	call func() any,
) (any, bool) {

	l.aggregator.Enter()

	result, failure := l.protect(call)
	if failure != nil {
		failure.stamp(method, nodeType.String())

		if !l.aggregator.LeaveOnFailure(failure) {
			panic(failure)
		}

		l.observer.failureRecorded(failure)

		return nil, false
	}

	if classification == CollectAndRewrap {
		raw, isNode := result.(Node)
		if !isNode {
			l.aggregator.LeaveOnFatal()
			l.fatal(fmt.Errorf("%w: %s.%s returned %T", ErrNotANode, nodeType, method, result))
		}

		wrapped, err := l.rewrap(raw)
		if err != nil {
			l.aggregator.LeaveOnFatal()
			l.fatal(err)
		}

		result = wrapped
	}

	l.aggregator.LeaveOnSuccess()

	return result, true
}

// protect runs call and recovers the collectible failure kind. Any other panic closes the
// frame and keeps unwinding unchanged.
func (l *Interceptor) protect(call func() any) (result any, failure *AssertionError) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}

		if f, ok := asFailure(recovered); ok {
			failure = f
			return
		}

		l.aggregator.LeaveOnFatal()
		panic(recovered)
	}()

	return call(), nil
}

func (l *Interceptor) rewrap(raw Node) (Node, error) {
	if isNilNode(raw) {
		return nil, ErrNilNode
	}

	if raw.base().layer == l {
		return raw, nil
	}

	l.mu.Lock()
	cached, ok := l.rewrapped[raw]
	l.mu.Unlock()

	if ok {
		return cached, nil
	}

	if _, err := l.WrapperType(reflect.TypeOf(raw)); err != nil {
		return nil, err
	}

	rebuilt, err := l.registry.Reconstruct(raw)
	if err != nil {
		return nil, err
	}

	rebuilt.base().layer = l

	l.mu.Lock()
	l.rewrapped[raw] = rebuilt
	l.mu.Unlock()

	return rebuilt, nil
}

// fatal ends the session and raises err. Wrapping configuration defects make the session unusable.
func (l *Interceptor) fatal(err error) {
	l.end(err)
	l.observer.fatal(err)
	panic(err)
}

func (l *Interceptor) end(cause error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ended != nil {
		return
	}

	if cause == nil {
		l.ended = ErrSessionEnded
		return
	}

	l.ended = fmt.Errorf("%w: %w", ErrSessionEnded, cause)
}

func (l *Interceptor) endErr() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.ended
}

func buildWrapperType(nodeType reflect.Type) (*WrapperType, error) {
	methods := make(map[string]Classification, nodeType.NumMethod())

	for i := range nodeType.NumMethod() {
		name := nodeType.Method(i).Name

		classification, err := Classify(name)
		if err != nil {
			return nil, fmt.Errorf("building wrapper type for %s: %w", nodeType, err)
		}

		methods[name] = classification
	}

	return &WrapperType{nodeType: nodeType, methods: methods}, nil
}

func wrapperTypeKey(nodeType reflect.Type) string {
	named := nodeType
	for named.Kind() == reflect.Pointer {
		named = named.Elem()
	}

	return named.PkgPath() + "|" + nodeType.String()
}
