// Package di is the keyed singleton cache: capabilities map to instances
// constructed lazily via async-shaped factories and torn down in reverse
// insertion order. First-resolve serialization across goroutines is done
// via golang.org/x/sync/singleflight rather than a hand-rolled mutex map;
// cycle detection along one construction chain is threaded through
// context.Context, so a re-entry from an unrelated goroutine waits instead.
package di

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"

	"acb/internal/adapter"
	"acb/internal/errs"
	"acb/pkg/logging"
)

// Key identifies one binding. Name is empty for the common case of one
// instance per capability type; a non-empty Name supports the case where
// multiple instances of the same capability coexist (e.g. a secondary
// cache).
type Key struct {
	Category string
	Name     string
}

func (k Key) String() string {
	if k.Name == "" {
		return k.Category
	}
	return k.Category + "#" + k.Name
}

// Factory lazily constructs the instance for a key. It receives the
// container so it can resolve its own dependencies through Get, which is
// how cross-key cycles become observable.
type Factory func(ctx context.Context, c *Container) (any, error)

type binding struct {
	mu          sync.RWMutex
	factory     Factory
	instance    any
	hasInstance bool
}

type buildingSet struct{}

// Container is the DI engine. Zero value is not usable; construct with New.
type Container struct {
	mu       sync.Mutex
	bindings map[Key]*binding
	group    singleflight.Group

	orderMu sync.Mutex
	order   []Key

	typeMu    sync.Mutex
	typeIndex map[reflect.Type]Key
}

func New() *Container {
	return &Container{
		bindings:  make(map[Key]*binding),
		typeIndex: make(map[reflect.Type]Key),
	}
}

// Bind registers factory under key. Any previously cached instance for key
// is discarded without cleanup — Bind is a registration-time operation
// meant to run before first use, not a live hot-swap.
func (c *Container) Bind(key Key, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[key] = &binding{factory: factory}
}

// BindInstance registers an already-constructed instance under key, for
// adapters the caller wants to hand in directly rather than lazily build.
func (c *Container) BindInstance(key Key, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[key] = &binding{instance: instance, hasInstance: true}
	c.recordOrder(key)
}

// BindType additionally associates a Go type with key so Inject can supply
// parameters of that type automatically.
func (c *Container) BindType(key Key, sampleType any) {
	c.typeMu.Lock()
	defer c.typeMu.Unlock()
	c.typeIndex[reflect.TypeOf(sampleType)] = key
}

func (c *Container) bindingFor(key Key) *binding {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindings[key]
}

func (c *Container) recordOrder(key Key) {
	c.orderMu.Lock()
	defer c.orderMu.Unlock()
	c.order = append(c.order, key)
}

// Get returns the cached instance for key, constructing it on first use.
// Concurrent first-resolves of the same key on different goroutines
// collapse onto one factory invocation via singleflight; a goroutine that
// re-enters Get for a key it is itself already constructing — i.e. a
// dependency cycle — gets errs.ErrCycleDetected instead of deadlocking.
func (c *Container) Get(ctx context.Context, key Key) (any, error) {
	if isBuilding(ctx, key) {
		return nil, fmt.Errorf("%w: %s", errs.ErrCycleDetected, key)
	}

	b := c.bindingFor(key)
	if b == nil {
		return nil, fmt.Errorf("di: no binding for key %s", key)
	}

	b.mu.RLock()
	if b.hasInstance {
		v := b.instance
		b.mu.RUnlock()
		return v, nil
	}
	b.mu.RUnlock()

	buildCtx := withBuilding(ctx, key)

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		b.mu.RLock()
		if b.hasInstance {
			v := b.instance
			b.mu.RUnlock()
			return v, nil
		}
		b.mu.RUnlock()

		inst, ferr := b.factory(buildCtx, c)
		if ferr != nil {
			return nil, ferr
		}

		if initializer, ok := inst.(adapter.Initializer); ok {
			if ferr := initializer.Init(buildCtx); ferr != nil {
				return nil, ferr
			}
		}

		b.mu.Lock()
		b.instance = inst
		b.hasInstance = true
		b.mu.Unlock()
		c.recordOrder(key)

		return inst, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// cleaner is implemented by adapter.Base (and anything embedding it).
type cleaner interface {
	Cleanup(ctx context.Context) error
}

// Teardown awaits cleanup on every cached instance in reverse insertion
// order. A failing cleanup is logged and collected, never aborting the
// sweep.
func (c *Container) Teardown(ctx context.Context) error {
	c.orderMu.Lock()
	keys := make([]Key, len(c.order))
	copy(keys, c.order)
	c.orderMu.Unlock()

	var failures []error
	for i := len(keys) - 1; i >= 0; i-- {
		key := keys[i]
		b := c.bindingFor(key)
		if b == nil {
			continue
		}
		b.mu.RLock()
		inst := b.instance
		b.mu.RUnlock()

		cl, ok := inst.(cleaner)
		if !ok {
			continue
		}
		if err := cl.Cleanup(ctx); err != nil {
			logging.Error("DI", err, "teardown: cleanup failed for %s", key)
			failures = append(failures, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(failures...)
}

// Inject wraps fn, a function whose parameters are capability types bound
// via BindType, so that calling the wrapper resolves and supplies each
// parameter from the container. A caller may pass a non-zero value for any
// parameter directly; only zero-valued parameters are resolved — a
// parameter the caller already supplied is never overwritten. fn's last
// result must be error; Inject reports a resolution failure through that
// slot instead of panicking.
func (c *Container) Inject(fn any) any {
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		panic("di: Inject requires a function")
	}
	numOut := fnType.NumOut()
	if numOut == 0 || fnType.Out(numOut-1) != reflect.TypeOf((*error)(nil)).Elem() {
		panic("di: Inject requires fn's last return value to be error")
	}

	wrapped := reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		in := make([]reflect.Value, fnType.NumIn())
		for i := 0; i < fnType.NumIn(); i++ {
			if i < len(args) && !args[i].IsZero() {
				in[i] = args[i]
				continue
			}

			pt := fnType.In(i)
			c.typeMu.Lock()
			key, ok := c.typeIndex[pt]
			c.typeMu.Unlock()
			if !ok {
				return failResults(fnType, fmt.Errorf("di: no binding registered for parameter type %s", pt))
			}

			v, err := c.Get(context.Background(), key)
			if err != nil {
				return failResults(fnType, err)
			}
			in[i] = reflect.ValueOf(v)
		}
		return fnVal.Call(in)
	})

	return wrapped.Interface()
}

func failResults(fnType reflect.Type, err error) []reflect.Value {
	out := make([]reflect.Value, fnType.NumOut())
	for i := 0; i < fnType.NumOut()-1; i++ {
		out[i] = reflect.Zero(fnType.Out(i))
	}
	out[fnType.NumOut()-1] = reflect.ValueOf(err)
	return out
}

func withBuilding(ctx context.Context, key Key) context.Context {
	existing, _ := ctx.Value(buildingSet{}).(map[Key]struct{})
	next := make(map[Key]struct{}, len(existing)+1)
	for k := range existing {
		next[k] = struct{}{}
	}
	next[key] = struct{}{}
	return context.WithValue(ctx, buildingSet{}, next)
}

func isBuilding(ctx context.Context, key Key) bool {
	set, _ := ctx.Value(buildingSet{}).(map[Key]struct{})
	_, ok := set[key]
	return ok
}
