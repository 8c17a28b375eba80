// Package adapter provides the lifecycle scaffold every concrete adapter
// embeds: a lazily-created primary client, a named cache of secondary
// resources derived from it, and idempotent cleanup.
package adapter

import (
	"context"
	"errors"
	"sync"

	"acb/internal/errs"
	"acb/pkg/logging"
)

// CtxCloser is preferred over Closer when a resource implements both, so a
// resource gets the chance to respect cancellation while closing.
type CtxCloser interface {
	Close(ctx context.Context) error
}

// Closer is the plain synchronous close a resource may implement instead.
type Closer interface {
	Close() error
}

// Initializer is implemented by adapters that need one-time setup after
// construction and before the DI container hands them to a caller.
type Initializer interface {
	Init(ctx context.Context) error
}

// Base is embedded by every concrete adapter. Zero value is not usable;
// construct with NewBase.
type Base struct {
	mu sync.Mutex

	name string

	createClient func(ctx context.Context) (any, error)
	clientSet    bool
	client       any
	clientErr    error

	resources     map[string]any
	resourceOrder []string

	cleanupOnce sync.Once
	cleaned     bool
	cleanupErr  error
}

// NewBase constructs a Base for an adapter named name (used in log lines),
// with createClient as the factory backing EnsureClient.
func NewBase(name string, createClient func(ctx context.Context) (any, error)) *Base {
	return &Base{
		name:         name,
		createClient: createClient,
		resources:    make(map[string]any),
	}
}

// EnsureClient returns the primary client, constructing it via the factory
// passed to NewBase on first call and caching it thereafter. Concurrent
// first calls serialize behind Base's own lock.
func (b *Base) EnsureClient(ctx context.Context) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cleaned {
		return nil, errs.ErrAlreadyCleanedUp
	}
	if !b.clientSet {
		b.client, b.clientErr = b.createClient(ctx)
		b.clientSet = true
	}
	return b.client, b.clientErr
}

// EnsureResource is EnsureClient's generalization for named secondary
// resources derived from the primary client (a session from an engine, a
// prepared statement cache, ...). factory runs at most once per key.
func (b *Base) EnsureResource(ctx context.Context, key string, factory func(ctx context.Context) (any, error)) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cleaned {
		return nil, errs.ErrAlreadyCleanedUp
	}
	if r, ok := b.resources[key]; ok {
		return r, nil
	}

	r, err := factory(ctx)
	if err != nil {
		return nil, err
	}
	b.resources[key] = r
	b.resourceOrder = append(b.resourceOrder, key)
	return r, nil
}

// Cleanup is idempotent: only the first call closes anything. It closes
// every cached resource (logging and continuing past individual failures),
// then the primary client, and sets the cleaned flag so later operations
// fail with errs.ErrAlreadyCleanedUp.
func (b *Base) Cleanup(ctx context.Context) error {
	b.cleanupOnce.Do(func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		var failures []error
		for _, key := range b.resourceOrder {
			if err := closeAny(ctx, b.resources[key]); err != nil {
				logging.Error(b.name, err, "cleanup: resource %q failed to close", key)
				failures = append(failures, err)
			}
		}
		if b.clientSet && b.client != nil {
			if err := closeAny(ctx, b.client); err != nil {
				logging.Error(b.name, err, "cleanup: primary client failed to close")
				failures = append(failures, err)
			}
		}

		b.cleaned = true
		b.cleanupErr = errors.Join(failures...)
	})
	return b.cleanupErr
}

// Cleaned reports whether Cleanup has already run.
func (b *Base) Cleaned() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cleaned
}

// Close satisfies io.Closer so an adapter can be used with `defer a.Close()`.
func (b *Base) Close() error {
	return b.Cleanup(context.Background())
}

func closeAny(ctx context.Context, r any) error {
	if r == nil {
		return nil
	}
	if c, ok := r.(CtxCloser); ok {
		return c.Close(ctx)
	}
	if c, ok := r.(Closer); ok {
		return c.Close()
	}
	return nil
}
