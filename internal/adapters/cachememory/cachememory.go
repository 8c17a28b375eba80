// Package cachememory is the reference adapter acb ships in-tree: a single
// provider ("memory") for the "cache" category, chosen to exercise the
// full registry → settings → DI → adapter-lifecycle pipeline end to end,
// including a secret-hydrated field.
package cachememory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"acb/internal/adapter"
	"acb/internal/bootstrap"
	"acb/internal/config"
	"acb/internal/di"
	"acb/internal/registry"
	"acb/internal/secret"
	"acb/internal/settings"
)

const (
	Category = "cache"
	Provider = "memory"
)

// Settings is settings/cache.yaml's shape: a host/port pair a real backend
// would dial (unused by the in-memory implementation, kept to exercise
// layered override behavior) plus a secret-hydrated password field
// exercising secret-store hydration.
type Settings struct {
	Host     string                `yaml:"host"`
	Port     int                   `yaml:"port"`
	Password settings.SecretString `yaml:"password"`
}

// Adapter is a process-local key/value store. It embeds adapter.Base for
// lazy-client/resource/cleanup scaffolding even though its "client" is a
// placeholder — every adapter goes through the same lifecycle shape
// regardless of whether its backend is remote.
type Adapter struct {
	base     *adapter.Base
	settings Settings

	mu   sync.RWMutex
	data map[string]string
}

// New constructs an Adapter from already-hydrated settings. The primary
// "client" is a no-op placeholder standing in for a real backend's
// connection handle.
func New(s Settings) *Adapter {
	a := &Adapter{settings: s, data: make(map[string]string)}
	a.base = adapter.NewBase(Category+"/"+Provider, func(ctx context.Context) (any, error) {
		return struct{}{}, nil
	})
	return a
}

// Init satisfies adapter.Initializer: the DI container calls this once,
// before handing the instance to any caller.
func (a *Adapter) Init(ctx context.Context) error {
	_, err := a.base.EnsureClient(ctx)
	return err
}

// Cleanup satisfies the DI container's teardown contract.
func (a *Adapter) Cleanup(ctx context.Context) error {
	return a.base.Cleanup(ctx)
}

// Settings returns the hydrated settings this instance was built from.
func (a *Adapter) Settings() Settings { return a.settings }

func (a *Adapter) Get(key string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.data[key]
	return v, ok
}

func (a *Adapter) Set(key, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data[key] = value
}

// Descriptor is the one descriptor this adapter module publishes.
func Descriptor() registry.Descriptor {
	return registry.Descriptor{
		UUID:           uuid.MustParse("3f2504e0-4f89-11d3-9a0c-0305e82c3301"),
		Name:           "memory-cache",
		Category:       Category,
		Provider:       Provider,
		Status:         registry.StatusStable,
		Capabilities:   []string{"get", "set"},
		SettingsClass:  "cachememory.Settings",
		MinCoreVersion: "0.1.0",
	}
}

// Factory hydrates Settings and constructs the Adapter, the shape
// internal/di.Factory expects.
func Factory(root *config.Root, store secret.Store, appName string) di.Factory {
	return func(ctx context.Context, c *di.Container) (any, error) {
		s, err := settings.Load(ctx, root, store, Category,
			Settings{Host: "localhost", Port: 6379}, nil,
			settings.Options{AppName: appName, SuppressWriteback: root.Deployed},
		)
		if err != nil {
			return nil, err
		}
		return New(s), nil
	}
}

// Package bundles this module's descriptor and factory into the
// bootstrap.AdapterPackage shape Run expects.
func Package(root *config.Root, store secret.Store, appName string) bootstrap.AdapterPackage {
	return bootstrap.AdapterPackage{
		Descriptor: Descriptor(),
		Factory:    Factory(root, store, appName),
	}
}

// Builder adapts Package to bootstrap.AdapterBuilder, passing on the
// secret store bootstrap.Run resolves (nil when Run has none), for callers
// (tests, single-adapter demos) that don't need a multi-adapter builder.
func Builder(appName string) bootstrap.AdapterBuilder {
	return func(root *config.Root, secrets secret.Store) []bootstrap.AdapterPackage {
		return []bootstrap.AdapterPackage{Package(root, secrets, appName)}
	}
}
