// Package registry holds the catalogue of adapter descriptors and the
// current per-category enablement: a two-level category/provider keying
// with per-category availability bookkeeping.
package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"acb/internal/errs"
	"acb/pkg/logging"
)

// Status is metadata only; the registry never enforces a transition order
// between them.
type Status string

const (
	StatusExperimental Status = "experimental"
	StatusAlpha        Status = "alpha"
	StatusBeta         Status = "beta"
	StatusStable       Status = "stable"
	StatusDeprecated   Status = "deprecated"
)

// Descriptor identifies one concrete adapter implementation. It is created
// by the adapter module's Descriptor function and never mutated after
// Register stores it.
type Descriptor struct {
	UUID             uuid.UUID
	Name             string
	Category         string
	Provider         string
	Version          string
	MinCoreVersion   string
	Status           Status
	Capabilities     []string
	RequiredPackages []string
	SettingsClass    string
	Example          string
	// Deprecated carries the migration note surfaced when a Status ==
	// StatusDeprecated descriptor is enabled; empty otherwise.
	Deprecated string
}

type location struct {
	category string
	provider string
}

// Registry is the adapter catalogue. Registration happens once,
// single-threaded, at startup; Resolve is safe for concurrent readers
// thereafter.
type Registry struct {
	mu sync.RWMutex

	entries map[string]map[string]Descriptor // category -> provider -> descriptor
	order   map[string][]string              // category -> providers in insertion order
	byUUID  map[uuid.UUID]location
	enabled map[string]string // category -> enabled provider
}

func New() *Registry {
	return &Registry{
		entries: make(map[string]map[string]Descriptor),
		order:   make(map[string][]string),
		byUUID:  make(map[uuid.UUID]location),
		enabled: make(map[string]string),
	}
}

// Register adds or replaces a descriptor. Idempotent by UUID: a later call
// carrying a UUID already known to the registry replaces that entry
// wherever it lives, even if the category or provider tag changed, so that
// development-mode hot-reload of an adapter module converges on exactly one
// entry per UUID.
func (r *Registry) Register(d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, exists := r.byUUID[d.UUID]; exists {
		r.removeLocked(old)
	}
	r.addLocked(d)
}

func (r *Registry) addLocked(d Descriptor) {
	if r.entries[d.Category] == nil {
		r.entries[d.Category] = make(map[string]Descriptor)
	}
	if _, present := r.entries[d.Category][d.Provider]; !present {
		r.order[d.Category] = append(r.order[d.Category], d.Provider)
	}
	r.entries[d.Category][d.Provider] = d
	r.byUUID[d.UUID] = location{category: d.Category, provider: d.Provider}
}

func (r *Registry) removeLocked(loc location) {
	delete(r.entries[loc.category], loc.provider)
	providers := r.order[loc.category]
	for i, p := range providers {
		if p == loc.provider {
			r.order[loc.category] = append(providers[:i], providers[i+1:]...)
			break
		}
	}
}

// Enable marks exactly one provider enabled for category, replacing any
// previously enabled provider in that category. provider == "" defers to
// the auto-enable tie-break used by Resolve.
func (r *Registry) Enable(category, provider string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	providers, ok := r.entries[category]
	if !ok {
		return fmt.Errorf("%w: category %q", errs.ErrNoSuchAdapter, category)
	}

	if provider == "" {
		if len(providers) != 1 {
			return fmt.Errorf("%w: category %q has %d providers", errs.ErrCategoryAmbiguity, category, len(providers))
		}
		for only := range providers {
			provider = only
		}
	}

	d, ok := providers[provider]
	if !ok {
		return fmt.Errorf("%w: category %q provider %q", errs.ErrNoSuchAdapter, category, provider)
	}

	if d.Status == StatusDeprecated {
		note := d.Deprecated
		if note == "" {
			note = "no migration note provided"
		}
		logging.Warn("registry", "enabling deprecated adapter %s/%s: %s", category, provider, note)
	}

	r.enabled[category] = provider
	return nil
}

// Resolve returns the enabled descriptor for category. If no explicit
// enablement has occurred and exactly one provider is registered, it is
// auto-enabled and returned; otherwise Resolve fails.
func (r *Registry) Resolve(category string) (Descriptor, error) {
	r.mu.RLock()
	provider, explicitlyEnabled := r.enabled[category]
	providers := r.entries[category]
	r.mu.RUnlock()

	if explicitlyEnabled {
		r.mu.RLock()
		d, ok := providers[provider]
		r.mu.RUnlock()
		if !ok {
			return Descriptor{}, fmt.Errorf("%w: category %q provider %q", errs.ErrNoSuchAdapter, category, provider)
		}
		return d, nil
	}

	if len(providers) == 1 {
		if err := r.Enable(category, ""); err != nil {
			return Descriptor{}, err
		}
		return r.Resolve(category)
	}

	return Descriptor{}, fmt.Errorf("%w: category %q", errs.ErrNoAdapterEnabled, category)
}

// Iter returns descriptors, optionally filtered by category. Within one
// category, providers come in insertion order. category == "" returns every
// registered descriptor; the order of categories in that result is not
// defined and can differ between calls.
func (r *Registry) Iter(category string) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if category != "" {
		out := make([]Descriptor, 0, len(r.order[category]))
		for _, p := range r.order[category] {
			out = append(out, r.entries[category][p])
		}
		return out
	}

	var out []Descriptor
	for cat, providers := range r.order {
		for _, p := range providers {
			out = append(out, r.entries[cat][p])
		}
	}
	return out
}

// EnabledProvider reports the provider currently enabled for category,
// without triggering auto-enable. Used by the `acb list` command to render
// enablement without side effects.
func (r *Registry) EnabledProvider(category string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.enabled[category]
	return p, ok
}
