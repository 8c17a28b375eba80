package registry

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acb/internal/errs"
)

func memoryCache() Descriptor {
	return Descriptor{
		UUID: uuid.New(), Name: "Memory Cache", Category: "cache", Provider: "memory",
		Version: "1.0.0", Status: StatusStable,
	}
}

func TestResolve_EmptyRegistry_NoAdapterEnabled(t *testing.T) {
	r := New()
	_, err := r.Resolve("cache")
	assert.ErrorIs(t, err, errs.ErrNoAdapterEnabled)
}

// A single registered provider auto-enables on first resolve.
func TestResolve_SingleProvider_AutoEnables(t *testing.T) {
	r := New()
	r.Register(memoryCache())

	d, err := r.Resolve("cache")
	require.NoError(t, err)
	assert.Equal(t, "memory", d.Provider)
}

func TestEnable_CategoryAmbiguity_WithoutExplicitProvider(t *testing.T) {
	r := New()
	r.Register(memoryCache())
	r.Register(Descriptor{UUID: uuid.New(), Category: "cache", Provider: "redis"})

	_, err := r.Resolve("cache")
	assert.ErrorIs(t, err, errs.ErrNoAdapterEnabled)

	err = r.Enable("cache", "")
	assert.ErrorIs(t, err, errs.ErrCategoryAmbiguity)
}

func TestEnable_UnknownProviderOrCategory(t *testing.T) {
	r := New()
	r.Register(memoryCache())

	assert.ErrorIs(t, r.Enable("cache", "redis"), errs.ErrNoSuchAdapter)
	assert.ErrorIs(t, r.Enable("sql", "postgres"), errs.ErrNoSuchAdapter)
}

// Invariant 1 + round-trip law: enable(C,P); enable(C,P') leaves only P' enabled.
func TestEnable_ReplacesPreviousEnablement(t *testing.T) {
	r := New()
	r.Register(memoryCache())
	r.Register(Descriptor{UUID: uuid.New(), Category: "cache", Provider: "redis"})

	require.NoError(t, r.Enable("cache", "memory"))
	require.NoError(t, r.Enable("cache", "redis"))

	d, err := r.Resolve("cache")
	require.NoError(t, err)
	assert.Equal(t, "redis", d.Provider)

	p, ok := r.EnabledProvider("cache")
	require.True(t, ok)
	assert.Equal(t, "redis", p)
}

// Round-trip law: register(D); register(D') where D.uuid==D'.uuid leaves
// exactly one entry whose descriptor is D'.
func TestRegister_SameUUID_Overwrites(t *testing.T) {
	r := New()
	id := uuid.New()
	r.Register(Descriptor{UUID: id, Category: "cache", Provider: "memory", Version: "1.0.0"})
	r.Register(Descriptor{UUID: id, Category: "cache", Provider: "memory", Version: "2.0.0"})

	all := r.Iter("cache")
	require.Len(t, all, 1)
	assert.Equal(t, "2.0.0", all[0].Version)
}

// Registering the same UUID under a new category/provider moves the entry
// rather than leaving a stale copy behind.
func TestRegister_SameUUID_DifferentLocation_Moves(t *testing.T) {
	r := New()
	id := uuid.New()
	r.Register(Descriptor{UUID: id, Category: "cache", Provider: "memory"})
	r.Register(Descriptor{UUID: id, Category: "cache", Provider: "redis"})

	all := r.Iter("cache")
	require.Len(t, all, 1)
	assert.Equal(t, "redis", all[0].Provider)
}

func TestIter_InsertionOrder(t *testing.T) {
	r := New()
	a := Descriptor{UUID: uuid.New(), Category: "cache", Provider: "memory"}
	b := Descriptor{UUID: uuid.New(), Category: "cache", Provider: "redis"}
	c := Descriptor{UUID: uuid.New(), Category: "cache", Provider: "cloudflare"}
	r.Register(a)
	r.Register(b)
	r.Register(c)

	got := r.Iter("cache")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"memory", "redis", "cloudflare"},
		[]string{got[0].Provider, got[1].Provider, got[2].Provider})
}

// Enabling a deprecated descriptor still succeeds; the warning it logs is
// side-channel only and must never block enablement.
func TestEnable_DeprecatedDescriptor_StillEnables(t *testing.T) {
	r := New()
	r.Register(Descriptor{
		UUID: uuid.New(), Category: "cache", Provider: "legacy-memcache",
		Status: StatusDeprecated, Deprecated: "use provider \"memory\" instead",
	})

	require.NoError(t, r.Enable("cache", "legacy-memcache"))

	p, ok := r.EnabledProvider("cache")
	require.True(t, ok)
	assert.Equal(t, "legacy-memcache", p)
}

func TestResolve_UnknownEnabledProviderRemoved(t *testing.T) {
	// Defensive case: enabled provider is removed by a later same-category
	// re-registration under a different provider tag; Resolve must report
	// NoSuchAdapter rather than panicking on a missing map entry.
	r := New()
	id := uuid.New()
	r.Register(Descriptor{UUID: id, Category: "cache", Provider: "memory"})
	require.NoError(t, r.Enable("cache", "memory"))
	r.Register(Descriptor{UUID: id, Category: "cache", Provider: "redis"})

	_, err := r.Resolve("cache")
	assert.True(t, errors.Is(err, errs.ErrNoSuchAdapter))
}
