// Package secret pins the secret adapter contract. The settings loader
// depends on this interface, not on any one backend, so it is kept in its
// own package free of any concrete adapter's dependencies.
package secret

import "context"

// Store is implemented by every secret backend. Get and Delete are
// idempotent and never error on a missing name; absence is reported via
// the bool return instead.
type Store interface {
	// List enumerates known secret names, optionally filtered by a
	// category prefix. An empty prefix lists everything within this
	// store's own app-name scope.
	List(ctx context.Context, categoryPrefix string) ([]string, error)

	// Get returns the plaintext for name, or ("", false, nil) if absent.
	// An empty version means "latest".
	Get(ctx context.Context, name, version string) (string, bool, error)

	// Set creates or updates name's plaintext value.
	Set(ctx context.Context, name, plaintext string) error

	// Exists is a convenience probe; may be implemented purely in terms
	// of Get.
	Exists(ctx context.Context, name string) (bool, error)

	// Delete removes name. Deleting an absent name is not an error.
	Delete(ctx context.Context, name string) error

	// ListVersions returns whatever version identifiers the backend
	// tracks for name. Backends without versioning return an empty
	// slice; version identifiers are never normalized across backends.
	ListVersions(ctx context.Context, name string) ([]string, error)
}
