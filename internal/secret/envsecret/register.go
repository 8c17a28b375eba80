package envsecret

import (
	"github.com/google/uuid"

	"acb/internal/registry"
)

const (
	Category = "secret"
	Provider = "env"
)

// Descriptor publishes this backend into the registry under the "secret"
// category.
func Descriptor() registry.Descriptor {
	return registry.Descriptor{
		UUID:     uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8"),
		Name:     "env-secret-store",
		Category: Category,
		Provider: Provider,
		Status:   registry.StatusStable,
	}
}
