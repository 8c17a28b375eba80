package filesecret

import (
	"github.com/google/uuid"

	"acb/internal/registry"
)

const (
	Category = "secret"
	Provider = "file"
)

// Descriptor describes this backend under the "secret" category. The
// secret store a process uses is not resolved through the registry or the
// DI container: bootstrap.Run takes it from its secretsFactory argument.
func Descriptor() registry.Descriptor {
	return registry.Descriptor{
		UUID:     uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Name:     "file-secret-store",
		Category: Category,
		Provider: Provider,
		Status:   registry.StatusStable,
	}
}
