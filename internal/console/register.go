package console

import (
	"context"

	"github.com/google/uuid"

	"acb/internal/config"
	"acb/internal/di"
	"acb/internal/registry"
	"acb/internal/settings"
)

// Category is the registry category console registers under, so bootstrap
// treats it exactly like any other adapter: one descriptor, resolved
// through the DI container, enabled via settings/adapters.yaml.
const Category = "console"

// Settings is the settings/console.yaml shape: an explicit override for
// width (0 means "let ResolveWidth decide") and a flag that forces colors
// off on top of the env-var rules in ColorsEnabled.
type Settings struct {
	Width        int  `yaml:"width,omitempty"`
	ForceNoColor bool `yaml:"forceNoColor,omitempty"`
}

// Descriptor is the one descriptor console's adapter module publishes.
func Descriptor() registry.Descriptor {
	return registry.Descriptor{
		UUID:     uuid.MustParse("9b1f7f0e-7f0a-4d2a-8f1d-9a6c2b9b8a01"),
		Name:     "default-console",
		Category: Category,
		Provider: "default",
		Status:   registry.StatusStable,
	}
}

// Factory constructs a Console by hydrating Settings from root (defaults,
// settings/console.yaml, no secret layer), then resolving width and color
// mode.
func Factory(root *config.Root, appName string) di.Factory {
	return func(ctx context.Context, c *di.Container) (any, error) {
		s, err := settings.Load(ctx, root, nil, Category, Settings{}, nil, settings.Options{
			AppName:           appName,
			SuppressWriteback: root.Deployed,
		})
		if err != nil {
			return nil, err
		}

		colors := ColorsEnabled(OSEnv{}) && !s.ForceNoColor
		width := ResolveWidth(OSEnv{}, s.Width)
		return New(width, colors), nil
	}
}
