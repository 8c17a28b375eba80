package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"acb/internal/config"
	"acb/internal/di"
	"acb/internal/registry"
	"acb/internal/secret"
	"acb/pkg/logging"
)

// AdapterPackage is what an adapter module publishes: one descriptor, plus
// a factory bound into the DI container under that descriptor's (category,
// provider) key. Go has no runtime package-tree walk to discover these by
// import side effect, so bootstrap takes them explicitly — a
// compile-time-explicit registration surface (see DESIGN.md's Open
// Question log).
type AdapterPackage struct {
	Descriptor registry.Descriptor
	Factory    di.Factory
}

// AdapterBuilder constructs the set of adapter packages to register, given
// the already-resolved ConfigRoot and secret store. Adapters that hydrate a
// SecretString-typed setting need the real secret store at factory-build
// time, not just at Factory-call time, so Run resolves root and secrets
// first and hands both to the builder instead of taking a precomputed
// slice — the chicken-and-egg every adapter package that calls
// settings.Load must otherwise solve for itself.
type AdapterBuilder func(root *config.Root, secrets secret.Store) []AdapterPackage

// Result is everything Run wires together, handed to the embedding
// application (or cmd/) to resolve capabilities from.
type Result struct {
	Mode      Mode
	Root      *config.Root
	Registry  *registry.Registry
	Container *di.Container
	Secrets   secret.Store
}

// Run executes the startup sequence for the given mode: builds ConfigRoot
// (safe defaults outside application mode, otherwise read from disk, with
// Deployed taken from the DEPLOYED env var),
// registers every adapter package's descriptor, and — in application mode
// only — reads settings/adapters.yaml to enable the configured provider
// per category and binds each adapter's factory into the container.
// secretsFactory, if non-nil, is invoked to construct the secret store
// once application mode is confirmed; it is not called in library or test
// mode, so eager initialization stays suppressed outside application mode.
func Run(ctx context.Context, mode Mode, rootPath string, build AdapterBuilder, secretsFactory func(*config.Root) secret.Store) (*Result, error) {
	var root *config.Root
	var err error

	switch mode {
	case ModeApplication:
		root, err = config.Load(rootPath)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: loading config root: %w", err)
		}
		root.Deployed = Deployed(OSEnv{})
	default:
		root = config.Default(rootPath)
	}

	var secrets secret.Store
	if mode == ModeApplication && secretsFactory != nil {
		secrets = secretsFactory(root)
	}

	var adapters []AdapterPackage
	if build != nil {
		adapters = build(root, secrets)
	}

	reg := registry.New()
	for _, pkg := range adapters {
		reg.Register(pkg.Descriptor)
	}

	container := di.New()

	if mode == ModeApplication {
		enablement, err := loadEnablement(root)
		if err != nil {
			return nil, err
		}
		for category, provider := range enablement {
			if err := reg.Enable(category, provider); err != nil {
				return nil, fmt.Errorf("bootstrap: enabling %s=%s: %w", category, provider, err)
			}
		}

		for _, pkg := range adapters {
			key := di.Key{Category: pkg.Descriptor.Category, Name: pkg.Descriptor.Provider}
			container.Bind(key, pkg.Factory)
		}

		logging.Info("Bootstrap", "application mode: %d adapter(s) registered", len(adapters))
	} else {
		logging.Debug("Bootstrap", "starting in %s mode, skipping eager adapter enablement", mode)
	}

	return &Result{
		Mode:      mode,
		Root:      root,
		Registry:  reg,
		Container: container,
		Secrets:   secrets,
	}, nil
}

func loadEnablement(root *config.Root) (map[string]string, error) {
	path := filepath.Join(root.SettingsDir(), "adapters.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("bootstrap: reading %s: %w", path, err)
	}

	var enablement map[string]string
	if err := yaml.Unmarshal(data, &enablement); err != nil {
		return nil, fmt.Errorf("bootstrap: parsing %s: %w", path, err)
	}
	return enablement, nil
}
