package cmd

import (
	"context"

	"acb/internal/adapters/cachememory"
	"acb/internal/bootstrap"
	"acb/internal/config"
	"acb/internal/console"
	"acb/internal/secret"
	"acb/internal/secret/filesecret"
)

// appName prefixes every secret-store lookup key this CLI's adapters form.
const appName = "acb"

// buildGraph runs bootstrap.Run for the CLI's own reference graph: the
// in-tree memory cache adapter and the console facade. Execute()'s own
// invocation is the application-entry sentinel, so mode is always
// ModeApplication unless TESTING overrides it.
func buildGraph(ctx context.Context) (*bootstrap.Result, error) {
	mode := bootstrap.DetectMode(bootstrap.OSEnv{}, true)

	build := func(root *config.Root, secrets secret.Store) []bootstrap.AdapterPackage {
		return []bootstrap.AdapterPackage{
			cachememory.Package(root, secrets, appName),
			{Descriptor: console.Descriptor(), Factory: console.Factory(root, appName)},
		}
	}

	secretsFactory := func(root *config.Root) secret.Store {
		return filesecret.New(root.SecretsDir())
	}

	return bootstrap.Run(ctx, mode, rootConfigPath, build, secretsFactory)
}
