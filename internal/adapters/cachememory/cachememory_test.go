package cachememory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acb/internal/bootstrap"
	"acb/internal/config"
	"acb/internal/di"
	"acb/internal/secret"
	"acb/internal/secret/filesecret"
)

func TestAdapter_GetSet(t *testing.T) {
	a := New(Settings{Host: "localhost", Port: 6379})
	require.NoError(t, a.Init(context.Background()))

	_, ok := a.Get("missing")
	assert.False(t, ok)

	a.Set("k", "v")
	v, ok := a.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestAdapter_Cleanup_Idempotent(t *testing.T) {
	a := New(Settings{})
	require.NoError(t, a.Init(context.Background()))
	require.NoError(t, a.Cleanup(context.Background()))
	require.NoError(t, a.Cleanup(context.Background()))
}

// With one registered entry (cache, memory) and no adapters.yaml, the
// first resolve auto-enables and succeeds.
func TestEndToEnd_AutoEnablesSingleProvider(t *testing.T) {
	rootPath := t.TempDir()

	res, err := bootstrap.Run(context.Background(), bootstrap.ModeApplication, rootPath, Builder("myapp"), nil)
	require.NoError(t, err)

	desc, err := res.Registry.Resolve(Category)
	require.NoError(t, err)
	assert.Equal(t, Provider, desc.Provider)

	inst, err := res.Container.Get(context.Background(), di.Key{Category: Category, Name: Provider})
	require.NoError(t, err)
	adapter, ok := inst.(*Adapter)
	require.True(t, ok)
	assert.Equal(t, "localhost", adapter.Settings().Host)
}

// A cache.yaml file sets host/port, a secret store supplies the password,
// and the full pipeline hydrates both.
func TestEndToEnd_LayeredSettingsAndSecretHydration(t *testing.T) {
	rootPath := t.TempDir()
	settingsDir := filepath.Join(rootPath, "settings")
	require.NoError(t, os.MkdirAll(settingsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(settingsDir, "cache.yaml"), []byte("host: yaml-host\nport: 6380\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(settingsDir, "adapters.yaml"), []byte("cache: memory\n"), 0o644))

	store := filesecret.New(filepath.Join(rootPath, "secrets"))
	require.NoError(t, store.Set(context.Background(), "myapp_cache_password", "hunter2"))

	res, err := bootstrap.Run(context.Background(), bootstrap.ModeApplication, rootPath, Builder("myapp"), func(*config.Root) secret.Store {
		return store
	})
	require.NoError(t, err)

	inst, err := res.Container.Get(context.Background(), di.Key{Category: Category, Name: Provider})
	require.NoError(t, err)
	adapter := inst.(*Adapter)

	assert.Equal(t, "yaml-host", adapter.Settings().Host)
	assert.Equal(t, 6380, adapter.Settings().Port)
	assert.Equal(t, "hunter2", adapter.Settings().Password.Reveal())
	assert.NotEqual(t, "hunter2", adapter.Settings().Password.String())
}
