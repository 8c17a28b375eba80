package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acb/internal/config"
	"acb/internal/registry"
)

func TestWatcher_ReloadsEnablementOnAdaptersYAMLChange(t *testing.T) {
	rootPath := t.TempDir()
	settingsDir := filepath.Join(rootPath, "settings")
	require.NoError(t, os.MkdirAll(settingsDir, 0o755))

	root := config.Default(rootPath)
	reg := registry.New()
	reg.Register(memoryCachePackage().Descriptor)

	w := NewWatcher(root, reg, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	_, ok := reg.EnabledProvider("cache")
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(settingsDir, "adapters.yaml"), []byte("cache: memory\n"), 0o644))

	require.Eventually(t, func() bool {
		provider, ok := reg.EnabledProvider("cache")
		return ok && provider == "memory"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_StartIsIdempotent(t *testing.T) {
	rootPath := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(rootPath, "settings"), 0o755))

	root := config.Default(rootPath)
	w := NewWatcher(root, registry.New(), 0)

	ctx := context.Background()
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Stop())
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	rootPath := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(rootPath, "settings"), 0o755))

	w := NewWatcher(config.Default(rootPath), registry.New(), 0)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
