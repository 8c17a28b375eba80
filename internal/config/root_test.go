package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_DoesNotTouchDisk(t *testing.T) {
	root := Default("/nonexistent/path")
	assert.Equal(t, "", root.App.Name)
	assert.False(t, root.Deployed)
}

func TestLoad_MissingFilesYieldZeroValues(t *testing.T) {
	dir := t.TempDir()

	root, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, AppInfo{}, root.App)
	assert.Equal(t, DebugInfo{}, root.Debug)
}

func TestLoad_ReadsAppAndDebugYAML(t *testing.T) {
	dir := t.TempDir()
	settingsDir := filepath.Join(dir, settingsDirName)
	require.NoError(t, os.MkdirAll(settingsDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(settingsDir, appFileName),
		[]byte("name: myapp\ntitle: My App\nversion: 1.2.3\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(settingsDir, debugFileName),
		[]byte("production: true\nsecrets: false\nlogger: true\n"), 0o644))

	root, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "myapp", root.App.Name)
	assert.Equal(t, "1.2.3", root.App.Version)
	assert.True(t, root.Debug.Production)
	assert.False(t, root.Debug.Secrets)
}

func TestReinit_NoopUnlessForced(t *testing.T) {
	dir := t.TempDir()
	root, err := Load(dir)
	require.NoError(t, err)
	root.App.Name = "sticky"

	require.NoError(t, root.Reinit(false, dir))
	assert.Equal(t, "sticky", root.App.Name, "non-forced Reinit must not touch the root")

	require.NoError(t, root.Reinit(true, dir))
	assert.Equal(t, "", root.App.Name, "forced Reinit rebuilds from disk")
}
