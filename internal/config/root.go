package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	settingsDirName = "settings"
	appFileName     = "app.yaml"
	debugFileName   = "debug.yaml"
)

// AppInfo is the contents of settings/app.yaml: the identity of the
// embedding application, consulted when forming secret-store lookup keys.
type AppInfo struct {
	Name    string `yaml:"name"`
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
	Domain  string `yaml:"domain,omitempty"`
}

// DebugInfo is the contents of settings/debug.yaml.
type DebugInfo struct {
	Production bool `yaml:"production"`
	Secrets    bool `yaml:"secrets"`
	Logger     bool `yaml:"logger"`
}

// Root is the process-wide configuration root: the app identity, the debug
// flags, the filesystem layout every other component resolves paths from,
// and whether this process is a deployed/production instance. It is created
// once by Load (or Default) and is otherwise read-only; the only sanctioned
// mutation is Reinit, used by test harnesses to rebuild it between cases.
type Root struct {
	App      AppInfo
	Debug    DebugInfo
	RootPath string

	Deployed bool
}

// SettingsDir is where settings/<category>.yaml and settings/adapters.yaml live.
func (r *Root) SettingsDir() string { return filepath.Join(r.RootPath, settingsDirName) }

// SecretsDir is where a file-backed secret store keeps its secrets.
func (r *Root) SecretsDir() string { return filepath.Join(r.RootPath, "secrets") }

// TmpDir is scratch space adapters may use for ephemeral files.
func (r *Root) TmpDir() string { return filepath.Join(r.RootPath, "tmp") }

// Default returns a Root with safe library-mode defaults: no app identity,
// production assumed off, rooted at rootPath without reading any file. Used
// by bootstrap's library mode, where the process must not touch disk eagerly.
func Default(rootPath string) *Root {
	return &Root{RootPath: rootPath}
}

// Load reads settings/app.yaml and settings/debug.yaml under rootPath. A
// missing file is not an error — it leaves the corresponding struct at its
// zero value, matching the settings loader's "missing YAML means defaults"
// boundary behavior.
func Load(rootPath string) (*Root, error) {
	r := &Root{RootPath: rootPath}

	if err := readYAMLIfExists(filepath.Join(r.SettingsDir(), appFileName), &r.App); err != nil {
		return nil, fmt.Errorf("loading app.yaml: %w", err)
	}
	if err := readYAMLIfExists(filepath.Join(r.SettingsDir(), debugFileName), &r.Debug); err != nil {
		return nil, fmt.Errorf("loading debug.yaml: %w", err)
	}

	return r, nil
}

// Reinit rebuilds the root in place from disk. Only meaningful in test mode,
// where each test case wants a clean slate without a fresh process; force
// must be true or Reinit is a no-op, guarding against accidental
// production reloads.
func (r *Root) Reinit(force bool, rootPath string) error {
	if !force {
		return nil
	}
	fresh, err := Load(rootPath)
	if err != nil {
		return err
	}
	*r = *fresh
	return nil
}

func readYAMLIfExists(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, out)
}
