package bootstrap

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"acb/internal/config"
	"acb/internal/registry"
	"acb/pkg/logging"
)

// defaultDebounce coalesces the burst of events a single file save
// typically produces (write, then rename-into-place on some editors) into
// one reload.
const defaultDebounce = 250 * time.Millisecond

// Watcher is the optional hot-reload path for application mode: it watches
// settings/adapters.yaml for changes and re-applies the enablement it finds
// onto reg, without restarting the process. Per-category settings files are
// intentionally not watched here, since re-hydrating an already-constructed
// DI instance's settings is out of scope for this core.
type Watcher struct {
	root *config.Root
	reg  *registry.Registry

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	timer    *time.Timer
	debounce time.Duration
	stopCh   chan struct{}
	running  bool
}

// NewWatcher constructs a Watcher over root's settings directory. debounce
// of zero uses defaultDebounce.
func NewWatcher(root *config.Root, reg *registry.Registry, debounce time.Duration) *Watcher {
	if debounce == 0 {
		debounce = defaultDebounce
	}
	return &Watcher{root: root, reg: reg, debounce: debounce}
}

// Start begins watching in the background. Calling Start on an already
// running Watcher is a no-op. Canceling ctx stops the watcher same as Stop.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if err := fw.Add(w.root.SettingsDir()); err != nil {
		fw.Close()
		w.mu.Unlock()
		return err
	}

	w.watcher = fw
	w.stopCh = make(chan struct{})
	w.running = true
	w.mu.Unlock()

	go w.run(ctx)
	logging.Info("Bootstrap", "watching %s for adapter enablement changes", w.root.SettingsDir())
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != "adapters.yaml" {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Bootstrap", err, "settings watcher error")
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	enablement, err := loadEnablement(w.root)
	if err != nil {
		logging.Error("Bootstrap", err, "settings watcher: reloading adapters.yaml")
		return
	}
	for category, provider := range enablement {
		if err := w.reg.Enable(category, provider); err != nil {
			logging.Error("Bootstrap", err, "settings watcher: enabling %s=%s", category, provider)
		}
	}
	logging.Debug("Bootstrap", "settings watcher: reapplied enablement for %d categor(y/ies)", len(enablement))
}

// Stop halts the watcher. Safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.stopCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	return w.watcher.Close()
}
