// Package filesecret is a secret.Store backed by one file per secret name,
// each file holding that secret's versions newest-last, under a single
// root directory with sanitized filenames.
package filesecret

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"acb/internal/errs"
	"acb/pkg/logging"
)

// Store persists secrets under root, one file per name. Each file is a
// newline-separated list of plaintext versions, oldest first; the last line
// is "latest". This keeps the on-disk format trivial to inspect while still
// letting ListVersions report every version a name has ever held.
type Store struct {
	mu   sync.RWMutex
	root string
}

// New constructs a Store rooted at root. root is created on first Set if it
// does not yet exist.
func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.root, sanitize(name)+".secret")
}

func (s *Store) List(ctx context.Context, categoryPrefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.NewBackendError("filesecret", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".secret") {
			continue
		}
		name := unsanitize(strings.TrimSuffix(e.Name(), ".secret"))
		if categoryPrefix == "" || strings.HasPrefix(name, categoryPrefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Get(ctx context.Context, name, version string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions, err := s.readVersions(name)
	if err != nil {
		return "", false, err
	}
	if len(versions) == 0 {
		return "", false, nil
	}

	if version == "" {
		return versions[len(versions)-1], true, nil
	}
	idx, err := strconv.Atoi(version)
	if err != nil || idx < 0 || idx >= len(versions) {
		return "", false, nil
	}
	return versions[idx], true, nil
}

func (s *Store) Set(ctx context.Context, name, plaintext string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.root, 0o700); err != nil {
		return errs.NewBackendError("filesecret", fmt.Errorf("creating root: %w", err))
	}

	versions, err := s.readVersionsLocked(name)
	if err != nil {
		return err
	}
	versions = append(versions, plaintext)

	data := []byte(strings.Join(versions, "\n") + "\n")
	if err := os.WriteFile(s.path(name), data, 0o600); err != nil {
		return errs.NewBackendError("filesecret", fmt.Errorf("writing %s: %w", name, err))
	}
	logging.Info("filesecret", "set %s (%d version(s) on disk)", name, len(versions))
	return nil
}

func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	_, ok, err := s.Get(ctx, name, "")
	return ok, err
}

func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errs.NewBackendError("filesecret", fmt.Errorf("deleting %s: %w", name, err))
	}
	logging.Info("filesecret", "deleted %s", name)
	return nil
}

func (s *Store) ListVersions(ctx context.Context, name string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions, err := s.readVersions(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(versions))
	for i := range versions {
		out[i] = strconv.Itoa(i)
	}
	return out, nil
}

func (s *Store) readVersions(name string) ([]string, error) {
	return s.readVersionsLocked(name)
}

func (s *Store) readVersionsLocked(name string) ([]string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.NewBackendError("filesecret", fmt.Errorf("reading %s: %w", name, err))
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	return lines, nil
}

// sanitize maps "/" (the one separator secret names legitimately contain,
// e.g. "cache/password") to "__" so unsanitize can restore it when List
// reads names back. The mapping is reversible only for names that do not
// themselves contain "__": List reports such a name with "/" in its place.
func sanitize(name string) string {
	return strings.ReplaceAll(name, "/", "__")
}

func unsanitize(filename string) string {
	return strings.ReplaceAll(filename, "__", "/")
}
