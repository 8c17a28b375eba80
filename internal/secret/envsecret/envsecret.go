// Package envsecret is a read-mostly secret.Store over process environment
// variables, named "<prefix>_<NAME>": an uppercased, underscore-joined env
// var keyed off a fixed application prefix. It suits container/CI
// deployments where secrets arrive as env vars rather than files.
package envsecret

import (
	"context"
	"os"
	"strings"

	"acb/internal/errs"
)

// Store reads "<Prefix>_<NAME>" environment variables, where NAME is the
// secret name with "/" and "-" normalized to "_" and upper-cased. Env vars
// have no notion of versions or deletion; Set and Delete report
// errs.ErrSecretUnavailable rather than silently no-opping, since those
// operations are genuinely unsupported here rather than trivially
// satisfied. ListVersions returns an empty result and no error.
type Store struct {
	Prefix string
}

// New constructs a Store keyed off prefix (e.g. "ACB" yields ACB_DB_PASSWORD
// for secret name "db/password").
func New(prefix string) *Store {
	return &Store{Prefix: prefix}
}

func (s *Store) envName(name string) string {
	n := strings.ToUpper(name)
	n = strings.ReplaceAll(n, "/", "_")
	n = strings.ReplaceAll(n, "-", "_")
	return s.Prefix + "_" + n
}

func (s *Store) List(ctx context.Context, categoryPrefix string) ([]string, error) {
	wantPrefix := s.Prefix + "_"
	if categoryPrefix != "" {
		wantPrefix += strings.ToUpper(strings.ReplaceAll(categoryPrefix, "/", "_")) + "_"
	}

	var names []string
	for _, kv := range os.Environ() {
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			continue
		}
		key := kv[:eq]
		if !strings.HasPrefix(key, wantPrefix) {
			continue
		}
		rest := strings.TrimPrefix(key, s.Prefix+"_")
		names = append(names, strings.ToLower(strings.ReplaceAll(rest, "_", "/")))
	}
	return names, nil
}

func (s *Store) Get(ctx context.Context, name, version string) (string, bool, error) {
	v, ok := os.LookupEnv(s.envName(name))
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, name, plaintext string) error {
	return errs.NewBackendError("envsecret", errs.ErrSecretUnavailable)
}

func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	_, ok := os.LookupEnv(s.envName(name))
	return ok, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	return errs.NewBackendError("envsecret", errs.ErrSecretUnavailable)
}

func (s *Store) ListVersions(ctx context.Context, name string) ([]string, error) {
	return nil, nil
}
