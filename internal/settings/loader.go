// Package settings implements layered hydration for any settings struct:
// class defaults, then the settings/<category>.yaml file, then the secret
// store, then init overrides, each layer strictly overriding the last. A
// single generic Load walks a struct's yaml tags via reflection rather than
// requiring one hand-written loader per settings type, and writes a
// canonical re-serialization back to disk when it differs from what was
// read.
package settings

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"acb/internal/config"
	"acb/internal/errs"
	"acb/internal/secret"
	"acb/pkg/logging"
)

// Options configures one Load call.
type Options struct {
	// AppName prefixes every secret-store lookup key.
	AppName string

	// Strict rejects an override key that names no field on T instead of
	// silently ignoring it.
	Strict bool

	// SuppressWriteback skips the write-back step entirely. The in-tree
	// adapter factories set it from config.Root.Deployed, which
	// bootstrap.Run fills from the DEPLOYED env var in application mode.
	SuppressWriteback bool
}

var secretStringType = reflect.TypeOf(SecretString{})

// Load hydrates a T starting from defaults, layering in
// settings/<category>.yaml (if present), then secret-store values for any
// SecretString field, then overrides. store may be nil, in which case the
// secret layer is skipped entirely (library mode with no secret adapter
// enabled). Every parse, coercion, and required-field failure is reported
// as a config.LoadError (or an aggregated config.LoadErrors), each
// wrapping errs.ErrConfigInvalid so callers can still match on the
// sentinel via errors.Is.
func Load[T any](ctx context.Context, root *config.Root, store secret.Store, category string, defaults T, overrides map[string]any, opts Options) (T, error) {
	result := defaults

	path := filepath.Join(root.SettingsDir(), category+".yaml")
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if uerr := yaml.Unmarshal(raw, &result); uerr != nil {
			return result, config.LoadError{Category: category, File: path, Kind: "parse", Message: uerr.Error()}
		}
	case os.IsNotExist(err):
		raw = nil
	default:
		return result, config.LoadError{Category: category, File: path, Kind: "parse", Message: "reading settings file: " + err.Error()}
	}

	if store != nil {
		if err := hydrateSecrets(ctx, store, opts.AppName, category, &result); err != nil {
			return result, err
		}
	}

	if err := applyOverrides(category, &result, overrides, opts.Strict); err != nil {
		return result, err
	}

	if missing := checkRequired(category, &result); missing.HasErrors() {
		return result, missing
	}

	if !opts.SuppressWriteback {
		if err := writeBack(path, raw, result); err != nil {
			logging.Warn("settings", "write-back for %s failed: %v", category, err)
		}
	}

	return result, nil
}

// requiredStructTag is the struct-tag key a settings field sets to
// "required" to participate in the check spec.md §4.2 layer 3 and §7
// describe: a field left at its zero value after all four layers have
// been applied is a fatal ConfigInvalid, not a silent default.
const requiredStructTag = "acb"

// isRequired reports whether f opted into required-field enforcement via
// `acb:"required"`.
func isRequired(f reflect.StructField) bool {
	return f.Tag.Get(requiredStructTag) == "required"
}

// checkRequired walks result's required-tagged fields and collects one
// config.LoadError per field still at its zero value, so a caller sees
// every missing required field in one pass rather than one-at-a-time.
func checkRequired(category string, result any) config.LoadErrors {
	v := reflect.ValueOf(result).Elem()
	t := v.Type()

	var missing config.LoadErrors
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !isRequired(f) {
			continue
		}
		if v.Field(i).IsZero() {
			missing.Add(config.LoadError{
				Category: category,
				Field:    yamlFieldName(f),
				Kind:     "required",
				Message:  "field is required but was not set by defaults, yaml, secrets, or overrides",
			})
		}
	}
	return missing
}

// hydrateSecrets queries the secret store for every SecretString field on
// result, using key "<app>_<category>_<field>". A missing secret leaves the
// field exactly as the YAML layer left it: missing secrets are permitted
// here, and a required field still unset after all layers is reported
// afterwards by Load's checkRequired.
func hydrateSecrets(ctx context.Context, store secret.Store, appName, category string, result any) error {
	v := reflect.ValueOf(result).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type != secretStringType {
			continue
		}
		key := fmt.Sprintf("%s_%s_%s", appName, category, yamlFieldName(f))
		plaintext, ok, err := store.Get(ctx, key, "")
		if err != nil {
			return fmt.Errorf("%w: %w", errs.ErrSecretUnavailable, err)
		}
		if !ok {
			continue
		}
		v.Field(i).Set(reflect.ValueOf(NewSecretString(plaintext)))
	}
	return nil
}

// applyOverrides assigns each override onto the matching field of result by
// yaml tag name (falling back to the lowercased Go field name).
func applyOverrides(category string, result any, overrides map[string]any, strict bool) error {
	v := reflect.ValueOf(result).Elem()
	t := v.Type()

	fieldByName := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		fieldByName[yamlFieldName(t.Field(i))] = i
	}

	for name, val := range overrides {
		idx, ok := fieldByName[name]
		if !ok {
			if strict {
				return config.LoadError{Category: category, Field: name, Kind: "coerce", Message: "unknown override field"}
			}
			continue
		}
		if err := setFieldValue(v.Field(idx), val); err != nil {
			return config.LoadError{Category: category, Field: name, Kind: "coerce", Message: err.Error()}
		}
	}
	return nil
}

func setFieldValue(field reflect.Value, val any) error {
	if field.Type() == secretStringType {
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("expected string for secret field, got %T", val)
		}
		field.Set(reflect.ValueOf(NewSecretString(s)))
		return nil
	}

	rv := reflect.ValueOf(val)
	if !rv.IsValid() {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	if !rv.Type().ConvertibleTo(field.Type()) {
		return fmt.Errorf("cannot assign %T to %s", val, field.Type())
	}
	field.Set(rv.Convert(field.Type()))
	return nil
}

// writeBack rewrites path with result's canonical YAML serialization if it
// differs from the on-disk bytes by more than whitespace. Secret fields
// serialize as the fixed mask, so a real plaintext never lands in the file
// this way.
func writeBack(path string, original []byte, result any) error {
	canonical, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	if original != nil && checksum(original) == checksum(canonical) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, canonical, 0o644)
}

func checksum(b []byte) [32]byte {
	return sha256.Sum256(normalizeWhitespace(b))
}

func normalizeWhitespace(b []byte) []byte {
	lines := strings.Split(string(b), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return []byte(strings.TrimRight(strings.Join(lines, "\n"), "\n"))
}

func yamlFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("yaml")
	if tag == "" || tag == "-" {
		return strings.ToLower(f.Name)
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return strings.ToLower(f.Name)
	}
	return name
}
