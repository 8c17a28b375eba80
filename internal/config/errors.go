package config

import (
	"fmt"
	"strings"

	"acb/internal/errs"
)

// LoadError describes one failure encountered while hydrating a
// SettingsBundle: a malformed YAML file, a failed type coercion, or a
// required field left unset after all layers have been applied.
type LoadError struct {
	Category string // adapter category, e.g. "cache"
	File     string // settings/<category>.yaml, empty for non-file layers
	Field    string // struct field implicated, empty if file-level
	Kind     string // "parse" | "coerce" | "required"
	Message  string
}

func (e LoadError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("[%s] %s: %s", e.Category, e.Kind, e.Message)
	}
	return fmt.Sprintf("[%s] field %q: %s", e.Category, e.Field, e.Message)
}

// Unwrap lets callers match a LoadError against errs.ErrConfigInvalid via
// errors.Is without the loader hand-building a wrapped chain.
func (e LoadError) Unwrap() error { return errs.ErrConfigInvalid }

// LoadErrors aggregates every LoadError found while hydrating one bundle.
// Parse and coercion failures abort the build immediately; required-field
// failures are collected so a caller sees every missing field at once.
type LoadErrors []LoadError

func (es LoadErrors) Error() string {
	switch len(es) {
	case 0:
		return "no configuration errors"
	case 1:
		return es[0].Error()
	default:
		msgs := make([]string, len(es))
		for i, e := range es {
			msgs[i] = e.Error()
		}
		return fmt.Sprintf("%d configuration errors: %s", len(es), strings.Join(msgs, "; "))
	}
}

func (es LoadErrors) Unwrap() error { return errs.ErrConfigInvalid }

func (es *LoadErrors) Add(e LoadError) { *es = append(*es, e) }

func (es LoadErrors) HasErrors() bool { return len(es) > 0 }
