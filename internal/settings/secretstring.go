package settings

import "gopkg.in/yaml.v3"

// maskedPlaceholder is the fixed string SecretString shows in place of its
// plaintext. It never varies with the plaintext's length or content, so
// write-back's checksum comparison stays stable across loads of the same
// secret value — it would otherwise change shape every time the loader
// re-serialized a field whose mask length tracked the plaintext.
const maskedPlaceholder = "**********"

// SecretString is the sentinel wrapper for any settings field hydrated from
// the secret store: its zero value is "unset", its String form is always
// the mask, and the plaintext is reachable only through Reveal. Equality is
// value-based via plain ==, since both fields are comparable.
type SecretString struct {
	plaintext string
	isSet     bool
}

// NewSecretString wraps plaintext. An empty string is treated as unset,
// matching the settings loader's "missing secret" boundary.
func NewSecretString(plaintext string) SecretString {
	return SecretString{plaintext: plaintext, isSet: plaintext != ""}
}

// Reveal returns the plaintext. The only accessor that does.
func (s SecretString) Reveal() string { return s.plaintext }

// IsZero reports whether no value was ever set.
func (s SecretString) IsZero() bool { return !s.isSet }

// String never returns the plaintext.
func (s SecretString) String() string {
	if !s.isSet {
		return ""
	}
	return maskedPlaceholder
}

var _ yaml.Marshaler = SecretString{}
var _ yaml.Unmarshaler = (*SecretString)(nil)

// MarshalYAML emits the mask, never the plaintext, so write-back can never
// leak a secret into a config file on disk.
func (s SecretString) MarshalYAML() (interface{}, error) {
	if !s.isSet {
		return "", nil
	}
	return maskedPlaceholder, nil
}

// UnmarshalYAML accepts a plain scalar string as the plaintext. A config
// file is one of the three layers a secret value can arrive through (the
// others being the secret store and init overrides), so this is not dead
// code even though write-back never round-trips a real plaintext back in.
func (s *SecretString) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*s = NewSecretString(raw)
	return nil
}
