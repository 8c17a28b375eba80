package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Invariant 5: a secret sentinel's default string form never equals its
// plaintext.
func TestSecretString_StringNeverEqualsPlaintext(t *testing.T) {
	s := NewSecretString("hunter2")
	assert.NotEqual(t, "hunter2", s.String())
	assert.Equal(t, "hunter2", s.Reveal())
}

func TestSecretString_ZeroValueIsUnset(t *testing.T) {
	var s SecretString
	assert.True(t, s.IsZero())
	assert.Equal(t, "", s.String())
}

func TestSecretString_EqualityIsValueBased(t *testing.T) {
	a := NewSecretString("x")
	b := NewSecretString("x")
	c := NewSecretString("y")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSecretString_MarshalYAML_NeverEmitsPlaintext(t *testing.T) {
	s := NewSecretString("hunter2")
	out, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hunter2")
}

func TestSecretString_UnmarshalYAML_AcceptsPlainScalar(t *testing.T) {
	var s SecretString
	require.NoError(t, yaml.Unmarshal([]byte("hunter2\n"), &s))
	assert.Equal(t, "hunter2", s.Reveal())
}
