package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeEnv map[string]string

func (f fakeEnv) Lookup(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

func TestResolveWidth_EnvVarWins(t *testing.T) {
	assert.Equal(t, 120, ResolveWidth(fakeEnv{"CONSOLE_WIDTH": "120"}, 40))
}

func TestResolveWidth_SettingWinsOverDefault(t *testing.T) {
	assert.Equal(t, 40, ResolveWidth(fakeEnv{}, 40))
}

func TestResolveWidth_InvalidEnvVarFallsThrough(t *testing.T) {
	assert.Equal(t, 40, ResolveWidth(fakeEnv{"CONSOLE_WIDTH": "not-a-number"}, 40))
}

func TestColorsEnabled_NoColorForcesOff(t *testing.T) {
	assert.False(t, ColorsEnabled(fakeEnv{"NO_COLOR": "1"}))
}

func TestColorsEnabled_CIForcesOff(t *testing.T) {
	assert.False(t, ColorsEnabled(fakeEnv{"CI": "true"}))
}

func TestTable_RendersHeadersAndRows(t *testing.T) {
	c := New(80, false)
	out := c.Table([]string{"NAME", "PROVIDER"}, [][]string{
		{"cache", "memory"},
		{"secrets", "file"},
	})
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "memory")
	assert.Contains(t, out, "secrets")
}

func TestTable_TruncatesOverlyLongCells(t *testing.T) {
	c := New(20, false)
	long := strings.Repeat("x", 200)
	out := c.Table([]string{"A"}, [][]string{{long}})
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, long)
}

func TestNew_ClampsNonPositiveWidthToDefault(t *testing.T) {
	c := New(0, true)
	assert.Equal(t, defaultWidth, c.width)
}
