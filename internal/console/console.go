// Package console is the process-wide console and debug-print facade: a
// capability resolved through the DI container like any other adapter. It
// renders a plain headers/rows table over arbitrary string data using
// go-pretty, with its own width-resolution and color-stripping rules for
// running under a non-interactive terminal.
package console

import (
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	acbstrings "acb/pkg/strings"
)

const defaultWidth = 80

// EnvReader is the same small seam bootstrap.EnvReader uses, duplicated
// here rather than imported so console has no dependency on bootstrap.
type EnvReader interface {
	Lookup(key string) (string, bool)
}

// OSEnv reads the real process environment.
type OSEnv struct{}

func (OSEnv) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// Console renders tables and plain debug lines at a fixed width and color
// mode, decided once at construction.
type Console struct {
	width  int
	colors bool
}

// New constructs a Console with an already-resolved width and color mode.
// Use ResolveWidth and ColorsEnabled to compute them from the environment
// and a settings value.
func New(width int, colors bool) *Console {
	if width <= 0 {
		width = defaultWidth
	}
	return &Console{width: width, colors: colors}
}

// ResolveWidth resolves the rendering width in order: CONSOLE_WIDTH env
// var, then settingWidth (0 means "not set"), then terminal auto-detection,
// then 80.
func ResolveWidth(env EnvReader, settingWidth int) int {
	if v, ok := env.Lookup("CONSOLE_WIDTH"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	if settingWidth > 0 {
		return settingWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

// ColorsEnabled applies the NO_COLOR/CI convention: either truthy env var
// forces plain output regardless of terminal detection.
func ColorsEnabled(env EnvReader) bool {
	if truthy(env, "NO_COLOR") || truthy(env, "CI") {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func truthy(env EnvReader, key string) bool {
	v, ok := env.Lookup(key)
	return ok && v != "" && v != "0" && !strings.EqualFold(v, "false")
}

// Table renders headers/rows as a rounded-style table, truncating each cell
// to an equal share of Console's width (width divided by the header count;
// borders and padding are not counted), and stripping ANSI color codes when
// colors is false.
func (c *Console) Table(headers []string, rows [][]string) string {
	if !c.colors {
		text.DisableColors()
		defer text.EnableColors()
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)

	cellMax := c.width / max(1, len(headers))

	head := make(table.Row, len(headers))
	for i, h := range headers {
		head[i] = text.FgHiCyan.Sprint(h)
	}
	t.AppendHeader(head)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = acbstrings.TruncateDescription(cell, cellMax)
		}
		t.AppendRow(r)
	}

	var out strings.Builder
	t.SetOutputMirror(&out)
	t.Render()
	return out.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
