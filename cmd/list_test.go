package cmd

import (
	"bytes"
	"testing"
)

// The list command resolves the CLI's own reference graph (an in-tree
// memory cache adapter plus the console facade) against a scratch root
// with no settings on disk, and checks that the registered descriptors are
// rendered.
func TestListCmd_RendersRegisteredAdapters(t *testing.T) {
	rootConfigPath = t.TempDir()
	defer func() { rootConfigPath = defaultRootPath() }()

	c := newListCmd()
	var buf bytes.Buffer
	c.SetOut(&buf)

	if err := c.RunE(c, nil); err != nil {
		t.Fatalf("list command failed: %v", err)
	}

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("cache")) {
		t.Errorf("expected the cache category in output, got %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("memory")) {
		t.Errorf("expected the memory provider in output, got %q", out)
	}
}

func TestListCmd_CategoryFlagFilters(t *testing.T) {
	rootConfigPath = t.TempDir()
	defer func() { rootConfigPath = defaultRootPath() }()

	c := newListCmd()
	c.SetArgs([]string{"--category", "console"})
	var buf bytes.Buffer
	c.SetOut(&buf)

	if err := c.Execute(); err != nil {
		t.Fatalf("list command failed: %v", err)
	}

	out := buf.String()
	if bytes.Contains([]byte(out), []byte("memory-cache")) {
		t.Errorf("expected cache adapter to be filtered out, got %q", out)
	}
}
