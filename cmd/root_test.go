package cmd

import "testing"

func TestRootCmd_HasExpectedSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"list", "resolve", "version"} {
		if !names[want] {
			t.Errorf("expected rootCmd to have a %q subcommand", want)
		}
	}
}

func TestDefaultRootPath_NeverEmpty(t *testing.T) {
	if defaultRootPath() == "" {
		t.Error("defaultRootPath must never return an empty string")
	}
}
