// Package cmd is the Cobra command tree acb ships as a thin introspection
// surface over the registry/settings/DI graph an embedding application
// wires at startup.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootConfigPath string

var rootCmd = &cobra.Command{
	Use:   "acb",
	Short: "Inspect an Asynchronous Component Base graph",
	Long: `acb is a thin introspection CLI over the registry, settings and DI
container an embedding application wires at startup. It never bypasses
those contracts itself — it resolves the same way any other caller would.`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command, injected at build time
// by main.go.
func SetVersion(v string) { rootCmd.Version = v }

// GetVersion returns the current build version.
func GetVersion() string { return rootCmd.Version }

// Execute is the CLI's entry point, called from main.main(). Its own
// invocation is the application-entry signal mode detection keys off —
// passed in explicitly to bootstrap.Run, never re-derived downstream.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "acb version %s\n" .Version}}`)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "root", defaultRootPath(), "configuration root directory")
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func defaultRootPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.config/acb"
	}
	return "."
}
