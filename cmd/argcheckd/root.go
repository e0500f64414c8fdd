package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/argcheck/internal/verify/registry"
)

var rootCmd = &cobra.Command{
	Use:   "argcheckd",
	Short: "Verify structured argumentative annotations and Argdown argument maps",
	Long: `argcheckd validates argumentative annotations (XML) and Argdown argument
maps, premise-conclusion reconstructions, and their mutual coherence.

Run it as a server (serve) or as a one-shot check against a file (verify).`,
}

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func reg() *registry.Registry { return registry.Default() }

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(listCmd)
}
