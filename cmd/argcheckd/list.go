package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered verifier, grouped by kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		core, coherence, contentCheck := reg().Grouped()
		out := map[string]any{
			"core":          core,
			"coherence":     coherence,
			"content_check": contentCheck,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding verifier list: %w", err)
		}
		return nil
	},
}
