package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/steveyegge/argcheck/internal/verify/dispatch"
)

var verifyConfigPath string

var verifyCmd = &cobra.Command{
	Use:   "verify <verifier> <file>",
	Short: "Run one verifier against a file's contents via the local backend",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		verifierName, path := args[0], args[1]

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		config, err := loadVerifyConfig(verifyConfigPath)
		if err != nil {
			return err
		}

		svc := dispatch.NewService(reg(), logger)
		out, err := svc.VerifySync(context.Background(), dispatch.VerifyInput{
			Verifier: verifierName,
			Inputs:   string(data),
			Source:   path,
			Config:   config,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding response: %w", err)
		}
		if !out.Valid {
			os.Exit(1)
		}
		return nil
	},
}

// loadVerifyConfig decodes an optional YAML config file ("filters" roles
// plus verifier-specific options) into the raw config map VerifySync
// expects.
func loadVerifyConfig(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg map[string]any
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func init() {
	verifyCmd.Flags().StringVar(&verifyConfigPath, "config", "", "path to a YAML file with filters/options for this verifier")
}
