package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/grantscope/internal/registry"
	"github.com/pdiddy/grantscope/pkg/types"
)

const defaultRegistryFile = "./data/BMBF.csv"

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the grant registry export",
	Long: `Clean reads the semicolon-delimited Latin-1 registry export, strips
spreadsheet quote and formula artefacts, drops the trailing unnamed column,
removes spaces from grant identifiers, and writes UTF-8 CSV.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().String("in", defaultRegistryFile, "registry export")
	cleanCmd.Flags().String("out", "./data/registry_clean.csv", "cleaned output path")

	bindFlags(cleanCmd.Flags(), map[string]string{
		"clean.input_path":  "in",
		"clean.output_path": "out",
	})
	rootCmd.AddCommand(cleanCmd)
}

// loadRegistry reads and cleans the registry export named by cfg.
func loadRegistry(cfg types.RegistryConfig) (*registry.Table, error) {
	t, err := registry.Load(cfg)
	if err != nil {
		return nil, err
	}
	log.WithField("path", cfg.DataFile).WithField("rows", len(t.Rows)).Info("registry cleaned")
	return t, nil
}

func runClean(cmd *cobra.Command, args []string) error {
	t, err := loadRegistry(types.RegistryConfig{DataFile: viper.GetString("clean.input_path")})
	if err != nil {
		return err
	}
	out := viper.GetString("clean.output_path")
	if err := t.WriteFile(out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleaned %d row(s) into %s\n", len(t.Rows), out)
	return nil
}
