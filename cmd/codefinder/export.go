// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/codefinder/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored run to YAML or JSON",
	Long: `Export writes the assignments of a run (the most recent one unless
--run is given) to assignments.yaml or assignments.json in the data
directory. Papers without a repository are written with a null repo_url.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	runID, _ := cmd.Flags().GetString("run")

	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = st.ExportYAML(cmd.Context(), runID)
	case "json":
		path, err = st.ExportJSON(cmd.Context(), runID)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("run", "", "run ID (default: most recent run)")

	rootCmd.AddCommand(exportCmd)
}
