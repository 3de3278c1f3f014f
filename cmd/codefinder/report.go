// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/codefinder/internal/papers"
	"github.com/pdiddy/codefinder/internal/report"
	"github.com/pdiddy/codefinder/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize a stored resolution run",
	Long: `Report loads a run from the local store (the most recent one unless
--run is given) and prints its assignments and batch statistics: the share
of papers with code, the average recognition score and, with --topics, how
many titles mention each topic.

Use --top to list the most starred repositories instead, and --list to
show every stored run.`,
	RunE: runReport,
}

// runReportJSON is the JSON form of a run report.
type runReportJSON struct {
	RunID       string              `json:"run_id"`
	Stats       report.Stats        `json:"stats"`
	Assignments []store.ExportEntry `json:"assignments"`
	Notes       []store.Note        `json:"notes,omitempty"`
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if list, _ := cmd.Flags().GetBool("list"); list {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return report.WriteJSON(os.Stdout, runs)
		}
		writeRuns(os.Stdout, runs)
		return nil
	}

	runID, _ := cmd.Flags().GetString("run")
	run, err := st.LoadRun(ctx, runID)
	if err != nil {
		return err
	}

	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		minStars, _ := cmd.Flags().GetInt("min-stars")
		best := report.TopRecommended(run.Assignments, minStars, top)
		if jsonOutput {
			return report.WriteJSON(os.Stdout, store.ExportEntries(best))
		}
		if len(best) == 0 {
			fmt.Printf("No repositories with at least %d stars.\n", minStars)
			return nil
		}
		report.WriteAssignments(os.Stdout, best)
		return nil
	}

	var topics []string
	if topicsFile, _ := cmd.Flags().GetString("topics"); topicsFile != "" {
		topics, err = papers.LoadTopics(topicsFile)
		if err != nil {
			return err
		}
	}
	stats := report.Summarize(run.Assignments, topics)

	if jsonOutput {
		return report.WriteJSON(os.Stdout, runReportJSON{
			RunID:       run.ID,
			Stats:       stats,
			Assignments: store.ExportEntries(run.Assignments),
			Notes:       run.Notes,
		})
	}

	fmt.Printf("run %s (%s)\n\n", run.ID, run.StartedAt.Format("2006-01-02 15:04"))
	report.WriteAssignments(os.Stdout, run.Assignments)
	fmt.Println()
	report.WriteStats(os.Stdout, stats)
	return nil
}

func writeRuns(w io.Writer, runs []store.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs stored.")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Run", "Started", "Input", "Papers", "Resolved"})
	for _, r := range runs {
		table.Append([]string{
			r.ID,
			r.StartedAt.Format("2006-01-02 15:04"),
			r.Input,
			strconv.Itoa(r.Papers),
			strconv.Itoa(r.Resolved),
		})
	}
	table.Render()
}

func init() {
	reportCmd.Flags().String("run", "", "run ID (default: most recent run)")
	reportCmd.Flags().Bool("list", false, "list stored runs")
	reportCmd.Flags().Int("top", 0, "list the N most starred repositories")
	reportCmd.Flags().Int("min-stars", report.DefaultMinStars, "minimum stars for --top")
	reportCmd.Flags().String("topics", "", "topics file for per-topic title counts")
	reportCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(reportCmd)
}
