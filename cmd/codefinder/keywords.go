// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/codefinder/internal/report"
	"github.com/pdiddy/codefinder/internal/resolve"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords <title>",
	Short: "Show the keywords and search queries planned for a title",
	Long: `Keywords extracts the keyword set from a paper title and prints the
queries the resolver would issue, in cascade order, with the score each
strategy needs to accept a candidate. No network calls are made.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKeywords,
}

// keywordPlan is the JSON form of the keywords command output.
type keywordPlan struct {
	Title    string                 `json:"title"`
	Keywords []string               `json:"keywords"`
	Queries  []resolve.PlannedQuery `json:"queries"`
}

func runKeywords(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}

	title := strings.Join(args, " ")
	kws := resolve.ExtractKeywords(title)
	plan := resolve.PlanQueries(kws, title, resolve.PlanOptions{
		Language:   cfg.Resolver.Language,
		Qualifiers: cfg.Resolver.Qualifiers,
	})

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return report.WriteJSON(os.Stdout, keywordPlan{Title: title, Keywords: kws, Queries: plan})
	}
	writeKeywordPlan(os.Stdout, kws, plan)
	return nil
}

func writeKeywordPlan(w io.Writer, kws []string, plan []resolve.PlannedQuery) {
	fmt.Fprintf(w, "keywords: %s\n\n", strings.Join(kws, ", "))
	fmt.Fprintf(w, "%-4s  %-10s  %-9s  %s\n", "#", "Strategy", "Threshold", "Query")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for i, pq := range plan {
		fmt.Fprintf(w, "%-4d  %-10s  %-9.0f  %s\n", i+1, pq.Strategy, pq.Strategy.Threshold(), pq.Query)
	}
}

func init() {
	keywordsCmd.Flags().Bool("json", false, "output keywords and queries as JSON")

	rootCmd.AddCommand(keywordsCmd)
}
