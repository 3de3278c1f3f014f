// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/codefinder/internal/github"
	"github.com/pdiddy/codefinder/internal/metrics"
	"github.com/pdiddy/codefinder/internal/papers"
	"github.com/pdiddy/codefinder/internal/report"
	"github.com/pdiddy/codefinder/internal/resolve"
	"github.com/pdiddy/codefinder/internal/store"
	"github.com/pdiddy/codefinder/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [papers-file]",
	Short: "Resolve papers to their implementing repositories",
	Long: `Resolve reads paper records from a YAML or JSON file (or titles given
with --title), searches GitHub for each one and prints the assignments.

Searches run one at a time through a cascade of queries (exact, contextual,
multi-keyword, single keyword). Accepted candidates are verified against
their README. After every paper is resolved, repositories claimed by more
than one paper are reassigned and suspicious matches are audited.

The run is saved to the local store; use "report" and "export" to revisit it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	noAudit, _ := cmd.Flags().GetBool("no-audit")
	if noAudit {
		cfg.Resolver.Audit = false
	}
	if f, _ := cmd.Flags().GetString("blacklist"); f != "" {
		cfg.Resolver.BlacklistFile = f
	}

	records, input, err := readPapers(cmd, args)
	if err != nil {
		return err
	}

	var topics []string
	if topicsFile, _ := cmd.Flags().GetString("topics"); topicsFile != "" {
		topics, err = papers.LoadTopics(topicsFile)
		if err != nil {
			return err
		}
		matches := papers.FilterByTopics(records, topics)
		logger.Info("topic filter applied",
			zap.Int("papers", len(records)),
			zap.Int("matched", len(matches)),
		)
		records = papers.Papers(matches)
		if len(records) == 0 {
			fmt.Fprintln(os.Stderr, "No papers match the given topics.")
			return nil
		}
	}

	blacklist := resolve.DefaultBlacklist()
	if cfg.Resolver.BlacklistFile != "" {
		extra, err := resolve.LoadBlacklist(cfg.Resolver.BlacklistFile)
		if err != nil {
			return err
		}
		blacklist = blacklist.Merge(extra)
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	gh := github.New(cfg.GitHub, github.WithLogger(logger))
	var searcher resolve.Searcher = gh
	noCache, _ := cmd.Flags().GetBool("no-cache")
	if cfg.Store.CacheTTL > 0 && !noCache {
		if n, err := st.PurgeSearches(ctx, cfg.Store.CacheTTL); err != nil {
			logger.Warn("purging search cache", zap.Error(err))
		} else if n > 0 {
			logger.Debug("purged expired searches", zap.Int64("rows", n))
		}
		searcher = store.NewCachingSearcher(gh, st, cfg.Store.CacheTTL, logger)
	}

	started := time.Now()
	r := resolve.New(searcher, gh, blacklist, cfg.Resolver, resolve.WithLogger(logger))
	res := r.ResolveBatch(ctx, records)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("resolution interrupted: %w", err)
	}
	res.Assignments = report.NewEnricher(gh, nil, logger).Enrich(ctx, res.Assignments)

	runID, err := st.SaveRun(ctx, store.Run{
		StartedAt:   started,
		FinishedAt:  time.Now(),
		Input:       input,
		Assignments: res.Assignments,
		Notes:       batchNotes(res),
	})
	if err != nil {
		return err
	}
	logPriorClaims(ctx, st, res.Assignments)

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("metrics not written", zap.Error(err))
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return report.WriteJSON(os.Stdout, store.ExportFile{
			RunID:       runID,
			ExportedAt:  time.Now().UTC(),
			Assignments: store.ExportEntries(res.Assignments),
		})
	}
	writeResolveSummary(os.Stdout, runID, res, topics)
	return nil
}

// readPapers returns the records to resolve and a label for the run input.
func readPapers(cmd *cobra.Command, args []string) ([]types.PaperRecord, string, error) {
	titles, _ := cmd.Flags().GetStringArray("title")
	switch {
	case len(args) == 1 && len(titles) > 0:
		return nil, "", fmt.Errorf("use either a papers file or --title, not both")
	case len(args) == 1:
		records, err := papers.Load(args[0])
		if err != nil {
			return nil, "", err
		}
		return records, args[0], nil
	case len(titles) > 0:
		records := papers.FromTitles(titles)
		if len(records) == 0 {
			return nil, "", papers.ErrNoPapers
		}
		return records, "titles", nil
	default:
		return nil, "", fmt.Errorf("papers file or --title required")
	}
}

// logPriorClaims notes repositories that earlier runs also assigned.
func logPriorClaims(ctx context.Context, st *store.Store, assignments []types.Assignment) {
	for _, a := range assignments {
		if !a.HasRepo() {
			continue
		}
		n, err := st.RepoClaims(ctx, a.RepoURL)
		if err != nil {
			logger.Warn("counting repository claims", zap.String("repo", a.RepoURL), zap.Error(err))
			return
		}
		if n > 1 {
			logger.Info("repository assigned in earlier runs",
				zap.String("repo", a.RepoURL),
				zap.String("title", a.PaperTitle),
				zap.Int("claims", n),
			)
		}
	}
}

// batchNotes flattens conflict losers and audit clearances into store notes.
func batchNotes(res resolve.BatchResult) []store.Note {
	var notes []store.Note
	for _, c := range res.Conflicts {
		for _, cl := range c.Claims {
			if cl.Kept {
				continue
			}
			notes = append(notes, store.Note{
				PaperTitle: cl.PaperTitle,
				RepoURL:    c.RepoURL,
				Kind:       "conflict",
				Reason:     fmt.Sprintf("kept by %q", c.Winner),
			})
		}
	}
	for _, c := range res.Clearances {
		notes = append(notes, store.Note{
			PaperTitle: c.PaperTitle,
			RepoURL:    c.RepoURL,
			Kind:       "audit",
			Reason:     c.Reason,
		})
	}
	return notes
}

func writeResolveSummary(w io.Writer, runID string, res resolve.BatchResult, topics []string) {
	report.WriteAssignments(w, res.Assignments)
	fmt.Fprintln(w)
	for _, n := range batchNotes(res) {
		fmt.Fprintf(w, "cleared (%s): %s -> %s: %s\n", n.Kind, n.PaperTitle, n.RepoURL, n.Reason)
	}
	report.WriteStats(w, report.Summarize(res.Assignments, topics))
	fmt.Fprintf(w, "\nrun %s: %d of %d papers resolved\n", runID, res.Resolved(), len(res.Assignments))
}

func init() {
	resolveCmd.Flags().StringArray("title", nil, "paper title to resolve (repeatable)")
	resolveCmd.Flags().String("topics", "", "topics file; only papers matching a topic are resolved")
	resolveCmd.Flags().String("blacklist", "", "YAML file of extra blacklist entries")
	resolveCmd.Flags().Bool("no-audit", false, "skip the audit of suspicious matches")
	resolveCmd.Flags().Bool("no-cache", false, "bypass the search response cache")
	resolveCmd.Flags().Bool("json", false, "output assignments as JSON")

	rootCmd.AddCommand(resolveCmd)
}
