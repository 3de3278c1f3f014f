// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/pdiddy/codefinder/pkg/types"
)

const maxTitleWidth = 60

// WriteAssignments renders assignments as a table in input order.
func WriteAssignments(w io.Writer, assignments []types.Assignment) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Title", "Repository", "Stars", "Strategy", "Recognition"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for i, a := range assignments {
		repo := "-"
		if a.HasRepo() {
			repo = types.RepoSlug(a.RepoURL)
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			truncate(a.PaperTitle, maxTitleWidth),
			repo,
			strconv.Itoa(a.Stars),
			string(a.Strategy),
			strconv.FormatFloat(a.Recognition, 'f', 2, 64),
		})
	}
	table.Render()
}

// WriteStats renders batch statistics followed by the topic counts.
func WriteStats(w io.Writer, st Stats) {
	fmt.Fprintf(w, "papers: %d, open source: %d (%.0f%%), average recognition: %.2f\n",
		st.TotalPapers, st.OpenSource, st.OpenSourceRate*100, st.AverageRecognition)
	if len(st.Topics) == 0 {
		return
	}
	fmt.Fprintln(w)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Topic", "Papers", "Share"})
	for _, tc := range st.Topics {
		table.Append([]string{tc.Topic, strconv.Itoa(tc.Count), fmt.Sprintf("%.0f%%", tc.Share*100)})
	}
	table.Render()
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
