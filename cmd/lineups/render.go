package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/stitts-dev/dfs-lineups/internal/lineup"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// renderResult prints a search header followed by one table per lineup.
func renderResult(w io.Writer, result *lineup.Result) error {
	fmt.Fprintf(w, "Search %s (strategy=%s, policy=%s)\n", result.SearchID, result.Strategy, result.Policy)
	fmt.Fprintf(w, "Valid lineups: %d, showing %d, %d nodes in %d ms\n",
		result.Summary.Count, len(result.Lineups), result.NodesExpanded, result.ElapsedMs)
	if result.Truncated {
		fmt.Fprintf(w, "Search stopped early (%s); results are partial\n", result.StopReason)
	}
	if result.Summary.Count > 0 {
		s := result.Summary
		fmt.Fprintf(w, "Projected points: top %.2f, mean %.2f, median %.2f, stddev %.2f, min %.2f\n",
			s.TopProjectedPoints, s.MeanProjectedPoints, s.MedianProjectedPoints, s.StdDevProjectedPoints, s.MinProjectedPoints)
	}

	for i, l := range result.Lineups {
		fmt.Fprintf(w, "\n#%d  %.2f pts  salary %d (%d left)\n", i+1, l.ProjectedPoints, l.TotalSalary, l.RemainingSalary)

		tw := newTable(w)
		fmt.Fprintln(tw, "SLOT\tID\tPLAYER\tPOS\tSALARY\tPOINTS\tGAME")
		for _, p := range l.Players {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\t%.1f\t%s\n", p.Slot, p.ID, p.Name, p.Role, p.Cost, p.ProjectedPoints, p.Game)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// renderValues prints the value report as a table.
func renderValues(w io.Writer, report []lineup.PlayerValue) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tPLAYER\tPOS\tVALUE\tSALARY\tPOINTS")
	for _, row := range report {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%d\t%.1f\n", row.ID, row.Name, row.Role, row.Value, row.Cost, row.ProjectedPoints)
	}
	return tw.Flush()
}
