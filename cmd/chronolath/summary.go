// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/chronolath/posterior"
	"github.com/katalvlaran/chronolath/store"
	"github.com/katalvlaran/chronolath/variable"
)

var summaryTrace string

var summaryCmd = &cobra.Command{
	Use:   "summary [run-id]",
	Short: "List archived runs, or show the results of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  showSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryTrace, "trace", "", "Also summarize the run trace of this variable (e.g. event/e1/theta)")
}

func showSummary(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer w.Flush()

	if len(args) == 0 {
		runs, err := s.ListRuns(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "RUN\tCREATED\tSTATUS\tCHAINS\tSEED")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Status, len(r.Chains), r.Seed)
		}
		return nil
	}

	id := args[0]
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return err
	}
	results, err := s.Results(ctx, id)
	if err != nil {
		return err
	}
	logger.Debug("summary", zap.String("run", id), zap.Int("variables", len(results)))

	fmt.Fprintf(w, "run %s (%s)\n", run.ID, run.Status)
	fmt.Fprintln(w, "VARIABLE\tMEAN\tSD\tMODE\tCREDIBILITY\tACCEPT")
	for _, r := range results {
		accept := "-"
		if r.Rate != nil {
			accept = fmt.Sprintf("%.1f%%", *r.Rate)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t[%s, %s]\t%s\n",
			r.Name, num(r.Mean), num(r.Std), num(r.Mode), num(r.CredLo), num(r.CredHi), accept)
	}

	if summaryTrace == "" {
		return nil
	}
	v, err := s.LoadVariable(ctx, id, summaryTrace)
	if err != nil {
		return err
	}
	trace := variable.RunTraces(v.Formatted, run.Chains)
	st, err := posterior.AnalyzeTrace(trace, posterior.DefaultQuantileType, 0.25)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s: %d run samples\n", summaryTrace, len(trace))
	fmt.Fprintf(w, "min\t%s\nmax\t%s\nmean\t%s\nsd\t%s\nQ1\t%s\nmedian\t%s\nQ3\t%s\n",
		num(st.Min), num(st.Max), num(st.Mean), num(st.Std),
		num(st.Quartiles.Q1), num(st.Quartiles.Q2), num(st.Quartiles.Q3))
	return nil
}

func num(x float64) string {
	if math.IsNaN(x) {
		return "-"
	}
	return fmt.Sprintf("%.2f", x)
}
