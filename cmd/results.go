package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathbuddy/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect completed diagnostics",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a student's diagnostic results, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		student, _ := cmd.Flags().GetString("student")
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		results, err := s.ResultRepo().ListDiagnosticResults(cmd.Context(), student, limit)
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		printResults(cmd.OutOrStdout(), results)
		return nil
	},
}

var resultsLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show a student's most recent diagnostic result",
	RunE: func(cmd *cobra.Command, args []string) error {
		student, _ := cmd.Flags().GetString("student")

		s, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		latest, err := s.ResultRepo().LatestDiagnosticResult(cmd.Context(), student)
		if err != nil {
			return fmt.Errorf("query latest result: %w", err)
		}
		printLatestResult(cmd.OutOrStdout(), latest)
		return nil
	},
}

func printLatestResult(out io.Writer, latest *store.DiagnosticResult) {
	if latest == nil {
		printResults(out, nil)
		return
	}
	printResults(out, []store.DiagnosticResult{*latest})
}

func printResults(out io.Writer, results []store.DiagnosticResult) {
	if len(results) == 0 {
		fmt.Fprintln(out, "No diagnostic results found.")
		return
	}

	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s  grade %d  overall level %d  (session %s)\n",
			r.CompletedAt.Local().Format("2006-01-02 15:04:05"), r.Grade, r.OverallLevel, r.SessionID)
		fmt.Fprintln(out, strings.Repeat("─", 64))
		fmt.Fprintf(out, "%-16s  %7s  %8s  %8s  %5s\n", "Domain", "Correct", "Accuracy", "Avg Sec", "Level")
		for _, d := range r.Domains {
			fmt.Fprintf(out, "%-16s  %3d/%-3d  %7.0f%%  %8.1f  %5d\n",
				d.Domain, d.Correct, d.Total, d.Accuracy*100, d.AverageTimeSeconds, d.Level)
		}
	}
}

func init() {
	resultsListCmd.Flags().StringP("student", "s", "", "Student identifier")
	resultsListCmd.Flags().IntP("limit", "n", 10, "Number of results to show (0 = all)")
	_ = resultsListCmd.MarkFlagRequired("student")

	resultsLatestCmd.Flags().StringP("student", "s", "", "Student identifier")
	_ = resultsLatestCmd.MarkFlagRequired("student")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsLatestCmd)
}
