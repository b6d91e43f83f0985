package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calltools/callrail-exporter/internal/stats"
	"github.com/calltools/callrail-exporter/internal/store"
)

var statsCommand = &cobra.Command{
	Use:   "stats",
	Short: "Summarize a previously fetched call export",
	Long: `Reads a calls JSON file produced by fetch and prints aggregate statistics:
call dispositions, directions, recording coverage, durations, unique
callers, the covered date range, and a per-source breakdown.`,
	RunE: runStats,
}

var statsInput string

func init() {
	statsCommand.Flags().StringVar(&statsInput, "input", "", "Calls JSON file (required)")

	_ = statsCommand.MarkFlagRequired("input")

	rootCmd.AddCommand(statsCommand)
}

func runStats(cmd *cobra.Command, _ []string) error {
	calls, err := store.Load(statsInput)
	if err != nil {
		return fmt.Errorf("loading calls: %w", err)
	}

	summary := stats.Summarize(calls)
	fmt.Print(summary.Render())
	return nil
}
