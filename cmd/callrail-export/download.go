package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calltools/callrail-exporter/internal/callrail"
	"github.com/calltools/callrail-exporter/internal/download"
	"github.com/calltools/callrail-exporter/internal/store"
)

var downloadCommand = &cobra.Command{
	Use:   "download",
	Short: "Download recordings for a previously fetched call export",
	Long: `Reads a calls JSON file produced by fetch and downloads the recording for
every call that has one. Recordings already on disk are skipped, so the
command is safe to re-run after an interruption.

Individual recording failures are reported and tallied but do not stop the
run or change the exit status.`,
	RunE: runDownload,
}

var (
	downloadAPIKey string
	downloadInput  string
	downloadOutput string
)

func init() {
	downloadCommand.Flags().StringVar(&downloadAPIKey, "api-key", "", "CallRail API key (required)")
	downloadCommand.Flags().StringVar(&downloadInput, "input", "", "Calls JSON file (required)")
	downloadCommand.Flags().StringVar(&downloadOutput, "output", "", "Destination directory (default from settings)")

	_ = downloadCommand.MarkFlagRequired("api-key")
	_ = downloadCommand.MarkFlagRequired("input")

	rootCmd.AddCommand(downloadCommand)
}

func runDownload(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	output := downloadOutput
	if output == "" {
		output = settings.RecordingsDir
	}

	calls, err := store.Load(downloadInput)
	if err != nil {
		return fmt.Errorf("loading calls: %w", err)
	}

	ctx, cancel := interruptContext()
	defer cancel()

	// Resolving a recording reference does not need the account ID; the
	// reference already identifies the account.
	client := callrail.NewClient(downloadAPIKey, "",
		callrail.WithBaseURL(settings.BaseURL),
		callrail.WithTimeout(settings.RequestTimeout),
	)

	manager := download.NewManager(settings, client, nil, logProgress(log))

	log.Info("downloading recordings",
		zap.String("input", downloadInput),
		zap.String("output", output),
		zap.Int("calls", len(calls)),
	)

	report, err := manager.Download(ctx, calls, output)
	if err != nil {
		return fmt.Errorf("download cancelled: %w", err)
	}

	skipped := 0
	for _, outcome := range report.Outcomes {
		if outcome.Status == download.StatusAlreadyPresent {
			skipped++
		}
	}

	for _, failure := range report.Failures() {
		log.Warn("recording failed",
			zap.String("call", failure.Call.ID),
			zap.Error(failure.Err),
		)
	}

	fmt.Printf("Downloaded %d recordings to %s (%d already present, %d failed)\n",
		report.Downloaded, output, skipped, report.Failed)
	return nil
}
