package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calltools/callrail-exporter/internal/callrail"
	"github.com/calltools/callrail-exporter/internal/store"
)

var fetchCommand = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch call metadata from the CallRail API",
	Long: `Fetches all calls for an account, one page at a time, and saves them as a
JSON file. An optional inclusive date range bounds the export.

A provider failure partway through keeps the pages already fetched: the
partial file is still written and a warning explains what stopped the fetch.`,
	RunE: runFetch,
}

var (
	fetchAPIKey    string
	fetchAccountID string
	fetchStartDate string
	fetchEndDate   string
	fetchOutput    string
)

func init() {
	fetchCommand.Flags().StringVar(&fetchAPIKey, "api-key", "", "CallRail API key (required)")
	fetchCommand.Flags().StringVar(&fetchAccountID, "account-id", "", "CallRail account ID (required)")
	fetchCommand.Flags().StringVar(&fetchStartDate, "start-date", "", "Inclusive start date (YYYY-MM-DD)")
	fetchCommand.Flags().StringVar(&fetchEndDate, "end-date", "", "Inclusive end date (YYYY-MM-DD)")
	fetchCommand.Flags().StringVar(&fetchOutput, "output", "", "Output JSON file (default from settings)")

	_ = fetchCommand.MarkFlagRequired("api-key")
	_ = fetchCommand.MarkFlagRequired("account-id")

	rootCmd.AddCommand(fetchCommand)
}

// validateDate checks the YYYY-MM-DD format the provider expects.
// Empty is allowed; the range is unbounded on that side.
func validateDate(flag, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Errorf("invalid --%s %q: want YYYY-MM-DD", flag, value)
	}
	return nil
}

// interruptContext returns a context cancelled on SIGINT/SIGTERM.
func interruptContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}

func runFetch(cmd *cobra.Command, _ []string) error {
	if err := validateDate("start-date", fetchStartDate); err != nil {
		return err
	}
	if err := validateDate("end-date", fetchEndDate); err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	output := fetchOutput
	if output == "" {
		output = settings.CallsPath
	}

	ctx, cancel := interruptContext()
	defer cancel()

	client := callrail.NewClient(fetchAPIKey, fetchAccountID,
		callrail.WithBaseURL(settings.BaseURL),
		callrail.WithPerPage(settings.PerPage),
		callrail.WithTimeout(settings.RequestTimeout),
	)
	client.OnPage = func(ev callrail.PageEvent) {
		log.Info("fetched page",
			zap.Int("page", ev.Page),
			zap.Int("records", ev.Count),
			zap.Int("total", ev.Total),
		)
	}

	log.Info("fetching calls",
		zap.String("account", fetchAccountID),
		zap.String("start_date", fetchStartDate),
		zap.String("end_date", fetchEndDate),
	)

	result, err := client.FetchCalls(ctx, callrail.Filters{
		StartDate: fetchStartDate,
		EndDate:   fetchEndDate,
	})
	if err != nil {
		return fmt.Errorf("fetch cancelled: %w", err)
	}

	if !result.Complete {
		log.Warn("provider error stopped the fetch; saving the partial export",
			zap.Error(result.Err),
			zap.Int("records", len(result.Calls)),
		)
	}

	if err := store.Save(output, result.Calls); err != nil {
		return fmt.Errorf("saving calls: %w", err)
	}

	log.Info("saved calls",
		zap.String("path", output),
		zap.Int("records", len(result.Calls)),
		zap.Int("pages", result.Pages),
		zap.Bool("complete", result.Complete),
	)

	fmt.Printf("Fetched %d calls to %s\n", len(result.Calls), output)
	return nil
}
