// Package main provides the callrail-export command line interface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calltools/callrail-exporter/internal/config"
	"github.com/calltools/callrail-exporter/internal/download"
	"github.com/calltools/callrail-exporter/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "callrail-export",
	Short: "Export CallRail call logs and recordings",
	Long: `callrail-export fetches call metadata from the CallRail API, saves it as a
local JSON file, downloads call recordings, and prints aggregate statistics.

For interactive mode, use: callrail-tui`,
	SilenceUsage: true,
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to settings file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings applies the shared --config flag.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// newLogger applies the shared --verbose flag.
func newLogger() (*logger.Logger, error) {
	return logger.New(verbose)
}

// logProgress bridges download progress events onto the logger.
func logProgress(log *logger.Logger) func(download.ProgressEvent) {
	return func(event download.ProgressEvent) {
		switch event.Level {
		case download.LevelError:
			log.Error(event.Message)
		case download.LevelWarning:
			log.Warn(event.Message)
		case download.LevelVerbose:
			log.Debug(event.Message)
		default:
			log.Info(event.Message)
		}
	}
}
