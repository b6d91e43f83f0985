package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/calltools/callrail-exporter/internal/model"
)

// Settings holds all configuration options.
//
// Values come from three layers, later ones winning: built-in defaults, an
// optional YAML settings file, and CALLRAIL_EXPORT_* environment
// variables. Credentials are never part of Settings; they are passed as
// CLI flags only.
type Settings struct {
	// API settings
	BaseURL        string        `mapstructure:"base_url"`
	PerPage        int           `mapstructure:"per_page"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// Download settings
	DownloadDelay          time.Duration `mapstructure:"download_delay"`
	MaxConcurrentDownloads int           `mapstructure:"max_concurrent_downloads"`
	RecordingFileFormat    string        `mapstructure:"recording_file_format"`
	TagRecordings          bool          `mapstructure:"tag_recordings"`

	// Default file locations
	CallsPath     string `mapstructure:"calls_path"`
	RecordingsDir string `mapstructure:"recordings_dir"`
}

// Default returns settings with default values.
func Default() *Settings {
	return &Settings{
		BaseURL:        "https://api.callrail.com/v3",
		PerPage:        250,
		RequestTimeout: 60 * time.Second,

		DownloadDelay:          100 * time.Millisecond,
		MaxConcurrentDownloads: 1,
		RecordingFileFormat:    "{id}.mp3",
		TagRecordings:          true,

		CallsPath:     "calls.json",
		RecordingsDir: "recordings",
	}
}

// Load builds Settings from defaults, an optional settings file, and
// environment overrides.
//
// An empty path skips the file layer. A path that cannot be read or
// parsed is an error; the caller asked for that file explicitly.
func Load(path string) (*Settings, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("base_url", defaults.BaseURL)
	v.SetDefault("per_page", defaults.PerPage)
	v.SetDefault("request_timeout", defaults.RequestTimeout)
	v.SetDefault("download_delay", defaults.DownloadDelay)
	v.SetDefault("max_concurrent_downloads", defaults.MaxConcurrentDownloads)
	v.SetDefault("recording_file_format", defaults.RecordingFileFormat)
	v.SetDefault("tag_recordings", defaults.TagRecordings)
	v.SetDefault("calls_path", defaults.CallsPath)
	v.SetDefault("recordings_dir", defaults.RecordingsDir)

	v.SetEnvPrefix("CALLRAIL_EXPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading settings file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	return settings, nil
}

// ToRecordingConfig converts settings to a model.RecordingConfig.
func (s *Settings) ToRecordingConfig() *model.RecordingConfig {
	return &model.RecordingConfig{
		FileNameFormat: s.RecordingFileFormat,
	}
}
