// Package config provides configuration management for callrail-exporter.
//
// This package handles:
//   - Built-in default values
//   - Loading an optional YAML settings file
//   - CALLRAIL_EXPORT_* environment variable overrides
//   - Conversion to the RecordingConfig used for file naming
//
// # Default Settings
//
// Use Default() to get sensible defaults:
//
//	settings := config.Default()
//	// 250 records per page, 100ms between download attempts,
//	// recordings named "{id}.mp3" under ./recordings
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/settings.yaml")
//
// Pass an empty path to use defaults plus environment overrides only.
// Credentials are deliberately not configurable here: the API key and
// account ID always arrive as CLI flags.
package config
