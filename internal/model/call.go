package model

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Direction identifies whether a call was received or placed.
type Direction string

const (
	// DirectionInbound marks calls received by a tracked number.
	DirectionInbound Direction = "inbound"

	// DirectionOutbound marks calls placed from the account.
	DirectionOutbound Direction = "outbound"
)

// CallRecord is one call-metadata entity in its canonical shape.
//
// CallRecord holds everything downstream consumers need:
//   - Identity and timing (ID, StartTime, Duration)
//   - Disposition flags (Answered, Voicemail)
//   - Caller details (phone, name, city, state — all optional)
//   - The recording reference, when a recording exists
//
// Records are built once by the projection in the callrail/dto package and
// never mutated afterwards; consumers only filter and read them. The ID is
// the provider's stable identifier and is unique within one fetch session,
// which makes it safe to derive local file names from it.
//
// Example:
//
//	call := CallRecord{ID: "CAL-123", Direction: DirectionInbound, Duration: 95}
//	fmt.Println(call.RecordingFileName(cfg)) // "CAL-123.mp3"
type CallRecord struct {
	// ID is the provider's opaque, stable identifier for this call.
	ID string `json:"id"`

	// Direction is "inbound" or "outbound".
	Direction Direction `json:"direction"`

	// Duration is the call length in seconds, never negative.
	Duration int `json:"duration"`

	// StartTime is when the call started. Zero if the provider omitted it.
	StartTime time.Time `json:"start_time"`

	// Answered reports whether the call was picked up.
	Answered bool `json:"answered"`

	// Voicemail reports whether the call went to voicemail.
	Voicemail bool `json:"voicemail"`

	// CustomerPhone is the caller's number. Empty if unknown.
	CustomerPhone string `json:"customer_phone,omitempty"`

	// CustomerName is the caller's name. Empty if unknown.
	CustomerName string `json:"customer_name,omitempty"`

	// CustomerCity is the caller's city. Empty if unknown.
	CustomerCity string `json:"customer_city,omitempty"`

	// CustomerState is the caller's state or region. Empty if unknown.
	CustomerState string `json:"customer_state,omitempty"`

	// SourceName is the marketing source the provider attributed the
	// call to. Empty if unattributed.
	SourceName string `json:"source_name,omitempty"`

	// RecordingRef is the opaque reference to this call's audio asset.
	// Resolving it to a download URL requires an authenticated request.
	// Empty when no recording exists.
	RecordingRef string `json:"recording_ref,omitempty"`

	// HasRecording reports whether a recording reference is present.
	// It is computed at projection time, never copied from the provider.
	HasRecording bool `json:"has_recording"`
}

// RecordingConfig holds recording file naming settings.
//
// The FileNameFormat supports placeholders that are replaced with values
// from the owning call:
//   - {id} - The provider call ID
//   - {date} - Call start date (YYYY-MM-DD)
//   - {customer} - Customer name, falling back to the phone number
//
// Example:
//
//	cfg := &RecordingConfig{FileNameFormat: "{date} {id}.mp3"}
//	// Results in filenames like "2024-03-01 CAL-123.mp3"
type RecordingConfig struct {
	// FileNameFormat is the template for recording filenames.
	// Must include the file extension (typically ".mp3").
	FileNameFormat string
}

// RecordingFileName computes the local filename for this call's recording.
//
// The name is deterministic in the call's fields, so repeated runs against
// the same destination directory resolve to the same path and already
// materialized recordings are detected and skipped. Invalid filename
// characters are replaced with underscores.
func (c *CallRecord) RecordingFileName(cfg *RecordingConfig) string {
	name := cfg.FileNameFormat

	customer := c.CustomerName
	if customer == "" {
		customer = c.CustomerPhone
	}

	name = strings.ReplaceAll(name, "{date}", c.StartTime.Format("2006-01-02"))
	name = strings.ReplaceAll(name, "{customer}", customer)
	name = strings.ReplaceAll(name, "{id}", c.ID)
	return sanitizeFileName(name)
}

// RecordingPath joins the destination directory with the computed filename.
//
// The path is truncated if it exceeds Windows path length limits (260).
func (c *CallRecord) RecordingPath(destDir string, cfg *RecordingConfig) string {
	fileName := c.RecordingFileName(cfg)
	path := filepath.Join(destDir, fileName)

	if len(path) >= 260 {
		ext := filepath.Ext(fileName)
		maxLen := 259 - len(destDir) - len(ext) - 1
		if maxLen > 0 && maxLen < len(fileName) {
			path = filepath.Join(destDir, fileName[:maxLen]+ext)
		}
	}

	return path
}

// Caller returns a human-readable caller label for logs and reports.
//
// It prefers the customer name, falls back to the phone number, and
// finally to the call ID so the result is never empty.
func (c *CallRecord) Caller() string {
	switch {
	case c.CustomerName != "":
		return c.CustomerName
	case c.CustomerPhone != "":
		return c.CustomerPhone
	default:
		return c.ID
	}
}

// Label returns a short display string for progress messages.
func (c *CallRecord) Label() string {
	return fmt.Sprintf("%s (%s)", c.ID, c.Caller())
}

// sanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
//
// Example:
//
//	sanitizeFileName("CAL:1/2.mp3") // Returns "CAL_1_2.mp3"
func sanitizeFileName(name string) string {
	// Replace invalid path/file characters
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	// Remove trailing dots
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	// Replace multiple whitespace with single space
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	// Remove trailing whitespace
	name = strings.TrimRight(name, " ")

	return name
}
