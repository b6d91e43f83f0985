package dto

import (
	"encoding/json"
	"time"

	"github.com/calltools/callrail-exporter/internal/model"
)

// CallTime is a custom time type tolerant of the provider's date formats.
type CallTime struct {
	time.Time
}

// UnmarshalJSON parses the provider's timestamp formats.
//
// CallRail usually returns RFC 3339 with a zone offset, but older payloads
// have been observed without the offset or as a bare date. Unparseable or
// empty values decode to the zero time instead of failing, so a single odd
// timestamp never poisons a whole page.
func (ct *CallTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		ct.Time = time.Time{}
		return nil
	}

	if s == "" {
		ct.Time = time.Time{}
		return nil
	}

	// Try multiple formats
	formats := []string{
		time.RFC3339,          // "2024-03-01T09:30:00-05:00"
		"2006-01-02T15:04:05", // No zone offset
		"2006-01-02 15:04:05",
		"2006-01-02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			ct.Time = t
			return nil
		}
	}

	ct.Time = time.Time{}
	return nil
}

// JSONCall represents one raw call entry from the provider's calls listing.
//
// Field names follow the provider's wire format; only the fields the
// canonical model needs are declared, matching the projection list the
// fetcher requests.
type JSONCall struct {
	ID            string    `json:"id"`
	Direction     string    `json:"direction"`
	Duration      int       `json:"duration"`
	StartTime     *CallTime `json:"start_time"`
	Answered      bool      `json:"answered"`
	Voicemail     bool      `json:"voicemail"`
	CustomerPhone string    `json:"customer_phone_number"`
	CustomerName  string    `json:"customer_name"`
	CustomerCity  string    `json:"customer_city"`
	CustomerState string    `json:"customer_state"`
	Recording     string    `json:"recording"`
	SourceName    string    `json:"source_name"`
}

// JSONCallPage represents one page of the provider's calls listing.
type JSONCallPage struct {
	Calls []JSONCall `json:"calls"`
}

// ToCall projects a raw provider call onto the canonical model.CallRecord.
//
// The projection is total: it never fails, and missing optional fields map
// to zero values. HasRecording is computed from the presence of the
// recording reference rather than copied from any provider flag. Negative
// durations, which the provider should never send, are clamped to zero.
func (jc *JSONCall) ToCall() model.CallRecord {
	duration := jc.Duration
	if duration < 0 {
		duration = 0
	}

	var start time.Time
	if jc.StartTime != nil {
		start = jc.StartTime.Time
	}

	return model.CallRecord{
		ID:            jc.ID,
		Direction:     model.Direction(jc.Direction),
		Duration:      duration,
		StartTime:     start,
		Answered:      jc.Answered,
		Voicemail:     jc.Voicemail,
		CustomerPhone: jc.CustomerPhone,
		CustomerName:  jc.CustomerName,
		CustomerCity:  jc.CustomerCity,
		CustomerState: jc.CustomerState,
		SourceName:    jc.SourceName,
		RecordingRef:  jc.Recording,
		HasRecording:  jc.Recording != "",
	}
}
