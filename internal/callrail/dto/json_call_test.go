package dto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestJSONCall_ToCall(t *testing.T) {
	raw := `{
		"id": "CAL-123",
		"direction": "inbound",
		"duration": 95,
		"start_time": "2024-03-01T09:30:00-05:00",
		"answered": true,
		"voicemail": false,
		"customer_phone_number": "+15550100",
		"customer_name": "Ada Lovelace",
		"customer_city": "Austin",
		"customer_state": "TX",
		"recording": "https://api.example.com/recordings/REC-1",
		"source_name": "Google Ads"
	}`

	var jc JSONCall
	if err := json.Unmarshal([]byte(raw), &jc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	call := jc.ToCall()

	if call.ID != "CAL-123" {
		t.Errorf("ID = %q, want %q", call.ID, "CAL-123")
	}
	if call.Duration != 95 {
		t.Errorf("Duration = %d, want 95", call.Duration)
	}
	if !call.Answered {
		t.Error("Answered should be true")
	}
	if call.RecordingRef != "https://api.example.com/recordings/REC-1" {
		t.Errorf("RecordingRef = %q", call.RecordingRef)
	}
	if !call.HasRecording {
		t.Error("HasRecording should be true when a recording reference is present")
	}
	if call.StartTime.UTC().Hour() != 14 {
		t.Errorf("StartTime not parsed with offset: %v", call.StartTime)
	}
}

func TestJSONCall_ToCall_Total(t *testing.T) {
	// A raw record missing every optional field must still project cleanly.
	raw := `{"id": "CAL-1", "direction": "inbound", "duration": 0}`

	var jc JSONCall
	if err := json.Unmarshal([]byte(raw), &jc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	call := jc.ToCall()

	if call.CustomerPhone != "" || call.CustomerName != "" || call.CustomerCity != "" || call.CustomerState != "" {
		t.Errorf("optional customer fields should be empty, got %+v", call)
	}
	if call.SourceName != "" {
		t.Errorf("SourceName should be empty, got %q", call.SourceName)
	}
	if call.RecordingRef != "" {
		t.Errorf("RecordingRef should be empty, got %q", call.RecordingRef)
	}
	if call.HasRecording {
		t.Error("HasRecording should be false without a recording reference")
	}
	if !call.StartTime.IsZero() {
		t.Errorf("StartTime should be zero, got %v", call.StartTime)
	}
}

func TestJSONCall_ToCall_NegativeDurationClamped(t *testing.T) {
	jc := JSONCall{ID: "CAL-1", Duration: -10}
	if got := jc.ToCall().Duration; got != 0 {
		t.Errorf("Duration = %d, want 0", got)
	}
}

func TestCallTime_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantZero bool
		want     time.Time
	}{
		{
			name:  "rfc3339 with offset",
			input: `"2024-03-01T09:30:00-05:00"`,
			want:  time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC),
		},
		{
			name:  "no zone offset",
			input: `"2024-03-01T09:30:00"`,
			want:  time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			input: `"2024-03-01"`,
			want:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "empty string",
			input:    `""`,
			wantZero: true,
		},
		{
			name:     "garbage is tolerated",
			input:    `"not a date"`,
			wantZero: true,
		},
		{
			name:     "null is tolerated",
			input:    `null`,
			wantZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ct CallTime
			if err := ct.UnmarshalJSON([]byte(tt.input)); err != nil {
				t.Fatalf("UnmarshalJSON returned error: %v", err)
			}

			if tt.wantZero {
				if !ct.IsZero() {
					t.Errorf("expected zero time, got %v", ct.Time)
				}
				return
			}

			if !ct.Time.UTC().Equal(tt.want) {
				t.Errorf("parsed %v, want %v", ct.Time.UTC(), tt.want)
			}
		})
	}
}
