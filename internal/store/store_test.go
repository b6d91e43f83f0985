package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/calltools/callrail-exporter/internal/model"
)

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "calls.json")

	calls := []model.CallRecord{
		{
			ID:           "CAL-1",
			Direction:    model.DirectionInbound,
			Duration:     95,
			StartTime:    time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
			Answered:     true,
			CustomerName: "Ada Lovelace",
			RecordingRef: "https://api.example.com/recordings/REC-1",
			HasRecording: true,
		},
		{ID: "CAL-2", Direction: model.DirectionOutbound},
	}

	if err := Save(path, calls); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("loaded %d records, want 2", len(loaded))
	}
	if loaded[0].ID != "CAL-1" || !loaded[0].HasRecording {
		t.Errorf("first record mangled: %+v", loaded[0])
	}
	if !loaded[0].StartTime.Equal(calls[0].StartTime) {
		t.Errorf("StartTime = %v, want %v", loaded[0].StartTime, calls[0].StartTime)
	}
}

func TestSave_EmptySliceWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.json")

	if err := Save(path, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("empty export = %q, want %q", data, "[]")
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "absent.json")); err == nil {
			t.Error("expected an error for a missing file")
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("expected an error for malformed JSON")
		}
	})
}
