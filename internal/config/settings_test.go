package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	s := Default()

	if s.PerPage != 250 {
		t.Errorf("PerPage = %d, want 250", s.PerPage)
	}
	if s.DownloadDelay != 100*time.Millisecond {
		t.Errorf("DownloadDelay = %v, want 100ms", s.DownloadDelay)
	}
	if s.MaxConcurrentDownloads != 1 {
		t.Errorf("MaxConcurrentDownloads = %d, want 1", s.MaxConcurrentDownloads)
	}
	if s.RecordingFileFormat != "{id}.mp3" {
		t.Errorf("RecordingFileFormat = %q", s.RecordingFileFormat)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Default()
	if s.BaseURL != want.BaseURL || s.PerPage != want.PerPage {
		t.Errorf("Load(\"\") = %+v, want defaults %+v", s, want)
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "per_page: 25\ndownload_delay: 250ms\nrecordings_dir: /calls/audio\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.PerPage != 25 {
		t.Errorf("PerPage = %d, want 25", s.PerPage)
	}
	if s.DownloadDelay != 250*time.Millisecond {
		t.Errorf("DownloadDelay = %v, want 250ms", s.DownloadDelay)
	}
	if s.RecordingsDir != "/calls/audio" {
		t.Errorf("RecordingsDir = %q", s.RecordingsDir)
	}
	// Untouched keys keep their defaults.
	if s.BaseURL != Default().BaseURL {
		t.Errorf("BaseURL = %q, want default", s.BaseURL)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for an explicitly requested missing file")
	}
}

func TestSettings_ToRecordingConfig(t *testing.T) {
	s := Default()
	s.RecordingFileFormat = "{date} {id}.mp3"

	cfg := s.ToRecordingConfig()
	if cfg.FileNameFormat != "{date} {id}.mp3" {
		t.Errorf("FileNameFormat = %q", cfg.FileNameFormat)
	}
}
