package download

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/calltools/callrail-exporter/internal/callrail"
	"github.com/calltools/callrail-exporter/internal/config"
	"github.com/calltools/callrail-exporter/internal/model"
)

// fakeMedia serves recording resolution and binary endpoints and records
// every resolution attempt.
type fakeMedia struct {
	mu           sync.Mutex
	resolveTimes []time.Time
	resolves     int
	fetches      int
	failResolve  map[string]bool // call IDs whose resolution should 500
	srv          *httptest.Server
}

func newFakeMedia(t *testing.T) *fakeMedia {
	t.Helper()
	fm := &fakeMedia{failResolve: map[string]bool{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/recordings/", func(w http.ResponseWriter, r *http.Request) {
		fm.mu.Lock()
		fm.resolves++
		fm.resolveTimes = append(fm.resolveTimes, time.Now())
		fm.mu.Unlock()

		id := strings.TrimPrefix(r.URL.Path, "/recordings/")
		if fm.failResolve[id] {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"url":"%s/media/%s"}`, fm.srv.URL, id)
	})
	mux.HandleFunc("/media/", func(w http.ResponseWriter, r *http.Request) {
		fm.mu.Lock()
		fm.fetches++
		fm.mu.Unlock()
		fmt.Fprint(w, "audio-bytes")
	})

	fm.srv = httptest.NewServer(mux)
	t.Cleanup(fm.srv.Close)
	return fm
}

// ref returns a recording reference pointing at the fake server.
func (fm *fakeMedia) ref(id string) string {
	return fm.srv.URL + "/recordings/" + id
}

func (fm *fakeMedia) networkCalls() int {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	return fm.resolves + fm.fetches
}

func testSettings() *config.Settings {
	s := config.Default()
	s.DownloadDelay = 0
	s.TagRecordings = false
	return s
}

func newTestManager(settings *config.Settings) *Manager {
	client := callrail.NewClient("test-key", "ACC-1")
	return NewManager(settings, client, nil, nil)
}

func TestManager_Download_EndToEnd(t *testing.T) {
	fm := newFakeMedia(t)
	dir := t.TempDir()

	// Only record B has a recording; A and C are ignored, not failed.
	calls := []model.CallRecord{
		{ID: "CAL-A"},
		{ID: "CAL-B", RecordingRef: fm.ref("CAL-B"), HasRecording: true},
		{ID: "CAL-C"},
	}

	report, err := newTestManager(testSettings()).Download(context.Background(), calls, dir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if report.Downloaded != 1 || report.Failed != 0 {
		t.Errorf("Downloaded = %d, Failed = %d, want 1 and 0", report.Downloaded, report.Failed)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("destination has %d files, want exactly 1", len(entries))
	}
	if entries[0].Name() != "CAL-B.mp3" {
		t.Errorf("file name = %q, want %q", entries[0].Name(), "CAL-B.mp3")
	}

	data, err := os.ReadFile(filepath.Join(dir, "CAL-B.mp3"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "audio-bytes" {
		t.Errorf("file content = %q", data)
	}
}

func TestManager_Download_Idempotent(t *testing.T) {
	fm := newFakeMedia(t)
	dir := t.TempDir()

	calls := []model.CallRecord{
		{ID: "CAL-1", RecordingRef: fm.ref("CAL-1")},
		{ID: "CAL-2", RecordingRef: fm.ref("CAL-2")},
	}

	manager := newTestManager(testSettings())

	first, err := manager.Download(context.Background(), calls, dir)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first.Downloaded != 2 {
		t.Fatalf("first run Downloaded = %d, want 2", first.Downloaded)
	}

	callsBefore := fm.networkCalls()

	second, err := manager.Download(context.Background(), calls, dir)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if second.Downloaded != 2 || second.Failed != 0 {
		t.Errorf("second run Downloaded = %d, Failed = %d, want 2 and 0", second.Downloaded, second.Failed)
	}
	if got := fm.networkCalls(); got != callsBefore {
		t.Errorf("second run made %d network calls, want 0", got-callsBefore)
	}
	for _, o := range second.Outcomes {
		if o.Status != StatusAlreadyPresent {
			t.Errorf("outcome for %s = %v, want already present", o.Call.ID, o.Status)
		}
	}
}

func TestManager_Download_FailuresTalliedAndRunContinues(t *testing.T) {
	fm := newFakeMedia(t)
	fm.failResolve["CAL-2"] = true
	dir := t.TempDir()

	calls := []model.CallRecord{
		{ID: "CAL-1", RecordingRef: fm.ref("CAL-1")},
		{ID: "CAL-2", RecordingRef: fm.ref("CAL-2")},
		{ID: "CAL-3", RecordingRef: fm.ref("CAL-3")},
	}

	report, err := newTestManager(testSettings()).Download(context.Background(), calls, dir)
	if err != nil {
		t.Fatalf("per-record failures must not fail the run: %v", err)
	}

	if report.Downloaded != 2 || report.Failed != 1 {
		t.Errorf("Downloaded = %d, Failed = %d, want 2 and 1", report.Downloaded, report.Failed)
	}

	failures := report.Failures()
	if len(failures) != 1 || failures[0].Call.ID != "CAL-2" {
		t.Errorf("Failures() = %+v, want the CAL-2 outcome", failures)
	}
	if failures[0].Err == nil {
		t.Error("failed outcome should carry its cause")
	}

	// The failed record must not leave a partial file behind.
	if _, err := os.Stat(filepath.Join(dir, "CAL-2.mp3")); !os.IsNotExist(err) {
		t.Error("failed download left a file on disk")
	}
}

func TestManager_Download_Pacing(t *testing.T) {
	fm := newFakeMedia(t)
	dir := t.TempDir()

	const delay = 30 * time.Millisecond
	settings := testSettings()
	settings.DownloadDelay = delay

	calls := []model.CallRecord{
		{ID: "CAL-1", RecordingRef: fm.ref("CAL-1")},
		{ID: "CAL-2", RecordingRef: fm.ref("CAL-2")},
		{ID: "CAL-3", RecordingRef: fm.ref("CAL-3")},
	}

	if _, err := newTestManager(settings).Download(context.Background(), calls, dir); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if len(fm.resolveTimes) != 3 {
		t.Fatalf("got %d attempts, want 3", len(fm.resolveTimes))
	}
	for i := 1; i < len(fm.resolveTimes); i++ {
		gap := fm.resolveTimes[i].Sub(fm.resolveTimes[i-1])
		if gap < delay {
			t.Errorf("gap between attempt %d and %d = %v, want >= %v", i, i+1, gap, delay)
		}
	}
}

func TestManager_Download_SkipsPacingForExistingFiles(t *testing.T) {
	fm := newFakeMedia(t)
	dir := t.TempDir()

	settings := testSettings()
	settings.DownloadDelay = time.Second

	calls := []model.CallRecord{
		{ID: "CAL-1", RecordingRef: fm.ref("CAL-1")},
		{ID: "CAL-2", RecordingRef: fm.ref("CAL-2")},
	}
	for _, c := range calls {
		if err := os.WriteFile(filepath.Join(dir, c.ID+".mp3"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	start := time.Now()
	report, err := newTestManager(settings).Download(context.Background(), calls, dir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if report.Downloaded != 2 {
		t.Errorf("Downloaded = %d, want 2", report.Downloaded)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("skipped records should not be paced, run took %v", elapsed)
	}
}

func TestManager_Download_NoQualifyingRecords(t *testing.T) {
	calls := []model.CallRecord{{ID: "CAL-1"}, {ID: "CAL-2"}}

	report, err := newTestManager(testSettings()).Download(context.Background(), calls, t.TempDir())
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if report.Downloaded != 0 || report.Failed != 0 || len(report.Outcomes) != 0 {
		t.Errorf("report = %+v, want empty", report)
	}
}

func TestManager_Download_CreatesDestinationDir(t *testing.T) {
	fm := newFakeMedia(t)
	dir := filepath.Join(t.TempDir(), "a", "b", "recordings")

	calls := []model.CallRecord{{ID: "CAL-1", RecordingRef: fm.ref("CAL-1")}}

	if _, err := newTestManager(testSettings()).Download(context.Background(), calls, dir); err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "CAL-1.mp3")); err != nil {
		t.Errorf("expected recording under nested destination: %v", err)
	}
}

func TestIntervalPacer_Wait(t *testing.T) {
	const interval = 20 * time.Millisecond
	pacer := NewIntervalPacer(interval)
	ctx := context.Background()

	// First attempt starts immediately.
	start := time.Now()
	if err := pacer.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if time.Since(start) > 10*time.Millisecond {
		t.Error("first Wait should not block")
	}
	pacer.Completed()

	// Second attempt waits out the interval after completion.
	start = time.Now()
	if err := pacer.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if gap := time.Since(start); gap < interval-5*time.Millisecond {
		t.Errorf("second Wait blocked %v, want about %v", gap, interval)
	}
}

func TestIntervalPacer_ZeroIntervalNeverWaits(t *testing.T) {
	pacer := NewIntervalPacer(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := pacer.Wait(ctx); err != nil {
			t.Fatal(err)
		}
		pacer.Completed()
	}
	if time.Since(start) > 10*time.Millisecond {
		t.Error("zero-interval pacer should never block")
	}
}

func TestIntervalPacer_CancelledContext(t *testing.T) {
	pacer := NewIntervalPacer(time.Minute)
	pacer.Completed() // force the next Wait to block

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := pacer.Wait(ctx); err == nil {
		t.Error("Wait should surface the context error")
	}
}
