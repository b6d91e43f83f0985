package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/calltools/callrail-exporter/internal/audio"
	"github.com/calltools/callrail-exporter/internal/callrail"
	"github.com/calltools/callrail-exporter/internal/config"
	ioutils "github.com/calltools/callrail-exporter/internal/io"
	"github.com/calltools/callrail-exporter/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Status tags the outcome of one recording download attempt.
type Status int

const (
	// StatusDownloaded means the recording was fetched and written.
	StatusDownloaded Status = iota

	// StatusAlreadyPresent means the destination file already existed,
	// so no network call was made. Counts as downloaded.
	StatusAlreadyPresent

	// StatusFailed means resolution or transfer failed. Not retried.
	StatusFailed
)

// String returns a short label for logs and reports.
func (s Status) String() string {
	switch s {
	case StatusDownloaded:
		return "downloaded"
	case StatusAlreadyPresent:
		return "already present"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result for one qualifying call.
//
// Keeping per-record outcomes rather than bare counters lets callers report
// which records failed and why, not just how many.
type Outcome struct {
	// Call is the record the attempt belonged to.
	Call model.CallRecord

	// Status tags how the attempt ended.
	Status Status

	// Path is the destination file path for successful outcomes.
	Path string

	// Err is the failure cause when Status is StatusFailed.
	Err error
}

// Report summarizes a download run.
type Report struct {
	// Outcomes holds one entry per qualifying call, in input order.
	Outcomes []Outcome

	// Downloaded counts recordings materialized on disk, including files
	// that already existed before the run.
	Downloaded int

	// Failed counts recordings whose resolution or transfer failed.
	Failed int
}

// Failures returns the outcomes that failed, in input order.
func (r *Report) Failures() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Manager coordinates recording downloads.
//
// For each call that carries a recording reference the Manager resolves
// the reference to a pre-authorized URL, streams the audio to a path
// derived from the call ID, and optionally tags the file with call
// metadata. Calls without a recording are ignored. Files already present
// on disk are never re-fetched, which makes repeated runs over the same
// destination directory resumable and idempotent.
//
// Failures of individual recordings are expected and recoverable: they are
// tallied in the Report and the run continues. Nothing is retried.
type Manager struct {
	settings     *config.Settings
	api          *callrail.Client
	recordingCfg *model.RecordingConfig
	tagger       *audio.Tagger
	pacer        Pacer
	onProgress   func(ProgressEvent)

	totalFiles      int32
	processedFiles  int32
	downloadedFiles int32
	failedFiles     int32
}

// NewManager creates a new download Manager.
//
// A nil pacer selects an IntervalPacer with the configured download delay.
// onProgress may be nil to disable progress events.
func NewManager(settings *config.Settings, api *callrail.Client, pacer Pacer, onProgress func(ProgressEvent)) *Manager {
	if pacer == nil {
		pacer = NewIntervalPacer(settings.DownloadDelay)
	}

	return &Manager{
		settings:     settings,
		api:          api,
		recordingCfg: settings.ToRecordingConfig(),
		tagger:       audio.NewTagger(),
		pacer:        pacer,
		onProgress:   onProgress,
	}
}

// Download fetches the recordings for all qualifying calls into destDir.
//
// Attempts run under a worker pool bounded by MaxConcurrentDownloads; the
// default limit of 1 processes records strictly sequentially in input
// order. The pacer spaces successive attempts apart regardless of the
// limit, and writes land in a temporary file renamed into place so the
// existence check stays sound if the limit is raised.
//
// The returned error is non-nil only when ctx was cancelled; per-record
// failures are reported through the Report, not as an error.
func (m *Manager) Download(ctx context.Context, calls []model.CallRecord, destDir string) (*Report, error) {
	var qualifying []model.CallRecord
	for _, call := range calls {
		if call.RecordingRef != "" {
			qualifying = append(qualifying, call)
		}
	}

	atomic.StoreInt32(&m.totalFiles, int32(len(qualifying)))
	atomic.StoreInt32(&m.processedFiles, 0)
	atomic.StoreInt32(&m.downloadedFiles, 0)
	atomic.StoreInt32(&m.failedFiles, 0)

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("%d of %d calls have recordings", len(qualifying), len(calls)),
		Level:   LevelInfo,
	})

	report := &Report{Outcomes: make([]Outcome, len(qualifying))}
	if len(qualifying) == 0 {
		return report, nil
	}

	if err := ioutils.EnsureDir(destDir); err != nil {
		return nil, fmt.Errorf("creating destination directory: %w", err)
	}

	limit := m.settings.MaxConcurrentDownloads
	if limit < 1 {
		limit = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, call := range qualifying {
		i, call := i, call // capture
		g.Go(func() error {
			outcome := m.downloadRecording(ctx, call, destDir)
			report.Outcomes[i] = outcome

			atomic.AddInt32(&m.processedFiles, 1)
			switch outcome.Status {
			case StatusFailed:
				atomic.AddInt32(&m.failedFiles, 1)
			default:
				atomic.AddInt32(&m.downloadedFiles, 1)
			}

			// Stop scheduling new attempts once the run is cancelled.
			return ctx.Err()
		})
	}

	err := g.Wait()

	for _, o := range report.Outcomes {
		switch o.Status {
		case StatusFailed:
			report.Failed++
		default:
			report.Downloaded++
		}
	}

	if err != nil {
		return report, err
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Finished: %d downloaded, %d failed", report.Downloaded, report.Failed),
		Level:   LevelSuccess,
	})

	return report, nil
}

// GetProgress returns current download progress counts.
func (m *Manager) GetProgress() (downloaded, failed, processed, total int32) {
	return atomic.LoadInt32(&m.downloadedFiles),
		atomic.LoadInt32(&m.failedFiles),
		atomic.LoadInt32(&m.processedFiles),
		atomic.LoadInt32(&m.totalFiles)
}

// downloadRecording runs the two-stage fetch for one call.
func (m *Manager) downloadRecording(ctx context.Context, call model.CallRecord, destDir string) Outcome {
	path := call.RecordingPath(destDir, m.recordingCfg)

	if ioutils.FileExists(path) {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Skipping existing: %s", filepath.Base(path)),
			Level:   LevelVerbose,
		})
		return Outcome{Call: call, Status: StatusAlreadyPresent, Path: path}
	}

	if err := m.pacer.Wait(ctx); err != nil {
		return Outcome{Call: call, Status: StatusFailed, Err: err}
	}
	defer m.pacer.Completed()

	url, err := m.api.ResolveRecordingURL(ctx, call.RecordingRef)
	if err != nil {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Error resolving recording for %s: %v", call.Label(), err),
			Level:   LevelError,
		})
		return Outcome{Call: call, Status: StatusFailed, Err: err}
	}

	// Write to a temp file and rename so a half-written download never
	// satisfies a later existence check.
	tmp := path + ".part"
	if err := m.api.HTTPClient().DownloadFile(ctx, url, tmp, nil); err != nil {
		os.Remove(tmp)
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Error downloading %s: %v", call.Label(), err),
			Level:   LevelError,
		})
		return Outcome{Call: call, Status: StatusFailed, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return Outcome{Call: call, Status: StatusFailed, Err: err}
	}

	if m.settings.TagRecordings && m.tagger.Taggable(path) {
		if err := m.tagger.SaveTags(path, &call); err != nil {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Error tagging %s: %v", filepath.Base(path), err),
				Level:   LevelWarning,
			})
		}
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Downloaded: %s", filepath.Base(path)),
		Level:   LevelVerbose,
	})
	return Outcome{Call: call, Status: StatusDownloaded, Path: path}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
