// Package download provides the orchestration logic for fetching call
// recordings to local disk.
//
// # Manager
//
// The Manager walks a slice of call records and, for each one that carries
// a recording reference:
//
//  1. Computes a destination path deterministic in the call ID
//  2. Skips the call if the file already exists (no network call)
//  3. Resolves the reference to a pre-authorized URL (authenticated)
//  4. Streams the audio to disk (unauthenticated, temp file + rename)
//  5. Optionally writes ID3 tags from the call metadata
//
// # Basic Usage
//
//	manager := download.NewManager(settings, client, nil, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	report, err := manager.Download(ctx, calls, "recordings")
//	if err != nil {
//	    log.Fatal(err) // only cancellation reaches here
//	}
//	fmt.Printf("%d downloaded, %d failed\n", report.Downloaded, report.Failed)
//
// # Outcomes
//
// Individual failures are expected: a recording may have expired or the
// provider may refuse a single resolution. Each qualifying call yields a
// tagged Outcome (downloaded, already present, or failed with its cause)
// collected into the Report; nothing is retried and the run never aborts
// over one record.
//
// # Pacing and Concurrency
//
// A Pacer enforces a minimum gap between successive attempts to stay under
// the provider's implicit rate limit. The worker pool is bounded by
// MaxConcurrentDownloads and defaults to one worker, which preserves strict
// input-order sequential processing.
package download
