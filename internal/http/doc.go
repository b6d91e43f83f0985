// Package http provides an HTTP client configured for the CallRail API.
//
// The Client in this package handles:
//   - Bearer-style Authorization headers on API requests
//   - JSON decoding with 2xx status checking
//   - File downloads with progress tracking
//   - Per-request timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(apiKey, 30*time.Second)
//
//	// Fetch a JSON resource
//	var body struct{ URL string `json:"url"` }
//	err := client.GetJSON(ctx, recordingRef, &body)
//
//	// Download a pre-authorized file with progress callback
//	client.DownloadFile(ctx, body.URL, "/calls/rec.mp3", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress
// tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
