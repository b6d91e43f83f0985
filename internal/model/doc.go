// Package model defines the core data structures used throughout
// the callrail-exporter application.
//
// # CallRecord
//
// CallRecord represents one call in its canonical projected shape, built
// from the provider payload by the callrail/dto package:
//
//	call := model.CallRecord{ID: "CAL-123", Direction: model.DirectionInbound}
//	fmt.Println(call.Caller()) // Caller label for logs
//
// Records are immutable after projection: the fetcher creates them, and the
// stats aggregator and recording downloader only read them.
//
// # Recording Paths
//
// RecordingConfig controls how local recording filenames are computed using
// placeholders:
//
//	cfg := &model.RecordingConfig{FileNameFormat: "{id}.mp3"}
//	path := call.RecordingPath("/calls/recordings", cfg)
//
// Available placeholders: {id}, {date}, {customer}. The computed name is
// deterministic in the call's ID, which is what makes repeated download
// runs over the same directory idempotent.
package model
