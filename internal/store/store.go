// Package store persists fetched call records as a JSON file on disk.
//
// The file holds a single JSON array of records in their canonical
// projected shape, written indented so exports stay diffable:
//
//	err := store.Save("calls.json", result.Calls)
//	calls, err := store.Load("calls.json")
//
// A missing or malformed input file is a hard error: the download and
// stats commands treat it as a precondition violation, not something to
// recover from.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	ioutils "github.com/calltools/callrail-exporter/internal/io"
	"github.com/calltools/callrail-exporter/internal/model"
)

// Save writes the records to path as an indented JSON array.
//
// Parent directories are created if missing. An empty slice is written as
// an empty array, not null, so consumers always get a list.
func Save(path string, calls []model.CallRecord) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	if calls == nil {
		calls = []model.CallRecord{}
	}

	data, err := json.MarshalIndent(calls, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Load reads a JSON array of call records from path.
func Load(path string) ([]model.CallRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading call file: %w", err)
	}

	var calls []model.CallRecord
	if err := json.Unmarshal(data, &calls); err != nil {
		return nil, fmt.Errorf("parsing call file %s: %w", path, err)
	}

	return calls, nil
}
