// Package file reads job records from a JSON Lines file.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/timmy/jobtrack/internal/logger"
	"github.com/timmy/jobtrack/internal/source"
)

// Adapter implements source.Source over a JSONL file, one record per line.
type Adapter struct {
	path    string
	records []source.JobRecord
	skipped int
	loaded  bool
}

// NewAdapter creates a new file adapter.
// Parameters:
//   - path: path to the JSONL file.
//
// Returns:
//   - *Adapter: adapter that loads the file on first fetch.
func NewAdapter(path string) *Adapter {
	return &Adapter{path: path}
}

// GetSourceID returns "file:" followed by the file name.
func (a *Adapter) GetSourceID() string {
	return "file:" + filepath.Base(a.path)
}

func (a *Adapter) GetDisplayName() string {
	return fmt.Sprintf("File (%s)", a.path)
}

// FetchBatch returns the next slice of records. The cursor is a line index.
// Parameters:
//   - ctx: context for cancellation and deadlines (unused for local reads).
//   - cursor: record index as a string, empty for the start.
//   - limit: maximum number of records to return.
//
// Returns:
//   - []source.JobRecord: batch of records.
//   - string: next cursor or empty if no more records.
//   - error: non-nil if the file cannot be read or the cursor is invalid.
func (a *Adapter) FetchBatch(ctx context.Context, cursor string, limit int) ([]source.JobRecord, string, error) {
	if !a.loaded {
		if err := a.load(ctx); err != nil {
			return nil, "", fmt.Errorf("failed to load job file: %w", err)
		}
		a.loaded = true
	}

	start := 0
	if cursor != "" {
		var err error
		start, err = strconv.Atoi(cursor)
		if err != nil || start < 0 {
			return nil, "", fmt.Errorf("invalid cursor %q", cursor)
		}
	}
	if start >= len(a.records) {
		return []source.JobRecord{}, "", nil
	}

	end := start + limit
	if limit <= 0 || end > len(a.records) {
		end = len(a.records)
	}

	next := ""
	if end < len(a.records) {
		next = strconv.Itoa(end)
	}
	return a.records[start:end], next, nil
}

// Skipped returns how many lines could not be decoded.
func (a *Adapter) Skipped() int {
	return a.skipped
}

func (a *Adapter) load(ctx context.Context) error {
	f, err := os.Open(a.path)
	if err != nil {
		return err
	}
	defer f.Close()

	a.records = []source.JobRecord{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec source.JobRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			a.skipped++
			logger.CtxWarn(ctx, "Skipping malformed line %d in %s: %v", lineNo, a.path, err)
			continue
		}
		if rec.ExternalID == "" {
			rec.ExternalID = fmt.Sprintf("line-%d", lineNo)
		}
		a.records = append(a.records, rec)
	}
	return scanner.Err()
}
