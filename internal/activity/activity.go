package activity

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spendlog-dev/spendlog/internal/expense"
	"github.com/spendlog-dev/spendlog/internal/log"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	Action    string
	EntryID   string
	Details   string
}

// Header is the CSV header for activity.csv.
const Header = "timestamp,action,entry_id,details"

const (
	numFields  = 4
	logDir     = "logs"
	logFile    = "logs/activity.csv"
	colTime    = 0
	colAction  = 1
	colEntryID = 2
	colDetails = 3
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colAction] = e.Action
	row[colEntryID] = e.EntryID
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	return Entry{
		Timestamp: ts,
		Action:    record[colAction],
		EntryID:   record[colEntryID],
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to <root>/logs/activity.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <root>/logs/activity.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Recorder returns a store observer that appends every persisted change to
// the activity log under root. Write failures are logged and otherwise ignored.
func Recorder(root string, logger *log.Logger, now func() time.Time) expense.Observer {
	logger = logger.WithComponent(log.ComponentActivity)
	return func(ctx context.Context, changes []expense.Change) {
		ts := now()
		entries := make([]Entry, len(changes))
		for i, c := range changes {
			entries[i] = Entry{
				Timestamp: ts,
				Action:    string(c.Action),
				EntryID:   c.Entry.ID,
				Details:   fmt.Sprintf("%s %s", c.Entry.Amount.StringFixed(2), c.Entry.Reason),
			}
		}
		if err := Append(root, entries); err != nil {
			logger.WarnContext(ctx, "failed to write activity log", log.FieldError, err)
		}
	}
}
