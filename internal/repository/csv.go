package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// TimeLayout is the ISO-8601 local date-time form used in every collection file.
const TimeLayout = "2006-01-02T15:04:05"

// csvFile wraps one record-oriented collection file: a header row naming the
// fields, one record per subsequent row, comma-delimited UTF-8. A missing file
// counts as an empty collection and is created header-only on first use.
type csvFile struct {
	path   string
	header []string
	log    *zap.Logger
}

func newCSVFile(dir, name string, header []string, log *zap.Logger) (*csvFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	f := &csvFile{path: filepath.Join(dir, name), header: header, log: log}
	if _, err := os.Stat(f.path); errors.Is(err, os.ErrNotExist) {
		if err := f.writeAll(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return f, nil
}

// readAll returns the data rows, header excluded. Each record is read
// independently: a line the CSV codec cannot parse is logged and skipped, so
// one mangled line never poisons the rest of the collection.
func (f *csvFile) readAll() ([][]string, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			f.log.Warn("skipping unparsable line",
				zap.String("file", f.path),
				zap.Error(err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.path, err)
		}
		rows = append(rows, row)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

// writeAll rewrites the whole file: header first, then every row.
func (f *csvFile) writeAll(rows [][]string) error {
	file, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(f.header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// appendRow adds a single record without rewriting the collection. Only used
// for initial user seeding; the booking path always rewrites.
func (f *csvFile) appendRow(row []string) error {
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("append %s: %w", f.path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// sortedIDs gives a stable on-disk order for rewrites.
func sortedIDs[T any](m map[string]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
