package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// csvTable is a header-first CSV file. All reads and appends go through mu so
// a check followed by an append is atomic within the process.
type csvTable struct {
	mu     sync.Mutex
	path   string
	header []string
}

func openCSVTable(path string, header []string) (*csvTable, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir for %s: %w", path, err)
	}
	t := &csvTable{path: path, header: header}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := t.appendLocked(header); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("stat %s: %w", path, err)
	case info.Size() == 0:
		if err := t.appendLocked(header); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Rows returns every data row keyed by the file's own header line.
func (t *csvTable) Rows() ([]map[string]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rowsLocked()
}

func (t *csvTable) Append(record []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.appendLocked(record)
}

// AppendUnless appends record unless reject matches an existing row.
func (t *csvTable) AppendUnless(record []string, reject func(row map[string]string) bool) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.rowsLocked()
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if reject(row) {
			return false, nil
		}
	}
	if err := t.appendLocked(record); err != nil {
		return false, err
	}
	return true, nil
}

func (t *csvTable) rowsLocked() ([]map[string]string, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", t.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", t.path, err)
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", t.path, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (t *csvTable) appendLocked(record []string) error {
	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", t.path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", t.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", t.path, err)
	}
	return f.Close()
}
