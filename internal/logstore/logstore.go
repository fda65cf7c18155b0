// Package logstore keeps a flat, header-prefixed CSV log on disk.
//
// Every mutation rewrites the whole file under the log's lock: the new
// content goes to a temp file that is fsynced and renamed over the log, so
// lock-free readers always see a complete snapshot.
package logstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.uber.org/multierr"
)

// ErrCorrupt is returned when the file does not parse or its header does not
// match the schema.
var ErrCorrupt = errors.New("corrupt log")

// Upgrader computes the value of column for a row written by an older
// layout. get returns the row's value for another column, or "" if that
// column is missing too.
type Upgrader func(column string, get func(name string) string) string

// Schema is the canonical column layout of a log.
type Schema struct {
	Columns []string
	Upgrade Upgrader
}

// Log is a single CSV file guarded by one exclusive lock.
type Log struct {
	path   string
	schema Schema
	mu     sync.Mutex
}

// Open returns the log at path, creating it when missing. A file written
// with an older column set is upgraded to the schema and rewritten once,
// here, under the lock; opening an up-to-date file writes nothing.
func Open(path string, schema Schema) (*Log, error) {
	l := &Log{path: path, schema: schema}

	l.mu.Lock()
	defer l.mu.Unlock()

	header, rows, err := l.read()
	if errors.Is(err, fs.ErrNotExist) {
		return l, l.write(nil)
	}
	if err != nil {
		return nil, err
	}
	if slices.Equal(header, schema.Columns) {
		return l, nil
	}

	upgraded, err := l.upgrade(header, rows)
	if err != nil {
		return nil, err
	}
	if err := l.write(upgraded); err != nil {
		return nil, err
	}
	return l, nil
}

// Path returns the file backing the log.
func (l *Log) Path() string { return l.path }

// Rows returns a snapshot of every record, without the header. It takes no
// lock, so the snapshot may already be superseded by a concurrent write.
func (l *Log) Rows() ([][]string, error) {
	header, rows, err := l.read()
	if err != nil {
		return nil, err
	}
	if !slices.Equal(header, l.schema.Columns) {
		return nil, fmt.Errorf("%w: %s: header %v does not match schema", ErrCorrupt, l.path, header)
	}
	return rows, nil
}

// Update runs a read-modify-write cycle of the whole log under the lock. fn
// receives the current rows and returns the rows to persist; an error from
// fn aborts the cycle and leaves the file untouched.
func (l *Log) Update(fn func(rows [][]string) ([][]string, error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.Rows()
	if err != nil {
		return err
	}
	next, err := fn(rows)
	if err != nil {
		return err
	}
	for i, row := range next {
		if len(row) != len(l.schema.Columns) {
			return fmt.Errorf("row %d has %d fields, want %d", i, len(row), len(l.schema.Columns))
		}
	}
	return l.write(next)
}

// Append adds a row at the end of the log.
func (l *Log) Append(row []string) error {
	return l.Update(func(rows [][]string) ([][]string, error) {
		return append(rows, row), nil
	})
}

func (l *Log) read() ([]string, [][]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, l.path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

func (l *Log) upgrade(header []string, rows [][]string) ([][]string, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate column %q", ErrCorrupt, l.path, name)
		}
		if !slices.Contains(l.schema.Columns, name) {
			return nil, fmt.Errorf("%w: %s: unknown column %q", ErrCorrupt, l.path, name)
		}
		index[name] = i
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		get := func(name string) string {
			if i, ok := index[name]; ok {
				return row[i]
			}
			return ""
		}
		next := make([]string, len(l.schema.Columns))
		for i, col := range l.schema.Columns {
			if _, ok := index[col]; ok {
				next[i] = get(col)
			} else if l.schema.Upgrade != nil {
				next[i] = l.schema.Upgrade(col, get)
			}
		}
		out = append(out, next)
	}
	return out, nil
}

func (l *Log) write(rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(l.path), filepath.Base(l.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", l.path, err)
	}

	w := csv.NewWriter(tmp)
	if err := w.Write(l.schema.Columns); err != nil {
		return discard(tmp, fmt.Errorf("write header: %w", err))
	}
	if err := w.WriteAll(rows); err != nil {
		return discard(tmp, fmt.Errorf("write rows: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return discard(tmp, fmt.Errorf("sync %s: %w", tmp.Name(), err))
	}
	if err := tmp.Close(); err != nil {
		return multierr.Append(fmt.Errorf("close %s: %w", tmp.Name(), err), os.Remove(tmp.Name()))
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return multierr.Append(fmt.Errorf("replace %s: %w", l.path, err), os.Remove(tmp.Name()))
	}
	return nil
}

func discard(tmp *os.File, err error) error {
	return multierr.Combine(err, tmp.Close(), os.Remove(tmp.Name()))
}
