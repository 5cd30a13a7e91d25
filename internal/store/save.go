package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Iron-Ham/shortcuts/internal/errors"
)

// CountLines counts lines the way a text editor does: a final line without a
// trailing newline still counts.
func CountLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte("\n"))
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}

// FileLineCount returns the line count of path, or 0 if it does not exist.
func FileLineCount(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	return CountLines(data), nil
}

// SaveSafely writes s to path unless that would leave the file with fewer
// lines than it has now, which almost always means entries were lost.
// It returns the change in line count.
func SaveSafely(path string, s *Store) (int, error) {
	data, err := Marshal(s)
	if err != nil {
		return 0, errors.NewStoreError("cannot encode store", err).WithPath(path)
	}
	return WriteSafely(path, data)
}

// WriteSafely applies the same shrink check as SaveSafely to raw content.
func WriteSafely(path string, data []byte) (int, error) {
	before, err := FileLineCount(path)
	if err != nil {
		return 0, errors.NewStoreError("cannot read current store", err).WithPath(path)
	}
	after := CountLines(data)
	if after < before {
		return 0, errors.NewStoreError(
			fmt.Sprintf("refusing to write %d lines over %d", after, before),
			errors.ErrShrinkingUpdate,
		).WithPath(path)
	}

	if err := WriteAtomic(path, data); err != nil {
		return 0, err
	}
	return after - before, nil
}

// WriteAtomic writes data to a temp file in the same directory and renames
// it over path.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewStoreError("cannot create store directory", err).WithPath(path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.NewStoreError("cannot create temp file", err).WithPath(path)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.NewStoreError("cannot write temp file", err).WithPath(path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.NewStoreError("cannot close temp file", err).WithPath(path)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return errors.NewStoreError("cannot set store permissions", err).WithPath(path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.NewStoreError("cannot replace store", err).WithPath(path)
	}
	return nil
}
