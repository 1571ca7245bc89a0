package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	apperrors "tabprep/internal/errors"
)

// EncodeCSV writes t to w as comma-separated values: a header row of the
// current column names, then one row per table row, no index column.
func EncodeCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("cw.Write header: %w", err)
	}
	for i := 0; i < t.Len(); i++ {
		if err := cw.Write(t.Row(i)); err != nil {
			return fmt.Errorf("cw.Write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes t to path. The data goes to a temporary file in the same
// directory which is renamed over path only once it is complete, so a failed
// run never leaves a truncated output behind.
func WriteCSV(t *Table, path string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.NewIOError(fmt.Sprintf("cannot create output in %s", dir), err).
			WithContext("path", path)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err = EncodeCSV(tmp, t); err != nil {
		return apperrors.NewIOError("failed to write output", err).WithContext("path", path)
	}
	if err = tmp.Sync(); err != nil {
		return apperrors.NewIOError("failed to sync output", err).WithContext("path", path)
	}
	if err = tmp.Chmod(0644); err != nil {
		return apperrors.NewIOError("failed to set output permissions", err).WithContext("path", path)
	}
	if err = tmp.Close(); err != nil {
		return apperrors.NewIOError("failed to close output", err).WithContext("path", path)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return apperrors.NewIOError(fmt.Sprintf("cannot replace %s", path), err).WithContext("path", path)
	}
	return nil
}
