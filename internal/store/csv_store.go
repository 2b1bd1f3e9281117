// Package store persists backlog entries to a headerless CSV file,
// newest row first.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Store writes rows to a backlog CSV file.
type Store struct {
	out io.Writer

	// replace swaps the assembled temp file over the target file.
	replace func(oldpath, newpath string) error
}

func NewStore(out io.Writer) *Store {
	return &Store{
		out:     out,
		replace: os.Rename,
	}
}

// PrependRow writes row as the first record of the file at path, followed by
// every record the file held before the call, byte-for-byte. The new content
// is assembled in a temp file in the same directory and renamed over the
// target, so a concurrent reader sees either the old content or the new
// content, never a partial file. A missing target is treated as empty.
//
// A permission failure on the rename means the target is locked by another
// process: the original file stays untouched and a warning is printed
// instead of returning an error.
func (store *Store) PrependRow(path string, row []string) error {
	tempFile, err := os.CreateTemp(filepath.Dir(path), ".bckl_tmp_*.csv")
	if err != nil {
		return fmt.Errorf("os.CreateTemp() > %w", err)
	}
	tempPath := tempFile.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tempPath)
		}
	}()

	if err := writeRowAndCopy(tempFile, path, row); err != nil {
		_ = tempFile.Close()
		return err
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("tempFile.Close() > %w", err)
	}

	if err := store.replace(tempPath, path); err != nil {
		if errors.Is(err, os.ErrPermission) {
			fmt.Fprintf(store.out, "WARNING: could not write CSV due to permission error: %v\n", err)
			slog.Default().Warn("backlog file is locked, keeping the previous content",
				slog.String("path", path),
				slog.Any("error", err),
			)
			return nil
		}
		return fmt.Errorf("replace() > %w", err)
	}
	renamed = true
	return nil
}

// writeRowAndCopy writes row as a minimally quoted CSV record to tempFile,
// then streams the current content of path after it.
func writeRowAndCopy(tempFile *os.File, path string, row []string) error {
	writer := csv.NewWriter(tempFile)
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("writer.Write() > %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("writer.Flush() > %w", err)
	}

	original, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("os.Open() > %w", err)
	}
	defer original.Close()

	if _, err := io.Copy(tempFile, original); err != nil {
		return fmt.Errorf("io.Copy() > %w", err)
	}
	return nil
}
