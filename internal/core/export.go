package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// WriteSubset writes the header row followed by the full history of each
// key, as the raw strings read from the source file.
func WriteSubset(w io.Writer, t *Table, keys []string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(append([]string{t.HeaderKey}, t.header...)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	for _, key := range keys {
		row, ok := t.rows[key]
		if !ok {
			return &SelectionError{Kind: UnknownKey, Want: len(keys), Got: len(keys), Token: key}
		}
		if err := cw.Write(append([]string{key}, row...)); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteFailure, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	return nil
}

// ExportSubsetFile writes the subset for keys to path, replacing any existing file.
func ExportSubsetFile(path string, t *Table, keys []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export %s: %w: %w", path, ErrWriteFailure, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export %s: %w: %w", path, ErrWriteFailure, cerr)
		}
	}()

	if err := WriteSubset(f, t, keys); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
