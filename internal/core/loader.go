package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Load reads the emissions table at path. headerKey is the expected label of
// the first field of the header row; an empty headerKey accepts any label.
func Load(path, headerKey string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, ErrSourceNotFound)
		}
		return nil, fmt.Errorf("load %s: %w: %w", path, ErrReadFailure, err)
	}
	defer f.Close()

	src := NewSourceReader(f)
	t, err := Parse(src, headerKey)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	slog.Debug("table loaded",
		"path", path,
		"rows", t.Len(),
		"years", t.Width(),
		"bytes", src.BytesRead,
	)
	return t, nil
}

// Parse builds a Table from comma-separated text. The first record is the
// header: headerKey followed by the years. Every later record is a key
// followed by exactly one value per year. Blank lines are skipped.
func Parse(r io.Reader, headerKey string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	t := &Table{rows: make(map[string][]string)}
	seenYears := make(map[int]bool)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadFailure, err)
		}
		line, _ := cr.FieldPos(0)
		key := strings.TrimSpace(record[0])

		if t.header == nil {
			if headerKey != "" && key != headerKey {
				return nil, &MalformedTableError{
					Line:   line,
					Reason: fmt.Sprintf("missing header row: expected first field %q, got %q", headerKey, key),
				}
			}
			t.HeaderKey = key
			t.header = record[1:]
			t.Years = make([]int, len(t.header))
			for i, raw := range t.header {
				year, err := strconv.Atoi(strings.TrimSpace(raw))
				if err != nil {
					return nil, &MalformedTableError{Line: line, Reason: fmt.Sprintf("header year %q is not an integer", raw)}
				}
				if seenYears[year] {
					return nil, &MalformedTableError{Line: line, Reason: fmt.Sprintf("duplicate header year %d", year)}
				}
				seenYears[year] = true
				t.Years[i] = year
			}
			continue
		}

		values := record[1:]
		if len(values) != len(t.Years) {
			return nil, &MalformedTableError{
				Line:   line,
				Key:    key,
				Reason: fmt.Sprintf("expected %d values, got %d", len(t.Years), len(values)),
			}
		}
		if _, dup := t.rows[key]; dup || key == t.HeaderKey {
			return nil, &MalformedTableError{Line: line, Key: key, Reason: "duplicate key"}
		}

		t.keys = append(t.keys, key)
		t.rows[key] = values
	}

	if t.header == nil {
		return nil, &MalformedTableError{Reason: "missing header row"}
	}
	if len(t.keys) == 0 {
		return nil, &MalformedTableError{Reason: "no data rows"}
	}
	return t, nil
}
