package core

import (
	"fmt"
	"slices"
)

// BuildSeries collects the full history of each key into lines sharing the
// table's year axis. Keys must be canonical (as returned by a Universe).
func BuildSeries(t *Table, keys ...string) (Series, error) {
	s := Series{
		Years: slices.Clone(t.Years),
		Lines: make([]Line, 0, len(keys)),
	}
	for _, key := range keys {
		row, ok := t.rows[key]
		if !ok {
			return Series{}, &SelectionError{Kind: UnknownKey, Want: len(keys), Got: len(keys), Token: key}
		}
		values := make([]float64, len(row))
		for i, raw := range row {
			v, err := parseValue(key, raw)
			if err != nil {
				return Series{}, fmt.Errorf("series %s: %w", key, err)
			}
			values[i] = v
		}
		s.Lines = append(s.Lines, Line{Label: key, Values: values})
	}
	return s, nil
}
