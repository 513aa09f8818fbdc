package core

import (
	"strconv"
	"strings"
)

// ExtractColumn projects every data row onto the year at index, in table key
// order. The header row is never part of the result.
func ExtractColumn(t *Table, index int) (Column, error) {
	if index < 0 || index >= t.Width() {
		return Column{}, &YearNotFoundError{Index: index}
	}

	col := Column{
		Keys:   make([]string, 0, t.Len()),
		Values: make([]float64, 0, t.Len()),
	}
	for _, key := range t.keys {
		v, err := parseValue(key, t.rows[key][index])
		if err != nil {
			return Column{}, err
		}
		col.Keys = append(col.Keys, key)
		col.Values = append(col.Values, v)
	}
	return col, nil
}

func parseValue(key, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &ValueParseError{Key: key, Raw: raw, Err: err}
	}
	return v, nil
}
