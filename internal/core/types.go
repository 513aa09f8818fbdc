package core

import (
	"fmt"
	"slices"
)

// Table is the in-memory form of the emissions file: one header row carrying
// the year axis and one row of raw field strings per key (country), in file
// order. It is not modified after Parse returns.
type Table struct {
	// HeaderKey is the label in the first field of the header row.
	HeaderKey string
	// Years is the parsed year axis in file order.
	Years []int

	header []string
	keys   []string
	rows   map[string][]string
}

// Keys returns the row keys in file order. The header key is not included.
func (t *Table) Keys() []string { return slices.Clone(t.keys) }

// Header returns the raw year strings of the header row.
func (t *Table) Header() []string { return slices.Clone(t.header) }

// Row returns the raw fields of key and whether the key exists.
func (t *Table) Row(key string) ([]string, bool) {
	row, ok := t.rows[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(row), true
}

// Has reports whether key is a data row.
func (t *Table) Has(key string) bool {
	_, ok := t.rows[key]
	return ok
}

// Width is the number of year columns.
func (t *Table) Width() int { return len(t.Years) }

// Len is the number of data rows.
func (t *Table) Len() int { return len(t.keys) }

// Column is one year's values projected out of a Table.
// Keys[i] owns Values[i].
type Column struct {
	Keys   []string
	Values []float64
}

// Entry is a value together with the key it came from.
type Entry struct {
	Key   string  `json:"country"`
	Value float64 `json:"value"`
}

// YearSummary is the result of a year query.
type YearSummary struct {
	Year  int     `json:"year"`
	Min   Entry   `json:"min"`
	Max   Entry   `json:"max"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// String renders the two report lines printed by the interactive session.
func (s YearSummary) String() string {
	return fmt.Sprintf(
		"In %d, countries with minimum and maximum CO2 levels were: %s(%.6f) and %s(%.6f)\n"+
			"Average CO2 emissions in %d were %.6f",
		s.Year, s.Min.Key, s.Min.Value, s.Max.Key, s.Max.Value,
		s.Year, s.Mean,
	)
}

// Line is one labelled value sequence aligned to a Series year axis.
type Line struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Series is what the chart renderer draws: lines sharing one year axis.
type Series struct {
	Years []int  `json:"years"`
	Lines []Line `json:"lines"`
}

// Labels returns the line labels in order.
func (s Series) Labels() []string {
	labels := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		labels[i] = l.Label
	}
	return labels
}
