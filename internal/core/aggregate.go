package core

import "fmt"

// MinEntry returns the smallest value and the key at the same position.
// On ties the earliest position wins.
func MinEntry(values []float64, keys []string) (Entry, error) {
	return pick(values, keys, func(candidate, best float64) bool { return candidate < best })
}

// MaxEntry returns the largest value and the key at the same position.
// On ties the earliest position wins.
func MaxEntry(values []float64, keys []string) (Entry, error) {
	return pick(values, keys, func(candidate, best float64) bool { return candidate > best })
}

func pick(values []float64, keys []string, better func(candidate, best float64) bool) (Entry, error) {
	if len(values) != len(keys) {
		return Entry{}, &MalformedTableError{
			Reason: fmt.Sprintf("%d values are not aligned with %d keys", len(values), len(keys)),
		}
	}
	if len(values) == 0 {
		return Entry{}, ErrEmptyInput
	}

	best := 0
	for i := 1; i < len(values); i++ {
		if better(values[i], values[best]) {
			best = i
		}
	}
	return Entry{Key: keys[best], Value: values[best]}, nil
}

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// Summarize answers a year query: the minimum, maximum and mean over every
// country for that year.
func Summarize(t *Table, year int) (YearSummary, error) {
	index, err := ResolveYearIndex(t, year)
	if err != nil {
		return YearSummary{}, err
	}
	col, err := ExtractColumn(t, index)
	if err != nil {
		return YearSummary{}, err
	}

	lo, err := MinEntry(col.Values, col.Keys)
	if err != nil {
		return YearSummary{}, err
	}
	hi, err := MaxEntry(col.Values, col.Keys)
	if err != nil {
		return YearSummary{}, err
	}
	mean, err := Mean(col.Values)
	if err != nil {
		return YearSummary{}, err
	}

	return YearSummary{Year: year, Min: lo, Max: hi, Mean: mean, Count: len(col.Values)}, nil
}
