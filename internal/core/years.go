package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ResolveYearIndex returns the position of year on the table's year axis.
// The first match wins; Parse rejects duplicate years so it is also the only one.
func ResolveYearIndex(t *Table, year int) (int, error) {
	for i, y := range t.Years {
		if y == year {
			return i, nil
		}
	}
	return -1, &YearNotFoundError{Year: year}
}

// ParseYear validates free-text year input against the inclusive range [from, to].
func ParseYear(input string, from, to int) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, ErrYearNotNumeric
	}
	if year < from || year > to {
		return 0, fmt.Errorf("%w: %d is not between %d and %d", ErrYearOutOfRange, year, from, to)
	}
	return year, nil
}

// CollectYear asks for a year until the answer parses and is in range.
// Only errors from the Prompter itself are returned.
func CollectYear(p Prompter, from, to int) (int, error) {
	message := fmt.Sprintf("Inform a year to find statistics (%d to %d): ", from, to)
	for {
		answer, err := p.Ask(message)
		if err != nil {
			return 0, err
		}

		year, err := ParseYear(answer, from, to)
		switch {
		case err == nil:
			return year, nil
		case errors.Is(err, ErrYearNotNumeric):
			p.Tell("Please, insert only numbers")
		default:
			p.Tell(fmt.Sprintf("Please, insert an year between %d and %d.", from, to))
		}
	}
}
