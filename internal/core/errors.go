package core

// errors.go defines the error taxonomy of the query engine.
//
// Callers test categories with errors.Is against the sentinels below. The
// typed errors carry the details (line, key, raw field, token) and match
// their category through an Is method, so both styles work:
//
//	if errors.Is(err, core.ErrYearNotFound) { ... }
//
//	var mt *core.MalformedTableError
//	if errors.As(err, &mt) { log.Warn("bad line", "line", mt.Line) }

import (
	"errors"
	"fmt"
)

var (
	ErrSourceNotFound         = errors.New("source not found")
	ErrReadFailure            = errors.New("read failure")
	ErrMalformedTable         = errors.New("malformed table")
	ErrYearNotFound           = errors.New("year not found")
	ErrYearNotNumeric         = errors.New("year is not numeric")
	ErrYearOutOfRange         = errors.New("year out of range")
	ErrEmptyInput             = errors.New("empty input")
	ErrSelectionCountMismatch = errors.New("selection count mismatch")
	ErrSelectionUnknownKey    = errors.New("selection unknown key")
	ErrWriteFailure           = errors.New("write failure")
)

// MalformedTableError reports a structural problem found while loading.
// Line is 1-based; it is 0 when the problem is not tied to a line.
type MalformedTableError struct {
	Line   int
	Key    string
	Reason string
}

func (e *MalformedTableError) Error() string {
	switch {
	case e.Line > 0 && e.Key != "":
		return fmt.Sprintf("malformed table: line %d (%s): %s", e.Line, e.Key, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("malformed table: line %d: %s", e.Line, e.Reason)
	default:
		return "malformed table: " + e.Reason
	}
}

func (e *MalformedTableError) Is(target error) bool { return target == ErrMalformedTable }

// ValueParseError reports a field that is not a decimal number.
type ValueParseError struct {
	Key string
	Raw string
	Err error
}

func (e *ValueParseError) Error() string {
	return fmt.Sprintf("malformed table: value %q for %s is not a number", e.Raw, e.Key)
}

func (e *ValueParseError) Is(target error) bool { return target == ErrMalformedTable }

func (e *ValueParseError) Unwrap() error { return e.Err }

// YearNotFoundError reports a year (or column index) absent from the year axis.
type YearNotFoundError struct {
	Year  int
	Index int
}

func (e *YearNotFoundError) Error() string {
	if e.Year == 0 {
		return fmt.Sprintf("year not found: column index %d is outside the year axis", e.Index)
	}
	return fmt.Sprintf("year not found: %d is not in the loaded data", e.Year)
}

func (e *YearNotFoundError) Is(target error) bool { return target == ErrYearNotFound }

// SelectionKind distinguishes the two ways a selection batch is rejected.
type SelectionKind int

const (
	CountMismatch SelectionKind = iota
	UnknownKey
)

// SelectionError rejects a whole selection batch.
type SelectionError struct {
	Kind  SelectionKind
	Want  int    // required number of tokens
	Got   int    // tokens supplied
	Token string // first offending token (UnknownKey only)
}

func (e *SelectionError) Error() string {
	if e.Kind == CountMismatch {
		return fmt.Sprintf("selection count mismatch: expected %d countries, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("selection unknown key: %q is not a known country", e.Token)
}

func (e *SelectionError) Is(target error) bool {
	switch e.Kind {
	case CountMismatch:
		return target == ErrSelectionCountMismatch
	case UnknownKey:
		return target == ErrSelectionUnknownKey
	}
	return false
}
