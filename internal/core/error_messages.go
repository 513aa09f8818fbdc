package core

// # Error Codes Reference
//
// This file maps engine errors to user-friendly messages with codes for
// support reference. The HTTP surface returns them as JSON and the
// interactive session prints them when a run has to stop.
//
// Error codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Data file not found
//	          Action: Check DATA_FILE points at the emissions CSV
//	          Match: ErrSourceNotFound, "no such file"
//
//	FILE002 - Data file could not be read
//	          Action: Check file permissions and that it is plain CSV
//	          Match: ErrReadFailure
//
//	FILE003 - Data file is malformed
//	          Action: Every row must have one value per year in the header
//	          Match: ErrMalformedTable
//
// # Query Errors (QRY001-QRY099)
//
//	QRY001 - Year not in the data
//	QRY002 - Year is not a number
//	QRY003 - Year outside the supported range
//	QRY004 - Nothing to aggregate
//
// # Selection Errors (SEL001-SEL099)
//
//	SEL001 - Wrong number of countries
//	SEL002 - Unknown country
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Export file could not be written
//	EXP002 - Export could not be published to the database
//
// # Throttling (RATE001-RATE099)
//
//	RATE001 - Too many requests
//	RATE002 - Too many charts rendering
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the logs for the technical error.
//
// # Matching
//
// Sentinels are checked first with errors.Is, in table order. Errors from
// outside the engine (database driver, context) fall through to the pattern
// table, matched case-insensitively with strings.Contains; the first match
// wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	target error
	msg    UserMessage
}

var sentinelMessages = []sentinelMessage{
	{ErrSourceNotFound, UserMessage{
		Message: "The data file was not found",
		Action:  "Check that DATA_FILE points at the emissions CSV",
		Code:    "FILE001",
	}},
	{ErrReadFailure, UserMessage{
		Message: "The data file could not be read",
		Action:  "Check file permissions and that the file is plain CSV",
		Code:    "FILE002",
	}},
	{ErrMalformedTable, UserMessage{
		Message: "The data file is malformed",
		Action:  "Every row must have one numeric value per year in the header",
		Code:    "FILE003",
	}},
	{ErrYearNotFound, UserMessage{
		Message: "That year is not in the data",
		Action:  "Pick a year listed in the data file header",
		Code:    "QRY001",
	}},
	{ErrYearNotNumeric, UserMessage{
		Message: "Please, insert only numbers",
		Action:  "Enter the year as digits, for example 1998",
		Code:    "QRY002",
	}},
	{ErrYearOutOfRange, UserMessage{
		Message: "The year is outside the supported range",
		Action:  "Enter a year within the range shown",
		Code:    "QRY003",
	}},
	{ErrEmptyInput, UserMessage{
		Message: "There are no values to aggregate",
		Action:  "Check that the data file has at least one country row",
		Code:    "QRY004",
	}},
	{ErrSelectionCountMismatch, UserMessage{
		Message: "Wrong number of countries",
		Action:  "Enter exactly the requested number of countries, separated by commas",
		Code:    "SEL001",
	}},
	{ErrSelectionUnknownKey, UserMessage{
		Message: "Country not found",
		Action:  "Please use a country from our list",
		Code:    "SEL002",
	}},
	{ErrWriteFailure, UserMessage{
		Message: "Could not save the file",
		Action:  "Check that the export directory exists and is writable",
		Code:    "EXP001",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// More specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern: "no such file",
		msg:     sentinelMessages[0].msg,
	},
	{
		pattern: "publish subset",
		msg: UserMessage{
			Message: "The export could not be published to the database",
			Action:  "The CSV file was still written; check DATABASE_URL",
			Code:    "EXP002",
		},
	},
	{
		pattern: "too many concurrent renders",
		msg: UserMessage{
			Message: "Too many charts are being rendered",
			Action:  "Please wait a moment and try again",
			Code:    "RATE002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
//	msg := MapError(fmt.Errorf("summary: %w", ErrYearNotFound))
//	// msg.Code == "QRY001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
