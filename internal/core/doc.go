// Package core is the query engine for the per-capita CO2 emissions table.
//
// It has no knowledge of consoles, HTTP or databases: the interactive
// session, the web handlers and the tests all drive it through the same
// functions and through [Service].
//
// # Flow
//
//  1. [Load] reads the CSV into a [Table]. The header row becomes Table.Years;
//     every other row is a country with one raw value per year.
//  2. [ResolveYearIndex] maps a year to its column.
//  3. [ExtractColumn] projects that column into a [Column] whose Keys and
//     Values are aligned by position.
//  4. [MinEntry], [MaxEntry] and [Mean] reduce the column; [Summarize] does
//     steps 2-4 in one call.
//
// Free-text country input is checked with [ValidateSelection] against a
// [Universe]. Matching is case-insensitive after trimming, and the result is
// always the key as spelled in the file.
//
// # Error Handling
//
// Every failure matches one of the sentinels in errors.go through errors.Is.
// [MapError] turns them into a [UserMessage] with a support code:
//
//   - FILE001-FILE003: reading the data file
//   - QRY001-QRY004: year queries
//   - SEL001-SEL002: country selections
//   - EXP001-EXP002: exports
package core
