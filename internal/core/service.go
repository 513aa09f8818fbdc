package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// SubsetPublisher receives every exported subset in addition to the CSV
// artifact. It returns an identifier for the published copy.
type SubsetPublisher interface {
	Publish(ctx context.Context, subset Series) (string, error)
}

// Options configures a Service.
type Options struct {
	MinYear     int
	MaxYear     int
	ExportCount int
	// Publisher is optional; nil disables publishing.
	Publisher SubsetPublisher
}

// Service answers queries over one loaded Table. It is safe for concurrent use.
type Service struct {
	table     *Table
	universe  *Universe
	opts      Options
	publisher SubsetPublisher

	mu        sync.RWMutex
	summaries map[int]YearSummary
}

// ExportResult describes a completed export.
type ExportResult struct {
	Path      string   `json:"path,omitempty"`
	Countries []string `json:"countries"`
	// PublishID is empty when no publisher is configured or publishing failed.
	PublishID string `json:"publish_id,omitempty"`
}

// NewService creates a new Service over t.
func NewService(t *Table, opts Options) *Service {
	return &Service{
		table:     t,
		universe:  NewUniverse(t.Keys()),
		opts:      opts,
		publisher: opts.Publisher,
		summaries: make(map[int]YearSummary),
	}
}

// Table returns the loaded table.
func (s *Service) Table() *Table { return s.table }

// Universe returns the selectable countries.
func (s *Service) Universe() *Universe { return s.universe }

// YearRange returns the accepted inclusive year range.
func (s *Service) YearRange() (int, int) { return s.opts.MinYear, s.opts.MaxYear }

// ExportCount is the number of countries an export requires.
func (s *Service) ExportCount() int { return s.opts.ExportCount }

// Countries returns the canonical country keys in table order.
func (s *Service) Countries() []string { return s.universe.Keys() }

// Years returns the table's year axis.
func (s *Service) Years() []int { return s.table.Years }

// ParseYear validates free-text year input against the configured range.
func (s *Service) ParseYear(input string) (int, error) {
	return ParseYear(input, s.opts.MinYear, s.opts.MaxYear)
}

// Summary returns the min/max/mean report for year. Results are cached.
func (s *Service) Summary(year int) (YearSummary, error) {
	s.mu.RLock()
	cached, ok := s.summaries[year]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	summary, err := Summarize(s.table, year)
	if err != nil {
		return YearSummary{}, fmt.Errorf("summary %d: %w", year, err)
	}

	s.mu.Lock()
	s.summaries[year] = summary
	s.mu.Unlock()
	return summary, nil
}

// Resolve validates a comma-separated selection of exactly count countries.
func (s *Service) Resolve(input string, count int) ([]string, error) {
	return ValidateSelection(input, s.universe, count)
}

// Series returns the full history of the given canonical keys.
func (s *Service) Series(keys ...string) (Series, error) {
	return BuildSeries(s.table, keys...)
}

// Export writes the subset for keys to path and publishes it when a
// publisher is configured. Only the file write can fail the export.
func (s *Service) Export(ctx context.Context, path string, keys []string) (ExportResult, error) {
	if err := ExportSubsetFile(path, s.table, keys); err != nil {
		return ExportResult{}, err
	}
	res := ExportResult{Path: path, Countries: keys}
	res.PublishID = s.publish(ctx, keys)
	return res, nil
}

// WriteExport streams the subset for keys to w and publishes it when a
// publisher is configured.
func (s *Service) WriteExport(ctx context.Context, w io.Writer, keys []string) (ExportResult, error) {
	if err := WriteSubset(w, s.table, keys); err != nil {
		return ExportResult{}, err
	}
	res := ExportResult{Countries: keys}
	res.PublishID = s.publish(ctx, keys)
	return res, nil
}

func (s *Service) publish(ctx context.Context, keys []string) string {
	if s.publisher == nil {
		return ""
	}

	subset, err := BuildSeries(s.table, keys...)
	if err != nil {
		slog.Warn("export not published", "countries", keys, "error", err)
		return ""
	}

	id, err := s.publisher.Publish(ctx, subset)
	if err != nil {
		slog.Warn("export not published", "countries", keys, "error", err)
		return ""
	}
	slog.Info("export published", "export_id", id, "countries", keys)
	return id
}
