// Package session runs the interactive query: a year report, two charts and
// a subset export, in that order.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/JonMunkholm/emissions/internal/core"
	"github.com/JonMunkholm/emissions/internal/logging"
)

const (
	promptOne = "Select a country to visualize the plot: "
	promptTwo = "Write two comma-separated countries for which you want to visualize the data: "
)

// ChartWriter renders a series to a file and returns its path.
type ChartWriter interface {
	RenderFile(ctx context.Context, s core.Series) (string, error)
}

// Session wires a Prompter to a Service for one run.
type Session struct {
	svc        *core.Service
	prompter   core.Prompter
	charts     ChartWriter
	exportPath string
	log        *slog.Logger
}

// New creates a Session. exportPath is where the subset CSV is written.
func New(svc *core.Service, p core.Prompter, charts ChartWriter, exportPath string) *Session {
	return &Session{
		svc:        svc,
		prompter:   p,
		charts:     charts,
		exportPath: exportPath,
		log:        logging.WithComponent("session"),
	}
}

// Run executes the whole interactive flow. It returns an error when input
// ends early, ctx is cancelled or the year query fails; chart and export
// failures are reported to the user and the run continues.
func (s *Session) Run(ctx context.Context) error {
	from, to := s.svc.YearRange()
	s.prompter.Tell(strings.Repeat("#", 30))
	s.prompter.Tell(fmt.Sprintf("Worlds CO2 Emission - Data available from %d to %d", from, to))

	year, err := core.CollectYear(s.prompter, from, to)
	if err != nil {
		return fmt.Errorf("read year: %w", err)
	}
	summary, err := s.svc.Summary(year)
	if err != nil {
		return err
	}
	s.prompter.Tell(summary.String())

	universe := s.svc.Universe()
	steps := []struct {
		count  int
		prompt string
	}{
		{1, promptOne},
		{2, promptTwo},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		keys, err := core.CollectSelection(s.prompter, universe, step.count, step.prompt)
		if err != nil {
			return fmt.Errorf("read countries: %w", err)
		}
		s.plot(ctx, keys)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	count := s.svc.ExportCount()
	keys, err := core.CollectSelection(s.prompter, universe, count, exportPrompt(count))
	if err != nil {
		return fmt.Errorf("read countries: %w", err)
	}
	s.export(ctx, keys)
	return nil
}

func (s *Session) plot(ctx context.Context, keys []string) {
	series, err := s.svc.Series(keys...)
	if err == nil {
		var path string
		path, err = s.charts.RenderFile(ctx, series)
		if err == nil {
			s.log.Debug("chart written", "path", path, "countries", keys)
			s.prompter.Tell("Chart saved to " + path)
			return
		}
	}
	s.log.Warn("chart failed", "countries", keys, "error", err)
	s.prompter.Tell("Error: Could not render the chart. " + core.FormatUserError(err))
}

func (s *Session) export(ctx context.Context, keys []string) {
	res, err := s.svc.Export(ctx, s.exportPath, keys)
	if err != nil {
		s.log.Warn("export failed", "path", s.exportPath, "error", err)
		s.prompter.Tell("Error: Could not save the file.")
		return
	}
	s.prompter.Tell("Data exported to " + res.Path)
}

var numberWords = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}

func exportPrompt(count int) string {
	word := strconv.Itoa(count)
	if count >= 0 && count < len(numberWords) {
		word = numberWords[count]
	}
	return fmt.Sprintf("Write up %s comma-separated countries for which you want to extract the data: ", word)
}
