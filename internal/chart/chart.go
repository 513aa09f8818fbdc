// Package chart draws emission series as PNG line charts.
package chart

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/JonMunkholm/emissions/internal/core"
)

// Title is the heading of every emissions chart.
const Title = "Year vs Emission in Capita"

var palette = []drawing.Color{
	gochart.ColorBlue,
	gochart.ColorGreen,
	gochart.ColorRed,
	gochart.ColorAlternateGray,
}

// Renderer draws charts of a fixed size. Rendering is bounded by a Limiter.
type Renderer struct {
	dir     string
	width   int
	height  int
	limiter *Limiter
}

// NewRenderer creates a Renderer that writes files under dir.
func NewRenderer(dir string, width, height int, limiter *Limiter) *Renderer {
	if limiter == nil {
		limiter = NewLimiter(DefaultMaxConcurrent, DefaultMaxWait)
	}
	return &Renderer{dir: dir, width: width, height: height, limiter: limiter}
}

// Limiter returns the render limiter.
func (r *Renderer) Limiter() *Limiter { return r.limiter }

// Render writes s as a PNG to w.
func (r *Renderer) Render(ctx context.Context, w io.Writer, s core.Series) error {
	if err := r.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer r.limiter.Release()

	return Render(w, s, r.width, r.height)
}

// RenderFile writes s to <dir>/<labels>.png and returns the path.
func (r *Renderer) RenderFile(ctx context.Context, s core.Series) (path string, err error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("chart dir: %w: %w", core.ErrWriteFailure, err)
	}
	path = filepath.Join(r.dir, FileName(s))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("chart file: %w: %w", core.ErrWriteFailure, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("chart file: %w: %w", core.ErrWriteFailure, cerr)
		}
	}()

	if err := r.Render(ctx, f, s); err != nil {
		return "", err
	}
	return path, nil
}

// Render draws s into w as a PNG of the given size.
func Render(w io.Writer, s core.Series, width, height int) error {
	ch, err := Build(s, width, height)
	if err != nil {
		return err
	}
	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// Build lays out the chart for s without rasterizing it.
func Build(s core.Series, width, height int) (gochart.Chart, error) {
	if len(s.Lines) == 0 || len(s.Years) == 0 {
		return gochart.Chart{}, fmt.Errorf("chart: %w", core.ErrEmptyInput)
	}

	xs := make([]float64, len(s.Years))
	ticks := make([]gochart.Tick, len(s.Years))
	for i, y := range s.Years {
		xs[i] = float64(y)
		ticks[i] = gochart.Tick{Value: float64(y), Label: strconv.Itoa(y)}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	series := make([]gochart.Series, 0, len(s.Lines))
	for i, line := range s.Lines {
		if len(line.Values) != len(xs) {
			return gochart.Chart{}, fmt.Errorf("chart %s: %d values for %d years: %w",
				line.Label, len(line.Values), len(xs), core.ErrMalformedTable)
		}
		for _, v := range line.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		lineXs, lineYs := xs, line.Values
		if len(lineXs) == 1 {
			// go-chart needs two points to draw a line.
			lineXs = []float64{xs[0], xs[0] + 1}
			lineYs = []float64{line.Values[0], line.Values[0]}
		}
		color := palette[i%len(palette)]
		series = append(series, gochart.ContinuousSeries{
			Name:    line.Label,
			XValues: lineXs,
			YValues: lineYs,
			Style: gochart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    3,
			},
		})
	}

	// go-chart refuses zero-width ranges: pad a single year or a flat line.
	xMin, xMax := xs[0], xs[len(xs)-1]
	if xMax <= xMin {
		xMax = xMin + 1
	}
	if hi <= lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.05

	ch := gochart.Chart{
		Title:      Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:  "Year",
			Ticks: ticks,
			Range: &gochart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: gochart.YAxis{
			Name:  YAxisName(s.Labels()),
			Range: &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad},
		},
		Series: series,
	}
	if len(series) > 1 {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}
	return ch, nil
}

// YAxisName labels the value axis: "Emissions in A" or "Emissions in A and B".
func YAxisName(labels []string) string {
	switch len(labels) {
	case 0:
		return "Emissions"
	case 1:
		return "Emissions in " + labels[0]
	default:
		return "Emissions in " + strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
	}
}

// FileName derives a stable file name from the series labels,
// e.g. "brazil_united-states.png".
func FileName(s core.Series) string {
	parts := make([]string, 0, len(s.Lines))
	for _, label := range s.Labels() {
		slug := strings.Map(func(r rune) rune {
			switch {
			case unicode.IsLetter(r) || unicode.IsDigit(r):
				return unicode.ToLower(r)
			default:
				return '-'
			}
		}, strings.TrimSpace(label))
		parts = append(parts, strings.Trim(slug, "-"))
	}
	if len(parts) == 0 {
		return "chart.png"
	}
	return strings.Join(parts, "_") + ".png"
}
