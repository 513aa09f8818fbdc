// Package templates holds the HTML components of the web dashboard.
package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/emissions/internal/core"
)

// DashboardData is everything the dashboard page shows.
type DashboardData struct {
	From, To    int
	Years       []int
	Countries   []string
	ExportCount int

	// Year is the selected year; 0 when none was asked for.
	Year    int
	Summary *core.YearSummary
	Error   *core.UserMessage
}

const pageStyle = `body{font-family:system-ui,sans-serif;max-width:60rem;margin:2rem auto;padding:0 1rem;color:#1f2937}
table{border-collapse:collapse}td,th{padding:.25rem .75rem;border-bottom:1px solid #e5e7eb;text-align:left}
.alert{background:#fef2f2;border:1px solid #fca5a5;padding:.75rem;margin:1rem 0}
.countries{columns:4;font-size:.9rem}`

// Dashboard renders the full page.
func Dashboard(d DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		b.WriteString("<title>Worlds CO2 Emission</title><style>" + pageStyle + "</style></head><body>")
		fmt.Fprintf(&b, "<h1>Worlds CO2 Emission</h1><p>Data available from %d to %d.</p>", d.From, d.To)

		b.WriteString(`<form method="get" action="/"><label for="year">Year</label> <select id="year" name="year">`)
		for _, y := range d.Years {
			selected := ""
			if y == d.Year {
				selected = " selected"
			}
			fmt.Fprintf(&b, `<option value="%d"%s>%d</option>`, y, selected, y)
		}
		b.WriteString(`</select> <button type="submit">Show statistics</button></form>`)

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		b.Reset()

		if d.Error != nil {
			if err := ErrorAlert(d.Error.Message, d.Error.Action, d.Error.Code).Render(ctx, w); err != nil {
				return err
			}
		}
		if d.Summary != nil {
			if err := SummaryTable(*d.Summary).Render(ctx, w); err != nil {
				return err
			}
		}

		fmt.Fprintf(&b, "<h2>Countries (%d)</h2><ul class=\"countries\">", len(d.Countries))
		for _, c := range d.Countries {
			q := url.QueryEscape(c)
			fmt.Fprintf(&b, `<li><a href="/api/chart?countries=%s">%s</a></li>`, templ.EscapeString(q), templ.EscapeString(c))
		}
		b.WriteString("</ul>")
		fmt.Fprintf(&b, "<p>Compare two countries with <code>/api/chart?countries=A,B</code>; "+
			"download a subset of exactly %d with <code>/api/export?countries=...</code>.</p>", d.ExportCount)
		b.WriteString("</body></html>")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// SummaryTable renders a year report.
func SummaryTable(s core.YearSummary) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, "<h2>%d</h2><table>", s.Year)
		row := func(label string, e core.Entry) {
			fmt.Fprintf(&b, "<tr><th>%s</th><td>%s</td><td>%s</td></tr>",
				label, templ.EscapeString(e.Key), strconv.FormatFloat(e.Value, 'f', 6, 64))
		}
		row("Minimum", s.Min)
		row("Maximum", s.Max)
		fmt.Fprintf(&b, "<tr><th>Average</th><td>%d countries</td><td>%s</td></tr></table>",
			s.Count, strconv.FormatFloat(s.Mean, 'f', 6, 64))

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		html := `<div class="alert" role="alert"><strong>` + templ.EscapeString(message) + `</strong>`
		if action != "" {
			html += ` <span>` + templ.EscapeString(action) + `</span>`
		}
		if code != "" {
			html += ` <small>(Code: ` + templ.EscapeString(code) + `)</small>`
		}
		html += `</div>`
		_, err := io.WriteString(w, html)
		return err
	})
}
