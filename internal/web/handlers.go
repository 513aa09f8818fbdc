package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/emissions/internal/core"
	"github.com/JonMunkholm/emissions/internal/logging"
	"github.com/JonMunkholm/emissions/internal/web/templates"
)

// maxSeries is how many countries one chart or series request may compare.
const maxSeries = 2

// handleDashboard renders the main page. A ?year= query adds its report.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	from, to := s.service.YearRange()
	data := templates.DashboardData{
		From:        from,
		To:          to,
		Years:       s.service.Years(),
		Countries:   s.service.Countries(),
		ExportCount: s.service.ExportCount(),
	}

	status := http.StatusOK
	if raw := r.URL.Query().Get("year"); raw != "" {
		summary, err := s.yearSummary(raw)
		if err != nil {
			status = statusFor(err)
			msg := core.MapError(err)
			data.Error = &msg
			logging.FromContext(r.Context()).Warn("dashboard query failed", "year", raw, "error", err)
		} else {
			data.Year = summary.Year
			data.Summary = &summary
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Dashboard(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render dashboard", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status":    "ok",
		"countries": s.service.Table().Len(),
		"charts":    s.charts.Limiter().Status(),
	})
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.service.Countries())
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	from, to := s.service.YearRange()
	writeJSON(w, r, map[string]any{
		"from":      from,
		"to":        to,
		"available": s.service.Years(),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.yearSummary(chi.URLParam(r, "year"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, summary)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.seriesFor(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, series)
}

// handleChart renders into a buffer first so a failed render still gets a
// proper error status.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	series, err := s.seriesFor(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := s.charts.Render(r.Context(), &buf, series); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(buf.Bytes())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	keys, err := s.service.Resolve(r.URL.Query().Get("countries"), s.service.ExportCount())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	var buf bytes.Buffer
	res, err := s.service.WriteExport(r.Context(), &buf, keys)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="Emissions_subset.csv"`)
	if res.PublishID != "" {
		w.Header().Set("X-Export-ID", res.PublishID)
	}
	w.Write(buf.Bytes())

	logging.WithFields(r.Context(), "countries", keys, "publish_id", res.PublishID).Info("subset exported")
}

func (s *Server) yearSummary(raw string) (core.YearSummary, error) {
	year, err := s.service.ParseYear(raw)
	if err != nil {
		return core.YearSummary{}, err
	}
	return s.service.Summary(year)
}

// seriesFor resolves ?countries= into a series of one or two countries.
func (s *Server) seriesFor(r *http.Request) (core.Series, error) {
	raw := r.URL.Query().Get("countries")
	if strings.TrimSpace(raw) == "" {
		return core.Series{}, &core.SelectionError{Kind: core.CountMismatch, Want: 1, Got: 0}
	}

	n := strings.Count(raw, ",") + 1
	if n > maxSeries {
		return core.Series{}, &core.SelectionError{Kind: core.CountMismatch, Want: maxSeries, Got: n}
	}

	keys, err := s.service.Resolve(raw, n)
	if err != nil {
		return core.Series{}, err
	}
	series, err := s.service.Series(keys...)
	if err != nil {
		return core.Series{}, fmt.Errorf("series %s: %w", strings.Join(keys, ","), err)
	}
	return series, nil
}
