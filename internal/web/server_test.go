package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/emissions/internal/chart"
	"github.com/JonMunkholm/emissions/internal/config"
	"github.com/JonMunkholm/emissions/internal/core"
)

const table = "CO2 per capita,1997,1998,1999\n" +
	"Brazil,1.0,2.0,3.0\n" +
	"Chile,0.25,0.50,0.75\n" +
	"China,5.0,4.0,3.5\n" +
	"Denmark,10.1,9.9,9.8\n"

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.RequestTimeout = 5 * time.Second
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	tbl, err := core.Parse(strings.NewReader(table), "CO2 per capita")
	require.NoError(t, err)

	svc := core.NewService(tbl, core.Options{MinYear: 1997, MaxYear: 2010, ExportCount: 3})
	renderer := chart.NewRenderer(t.TempDir(), 320, 200, chart.NewLimiter(1, time.Second))
	s := NewServer(svc, renderer, cfg)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestSummary(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := get(t, s, "/api/summary/1998")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	var got core.YearSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, core.Entry{Key: "Chile", Value: 0.5}, got.Min)
	assert.Equal(t, core.Entry{Key: "Denmark", Value: 9.9}, got.Max)
	assert.InDelta(t, 4.1, got.Mean, 1e-9)
	assert.Equal(t, 4, got.Count)
}

func TestSummary_Errors(t *testing.T) {
	tests := []struct {
		year   string
		status int
		code   string
	}{
		{"abc", http.StatusBadRequest, "QRY002"},
		{"1990", http.StatusBadRequest, "QRY003"},
		{"2005", http.StatusNotFound, "QRY001"},
	}

	s := newTestServer(t, testConfig())
	for _, tt := range tests {
		t.Run(tt.year, func(t *testing.T) {
			rec := get(t, s, "/api/summary/"+tt.year)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestSeries(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := get(t, s, "/api/series?countries=china,%20BRAZIL")
	require.Equal(t, http.StatusOK, rec.Code)

	var got core.Series
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, []int{1997, 1998, 1999}, got.Years)
	assert.Equal(t, []string{"China", "Brazil"}, got.Labels())
	assert.Equal(t, []float64{5.0, 4.0, 3.5}, got.Lines[0].Values)
}

func TestSeries_Selection(t *testing.T) {
	tests := []struct {
		name  string
		query string
		code  string
	}{
		{"missing", "", "SEL001"},
		{"too many", "?countries=Brazil,Chile,China", "SEL001"},
		{"unknown", "?countries=Brazil,Atlantis", "SEL002"},
	}

	s := newTestServer(t, testConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/series"+tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestChart(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := get(t, s, "/api/chart?countries=Brazil,Chile")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
}

func TestChart_Busy(t *testing.T) {
	s := newTestServer(t, testConfig())
	limiter := s.charts.Limiter()
	require.True(t, limiter.TryAcquire())
	defer limiter.Release()

	rec := get(t, s, "/api/chart?countries=Brazil")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "RATE002", decodeError(t, rec).Code)
}

func TestExport(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := get(t, s, "/api/export?countries=denmark,Brazil,chile")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Emissions_subset.csv")
	assert.Empty(t, rec.Header().Get("X-Export-ID"))
	assert.Equal(t, "CO2 per capita,1997,1998,1999\n"+
		"Denmark,10.1,9.9,9.8\n"+
		"Brazil,1.0,2.0,3.0\n"+
		"Chile,0.25,0.50,0.75\n", rec.Body.String())

	rec = get(t, s, "/api/export?countries=Brazil,Chile")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "SEL001", decodeError(t, rec).Code)
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := get(t, s, "/?year=1998")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Data available from 1997 to 2010.")
	assert.Contains(t, body, "<td>Chile</td><td>0.500000</td>")

	rec = get(t, s, "/?year=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please, insert only numbers")
	assert.Contains(t, rec.Body.String(), "(Code: QRY002)")
}

func TestListings(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := get(t, s, "/api/countries")
	require.Equal(t, http.StatusOK, rec.Code)
	var countries []string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&countries))
	assert.Equal(t, []string{"Brazil", "Chile", "China", "Denmark"}, countries)

	rec = get(t, s, "/api/years")
	require.Equal(t, http.StatusOK, rec.Code)
	var years struct {
		From      int   `json:"from"`
		To        int   `json:"to"`
		Available []int `json:"available"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&years))
	assert.Equal(t, 1997, years.From)
	assert.Equal(t, 2010, years.To)
	assert.Equal(t, []int{1997, 1998, 1999}, years.Available)

	rec = get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.RequestsPerMinute = 2
	s := newTestServer(t, cfg)

	assert.Equal(t, http.StatusOK, get(t, s, "/api/years").Code)
	assert.Equal(t, http.StatusOK, get(t, s, "/api/years").Code)

	rec := get(t, s, "/api/years")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE001", decodeError(t, rec).Code)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := &rateLimiter{visitors: map[string]*visitor{}, rate: 1, window: time.Minute}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("1.1.1.1"))
	assert.False(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("2.2.2.2"))

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.allow("1.1.1.1"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(core.ErrYearNotNumeric))
	assert.Equal(t, http.StatusNotFound, statusFor(&core.YearNotFoundError{Year: 2020}))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(chart.ErrTooManyRenders))
	assert.Equal(t, http.StatusInternalServerError, statusFor(core.ErrMalformedTable))
}
