package core

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_EndToEnd(t *testing.T) {
	table := mustParse(t, sampleCSV)

	index, err := ResolveYearIndex(table, 1998)
	require.NoError(t, err)
	assert.Equal(t, 1, index)

	col, err := ExtractColumn(table, index)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brazil", "China"}, col.Keys)
	assert.Equal(t, []float64{2.0, 4.0}, col.Values)

	summary, err := Summarize(table, 1998)
	require.NoError(t, err)
	assert.Equal(t, Entry{Key: "Brazil", Value: 2.0}, summary.Min)
	assert.Equal(t, Entry{Key: "China", Value: 4.0}, summary.Max)
	assert.InDelta(t, 3.0, summary.Mean, 1e-12)
	assert.Equal(t, 2, summary.Count)
}

func TestYearSummary_String(t *testing.T) {
	summary, err := Summarize(mustParse(t, sampleCSV), 1998)
	require.NoError(t, err)

	want := "In 1998, countries with minimum and maximum CO2 levels were: Brazil(2.000000) and China(4.000000)\n" +
		"Average CO2 emissions in 1998 were 3.000000"
	assert.Equal(t, want, summary.String())
}

func TestResolveYearIndex_NotFound(t *testing.T) {
	table := mustParse(t, sampleCSV)

	_, err := ResolveYearIndex(table, 2099)
	require.ErrorIs(t, err, ErrYearNotFound)

	var yn *YearNotFoundError
	require.ErrorAs(t, err, &yn)
	assert.Equal(t, 2099, yn.Year)

	_, err = Summarize(table, 2099)
	assert.ErrorIs(t, err, ErrYearNotFound)
}

func TestResolveYearIndex_IndependentOfKeyOrder(t *testing.T) {
	forward := mustParse(t, sampleCSV)
	reversed := mustParse(t, "CO2 per capita,1997,1998,1999\nChina,5.0,4.0,3.5\nBrazil,1.0,2.0,3.0\n")

	for _, year := range []int{1997, 1998, 1999} {
		a, err := ResolveYearIndex(forward, year)
		require.NoError(t, err)
		b, err := ResolveYearIndex(reversed, year)
		require.NoError(t, err)
		assert.Equal(t, a, b, "year %d", year)
	}
}

func TestExtractColumn_IndexOutOfRange(t *testing.T) {
	table := mustParse(t, sampleCSV)

	for _, index := range []int{-1, 3, 100} {
		_, err := ExtractColumn(table, index)
		assert.ErrorIs(t, err, ErrYearNotFound, "index %d", index)
	}
}

func TestExtractColumn_ValueParseFailure(t *testing.T) {
	table := mustParse(t, "CO2 per capita,1997\nBrazil,1.0\nChile,n/a\n")

	_, err := ExtractColumn(table, 0)
	require.ErrorIs(t, err, ErrMalformedTable)

	var vp *ValueParseError
	require.ErrorAs(t, err, &vp)
	assert.Equal(t, "Chile", vp.Key)
	assert.Equal(t, "n/a", vp.Raw)
}

func TestExtractColumn_TrimsFieldWhitespace(t *testing.T) {
	table := mustParse(t, "CO2 per capita,1997\nBrazil, 1.5 \n")

	col, err := ExtractColumn(table, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5}, col.Values)
}

func TestMinMaxEntry(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		keys    []string
		wantMin Entry
		wantMax Entry
	}{
		{
			name:    "single value",
			values:  []float64{7},
			keys:    []string{"Chad"},
			wantMin: Entry{"Chad", 7},
			wantMax: Entry{"Chad", 7},
		},
		{
			name:    "ties keep first occurrence",
			values:  []float64{3, 1, 1, 3},
			keys:    []string{"A", "B", "C", "D"},
			wantMin: Entry{"B", 1},
			wantMax: Entry{"A", 3},
		},
		{
			name:    "negative values",
			values:  []float64{-2, 0, -5.5},
			keys:    []string{"X", "Y", "Z"},
			wantMin: Entry{"Z", -5.5},
			wantMax: Entry{"Y", 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, err := MinEntry(tt.values, tt.keys)
			require.NoError(t, err)
			gotMax, err := MaxEntry(tt.values, tt.keys)
			require.NoError(t, err)

			assert.Equal(t, tt.wantMin, gotMin)
			assert.Equal(t, tt.wantMax, gotMax)
			for _, v := range tt.values {
				assert.LessOrEqual(t, gotMin.Value, v)
				assert.GreaterOrEqual(t, gotMax.Value, v)
			}
		})
	}
}

func TestMinMaxEntry_Errors(t *testing.T) {
	_, err := MinEntry(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = MaxEntry([]float64{}, []string{})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = MinEntry([]float64{1, 2}, []string{"A"})
	assert.ErrorIs(t, err, ErrMalformedTable)
}

func TestMean(t *testing.T) {
	tests := []struct {
		values []float64
		want   float64
	}{
		{[]float64{2, 4}, 3},
		{[]float64{1.5}, 1.5},
		{[]float64{0.1, 0.2, 0.3}, 0.2},
		{[]float64{-1, 1}, 0},
	}

	for _, tt := range tests {
		got, err := Mean(tt.values)
		if err != nil {
			t.Fatalf("Mean(%v) error = %v", tt.values, err)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Mean(%v) = %v, want %v", tt.values, got, tt.want)
		}
	}

	if _, err := Mean(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Mean(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestBuildSeries(t *testing.T) {
	table := mustParse(t, sampleCSV)

	s, err := BuildSeries(table, "China", "Brazil")
	require.NoError(t, err)
	assert.Equal(t, []int{1997, 1998, 1999}, s.Years)
	assert.Equal(t, []string{"China", "Brazil"}, s.Labels())
	assert.Equal(t, []float64{5.0, 4.0, 3.5}, s.Lines[0].Values)

	_, err = BuildSeries(table, "Atlantis")
	assert.ErrorIs(t, err, ErrSelectionUnknownKey)

	bad := mustParse(t, "CO2 per capita,1997\nChile,?\n")
	_, err = BuildSeries(bad, "Chile")
	require.ErrorIs(t, err, ErrMalformedTable)
	assert.True(t, strings.Contains(err.Error(), "Chile"))
}
