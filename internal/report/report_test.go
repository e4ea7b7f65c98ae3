package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/hydroclim/drought-cli/internal/model"
)

func TestRank(t *testing.T) {
	names := []string{"P", "PET", "ET", "SM"}
	imp := []float64{0.1, 0.5, 0.1, 0.3}

	r, err := Rank(names, imp)
	require.NoError(t, err)
	require.Len(t, r.Items, 4)

	assert.Equal(t, "PET", r.Items[0].Feature)
	assert.Equal(t, "SM", r.Items[1].Feature)
	// tie between P and ET keeps column order
	assert.Equal(t, "P", r.Items[2].Feature)
	assert.Equal(t, "ET", r.Items[3].Feature)
	assert.False(t, r.HasNegative)

	// non-increasing
	for i := 1; i < len(r.Items); i++ {
		assert.GreaterOrEqual(t, r.Items[i-1].Importance, r.Items[i].Importance)
	}
}

func TestRankNegativeFlag(t *testing.T) {
	r, err := Rank([]string{"a", "b"}, []float64{0.2, -0.1})
	require.NoError(t, err)
	assert.True(t, r.HasNegative)
}

func TestRankLengthMismatch(t *testing.T) {
	_, err := Rank([]string{"a"}, []float64{1, 2})
	assert.Error(t, err)
}

func TestWriteBarChart(t *testing.T) {
	r, err := Rank([]string{"P", "SM"}, []float64{0.75, 0.25})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteBarChart(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "P")
	assert.Contains(t, out, "0.7500")
	assert.Contains(t, out, "#")
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{0.2, 0.4, 0.6, 0.8, 1.0})

	assert.InDelta(t, 0.2, s.Min, 1e-12)
	assert.InDelta(t, 0.6, s.Median, 1e-12)
	assert.InDelta(t, 1.0, s.Max, 1e-12)
	assert.InDelta(t, 0.6, s.Mean, 1e-12)
	assert.LessOrEqual(t, s.Q1, s.Median)
	assert.LessOrEqual(t, s.Median, s.Q3)
}

func TestMeans(t *testing.T) {
	records := []model.MetricRecord{
		{Accuracy: 0.8, Precision: 0.7, Recall: 0.6, F1: 0.65, BalancedAccuracy: 0.75},
		{Accuracy: 0.9, Precision: 0.8, Recall: 0.7, F1: 0.74, BalancedAccuracy: 0.85},
		{Accuracy: 1.0, Precision: 0.9, Recall: 0.8, F1: 0.86, BalancedAccuracy: 0.95},
	}

	m := Means(records)
	assert.InDelta(t, 0.9, m.Accuracy, 1e-9)
	assert.InDelta(t, 0.8, m.Precision, 1e-9)
	assert.InDelta(t, 0.7, m.Recall, 1e-9)
	assert.InDelta(t, 0.75, m.F1, 1e-9)
	assert.InDelta(t, 0.85, m.BalancedAccuracy, 1e-9)

	assert.Equal(t, model.MetricRecord{}, Means(nil))
}

func TestWriteBoxPlot(t *testing.T) {
	records := []model.MetricRecord{
		{Accuracy: 0.81}, {Accuracy: 0.86}, {Accuracy: 0.92},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBoxPlot(&buf, records))

	out := buf.String()
	for _, name := range MetricOrder {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "med=")
}

func TestBoxLine(t *testing.T) {
	spread := boxLine(FiveNumber{Min: 0.1, Q1: 0.3, Median: 0.5, Q3: 0.7, Max: 0.9}, barWidth)
	assert.Contains(t, spread, "+")
	assert.Contains(t, spread, "[")
	assert.Contains(t, spread, "]")

	// A degenerate distribution collapses onto one cell; the quartile
	// glyph wins over the median marker.
	tight := boxLine(FiveNumber{Min: 0.5, Q1: 0.5, Median: 0.5, Q3: 0.5, Max: 0.5}, barWidth)
	assert.NotContains(t, tight, "+")
	assert.Contains(t, tight, "]")

	// Median on the lower quartile; upper quartile stays distinct.
	lower := boxLine(FiveNumber{Min: 0.1, Q1: 0.4, Median: 0.4, Q3: 0.8, Max: 0.9}, barWidth)
	assert.NotContains(t, lower, "+")
	assert.Contains(t, lower, "[")
	assert.Contains(t, lower, "]")
}

func TestWriteMetricsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.xlsx")
	records := []model.MetricRecord{
		{Accuracy: 0.8}, {Accuracy: 0.9},
	}

	require.NoError(t, WriteMetricsXLSX(path, records))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	// header + 2 iterations + mean row
	assert.Len(t, f.Sheets[0].Rows, 4)
}

func TestWriteImportancesXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imp.xlsx")
	r, err := Rank([]string{"P", "SM"}, []float64{0.6, 0.4})
	require.NoError(t, err)

	require.NoError(t, WriteImportancesXLSX(path, r))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	assert.Len(t, f.Sheets[0].Rows, 3)
	assert.Equal(t, "P", f.Sheets[0].Rows[1].Cells[0].Value)
}
