package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/hydroclim/drought-cli/internal/model"
)

const barWidth = 40

// WriteBarChart renders a horizontal text bar chart of the ranking,
// scaled so the largest importance fills the full bar width.
func WriteBarChart(w io.Writer, r *Ranking) error {
	var max float64
	for _, it := range r.Items {
		if it.Importance > max {
			max = it.Importance
		}
	}

	for _, it := range r.Items {
		n := 0
		if max > 0 {
			n = int(it.Importance / max * barWidth)
		}
		if _, err := fmt.Fprintf(w, "%-10s %6.4f  %s\n",
			it.Feature, it.Importance, strings.Repeat("#", n)); err != nil {
			return err
		}
	}
	if r.HasNegative {
		if _, err := fmt.Fprintln(w, "warning: negative importance present"); err != nil {
			return err
		}
	}
	return nil
}

// FiveNumber is the box-and-whisker summary of one metric.
type FiveNumber struct {
	Min, Q1, Median, Q3, Max float64
	Mean                     float64
}

// Summarize computes the five-number summary plus the mean.
func Summarize(values []float64) FiveNumber {
	if len(values) == 0 {
		return FiveNumber{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return FiveNumber{
		Min:    sorted[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
		Mean:   stat.Mean(sorted, nil),
	}
}

// metricColumns extracts each metric across records as a column vector.
func metricColumns(records []model.MetricRecord) map[string][]float64 {
	cols := map[string][]float64{}
	for _, r := range records {
		cols["accuracy"] = append(cols["accuracy"], r.Accuracy)
		cols["precision"] = append(cols["precision"], r.Precision)
		cols["recall"] = append(cols["recall"], r.Recall)
		cols["f1"] = append(cols["f1"], r.F1)
		cols["balanced_accuracy"] = append(cols["balanced_accuracy"], r.BalancedAccuracy)
	}
	return cols
}

// MetricOrder is the fixed display order of metric names.
var MetricOrder = []string{"accuracy", "precision", "recall", "f1", "balanced_accuracy"}

// WriteBoxPlot renders per-metric box-and-whisker lines over [0,1].
//
//	accuracy   |----[==+==]-----|  min=0.81 q1=0.84 med=0.86 q3=0.88 max=0.92
func WriteBoxPlot(w io.Writer, records []model.MetricRecord) error {
	cols := metricColumns(records)

	for _, name := range MetricOrder {
		s := Summarize(cols[name])
		if _, err := fmt.Fprintf(w, "%-18s %s  min=%.3f q1=%.3f med=%.3f q3=%.3f max=%.3f\n",
			name, boxLine(s, barWidth), s.Min, s.Q1, s.Median, s.Q3, s.Max); err != nil {
			return err
		}
	}
	return nil
}

// boxLine draws one whisker line on a [0,1] axis of the given width.
func boxLine(s FiveNumber, width int) string {
	pos := func(v float64) int {
		p := int(v * float64(width-1))
		if p < 0 {
			p = 0
		}
		if p > width-1 {
			p = width - 1
		}
		return p
	}

	line := []byte(strings.Repeat(" ", width))
	for i := pos(s.Min); i <= pos(s.Max); i++ {
		line[i] = '-'
	}
	for i := pos(s.Q1); i <= pos(s.Q3); i++ {
		line[i] = '='
	}
	line[pos(s.Min)] = '|'
	line[pos(s.Max)] = '|'
	line[pos(s.Q1)] = '['
	line[pos(s.Q3)] = ']'
	// Quartile glyphs keep precedence on tight distributions.
	if m := pos(s.Median); m != pos(s.Q1) && m != pos(s.Q3) {
		line[m] = '+'
	}
	return string(line)
}

// Means returns the arithmetic mean of each metric across records.
func Means(records []model.MetricRecord) model.MetricRecord {
	if len(records) == 0 {
		return model.MetricRecord{}
	}
	cols := metricColumns(records)
	return model.MetricRecord{
		Accuracy:         stat.Mean(cols["accuracy"], nil),
		Precision:        stat.Mean(cols["precision"], nil),
		Recall:           stat.Mean(cols["recall"], nil),
		F1:               stat.Mean(cols["f1"], nil),
		BalancedAccuracy: stat.Mean(cols["balanced_accuracy"], nil),
	}
}
