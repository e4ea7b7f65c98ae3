// Package report ranks feature importances and renders metric
// summaries as text charts and spreadsheet exports.
package report

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/hydroclim/drought-cli/internal/model"
)

// Ranking is the ordered importance report.
type Ranking struct {
	Items []model.Importance
	// HasNegative flags any negative score. Impurity-based importances
	// are non-negative by construction, so this is a data-quality alarm
	// rather than an expected state.
	HasNegative bool
}

// Rank pairs names with scores and sorts descending by importance.
// The sort is stable: ties keep original column order.
func Rank(names []string, importances []float64) (*Ranking, error) {
	if len(names) != len(importances) {
		return nil, eris.Errorf("report: %d names but %d importances", len(names), len(importances))
	}

	r := &Ranking{Items: make([]model.Importance, len(names))}
	for i := range names {
		r.Items[i] = model.Importance{Feature: names[i], Importance: importances[i]}
		if importances[i] < 0 {
			r.HasNegative = true
		}
	}

	sort.SliceStable(r.Items, func(a, b int) bool {
		return r.Items[a].Importance > r.Items[b].Importance
	})
	return r, nil
}
