package report

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/hydroclim/drought-cli/internal/model"
)

// WriteMetricsXLSX writes per-iteration metric records plus a mean row
// to an xlsx workbook.
func WriteMetricsXLSX(path string, records []model.MetricRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("metrics")
	if err != nil {
		return eris.Wrap(err, "report: add metrics sheet")
	}

	header := sheet.AddRow()
	header.AddCell().Value = "iteration"
	for _, name := range MetricOrder {
		header.AddCell().Value = name
	}

	addMetricRow := func(label string, m model.MetricRecord) {
		row := sheet.AddRow()
		row.AddCell().Value = label
		for _, v := range []float64{m.Accuracy, m.Precision, m.Recall, m.F1, m.BalancedAccuracy} {
			row.AddCell().SetFloat(v)
		}
	}

	for i, rec := range records {
		addMetricRow(strconv.Itoa(i), rec)
	}
	addMetricRow("mean", Means(records))

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}

// WriteImportancesXLSX writes a ranked importance sheet.
func WriteImportancesXLSX(path string, r *Ranking) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("importances")
	if err != nil {
		return eris.Wrap(err, "report: add importances sheet")
	}

	header := sheet.AddRow()
	header.AddCell().Value = "feature"
	header.AddCell().Value = "importance"

	for _, it := range r.Items {
		row := sheet.AddRow()
		row.AddCell().Value = it.Feature
		row.AddCell().SetFloat(it.Importance)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}
