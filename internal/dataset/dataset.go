// Package dataset loads tabular climate observations from CSV and
// partitions them into train/test subsets.
package dataset

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FeatureNames lists the predictor columns, in file order. This order is
// the canonical feature index used everywhere downstream.
var FeatureNames = []string{"P", "PET", "ET", "SM", "SM_prev", "DS", "NDVI", "enso"}

// TargetColumn is the default binary label column.
const TargetColumn = "drought"

// Observation is one climate row: predictors, binary label, and the
// month/coordinate metadata carried for mapping and reporting.
type Observation struct {
	Lon      float64
	Lat      float64
	Month    int
	Features []float64 // aligned with FeatureNames
	Drought  int       // 0 or 1
}

// Dataset is an ordered collection of observations.
type Dataset struct {
	Observations []Observation
}

// Len returns the number of observations.
func (d *Dataset) Len() int { return len(d.Observations) }

// Matrix returns the predictor rows as a [][]float64.
func (d *Dataset) Matrix() [][]float64 {
	X := make([][]float64, len(d.Observations))
	for i, obs := range d.Observations {
		X[i] = obs.Features
	}
	return X
}

// Labels returns the binary labels.
func (d *Dataset) Labels() []int {
	y := make([]int, len(d.Observations))
	for i, obs := range d.Observations {
		y[i] = obs.Drought
	}
	return y
}

// ClassBalance returns the proportion of class-1 observations.
func (d *Dataset) ClassBalance() float64 {
	if len(d.Observations) == 0 {
		return 0
	}
	var pos int
	for _, obs := range d.Observations {
		pos += obs.Drought
	}
	return float64(pos) / float64(len(d.Observations))
}

// Load reads a climate CSV into a Dataset. Rows with empty or
// non-finite cells are dropped; any other malformed content is fatal.
func Load(path, targetColumn string) (*Dataset, error) {
	if targetColumn == "" {
		targetColumn = TargetColumn
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read header of %s", path)
	}

	cols, err := resolveColumns(header, targetColumn)
	if err != nil {
		return nil, err
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read rows of %s", path)
	}

	ds := &Dataset{Observations: make([]Observation, 0, len(records))}
	var dropped int

	for i, rec := range records {
		obs, ok, err := parseRow(rec, cols)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: row %d", i+2)
		}
		if !ok {
			dropped++
			continue
		}
		ds.Observations = append(ds.Observations, obs)
	}

	if dropped > 0 {
		zap.L().Info("dataset: dropped rows with missing values",
			zap.Int("dropped", dropped),
			zap.Int("kept", ds.Len()),
		)
	}
	if ds.Len() == 0 {
		return nil, eris.Errorf("dataset: %s contains no complete rows", path)
	}

	return ds, nil
}

// columnIndex maps the required columns onto positions in the header.
type columnIndex struct {
	lon, lat, month int
	features        []int
	target          int
}

func resolveColumns(header []string, targetColumn string) (*columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimSpace(name)] = i
	}

	var missing []string
	look := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	cols := &columnIndex{
		lon:      look("lon"),
		lat:      look("lat"),
		month:    look("month"),
		features: make([]int, len(FeatureNames)),
		target:   look(targetColumn),
	}
	for i, name := range FeatureNames {
		cols.features[i] = look(name)
	}

	if len(missing) > 0 {
		return nil, eris.Errorf("dataset: missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// parseRow converts one CSV record. ok=false means the row had missing
// values and should be dropped; err means the file is malformed.
func parseRow(rec []string, cols *columnIndex) (Observation, bool, error) {
	cell := func(i int) (float64, bool, error) {
		if i >= len(rec) {
			return 0, false, nil
		}
		s := strings.TrimSpace(rec[i])
		if s == "" || strings.EqualFold(s, "nan") {
			return 0, false, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, eris.Wrapf(err, "parse %q", s)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false, nil
		}
		return v, true, nil
	}

	var obs Observation
	obs.Features = make([]float64, len(cols.features))

	scalars := []struct {
		idx int
		dst *float64
	}{
		{cols.lon, &obs.Lon},
		{cols.lat, &obs.Lat},
	}
	for _, s := range scalars {
		v, ok, err := cell(s.idx)
		if err != nil || !ok {
			return obs, false, err
		}
		*s.dst = v
	}

	month, ok, err := cell(cols.month)
	if err != nil || !ok {
		return obs, false, err
	}
	obs.Month = int(month)

	for i, idx := range cols.features {
		v, ok, err := cell(idx)
		if err != nil || !ok {
			return obs, false, err
		}
		obs.Features[i] = v
	}

	target, ok, err := cell(cols.target)
	if err != nil || !ok {
		return obs, false, err
	}
	if target != 0 && target != 1 {
		return obs, false, eris.Errorf("target value %v is not binary", target)
	}
	obs.Drought = int(target)

	return obs, true, nil
}
