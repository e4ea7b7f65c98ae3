package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHeader = "lon,lat,month,P,PET,ET,SM,SM_prev,DS,NDVI,enso,drought\n"

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "climate.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, sampleHeader+
		"-97.5,31.2,6,12.1,140.0,88.3,0.21,0.24,51.7,0.42,-0.5,1\n"+
		"-96.8,30.9,7,80.4,120.2,90.1,0.33,0.31,39.8,0.61,0.3,0\n")

	ds, err := Load(path, "")
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	first := ds.Observations[0]
	assert.InDelta(t, -97.5, first.Lon, 1e-12)
	assert.InDelta(t, 31.2, first.Lat, 1e-12)
	assert.Equal(t, 6, first.Month)
	assert.Equal(t, 1, first.Drought)
	require.Len(t, first.Features, len(FeatureNames))
	assert.InDelta(t, 12.1, first.Features[0], 1e-12)  // P
	assert.InDelta(t, -0.5, first.Features[7], 1e-12)  // enso

	assert.Equal(t, []int{1, 0}, ds.Labels())
	assert.InDelta(t, 0.5, ds.ClassBalance(), 1e-12)
}

func TestLoadDropsIncompleteRows(t *testing.T) {
	path := writeCSV(t, sampleHeader+
		"-97.5,31.2,6,12.1,140.0,88.3,0.21,0.24,51.7,0.42,-0.5,1\n"+
		"-96.8,30.9,7,,120.2,90.1,0.33,0.31,39.8,0.61,0.3,0\n"+
		"-95.1,29.7,8,33.0,110.5,70.2,NaN,0.22,44.0,0.55,0.1,0\n")

	ds, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing target column",
			body: "lon,lat,month,P,PET,ET,SM,SM_prev,DS,NDVI,enso\n",
		},
		{
			name: "non-numeric cell",
			body: sampleHeader + "-97.5,31.2,six,12.1,140.0,88.3,0.21,0.24,51.7,0.42,-0.5,1\n",
		},
		{
			name: "non-binary target",
			body: sampleHeader + "-97.5,31.2,6,12.1,140.0,88.3,0.21,0.24,51.7,0.42,-0.5,2\n",
		},
		{
			name: "all rows incomplete",
			body: sampleHeader + "-97.5,31.2,6,,140.0,88.3,0.21,0.24,51.7,0.42,-0.5,1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, tt.body)
			_, err := Load(path, "")
			assert.Error(t, err)
		})
	}
}

func TestLoadFileAbsent(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), "")
	assert.Error(t, err)
}
