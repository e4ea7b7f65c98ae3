package geomap

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/hydroclim/drought-cli/internal/dataset"
)

const (
	colorDrought   = "#d73027"
	colorNoDrought = "#4575b4"
	pointRadius    = 3
	margin         = 20
)

// RenderScatter writes an SVG scatter of observations over the boundary
// outlines. Observations with drought=1 draw on top.
func RenderScatter(w io.Writer, b *Boundary, ds *dataset.Dataset, width, height int) error {
	if width <= 2*margin || height <= 2*margin {
		return eris.Errorf("geomap: viewport %dx%d too small", width, height)
	}

	bounds := b.Bounds.Clone()
	for _, obs := range ds.Observations {
		bounds.Extend(geom.NewPointFlat(geom.XY, []float64{obs.Lon, obs.Lat}))
	}
	if bounds.IsEmpty() {
		return eris.New("geomap: nothing to render")
	}

	proj := newProjection(bounds, width, height)

	if _, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height); err != nil {
		return eris.Wrap(err, "geomap: write svg header")
	}

	for _, ls := range b.Outlines {
		if err := writeOutline(w, ls, proj); err != nil {
			return err
		}
	}

	// class 0 first so drought points stay visible
	for _, label := range []int{0, 1} {
		color := colorNoDrought
		if label == 1 {
			color = colorDrought
		}
		for _, obs := range ds.Observations {
			if obs.Drought != label {
				continue
			}
			x, y := proj.apply(obs.Lon, obs.Lat)
			if _, err := fmt.Fprintf(w,
				`<circle cx="%.1f" cy="%.1f" r="%d" fill="%s" fill-opacity="0.7"/>`+"\n",
				x, y, pointRadius, color); err != nil {
				return eris.Wrap(err, "geomap: write point")
			}
		}
	}

	if _, err := fmt.Fprintln(w, `</svg>`); err != nil {
		return eris.Wrap(err, "geomap: write svg footer")
	}
	return nil
}

// projection maps lon/lat linearly into the SVG viewport, preserving
// aspect ratio and flipping the y axis.
type projection struct {
	minX, minY float64
	scale      float64
	height     int
}

func newProjection(bounds *geom.Bounds, width, height int) projection {
	spanX := bounds.Max(0) - bounds.Min(0)
	spanY := bounds.Max(1) - bounds.Min(1)
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	scaleX := float64(width-2*margin) / spanX
	scaleY := float64(height-2*margin) / spanY
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}

	return projection{minX: bounds.Min(0), minY: bounds.Min(1), scale: scale, height: height}
}

func (p projection) apply(lon, lat float64) (x, y float64) {
	x = margin + (lon-p.minX)*p.scale
	y = float64(p.height) - margin - (lat-p.minY)*p.scale
	return x, y
}

func writeOutline(w io.Writer, ls *geom.LineString, proj projection) error {
	coords := ls.FlatCoords()
	if len(coords) < 4 {
		return nil
	}

	if _, err := fmt.Fprint(w, `<path d="`); err != nil {
		return eris.Wrap(err, "geomap: write outline")
	}
	for i := 0; i < len(coords); i += 2 {
		x, y := proj.apply(coords[i], coords[i+1])
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		if _, err := fmt.Fprintf(w, "%s%.1f %.1f ", cmd, x, y); err != nil {
			return eris.Wrap(err, "geomap: write outline")
		}
	}
	if _, err := fmt.Fprintln(w, `" fill="none" stroke="#999" stroke-width="1"/>`); err != nil {
		return eris.Wrap(err, "geomap: write outline")
	}
	return nil
}
