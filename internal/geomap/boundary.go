// Package geomap renders observations as a scatter map over a vector
// boundary dataset. The boundary is display-only; the model never
// consumes it.
package geomap

import (
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Boundary holds the outline geometry of the plotted region.
type Boundary struct {
	// Outlines are the rings and line parts of the source shapefile,
	// in lon/lat order.
	Outlines []*geom.LineString
	Bounds   *geom.Bounds
}

// LoadBoundary reads polygon and polyline outlines from a shapefile.
func LoadBoundary(path string) (*Boundary, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geomap: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	b := &Boundary{Bounds: geom.NewBounds(geom.XY)}
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		switch s := shape.(type) {
		case *shp.Polygon:
			b.addParts(s.NumParts, s.Parts, s.Points)
		case *shp.PolyLine:
			b.addParts(s.NumParts, s.Parts, s.Points)
		default:
			skipped++
		}
	}

	if skipped > 0 {
		zap.L().Debug("geomap: skipped unsupported shapes", zap.Int("skipped", skipped))
	}
	if len(b.Outlines) == 0 {
		return nil, eris.Errorf("geomap: %s contains no polygon or polyline shapes", path)
	}

	return b, nil
}

// addParts converts each shapefile part into a LineString outline.
func (b *Boundary) addParts(numParts int32, parts []int32, points []shp.Point) {
	if numParts == 0 || len(points) == 0 {
		return
	}
	for i := int32(0); i < numParts; i++ {
		start := parts[i]
		end := int32(len(points))
		if i+1 < numParts {
			end = parts[i+1]
		}
		if end-start < 2 {
			continue
		}

		flat := make([]float64, 0, 2*(end-start))
		for j := start; j < end; j++ {
			flat = append(flat, points[j].X, points[j].Y)
		}

		ls := geom.NewLineStringFlat(geom.XY, flat)
		b.Outlines = append(b.Outlines, ls)
		b.Bounds.Extend(ls)
	}
}
