package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hydroclim/drought-cli/internal/dataset"
	"github.com/hydroclim/drought-cli/internal/geomap"
)

var (
	mapCSV      string
	mapBoundary string
	mapOutput   string
	mapWidth    int
	mapHeight   int
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Render an SVG scatter map of observations",
	Long: `Draws every observation at its coordinates, colored by drought
label, over polygon outlines from a boundary shapefile.

Example:
  drought-cli map --csv climate.csv --boundary region.shp --output map.svg`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		csvPath := mapCSV
		if csvPath == "" {
			csvPath = cfg.Data.CSVPath
		}
		if csvPath == "" {
			return eris.New("map: --csv is required (or set data.csv_path)")
		}
		boundaryPath := mapBoundary
		if boundaryPath == "" {
			boundaryPath = cfg.Map.BoundaryPath
		}
		if boundaryPath == "" {
			return eris.New("map: --boundary is required (or set map.boundary_path)")
		}

		ds, err := dataset.Load(csvPath, cfg.Data.TargetColumn)
		if err != nil {
			return eris.Wrap(err, "map")
		}

		boundary, err := geomap.LoadBoundary(boundaryPath)
		if err != nil {
			return eris.Wrap(err, "map")
		}

		width, height := mapWidth, mapHeight
		if width == 0 {
			width = cfg.Map.Width
		}
		if height == 0 {
			height = cfg.Map.Height
		}

		w, closeFn, err := outputWriter(mapOutput)
		if err != nil {
			return err
		}
		defer closeFn() //nolint:errcheck

		if err := geomap.RenderScatter(w, boundary, ds, width, height); err != nil {
			return eris.Wrap(err, "map")
		}

		zap.L().Info("map: rendered",
			zap.Int("observations", ds.Len()),
			zap.Int("outlines", len(boundary.Outlines)),
			zap.String("output", mapOutput),
		)
		return nil
	},
}

func init() {
	mapCmd.Flags().StringVar(&mapCSV, "csv", "", "path to climate CSV file")
	mapCmd.Flags().StringVar(&mapBoundary, "boundary", "", "path to boundary shapefile (.shp)")
	mapCmd.Flags().StringVar(&mapOutput, "output", "", "write SVG to file (default: stdout)")
	mapCmd.Flags().IntVar(&mapWidth, "width", 0, "SVG width in px (default from config)")
	mapCmd.Flags().IntVar(&mapHeight, "height", 0, "SVG height in px (default from config)")
	rootCmd.AddCommand(mapCmd)
}
