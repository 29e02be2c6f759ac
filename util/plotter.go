package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"li-server/models"
)

// PlotCompetitorMap renders the analyzed location and its top competitors
// as an HTML scatter map. Debugging aid, not a serving-path dependency.
func PlotCompetitorMap(center models.GeoPoint, result *models.CompetitorAnalysisResult, w io.Writer) error {
	points := []opts.GeoData{
		{Name: "Location", Value: []float64{center.Longitude, center.Latitude}},
	}
	for _, tc := range result.TopCompetitors {
		points = append(points, opts.GeoData{
			Name:  tc.Venue.Name,
			Value: []float64{tc.Venue.Location.Longitude, tc.Venue.Location.Latitude},
		})
	}

	geo := charts.NewGeo()
	geo.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Competitor Map",
			Width:     "800px",
			Height:    "600px",
		}),
		charts.WithGeoComponentOpts(opts.GeoComponent{
			Map:    "world",
			Silent: opts.Bool(true),
		}),
	)

	geo.AddSeries("Competitors", types.ChartScatter, points,
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}",
		}),
	)

	if err := geo.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
