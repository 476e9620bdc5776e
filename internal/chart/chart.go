// Package chart renders the simulation's value series to a PNG image.
package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"recfolio/internal/models"
)

// Filename returns the chart artifact name keyed by the simulation's start
// year.
func Filename(dir, year string) string {
	return filepath.Join(dir, fmt.Sprintf("portfolio_simulation_%s.png", year))
}

// Render writes a PNG chart of the strategy value, benchmark value and
// cumulative investment series to path.
func Render(points []models.DailyPoint, benchmark, path string) error {
	if len(points) == 0 {
		return fmt.Errorf("no data points to chart")
	}

	dates := make([]time.Time, len(points))
	strategy := make([]float64, len(points))
	bench := make([]float64, len(points))
	invested := make([]float64, len(points))
	for i, pt := range points {
		dates[i] = pt.Date.Time
		strategy[i] = pt.PortfolioValue
		bench[i] = pt.BenchmarkValue
		invested[i] = pt.Invested
	}

	graph := gochart.Chart{
		Title: fmt.Sprintf("Portfolio Simulation for %d", points[0].Date.Year()),
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeDateValueFormatter,
		},
		YAxis: gochart.YAxis{
			Name: "Portfolio Value ($)",
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "Recommendations",
				XValues: dates,
				YValues: strategy,
				Style:   gochart.Style{StrokeColor: drawing.ColorBlue, StrokeWidth: 2},
			},
			gochart.TimeSeries{
				Name:    benchmark,
				XValues: dates,
				YValues: bench,
				Style:   gochart.Style{StrokeColor: drawing.ColorFromHex("ff8c00"), StrokeWidth: 2},
			},
			gochart.TimeSeries{
				Name:    "Cumulative Investment",
				XValues: dates,
				YValues: invested,
				Style:   gochart.Style{StrokeColor: drawing.ColorGreen, StrokeWidth: 1, StrokeDashArray: []float64{4, 2}},
			},
		},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := graph.Render(gochart.PNG, f); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}
