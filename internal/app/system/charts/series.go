// Package charts turns analysis documents into the four dashboard charts.
//
// A Chart is a library-neutral description: its series or categories, axis
// labels and bounds. It can be emitted as a Chart.js configuration for the
// browser (chartjs.go) or rendered to PNG on the server (render.go).
package charts

import (
	"strconv"

	"github.com/dalemusser/aimarket/internal/domain/models"
)

// Point is one plotted value; X is the year.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Metric selects which measurement a time series plots.
type Metric int

const (
	MarketSize Metric = iota
	AdoptionRate
)

// Historical maps observed rows to points in input order.
// len(result) == len(rows) and result[i].X == rows[i].Year.
func Historical(rows []models.HistoricalPoint, m Metric) []Point {
	out := make([]Point, len(rows))
	for i, r := range rows {
		y := r.MarketSize
		if m == AdoptionRate {
			y = r.AdoptionRate
		}
		out[i] = Point{X: float64(r.Year), Y: y}
	}
	return out
}

// Predicted maps forecast rows to points in input order.
func Predicted(rows []models.Prediction, m Metric) []Point {
	out := make([]Point, len(rows))
	for i, r := range rows {
		y := r.PredictedMarketSize
		if m == AdoptionRate {
			y = r.PredictedAdoptionRate
		}
		out[i] = Point{X: float64(r.Year), Y: y}
	}
	return out
}

// formatValue prints v the way a browser prints a JSON number.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
