// Package insights derives the dashboard's headline numbers and sentences
// from an analysis result.
package insights

import (
	"errors"
	"fmt"
	"math"

	"github.com/dalemusser/aimarket/internal/domain/models"
)

// ErrIncomplete is returned when the result has no historical row or no
// prediction to compare.
var ErrIncomplete = errors.New("insights: analysis result needs at least one historical row and one prediction")

// Round1 rounds v to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// MarketGrowth is the percentage change from the last observed market size
// h to the last predicted size p, rounded to one decimal.
func MarketGrowth(h, p float64) (float64, error) {
	if h == 0 {
		return 0, errors.New("insights: market growth from a zero market size")
	}
	g := Round1((p - h) / h * 100)
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return 0, fmt.Errorf("insights: market growth is not finite (%v → %v)", h, p)
	}
	return g, nil
}

// AdoptionDelta is the change in adoption rate in percentage points.
func AdoptionDelta(h, p float64) float64 {
	return Round1(p - h)
}

// Accuracy converts an R² score into a percentage with one decimal.
func Accuracy(r2 float64) float64 {
	return Round1(r2 * 100)
}

// Insights holds the derived figures of one load and the sentences shown
// for them.
type Insights struct {
	Year                  int     `json:"year"`
	MarketGrowthPct       float64 `json:"market_growth_pct"`
	AdoptionDeltaPts      float64 `json:"adoption_delta_pts"`
	PredictedAdoptionRate float64 `json:"predicted_adoption_rate"`
	PredictedMarketSize   float64 `json:"predicted_market_size"`
	MarketAccuracyPct     float64 `json:"market_accuracy_pct"`

	MarketGrowth   string `json:"market_growth"`
	AdoptionGrowth string `json:"adoption_growth"`
	FutureOutlook  string `json:"future_outlook"`
}

// Compute derives the insights from the last historical row and the last
// prediction of a.
func Compute(a models.AnalysisResult) (Insights, error) {
	h, okH := a.LastHistorical()
	p, okP := a.LastPrediction()
	if !okH || !okP {
		return Insights{}, ErrIncomplete
	}

	growth, err := MarketGrowth(h.MarketSize, p.PredictedMarketSize)
	if err != nil {
		return Insights{}, err
	}

	in := Insights{
		Year:                  p.Year,
		MarketGrowthPct:       growth,
		AdoptionDeltaPts:      AdoptionDelta(h.AdoptionRate, p.PredictedAdoptionRate),
		PredictedAdoptionRate: Round1(p.PredictedAdoptionRate),
		PredictedMarketSize:   Round1(p.PredictedMarketSize),
		MarketAccuracyPct:     Accuracy(a.ModelPerformance.MarketR2Score),
	}

	in.MarketGrowth = fmt.Sprintf("AI market projected to grow by %.1f%% by %d (model accuracy: %.1f%%).",
		in.MarketGrowthPct, in.Year, in.MarketAccuracyPct)
	in.AdoptionGrowth = fmt.Sprintf("AI adoption rate expected to increase by %.1f percentage points, reaching %.1f%% by %d.",
		in.AdoptionDeltaPts, in.PredictedAdoptionRate, in.Year)
	in.FutureOutlook = fmt.Sprintf("Global AI market projected to reach $%.1f billion by %d.",
		in.PredictedMarketSize, in.Year)

	return in, nil
}
