// internal/domain/models/analysis.go
package models

// Document names the external analysis step publishes. Every document
// source resolves these names relative to its own root (a directory, a base
// URL, a collection or a table).
const (
	AnalysisResultsDocument = "ai_analysis_results.json"
	IndustryRegionDocument  = "industry_region.json"
)

// HistoricalPoint is one observed year of the AI market.
type HistoricalPoint struct {
	Year         int     `json:"year"`
	MarketSize   float64 `json:"market_size"`   // billions USD
	AdoptionRate float64 `json:"adoption_rate"` // percent
}

// Prediction is one forecast year produced by the regression models.
type Prediction struct {
	Year                  int     `json:"year"`
	PredictedMarketSize   float64 `json:"predicted_market_size"`
	PredictedAdoptionRate float64 `json:"predicted_adoption_rate"`
}

// ModelPerformance holds the R² fit score of each regression model.
type ModelPerformance struct {
	MarketR2Score   float64 `json:"market_r2_score"`
	AdoptionR2Score float64 `json:"adoption_r2_score"`
}

// AnalysisResult is the ai_analysis_results.json document.
//
// HistoricalData and Predictions are chronologically ordered. The loader
// validates that both are non-empty before anything reads LastHistorical
// or LastPrediction.
type AnalysisResult struct {
	HistoricalData   []HistoricalPoint `json:"historical_data"`
	Predictions      []Prediction      `json:"predictions"`
	ModelPerformance ModelPerformance  `json:"model_performance"`
}

// LastHistorical returns the most recent observed year.
// ok is false when HistoricalData is empty.
func (a *AnalysisResult) LastHistorical() (HistoricalPoint, bool) {
	if len(a.HistoricalData) == 0 {
		return HistoricalPoint{}, false
	}
	return a.HistoricalData[len(a.HistoricalData)-1], true
}

// LastPrediction returns the furthest forecast year.
// ok is false when Predictions is empty.
func (a *AnalysisResult) LastPrediction() (Prediction, bool) {
	if len(a.Predictions) == 0 {
		return Prediction{}, false
	}
	return a.Predictions[len(a.Predictions)-1], true
}
