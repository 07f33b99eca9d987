package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dalemusser/aimarket/internal/domain/models"
)

// AnalysisJSON is a small, valid ai_analysis_results.json document.
// Its last historical row and last prediction match the worked example used
// across the insight tests: 100 → 500 billion, 35% → 72%, 2030.
const AnalysisJSON = `{
  "model_performance": {"market_r2_score": 0.95, "adoption_r2_score": 0.91},
  "historical_data": [
    {"year": 2021, "market_size": 62.5, "adoption_rate": 28.0},
    {"year": 2022, "market_size": 80.1, "adoption_rate": 31.5},
    {"year": 2023, "market_size": 100, "adoption_rate": 35}
  ],
  "predictions": [
    {"year": 2026, "predicted_market_size": 260.4, "predicted_adoption_rate": 51.2},
    {"year": 2030, "predicted_market_size": 500, "predicted_adoption_rate": 72}
  ]
}`

// IndustryRegionJSON is a small, valid industry_region.json document whose
// keys are deliberately not in alphabetical order.
const IndustryRegionJSON = `{
  "industries": {"Technology": 78.5, "Finance": 65.2, "Healthcare": 45.8, "Retail": 38.1},
  "regions": {"North America": 72.3, "Europe": 58.4, "Asia Pacific": 61.9}
}`

// Documents maps each document name to its fixture body.
func Documents() map[string]string {
	return map[string]string{
		models.AnalysisResultsDocument: AnalysisJSON,
		models.IndustryRegionDocument:  IndustryRegionJSON,
	}
}

// WriteDocuments writes the fixture documents into a new temp directory and
// returns its path. overrides replaces (or, with an empty body, omits)
// individual documents.
func WriteDocuments(t *testing.T, overrides map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	docs := Documents()
	for name, body := range overrides {
		docs[name] = body
	}
	for name, body := range docs {
		if body == "" {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}
