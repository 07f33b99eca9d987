package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dalemusser/aimarket/internal/app/system/htmlsanitize"
	"github.com/dalemusser/aimarket/internal/domain/models"
)

// ValidationError reports that an analysis document does not have the shape
// the dashboard binds to. Problems lists every issue found, in document order.
type ValidationError struct {
	Document string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Document, strings.Join(e.Problems, "; "))
}

// Wire shapes: pointers tell a missing key apart from a zero value.
type historicalWire struct {
	Year         *int     `json:"year"`
	MarketSize   *float64 `json:"market_size"`
	AdoptionRate *float64 `json:"adoption_rate"`
}

type predictionWire struct {
	Year                  *int     `json:"year"`
	PredictedMarketSize   *float64 `json:"predicted_market_size"`
	PredictedAdoptionRate *float64 `json:"predicted_adoption_rate"`
}

type performanceWire struct {
	MarketR2Score   *float64 `json:"market_r2_score"`
	AdoptionR2Score *float64 `json:"adoption_r2_score"`
}

type analysisWire struct {
	HistoricalData   *[]historicalWire `json:"historical_data"`
	Predictions      *[]predictionWire `json:"predictions"`
	ModelPerformance *performanceWire  `json:"model_performance"`
}

type industryRegionWire struct {
	Industries *sharesWire `json:"industries"`
	Regions    *sharesWire `json:"regions"`
}

type shareWire struct {
	Name  string
	Value *float64
}

// sharesWire decodes a name → percentage object in key order. Unlike
// models.Shares it keeps null values, as a nil Value, so they are reported
// alongside the other problems.
type sharesWire []shareWire

func (s *sharesWire) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("expected a JSON object of name to percentage")
	}

	out := sharesWire{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", keyTok)
		}
		var v *float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("%q: %w", name, err)
		}
		out = append(out, shareWire{Name: name, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

// problems collects validation messages.
type problems []string

func (p *problems) add(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p *problems) requireFinite(field string, v *float64) float64 {
	if v == nil {
		p.add("%s: missing", field)
		return 0
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		p.add("%s: not a finite number", field)
		return 0
	}
	return *v
}

// DecodeAnalysis parses and validates an ai_analysis_results.json document.
//
// Beyond field presence and types it checks that both sequences are
// non-empty, that years strictly increase, that every prediction lies after
// the last observed year, and that the last observed market size is
// non-zero (it is the denominator of the growth insight).
func DecodeAnalysis(b []byte) (models.AnalysisResult, error) {
	const doc = models.AnalysisResultsDocument

	var w analysisWire
	if err := json.Unmarshal(b, &w); err != nil {
		return models.AnalysisResult{}, &ValidationError{Document: doc, Problems: []string{"malformed JSON: " + err.Error()}}
	}

	var p problems
	var out models.AnalysisResult

	if w.HistoricalData == nil {
		p.add("historical_data: missing")
	} else if len(*w.HistoricalData) == 0 {
		p.add("historical_data: must not be empty")
	} else {
		out.HistoricalData = make([]models.HistoricalPoint, len(*w.HistoricalData))
		for i, row := range *w.HistoricalData {
			field := fmt.Sprintf("historical_data[%d]", i)
			hp := models.HistoricalPoint{
				MarketSize:   p.requireFinite(field+".market_size", row.MarketSize),
				AdoptionRate: p.requireFinite(field+".adoption_rate", row.AdoptionRate),
			}
			if row.Year == nil {
				p.add("%s.year: missing", field)
			} else {
				hp.Year = *row.Year
				if i > 0 && hp.Year <= out.HistoricalData[i-1].Year {
					p.add("%s.year: %d does not follow %d", field, hp.Year, out.HistoricalData[i-1].Year)
				}
			}
			out.HistoricalData[i] = hp
		}
		// Only a present, finite value can be checked; otherwise the row
		// already carries a problem.
		lastIdx := len(out.HistoricalData) - 1
		if last := (*w.HistoricalData)[lastIdx].MarketSize; last != nil && *last == 0 {
			p.add("historical_data[%d].market_size: must be non-zero", lastIdx)
		}
	}

	if w.Predictions == nil {
		p.add("predictions: missing")
	} else if len(*w.Predictions) == 0 {
		p.add("predictions: must not be empty")
	} else {
		out.Predictions = make([]models.Prediction, len(*w.Predictions))
		for i, row := range *w.Predictions {
			field := fmt.Sprintf("predictions[%d]", i)
			pr := models.Prediction{
				PredictedMarketSize:   p.requireFinite(field+".predicted_market_size", row.PredictedMarketSize),
				PredictedAdoptionRate: p.requireFinite(field+".predicted_adoption_rate", row.PredictedAdoptionRate),
			}
			if row.Year == nil {
				p.add("%s.year: missing", field)
			} else {
				pr.Year = *row.Year
				if i > 0 && pr.Year <= out.Predictions[i-1].Year {
					p.add("%s.year: %d does not follow %d", field, pr.Year, out.Predictions[i-1].Year)
				}
			}
			out.Predictions[i] = pr
		}
	}

	if h, ok := out.LastHistorical(); ok && len(out.Predictions) > 0 {
		if first := out.Predictions[0]; first.Year <= h.Year {
			p.add("predictions[0].year: %d is not after the last historical year %d", first.Year, h.Year)
		}
	}

	if w.ModelPerformance == nil {
		p.add("model_performance: missing")
	} else {
		out.ModelPerformance = models.ModelPerformance{
			MarketR2Score:   p.requireFinite("model_performance.market_r2_score", w.ModelPerformance.MarketR2Score),
			AdoptionR2Score: p.requireFinite("model_performance.adoption_r2_score", w.ModelPerformance.AdoptionR2Score),
		}
	}

	if len(p) > 0 {
		return models.AnalysisResult{}, &ValidationError{Document: doc, Problems: p}
	}
	return out, nil
}

// DecodeIndustryRegion parses and validates an industry_region.json
// document. Category names are stripped of markup; after stripping they
// must be non-empty and unique within their mapping. Key order is kept.
func DecodeIndustryRegion(b []byte) (models.IndustryRegionData, error) {
	const doc = models.IndustryRegionDocument

	var w industryRegionWire
	if err := json.Unmarshal(b, &w); err != nil {
		return models.IndustryRegionData{}, &ValidationError{Document: doc, Problems: []string{"malformed JSON: " + err.Error()}}
	}

	var p problems
	out := models.IndustryRegionData{
		Industries: cleanShares(&p, "industries", w.Industries),
		Regions:    cleanShares(&p, "regions", w.Regions),
	}

	if len(p) > 0 {
		return models.IndustryRegionData{}, &ValidationError{Document: doc, Problems: p}
	}
	return out, nil
}

func cleanShares(p *problems, field string, in *sharesWire) models.Shares {
	if in == nil {
		p.add("%s: missing", field)
		return nil
	}
	if len(*in) == 0 {
		p.add("%s: must not be empty", field)
		return nil
	}

	out := make(models.Shares, 0, len(*in))
	seen := make(map[string]bool, len(*in))
	for _, sh := range *in {
		name := htmlsanitize.StripTags(sh.Name)
		switch {
		case name == "":
			p.add("%s: category %q has an empty name", field, sh.Name)
		case seen[name]:
			p.add("%s: duplicate category %q", field, name)
		}
		seen[name] = true
		v := p.requireFinite(fmt.Sprintf("%s[%q]", field, name), sh.Value)
		out = append(out, models.Share{Name: name, Value: v})
	}
	return out
}

// RangeWarnings lists percentages outside 0..100. They are rendered as
// given; the loader only logs them.
func RangeWarnings(a models.AnalysisResult, ir models.IndustryRegionData) []string {
	var warns []string
	check := func(field string, v float64) {
		if v < 0 || v > 100 {
			warns = append(warns, fmt.Sprintf("%s: %.2f is outside 0..100", field, v))
		}
	}
	for i, h := range a.HistoricalData {
		check(fmt.Sprintf("historical_data[%d].adoption_rate", i), h.AdoptionRate)
	}
	for i, pr := range a.Predictions {
		check(fmt.Sprintf("predictions[%d].predicted_adoption_rate", i), pr.PredictedAdoptionRate)
	}
	for _, sh := range ir.Industries {
		check(fmt.Sprintf("industries[%q]", sh.Name), sh.Value)
	}
	for _, sh := range ir.Regions {
		check(fmt.Sprintf("regions[%q]", sh.Name), sh.Value)
	}
	return warns
}
