// internal/app/features/dashboard/binding.go
package dashboard

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/aimarket/internal/app/store/documents"
	"github.com/dalemusser/aimarket/internal/app/system/charts"
	"github.com/dalemusser/aimarket/internal/app/system/insights"
	"github.com/dalemusser/aimarket/internal/app/system/validators"
	"github.com/dalemusser/aimarket/internal/domain/models"
)

// LoadFailedMessage is the one message users see when a load fails,
// whatever the cause.
const LoadFailedMessage = "Unable to load analysis data. Please run the analysis script first (python backend/analysis.py)."

// Metrics are the model-performance display fields.
type Metrics struct {
	MarketR2   string `json:"market_r2_score"`
	AdoptionR2 string `json:"adoption_r2_score"`
}

// ChartView is one chart as the page and the JSON API see it.
type ChartView struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Config charts.JSConfig `json:"config"`
	PNGURL string          `json:"png_url"`
}

// Binding is everything one load produced: the display fields, the four
// charts and the three insights, in the order they are shown.
type Binding struct {
	LoadID   string            `json:"load_id"`
	LoadedAt time.Time         `json:"loaded_at"`
	Source   string            `json:"source"`
	Metrics  Metrics           `json:"metrics"`
	Charts   []ChartView       `json:"charts"`
	Insights insights.Insights `json:"insights"`
	Warnings []string          `json:"warnings,omitempty"`

	Analysis       models.AnalysisResult     `json:"-"`
	IndustryRegion models.IndustryRegionData `json:"-"`
	Set            *ChartSet                 `json:"-"`
}

// bind computes every derived value from validated documents. Nothing is
// shown unless all of it succeeds.
func bind(loadID string, a models.AnalysisResult, ir models.IndustryRegionData) (*Binding, error) {
	in, err := insights.Compute(a)
	if err != nil {
		return nil, fmt.Errorf("compute insights: %w", err)
	}

	all := charts.BuildAll(a, ir)
	views := make([]ChartView, len(all))
	for i, c := range all {
		views[i] = ChartView{
			ID:     c.ID,
			Title:  c.Title,
			Config: c.ChartJS(),
			PNGURL: "/dashboard/charts/" + c.ID + ".png",
		}
	}

	return &Binding{
		LoadID:   loadID,
		LoadedAt: time.Now().UTC(),
		Metrics: Metrics{
			MarketR2:   fmt.Sprintf("%.4f", a.ModelPerformance.MarketR2Score),
			AdoptionR2: fmt.Sprintf("%.4f", a.ModelPerformance.AdoptionR2Score),
		},
		Charts:         views,
		Insights:       in,
		Analysis:       a,
		IndustryRegion: ir,
		Set:            NewChartSet(loadID, all),
	}, nil
}

// StatusFor maps a load failure to the HTTP status of the error response.
func StatusFor(err error) int {
	var aerr *documents.AcquisitionError
	var verr *validators.ValidationError
	switch {
	case errors.As(err, &aerr):
		return http.StatusBadGateway
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
