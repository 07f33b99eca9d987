package charts

import (
	"fmt"

	"github.com/dalemusser/aimarket/internal/domain/models"
)

// Kind is the chart type.
type Kind string

const (
	KindLine     Kind = "line"
	KindDoughnut Kind = "doughnut"
	KindBar      Kind = "bar"
)

// Chart identifiers. They name the canvas on the page and the PNG endpoint.
const (
	IDMarket   = "market"
	IDAdoption = "adoption"
	IDIndustry = "industry"
	IDRegion   = "region"
)

// IDs lists the charts in the order they appear on the page.
var IDs = []string{IDMarket, IDAdoption, IDIndustry, IDRegion}

// Series is one line of a time-series chart.
type Series struct {
	Name   string
	Points []Point
	Dashed bool
}

// Chart describes one dashboard chart.
type Chart struct {
	ID     string
	Title  string
	Kind   Kind
	XLabel string
	YLabel string
	YMax   float64 // 0 means no upper bound; every chart starts at zero

	// Line charts.
	Series []Series

	// Categorical charts, in source order.
	Labels        []string
	Values        []float64
	TooltipLabels []string
}

// MarketChart plots historical and predicted market size.
func MarketChart(a models.AnalysisResult) Chart {
	return Chart{
		ID:     IDMarket,
		Title:  "AI Market Size: Historical vs Predicted",
		Kind:   KindLine,
		XLabel: "Year",
		YLabel: "Market Size (Billion USD)",
		Series: []Series{
			{Name: "Historical Market Size", Points: Historical(a.HistoricalData, MarketSize)},
			{Name: "Predicted Market Size", Points: Predicted(a.Predictions, MarketSize), Dashed: true},
		},
	}
}

// AdoptionChart plots historical and predicted adoption rate, capped at 100.
func AdoptionChart(a models.AnalysisResult) Chart {
	return Chart{
		ID:     IDAdoption,
		Title:  "AI Adoption Rate: Historical vs Predicted",
		Kind:   KindLine,
		XLabel: "Year",
		YLabel: "Adoption Rate (%)",
		YMax:   100,
		Series: []Series{
			{Name: "Historical Adoption Rate", Points: Historical(a.HistoricalData, AdoptionRate)},
			{Name: "Predicted Adoption Rate", Points: Predicted(a.Predictions, AdoptionRate), Dashed: true},
		},
	}
}

// IndustryChart is a doughnut with one segment per industry.
func IndustryChart(industries models.Shares) Chart {
	c := Chart{
		ID:     IDIndustry,
		Title:  "AI Adoption by Industry",
		Kind:   KindDoughnut,
		Labels: industries.Names(),
		Values: industries.Values(),
	}
	c.TooltipLabels = make([]string, len(industries))
	for i, sh := range industries {
		c.TooltipLabels[i] = fmt.Sprintf("%s: %s%%", sh.Name, formatValue(sh.Value))
	}
	return c
}

// RegionChart is a bar chart with one bar per region, capped at 100.
func RegionChart(regions models.Shares) Chart {
	c := Chart{
		ID:     IDRegion,
		Title:  "AI Adoption by Region",
		Kind:   KindBar,
		YLabel: "Adoption Rate (%)",
		YMax:   100,
		Labels: regions.Names(),
		Values: regions.Values(),
	}
	c.TooltipLabels = make([]string, len(regions))
	for i, sh := range regions {
		c.TooltipLabels[i] = fmt.Sprintf("AI Adoption Rate: %s%%", formatValue(sh.Value))
	}
	return c
}

// BuildAll returns the four charts in page order.
func BuildAll(a models.AnalysisResult, ir models.IndustryRegionData) []Chart {
	return []Chart{
		MarketChart(a),
		AdoptionChart(a),
		IndustryChart(ir.Industries),
		RegionChart(ir.Regions),
	}
}
