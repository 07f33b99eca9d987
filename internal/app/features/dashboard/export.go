// internal/app/features/dashboard/export.go
package dashboard

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names, in tab order.
const (
	SheetHistorical  = "Historical"
	SheetPredictions = "Predictions"
	SheetCombined    = "Combined"
	SheetIndustries  = "Industries"
	SheetRegions     = "Regions"
	SheetInsights    = "Insights"
)

type sheet struct {
	name   string
	header []any
	rows   [][]any
	widths []float64
}

// WriteWorkbook writes b as an XLSX workbook to w.
func WriteWorkbook(w io.Writer, b *Binding) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	for i, sh := range workbookSheets(b) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return fmt.Errorf("export: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := writeSheet(f, sh, bold); err != nil {
			return fmt.Errorf("export: sheet %s: %w", sh.name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	if err := f.SetSheetRow(sh.name, "A1", &sh.header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(sh.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return err
		}
	}

	for i, width := range sh.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sh.name, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func workbookSheets(b *Binding) []sheet {
	a, ir := b.Analysis, b.IndustryRegion

	hist := sheet{
		name:   SheetHistorical,
		header: []any{"Year", "Market Size (Billion USD)", "Adoption Rate (%)"},
		widths: []float64{10, 26, 20},
	}
	for _, h := range a.HistoricalData {
		hist.rows = append(hist.rows, []any{h.Year, h.MarketSize, h.AdoptionRate})
	}

	pred := sheet{
		name:   SheetPredictions,
		header: []any{"Year", "Predicted Market Size (Billion USD)", "Predicted Adoption Rate (%)"},
		widths: []float64{10, 34, 28},
	}
	for _, p := range a.Predictions {
		pred.rows = append(pred.rows, []any{p.Year, p.PredictedMarketSize, p.PredictedAdoptionRate})
	}

	// One table with a Type column, the layout of the analysis step's CSV:
	// observed and predicted values in their own columns, the other pair
	// left blank on each row.
	combined := sheet{
		name:   SheetCombined,
		header: []any{"Year", "Market Size (Billion USD)", "Adoption Rate (%)", "Predicted Market Size (Billion USD)", "Predicted Adoption Rate (%)", "Type"},
		widths: []float64{10, 26, 20, 34, 28, 12},
	}
	for _, h := range a.HistoricalData {
		combined.rows = append(combined.rows, []any{h.Year, h.MarketSize, h.AdoptionRate, nil, nil, "Historical"})
	}
	for _, p := range a.Predictions {
		combined.rows = append(combined.rows, []any{p.Year, nil, nil, p.PredictedMarketSize, p.PredictedAdoptionRate, "Predicted"})
	}

	industries := sheet{
		name:   SheetIndustries,
		header: []any{"Industry", "AI Adoption Rate (%)"},
		widths: []float64{24, 22},
	}
	for _, s := range ir.Industries {
		industries.rows = append(industries.rows, []any{s.Name, s.Value})
	}

	regions := sheet{
		name:   SheetRegions,
		header: []any{"Region", "AI Adoption Rate (%)"},
		widths: []float64{24, 22},
	}
	for _, s := range ir.Regions {
		regions.rows = append(regions.rows, []any{s.Name, s.Value})
	}

	ins := sheet{
		name:   SheetInsights,
		header: []any{"Item", "Value"},
		widths: []float64{24, 90},
		rows: [][]any{
			{"Market R² Score", b.Metrics.MarketR2},
			{"Adoption R² Score", b.Metrics.AdoptionR2},
			{"Market Growth", b.Insights.MarketGrowth},
			{"Adoption Growth", b.Insights.AdoptionGrowth},
			{"Future Outlook", b.Insights.FutureOutlook},
			{"Load ID", b.LoadID},
		},
	}

	return []sheet{hist, pred, combined, industries, regions, ins}
}
