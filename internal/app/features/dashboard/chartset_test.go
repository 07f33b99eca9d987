package dashboard_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/aimarket/internal/app/features/dashboard"
	"github.com/dalemusser/aimarket/internal/app/system/charts"
	"github.com/dalemusser/aimarket/internal/domain/models"
)

func sampleSet(loadID string) *dashboard.ChartSet {
	a := models.AnalysisResult{
		HistoricalData: []models.HistoricalPoint{{Year: 2023, MarketSize: 100, AdoptionRate: 35}},
		Predictions:    []models.Prediction{{Year: 2030, PredictedMarketSize: 500, PredictedAdoptionRate: 72}},
	}
	ir := models.IndustryRegionData{
		Industries: models.Shares{{Name: "Technology", Value: 78.5}},
		Regions:    models.Shares{{Name: "Europe", Value: 58.4}},
	}
	return dashboard.NewChartSet(loadID, charts.BuildAll(a, ir))
}

func TestChartSet_PNGIsCached(t *testing.T) {
	s := sampleSet("one")

	first, err := s.PNG(context.Background(), charts.IDMarket)
	if err != nil {
		t.Fatalf("PNG failed: %v", err)
	}
	if !bytes.HasPrefix(first, []byte("\x89PNG")) {
		t.Error("output does not start with the PNG signature")
	}
	second, err := s.PNG(context.Background(), charts.IDMarket)
	if err != nil {
		t.Fatalf("second PNG failed: %v", err)
	}
	if &first[0] != &second[0] {
		t.Error("second call should return the cached image")
	}
}

func TestChartSet_UnknownChart(t *testing.T) {
	s := sampleSet("one")
	if _, err := s.PNG(context.Background(), "pie"); !errors.Is(err, dashboard.ErrUnknownChart) {
		t.Errorf("expected ErrUnknownChart, got %v", err)
	}
}

func TestChartSet_DisposeIsIdempotent(t *testing.T) {
	s := sampleSet("one")
	s.Dispose()
	s.Dispose()

	if !s.Disposed() || s.Len() != 0 {
		t.Error("disposed set should be empty")
	}
	if _, err := s.PNG(context.Background(), charts.IDRegion); !errors.Is(err, dashboard.ErrDisposed) {
		t.Errorf("expected ErrDisposed, got %v", err)
	}
}

func TestBoard_Swap(t *testing.T) {
	var b dashboard.Board
	if b.Current() != nil {
		t.Fatal("new board should be empty")
	}

	first := sampleSet("first")
	second := sampleSet("second")

	b.Swap(first)
	b.Swap(first) // same set again is not disposed
	if first.Disposed() {
		t.Fatal("re-swapping the current set should not dispose it")
	}

	b.Swap(second)
	if !first.Disposed() {
		t.Error("previous set should be disposed")
	}
	if b.Current() != second {
		t.Error("board should hold the new set")
	}

	b.Dispose()
	if !second.Disposed() || b.Current() != nil {
		t.Error("Dispose should release the current set and empty the board")
	}
}
