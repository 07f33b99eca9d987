package charts

// Chart.js configuration shapes. Only the fields the dashboard sets are
// modelled; the page script passes the object to new Chart() unchanged
// apart from wiring tooltipLabels into the tooltip callback.

type JSConfig struct {
	Type    Kind      `json:"type"`
	Data    JSData    `json:"data"`
	Options JSOptions `json:"options"`
}

type JSData struct {
	Labels   []string    `json:"labels,omitempty"`
	Datasets []JSDataset `json:"datasets"`
}

type JSDataset struct {
	Label           string   `json:"label"`
	Data            any      `json:"data"`
	BorderColor     any      `json:"borderColor,omitempty"`
	BackgroundColor any      `json:"backgroundColor,omitempty"`
	BorderDash      []int    `json:"borderDash,omitempty"`
	Fill            bool     `json:"fill"`
	Tension         float64  `json:"tension"`
	TooltipLabels   []string `json:"tooltipLabels,omitempty"`
}

type JSOptions struct {
	Responsive  bool               `json:"responsive"`
	Interaction *JSInteraction     `json:"interaction,omitempty"`
	Scales      map[string]JSScale `json:"scales,omitempty"`
	Plugins     JSPlugins          `json:"plugins"`
}

type JSInteraction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

type JSScale struct {
	Type        string   `json:"type,omitempty"`
	BeginAtZero bool     `json:"beginAtZero,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Title       *JSTitle `json:"title,omitempty"`
	Ticks       *JSTicks `json:"ticks,omitempty"`
}

type JSTicks struct {
	StepSize  float64 `json:"stepSize,omitempty"`
	Precision *int    `json:"precision,omitempty"`
}

type JSTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type JSPlugins struct {
	Title  JSTitle  `json:"title"`
	Legend JSLegend `json:"legend"`
}

type JSLegend struct {
	Position string `json:"position"`
}

// palette is the fixed set of segment and line colours.
var palette = []string{
	"#3b82f6", "#f59e0b", "#10b981", "#ef4444",
	"#8b5cf6", "#06b6d4", "#ec4899", "#84cc16",
}

func fillColor(hex string) string { return hex + "33" }

func ptr[T any](v T) *T { return &v }

// ChartJS converts c into a Chart.js configuration.
func (c Chart) ChartJS() JSConfig {
	cfg := JSConfig{
		Type: c.Kind,
		Options: JSOptions{
			Responsive: true,
			Plugins: JSPlugins{
				Title:  JSTitle{Display: true, Text: c.Title},
				Legend: JSLegend{Position: "top"},
			},
		},
	}

	switch c.Kind {
	case KindLine:
		// Hovering a year highlights both series at that year.
		cfg.Options.Interaction = &JSInteraction{Mode: "index", Intersect: false}
		cfg.Options.Scales = map[string]JSScale{
			"x": {
				Type:  "linear",
				Title: &JSTitle{Display: true, Text: c.XLabel},
				Ticks: &JSTicks{StepSize: 1, Precision: ptr(0)},
			},
			"y": c.yScale(),
		}
		for i, s := range c.Series {
			col := palette[i%len(palette)]
			ds := JSDataset{
				Label:           s.Name,
				Data:            s.Points,
				BorderColor:     col,
				BackgroundColor: fillColor(col),
				Fill:            true,
			}
			if s.Dashed {
				ds.BorderDash = []int{5, 5}
			}
			cfg.Data.Datasets = append(cfg.Data.Datasets, ds)
		}

	case KindDoughnut:
		colors := make([]string, len(c.Values))
		for i := range colors {
			colors[i] = palette[i%len(palette)]
		}
		cfg.Options.Plugins.Legend.Position = "right"
		cfg.Data.Labels = c.Labels
		cfg.Data.Datasets = []JSDataset{{
			Label:           c.Title,
			Data:            c.Values,
			BackgroundColor: colors,
			TooltipLabels:   c.TooltipLabels,
		}}

	case KindBar:
		cfg.Options.Scales = map[string]JSScale{"y": c.yScale()}
		cfg.Options.Plugins.Legend.Position = "top"
		cfg.Data.Labels = c.Labels
		cfg.Data.Datasets = []JSDataset{{
			Label:           "AI Adoption Rate (%)",
			Data:            c.Values,
			BackgroundColor: palette[2],
			TooltipLabels:   c.TooltipLabels,
		}}
	}
	return cfg
}

func (c Chart) yScale() JSScale {
	s := JSScale{
		BeginAtZero: true,
		Min:         ptr(0.0),
	}
	if c.YLabel != "" {
		s.Title = &JSTitle{Display: true, Text: c.YLabel}
	}
	if c.YMax > 0 {
		s.Max = ptr(c.YMax)
	}
	return s
}
