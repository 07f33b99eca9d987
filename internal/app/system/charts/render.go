package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Default PNG size.
const (
	PNGWidth  = 8 * vg.Inch
	PNGHeight = 5 * vg.Inch
)

// WritePNG renders c as a PNG image of the default size.
func WritePNG(w io.Writer, c Chart) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(PNGWidth, PNGHeight, "png")
	if err != nil {
		return fmt.Errorf("charts: %s: create writer: %w", c.ID, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("charts: %s: write png: %w", c.ID, err)
	}
	return nil
}

// Plot builds the gonum plot for c.
func (c Chart) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)

	var err error
	switch c.Kind {
	case KindLine:
		err = c.plotLines(p)
	case KindBar:
		err = c.plotBars(p)
	case KindDoughnut:
		err = c.plotDoughnut(p)
	default:
		err = fmt.Errorf("unknown chart kind %q", c.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("charts: %s: %w", c.ID, err)
	}
	return p, nil
}

func parseHex(s string) color.RGBA {
	var r, g, b uint8
	fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func (c Chart) plotLines(p *plot.Plot) error {
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, s := range c.Series {
		if len(s.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			xys[j] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
		col := parseHex(palette[i%len(palette)])
		line.Color = col
		line.Width = vg.Points(2)
		fill := col
		fill.A = 0x33
		line.FillColor = fill
		if s.Dashed {
			line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		}
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	p.X.Tick.Marker = yearTicks{}
	c.clampY(p)
	return nil
}

func (c Chart) plotBars(p *plot.Plot) error {
	if len(c.Values) == 0 {
		return errors.New("no categories")
	}
	p.Y.Label.Text = c.YLabel
	p.Add(plotter.NewGrid())

	bars, err := plotter.NewBarChart(plotter.Values(c.Values), vg.Points(40))
	if err != nil {
		return err
	}
	bars.Color = parseHex(palette[2])
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(c.Labels...)
	c.clampY(p)
	return nil
}

func (c Chart) clampY(p *plot.Plot) {
	p.Y.Min = 0
	if c.YMax > 0 {
		p.Y.Max = c.YMax
	} else if p.Y.Max <= 0 {
		p.Y.Max = 1
	}
}

// yearTicks labels whole years only.
type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	lo, hi := math.Ceil(min), math.Floor(max)
	step := math.Max(1, math.Ceil((hi-lo)/10))
	for y := lo; y <= hi; y += step {
		ticks = append(ticks, plot.Tick{Value: y, Label: fmt.Sprintf("%.0f", y)})
	}
	return ticks
}

func (c Chart) plotDoughnut(p *plot.Plot) error {
	if len(c.Values) == 0 {
		return errors.New("no categories")
	}
	d := &doughnut{values: c.Values}
	for i := range c.Values {
		d.colors = append(d.colors, parseHex(palette[i%len(palette)]))
	}
	p.HideAxes()
	p.Add(d)
	for i, label := range c.Labels {
		if i < len(c.TooltipLabels) {
			label = c.TooltipLabels[i]
		}
		p.Legend.Add(label, swatch{d.colors[i]})
	}
	p.Legend.Left = false
	p.Legend.Top = true
	return nil
}

// doughnut draws values as annular sectors, clockwise from 12 o'clock,
// each proportional to its share of the total.
type doughnut struct {
	values []float64
	colors []color.Color
}

func (d *doughnut) Plot(c draw.Canvas, _ *plot.Plot) {
	var total float64
	for _, v := range d.values {
		if v > 0 {
			total += v
		}
	}
	if total == 0 {
		return
	}

	w, h := c.Max.X-c.Min.X, c.Max.Y-c.Min.Y
	center := vg.Point{X: c.Min.X + w/2, Y: c.Min.Y + h/2}
	outer := vg.Length(math.Min(float64(w), float64(h))) / 2 * 0.9
	inner := outer * 0.55

	start := math.Pi / 2
	for i, v := range d.values {
		if v <= 0 {
			continue
		}
		sweep := -2 * math.Pi * v / total
		var path vg.Path
		path.Move(polar(center, outer, start))
		path.Arc(center, outer, start, sweep)
		path.Line(polar(center, inner, start+sweep))
		path.Arc(center, inner, start+sweep, -sweep)
		path.Close()

		c.SetColor(d.colors[i])
		c.Fill(path)
		c.SetColor(color.White)
		c.SetLineWidth(vg.Points(1))
		c.Stroke(path)

		start += sweep
	}
}

func polar(center vg.Point, r vg.Length, angle float64) vg.Point {
	return vg.Point{
		X: center.X + r*vg.Length(math.Cos(angle)),
		Y: center.Y + r*vg.Length(math.Sin(angle)),
	}
}

// swatch is a filled legend thumbnail.
type swatch struct{ color.Color }

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.Color, pts)
}
