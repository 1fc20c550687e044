package plotting

import (
	"errors"
	"image/color"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when a renderer has nothing finite to draw.
var ErrNoData = errors.New("no data to plot")

// groupSpan is the share of a category slot covered by its hue boxes or bars.
const groupSpan = 0.8

type cell struct {
	category string
	hue      string
}

// Grouped holds values by x category and hue, in insertion order unless the
// order is given up front.
type Grouped struct {
	Categories []string
	Hues       []string

	cells map[cell][]float64
}

func NewGrouped(categories, hues []string) *Grouped {
	return &Grouped{
		Categories: append([]string(nil), categories...),
		Hues:       append([]string(nil), hues...),
		cells:      make(map[cell][]float64),
	}
}

// Add records v for the category and hue. NaN and infinite values are
// dropped.
func (g *Grouped) Add(category, hue string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if !containsString(g.Categories, category) {
		g.Categories = append(g.Categories, category)
	}
	if !containsString(g.Hues, hue) {
		g.Hues = append(g.Hues, hue)
	}
	key := cell{category: category, hue: hue}
	g.cells[key] = append(g.cells[key], v)
}

func (g *Grouped) Values(category, hue string) []float64 {
	return g.cells[cell{category: category, hue: hue}]
}

func (g *Grouped) All() []float64 {
	var out []float64
	for _, values := range g.cells {
		out = append(out, values...)
	}
	return out
}

func (g *Grouped) Len() int {
	n := 0
	for _, values := range g.cells {
		n += len(values)
	}
	return n
}

// position is the x coordinate of hue j within category i.
func (g *Grouped) position(i, j int) float64 {
	w := groupSpan / float64(len(g.Hues))
	return float64(i) - groupSpan/2 + (float64(j)+0.5)*w
}

func (g *Grouped) slotWidth() float64 {
	return groupSpan / float64(len(g.Hues))
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// Panel is the per-plot labelling.
type Panel struct {
	Title    string
	XLabel   string
	YLabel   string
	HueTitle string
	Scale    Scale
	NoLegend bool
}

func decorate(p *plot.Plot, g *Grouped, panel Panel, s Style) {
	p.X.Label.Text = panel.XLabel
	p.Y.Label.Text = panel.YLabel
	p.NominalX(g.Categories...)
	p.X.Min = -0.5
	p.X.Max = float64(len(g.Categories)) - 0.5
	if panel.NoLegend {
		return
	}
	p.Legend.Top = true
	if panel.HueTitle != "" {
		p.Legend.Add(panel.HueTitle)
	}
	for j, hue := range g.Hues {
		p.Legend.Add(hue, swatch{fill: s.Color(j)})
	}
}

// swatch is the legend thumbnail of one hue.
type swatch struct {
	fill color.Color
}

func (sw swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(sw.fill, pts)
}

// hueBox scales a box plot to its data-space slot at draw time.
type hueBox struct {
	*plotter.BoxPlot
	dataWidth float64
}

func (b hueBox) Plot(c draw.Canvas, p *plot.Plot) {
	trX, _ := p.Transforms(&c)
	w := trX(b.Location+b.dataWidth/2) - trX(b.Location-b.dataWidth/2)
	b.Width = w * 0.9
	b.CapWidth = b.Width / 2
	b.BoxPlot.Plot(c, p)
}

// BoxPlot draws one box per (category, hue) cell with values.
func BoxPlot(g *Grouped, panel Panel, s Style) (*plot.Plot, error) {
	if g.Len() == 0 {
		return nil, ErrNoData
	}
	p := newPlot(s, panel.Title)
	for i, category := range g.Categories {
		for j, hue := range g.Hues {
			values := g.Values(category, hue)
			if len(values) == 0 {
				continue
			}
			box, err := plotter.NewBoxPlot(vg.Points(1), g.position(i, j), plotter.Values(values))
			if err != nil {
				return nil, err
			}
			box.FillColor = s.Color(j)
			p.Add(hueBox{BoxPlot: box, dataWidth: g.slotWidth()})
		}
	}
	decorate(p, g, panel, s)
	applyScale(p, panel.Scale, g.All())
	return p, nil
}

// BarSummary is a mean with its 95% confidence bounds.
type BarSummary struct {
	Mean, Low, High float64
	N               int
}

// Summarize computes the mean and a normal approximation 95% interval,
// mean ± 1.96 standard errors. Fewer than two values give no interval.
func Summarize(values []float64) BarSummary {
	n := len(values)
	if n == 0 {
		return BarSummary{Mean: math.NaN(), Low: math.NaN(), High: math.NaN()}
	}
	mean := stat.Mean(values, nil)
	if n < 2 {
		return BarSummary{Mean: mean, Low: mean, High: mean, N: n}
	}
	se := stat.StdDev(values, nil) / math.Sqrt(float64(n))
	return BarSummary{Mean: mean, Low: mean - 1.96*se, High: mean + 1.96*se, N: n}
}

type bar struct {
	x       float64
	summary BarSummary
	fill    color.Color
}

// hueBars draws mean bars with interval whiskers for every grouped cell.
type hueBars struct {
	bars  []bar
	width float64
	line  draw.LineStyle
}

func (h *hueBars) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	base := trY(math.Max(0, p.Y.Min))
	for _, b := range h.bars {
		left := trX(b.x - h.width/2)
		right := trX(b.x + h.width/2)
		top := trY(b.summary.Mean)
		pts := []vg.Point{
			{X: left, Y: base},
			{X: left, Y: top},
			{X: right, Y: top},
			{X: right, Y: base},
		}
		c.FillPolygon(b.fill, c.ClipPolygonY(pts))
		if b.summary.N < 2 {
			continue
		}
		x := trX(b.x)
		low, high := trY(b.summary.Low), trY(b.summary.High)
		capHalf := (right - left) / 4
		c.StrokeLines(h.line, c.ClipLinesY(
			[]vg.Point{{X: x, Y: low}, {X: x, Y: high}},
			[]vg.Point{{X: x - capHalf, Y: low}, {X: x + capHalf, Y: low}},
			[]vg.Point{{X: x - capHalf, Y: high}, {X: x + capHalf, Y: high}},
		)...)
	}
}

func (h *hueBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	ymin, ymax = 0, math.Inf(-1)
	for _, b := range h.bars {
		xmin = math.Min(xmin, b.x-h.width/2)
		xmax = math.Max(xmax, b.x+h.width/2)
		ymin = math.Min(ymin, math.Min(b.summary.Mean, b.summary.Low))
		ymax = math.Max(ymax, math.Max(b.summary.Mean, b.summary.High))
	}
	return xmin, xmax, ymin, ymax
}

// BarPlot draws the mean of every (category, hue) cell with its 95% interval.
func BarPlot(g *Grouped, panel Panel, s Style) (*plot.Plot, error) {
	if g.Len() == 0 {
		return nil, ErrNoData
	}
	p := newPlot(s, panel.Title)
	bars := &hueBars{
		width: g.slotWidth() * 0.95,
		line:  draw.LineStyle{Color: color.Gray{Y: 60}, Width: vg.Points(1.2)},
	}
	var extents []float64
	for i, category := range g.Categories {
		for j, hue := range g.Hues {
			values := g.Values(category, hue)
			if len(values) == 0 {
				continue
			}
			summary := Summarize(values)
			bars.bars = append(bars.bars, bar{x: g.position(i, j), summary: summary, fill: s.Color(j)})
			extents = append(extents, summary.Mean, summary.Low, summary.High)
		}
	}
	p.Add(bars)
	decorate(p, g, panel, s)
	applyScale(p, panel.Scale, extents)
	return p, nil
}

// Histogram bins values and scales every bin to the proportion of values it
// holds.
func Histogram(values []float64, bins int, fill color.Color, panel Panel, s Style) (*plot.Plot, error) {
	finite := make(plotter.Values, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return nil, ErrNoData
	}
	h, err := plotter.NewHist(finite, bins)
	if err != nil {
		return nil, err
	}
	for i := range h.Bins {
		h.Bins[i].Weight /= float64(len(finite))
	}
	h.FillColor = fill
	h.LineStyle.Width = 0

	p := newPlot(s, panel.Title)
	p.X.Label.Text = panel.XLabel
	p.Y.Label.Text = panel.YLabel
	p.Add(h)
	applyScale(p, panel.Scale, nil)
	return p, nil
}

// LinePlot draws ys against xs as a single thick line.
func LinePlot(xs, ys []float64, stroke color.Color, panel Panel, s Style) (*plot.Plot, error) {
	if len(xs) != len(ys) {
		return nil, errors.New("line plot needs as many x as y values")
	}
	if len(xs) == 0 {
		return nil, ErrNoData
	}
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Color = stroke
	line.Width = vg.Points(3)

	p := newPlot(s, panel.Title)
	p.X.Label.Text = panel.XLabel
	p.Y.Label.Text = panel.YLabel
	p.Add(line)
	applyScale(p, panel.Scale, ys)
	return p, nil
}
