package plotting

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Figure is a grid of panels under a shared title. Nil panels leave their
// slot empty.
type Figure struct {
	Title  string
	Rows   int
	Cols   int
	Panels []*plot.Plot
}

func NewFigure(title string, rows, cols int) *Figure {
	return &Figure{Title: title, Rows: rows, Cols: cols, Panels: make([]*plot.Plot, rows*cols)}
}

// Set places p at row r, column c.
func (f *Figure) Set(r, c int, p *plot.Plot) error {
	if r < 0 || r >= f.Rows || c < 0 || c >= f.Cols {
		return fmt.Errorf("panel %d,%d outside %dx%d grid", r, c, f.Rows, f.Cols)
	}
	f.Panels[r*f.Cols+c] = p
	return nil
}

func (f *Figure) grid() [][]*plot.Plot {
	out := make([][]*plot.Plot, f.Rows)
	for r := range out {
		out[r] = f.Panels[r*f.Cols : (r+1)*f.Cols]
	}
	return out
}

// Save renders the figure as a PNG at path.
func (f *Figure) Save(path string, s Style) error {
	if f.Rows <= 0 || f.Cols <= 0 {
		return fmt.Errorf("figure %q has no panels", f.Title)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("figure %q has no size", f.Title)
	}
	if s.DPI <= 0 {
		s.DPI = vgimg.DefaultDPI
	}
	img := vgimg.NewWith(
		vgimg.UseWH(s.Width, s.Height),
		vgimg.UseDPI(s.DPI),
		vgimg.UseBackgroundColor(s.background()),
	)
	dc := draw.New(img)

	if f.Title != "" {
		sty := titleStyle(s)
		rect := sty.Rectangle(f.Title)
		pad := vg.Points(s.FontSize / 2)
		descent := sty.FontExtents().Descent
		dc.FillText(sty, vg.Point{X: dc.Center().X, Y: dc.Max.Y - pad + descent}, f.Title)
		dc = draw.Crop(dc, 0, 0, 0, -(rect.Size().Y + 2*pad))
	}

	tiles := draw.Tiles{
		Rows:      f.Rows,
		Cols:      f.Cols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	grid := f.grid()
	canvases := plot.Align(grid, tiles, dc)
	for r, row := range grid {
		for c, p := range row {
			if p != nil {
				p.Draw(canvases[r][c])
			}
		}
	}
	return writePNG(path, img)
}

// Save renders a single plot as a PNG at path.
func Save(p *plot.Plot, path string, s Style) error {
	fig := NewFigure("", 1, 1)
	fig.Panels[0] = p
	return fig.Save(path, s)
}

func titleStyle(s Style) text.Style {
	sty := plot.New().Title.TextStyle
	sty.Font.Size = vg.Points(s.FontSize * 1.25)
	sty.YAlign = draw.YTop
	return sty
}

func writePNG(path string, img *vgimg.Canvas) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
