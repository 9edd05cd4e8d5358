// Package chart draws prepared panel data as gonum/plot figures.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
)

// ErrClosed is returned when writing a figure after Close.
var ErrClosed = errors.New("figure is closed")

// Formats lists the image formats WriteTo accepts.
var Formats = map[string]string{
	"png": "image/png",
	"svg": "image/svg+xml",
}

// defaultSizes are figure sizes in inches per kind.
var defaultSizes = map[models.Kind]models.Size{
	models.KindBar:        {Width: 12, Height: 7},
	models.KindDualBar:    {Width: 20, Height: 8},
	models.KindGroupedBar: {Width: 12, Height: 7},
	models.KindDualLine:   {Width: 12, Height: 10},
}

// Series is one plotted measure.
type Series struct {
	Name   string
	Color  string
	Values []float64
}

// Panel is one sub-chart: its labels, the categories in plotted order and its series.
type Panel struct {
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Series     []Series

	plot *plot.Plot
}

// Figure is a drawn chart. The caller owns it and must Close it once written.
type Figure struct {
	// Title is the catalog title of the entry.
	Title  string
	Kind   models.Kind
	Panels []*Panel
	// Rows and Cols give the panel grid: 1x2 for dual bars, 2x1 for dual lines.
	Rows, Cols int
	Width      vg.Length
	Height     vg.Length

	closed bool
}

// New draws the panels of a ChartSpec. Panels must already be sorted and truncated.
func New(spec models.ChartSpec, panels []*Panel) (*Figure, error) {
	if want := spec.Kind.PanelCount(); want == 0 || len(panels) != want {
		return nil, fmt.Errorf("kind %q needs %d panel(s), got %d", spec.Kind, spec.Kind.PanelCount(), len(panels))
	}

	size := spec.Size
	if size.Width <= 0 || size.Height <= 0 {
		size = defaultSizes[spec.Kind]
	}
	fig := &Figure{
		Title:  spec.Title,
		Kind:   spec.Kind,
		Panels: panels,
		Rows:   1,
		Cols:   len(panels),
		Width:  vg.Length(size.Width) * vg.Inch,
		Height: vg.Length(size.Height) * vg.Inch,
	}
	if spec.Kind.IsLine() {
		fig.Rows, fig.Cols = len(panels), 1
	}

	panelWidth := fig.Width / vg.Length(fig.Cols)
	for _, p := range panels {
		var err error
		if spec.Kind.IsLine() {
			p.plot, err = drawLines(p)
		} else {
			p.plot, err = drawBars(p, panelWidth)
		}
		if err != nil {
			return nil, fmt.Errorf("panel %q: %w", p.Title, err)
		}
	}
	return fig, nil
}

// WriteTo encodes the figure as png or svg.
func (f *Figure) WriteTo(w io.Writer, format string, dpi int) (int64, error) {
	if f.closed {
		return 0, ErrClosed
	}

	var c vg.CanvasWriterTo
	switch format {
	case "png":
		if dpi <= 0 {
			dpi = vgimg.DefaultDPI
		}
		c = vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(f.Width, f.Height), vgimg.UseDPI(dpi))}
	case "svg":
		c = vgsvg.New(f.Width, f.Height)
	default:
		return 0, fmt.Errorf("unsupported image format %q", format)
	}

	plots := make([][]*plot.Plot, f.Rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, f.Cols)
		for col := range plots[r] {
			plots[r][col] = f.Panels[r*f.Cols+col].plot
		}
	}
	tiles := draw.Tiles{
		Rows:      f.Rows,
		Cols:      f.Cols,
		PadX:      6 * vg.Millimeter,
		PadY:      6 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}

	canvases := plot.Align(plots, tiles, draw.New(c))
	for r := range plots {
		for col := range plots[r] {
			plots[r][col].Draw(canvases[r][col])
		}
	}
	return c.WriteTo(w)
}

// Close releases the plots. It is safe to call more than once.
func (f *Figure) Close() error {
	for _, p := range f.Panels {
		p.plot = nil
	}
	f.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (f *Figure) Closed() bool {
	return f.closed
}

func newPanelPlot(p *Panel) *plot.Plot {
	pl := plot.New()
	pl.Title.Text = p.Title
	pl.X.Label.Text = p.XLabel
	pl.Y.Label.Text = p.YLabel
	pl.Y.Tick.Marker = plainTicks{}
	pl.Add(plotter.NewGrid())
	return pl
}

func rotateCategoryTicks(pl *plot.Plot) {
	pl.X.Tick.Label.Rotation = math.Pi / 2
	pl.X.Tick.Label.XAlign = draw.XRight
	pl.X.Tick.Label.YAlign = draw.YCenter
}

func drawBars(p *Panel, panelWidth vg.Length) (*plot.Plot, error) {
	pl := newPanelPlot(p)

	n := len(p.Categories)
	if n == 0 {
		return nil, fmt.Errorf("no rows to plot")
	}
	// Bars share 70% of the panel width, capped at 40pt each.
	width := panelWidth * 0.7 / vg.Length(n*len(p.Series))
	if maxWidth := vg.Points(40); width > maxWidth {
		width = maxWidth
	}

	for i, s := range p.Series {
		if len(s.Values) != n {
			return nil, fmt.Errorf("series %q has %d values for %d categories", s.Name, len(s.Values), n)
		}
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), width)
		if err != nil {
			return nil, err
		}
		col, err := ParseColor(s.Color, i)
		if err != nil {
			return nil, err
		}
		bars.Color = col
		bars.LineStyle.Width = 0
		// Center the group of bars on the category tick.
		bars.Offset = width * (vg.Length(i) - vg.Length(len(p.Series)-1)/2)
		pl.Add(bars)
		if len(p.Series) > 1 {
			pl.Legend.Add(s.Name, bars)
		}
	}
	if len(p.Series) > 1 {
		pl.Legend.Top = true
	}

	pl.NominalX(p.Categories...)
	rotateCategoryTicks(pl)
	return pl, nil
}

func drawLines(p *Panel) (*plot.Plot, error) {
	pl := newPanelPlot(p)

	n := len(p.Categories)
	if n == 0 {
		return nil, fmt.Errorf("no rows to plot")
	}
	for i, s := range p.Series {
		if len(s.Values) != n {
			return nil, fmt.Errorf("series %q has %d values for %d categories", s.Name, len(s.Values), n)
		}
		xys := make(plotter.XYs, n)
		for j, v := range s.Values {
			xys[j] = plotter.XY{X: float64(j), Y: v}
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, err
		}
		col, err := ParseColor(s.Color, i)
		if err != nil {
			return nil, err
		}
		line.Color = col
		points.Color = col
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(3)
		pl.Add(line, points)
		if len(p.Series) > 1 {
			pl.Legend.Add(s.Name, line, points)
		}
	}

	pl.NominalX(p.Categories...)
	rotateCategoryTicks(pl)
	return pl, nil
}
