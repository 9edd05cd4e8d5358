package xlsxdash

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/chart"
	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/frame"
	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/models"
	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/parser"
)

// Load reads the source table of a chart into a frame.
// A missing or unopenable file yields an error matching ErrSourceNotFound; anything else is a
// *RenderError.
func Load(spec models.ChartSpec, opts Options) (*frame.Frame, error) {
	path := opts.SourcePath(spec.Key)

	table, err := parser.ReadTable(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, parser.ErrUnreadable) {
			return nil, sourceNotFound(path, err)
		}
		return nil, NewRenderError(spec.Key, StageLoad, err)
	}

	f, err := frame.FromTable(table)
	if err != nil {
		return nil, NewRenderError(spec.Key, StageLoad, err)
	}
	return f, nil
}

// Prepare aggregates, sorts and truncates a loaded frame into the panels a chart plots.
func Prepare(spec models.ChartSpec, f *frame.Frame) ([]*chart.Panel, error) {
	fail := func(err error) ([]*chart.Panel, error) {
		return nil, NewRenderError(spec.Key, StagePrepare, err)
	}

	if err := f.Require(spec.SourceColumns()...); err != nil {
		return fail(err)
	}
	if f.Len() == 0 {
		return fail(fmt.Errorf("no data rows below the header"))
	}

	var err error
	if spec.Period != nil {
		if f, err = f.WithPeriod(spec.Category.Name, spec.Period.Year, spec.Period.Quarter); err != nil {
			return fail(err)
		}
	}
	if spec.GroupBySum {
		if f, err = f.GroupBySum(spec.Category.Name, spec.Measures()...); err != nil {
			return fail(err)
		}
	}

	panels := make([]*chart.Panel, 0, len(spec.Panels))
	for _, ps := range spec.Panels {
		view := f
		// Line panels are time series and keep source order.
		if !spec.Kind.IsLine() {
			if view, err = f.SortDesc(ps.SortColumn()); err != nil {
				return fail(err)
			}
			view = view.Head(spec.Limit)
		}

		categories, err := view.Strings(spec.Category.Name)
		if err != nil {
			return fail(err)
		}
		panel := &chart.Panel{
			Title:      ps.Title,
			XLabel:     spec.Category.Label,
			YLabel:     ps.YLabel,
			Categories: categories,
		}
		for _, s := range ps.Series {
			values, err := view.Floats(s.Measure)
			if err != nil {
				return fail(err)
			}
			panel.Series = append(panel.Series, chart.Series{Name: s.Name, Color: s.Color, Values: values})
		}
		panels = append(panels, panel)
	}
	return panels, nil
}

// Check loads and prepares a chart without drawing it.
func Check(spec models.ChartSpec, opts Options) error {
	f, err := Load(spec, opts)
	if err != nil {
		return err
	}
	_, err = Prepare(spec, f)
	return err
}

// Render loads, prepares and draws one chart. The caller owns the figure and must Close it.
func Render(spec models.ChartSpec, opts Options) (fig *chart.Figure, err error) {
	f, err := Load(spec, opts)
	if err != nil {
		return nil, err
	}
	panels, err := Prepare(spec, f)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			fig, err = nil, NewRenderError(spec.Key, StageDraw, fmt.Errorf("panic: %v", r))
		}
	}()
	fig, err = chart.New(spec, panels)
	if err != nil {
		return nil, NewRenderError(spec.Key, StageDraw, err)
	}
	return fig, nil
}

// Encode writes a rendered figure in the configured image format.
func Encode(w io.Writer, key string, fig *chart.Figure, opts Options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewRenderError(key, StageEncode, fmt.Errorf("panic: %v", r))
		}
	}()
	if _, err := fig.WriteTo(w, string(opts.ImageFormat()), opts.DPI); err != nil {
		return NewRenderError(key, StageEncode, err)
	}
	return nil
}
