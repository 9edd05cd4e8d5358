// Package models defines data structures shared by the dashboard packages.
package models

// Kind is the chart layout drawn for a catalog entry.
type Kind string

const (
	// KindBar draws one measure per category as a single bar chart.
	KindBar Kind = "bar"
	// KindDualBar draws two side-by-side bar panels, each sorted by its own measure.
	KindDualBar Kind = "dual-bar"
	// KindGroupedBar draws two or more measures as adjacent bars sharing one category axis.
	KindGroupedBar Kind = "grouped-bar"
	// KindDualLine draws two stacked line panels over a synthesized "year Qn" axis.
	KindDualLine Kind = "dual-line"
)

// Kinds lists every supported Kind in catalog documentation order.
var Kinds = []Kind{KindBar, KindDualBar, KindGroupedBar, KindDualLine}

// PanelCount returns how many panels a chart of this kind has, or 0 for unknown kinds.
func (k Kind) PanelCount() int {
	switch k {
	case KindBar, KindGroupedBar:
		return 1
	case KindDualBar, KindDualLine:
		return 2
	}
	return 0
}

// IsLine reports whether the kind keeps source row order instead of sorting.
func (k Kind) IsLine() bool {
	return k == KindDualLine
}

// Column names a source column and the label shown on its axis.
type Column struct {
	// Name is the header text in the source spreadsheet.
	Name string `yaml:"name" json:"name"`
	// Label is the axis label.
	Label string `yaml:"label" json:"label"`
}

// Period describes how a category label is synthesized from year and quarter columns.
type Period struct {
	// Year is the column holding the year.
	Year string `yaml:"year" json:"year"`
	// Quarter is the column holding the quarter number.
	Quarter string `yaml:"quarter" json:"quarter"`
}

// Size is the figure size in inches.
type Size struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// SeriesSpec describes one plotted measure.
type SeriesSpec struct {
	// Measure is the numeric source column.
	Measure string `yaml:"measure" json:"measure"`
	// Name is the legend entry (grouped bars only).
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// Color is a named or #rrggbb colour; empty selects the default palette.
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// PanelSpec describes one sub-chart of a figure.
type PanelSpec struct {
	// Title is drawn above the panel.
	Title string `yaml:"title" json:"title"`
	// YLabel is the value axis label.
	YLabel string `yaml:"y_label" json:"y_label"`
	// SortBy is the measure rows are sorted by, descending. Defaults to the first series.
	SortBy string `yaml:"sort_by,omitempty" json:"sort_by,omitempty"`
	// Series lists the plotted measures.
	Series []SeriesSpec `yaml:"series" json:"series"`
}

// SortColumn returns the measure the panel is sorted by.
func (p PanelSpec) SortColumn() string {
	if p.SortBy != "" {
		return p.SortBy
	}
	if len(p.Series) > 0 {
		return p.Series[0].Measure
	}
	return ""
}

// ChartSpec is the declarative description of one dashboard entry.
type ChartSpec struct {
	// Key identifies the source file, e.g. "1.1" for 1.1.xlsx.
	Key string `yaml:"key" json:"key"`
	// Title is the slot heading and the figure title.
	Title string `yaml:"title" json:"title"`
	// Kind selects the chart layout.
	Kind Kind `yaml:"kind" json:"kind"`
	// Category is the categorical axis column.
	Category Column `yaml:"category" json:"category"`
	// Period, when set, synthesizes Category.Name from year and quarter columns.
	Period *Period `yaml:"period,omitempty" json:"period,omitempty"`
	// GroupBySum aggregates rows sharing a category by summing every measure.
	GroupBySum bool `yaml:"group_by_sum,omitempty" json:"group_by_sum,omitempty"`
	// Limit keeps only the first Limit rows after sorting (0 keeps all).
	Limit int `yaml:"limit,omitempty" json:"limit,omitempty"`
	// Size is the figure size; zero selects a default for the kind.
	Size Size `yaml:"size,omitempty" json:"size,omitempty"`
	// Panels lists the sub-charts.
	Panels []PanelSpec `yaml:"panels" json:"panels"`
}

// Measures returns every measure column the chart reads, without duplicates, in first-use order.
func (s ChartSpec) Measures() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, p := range s.Panels {
		for _, ser := range p.Series {
			add(ser.Measure)
		}
		add(p.SortBy)
	}
	return out
}

// SourceColumns returns the columns that must be present in the source table.
func (s ChartSpec) SourceColumns() []string {
	var cols []string
	if s.Period != nil {
		cols = append(cols, s.Period.Year, s.Period.Quarter)
	} else {
		cols = append(cols, s.Category.Name)
	}
	return append(cols, s.Measures()...)
}
