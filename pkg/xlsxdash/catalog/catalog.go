// Package catalog loads and validates the ordered list of dashboard charts.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/chart"
	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtin []byte

// Catalog is the page heading plus the charts in grid order.
type Catalog struct {
	// Title is the page title.
	Title string `yaml:"title" json:"title"`
	// Description is the Markdown introduction shown under the title.
	Description string `yaml:"description" json:"description"`
	// Charts lists the entries; their order is the grid order.
	Charts []models.ChartSpec `yaml:"charts" json:"charts"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(builtin)
}

// Load reads a catalog file. An empty path returns the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Lookup returns the chart with the given key.
func (c *Catalog) Lookup(key string) (models.ChartSpec, bool) {
	for _, spec := range c.Charts {
		if spec.Key == key {
			return spec, true
		}
	}
	return models.ChartSpec{}, false
}

// Validate reports every structural problem in the catalog.
func (c *Catalog) Validate() error {
	if len(c.Charts) == 0 {
		return errors.New("catalog has no charts")
	}

	var errs []error
	keys := make(map[string]int, len(c.Charts))
	for i, spec := range c.Charts {
		if prev, dup := keys[spec.Key]; dup {
			errs = append(errs, fmt.Errorf("chart %d: duplicate key %q (also chart %d)", i+1, spec.Key, prev+1))
		}
		keys[spec.Key] = i
		for _, err := range validateChart(spec) {
			errs = append(errs, fmt.Errorf("chart %d (%q): %w", i+1, spec.Key, err))
		}
	}
	return errors.Join(errs...)
}

func validateChart(spec models.ChartSpec) []error {
	var errs []error
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if spec.Key == "" {
		add("key is required")
	}
	if spec.Title == "" {
		add("title is required")
	}
	if spec.Category.Name == "" {
		add("category name is required")
	}
	if spec.Limit < 0 {
		add("limit must not be negative, got %d", spec.Limit)
	}
	if spec.Size.Width < 0 || spec.Size.Height < 0 {
		add("size must not be negative")
	}

	want := spec.Kind.PanelCount()
	if want == 0 {
		add("unknown kind %q (must be one of %v)", spec.Kind, models.Kinds)
		return errs
	}
	if len(spec.Panels) != want {
		add("kind %q needs %d panel(s), got %d", spec.Kind, want, len(spec.Panels))
	}
	if spec.Kind.IsLine() && spec.Period == nil {
		add("kind %q requires a period", spec.Kind)
	}
	if spec.Period != nil && (spec.Period.Year == "" || spec.Period.Quarter == "") {
		add("period needs both year and quarter columns")
	}

	for j, p := range spec.Panels {
		if p.Title == "" {
			add("panel %d: title is required", j+1)
		}
		if len(p.Series) == 0 {
			add("panel %d: at least one series is required", j+1)
		}
		if spec.Kind == models.KindGroupedBar && len(p.Series) < 2 {
			add("panel %d: grouped bars need at least two series", j+1)
		}
		for k, s := range p.Series {
			if s.Measure == "" {
				add("panel %d series %d: measure is required", j+1, k+1)
			}
			if _, err := chart.ParseColor(s.Color, k); err != nil {
				add("panel %d series %d: %v", j+1, k+1, err)
			}
		}
	}
	return errs
}
