// Package xlsxdash renders a catalog of spreadsheet-backed charts into a two-column dashboard.
package xlsxdash

import (
	"fmt"
	"path/filepath"

	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/chart"
	"go.uber.org/zap"
)

// Format is the encoded image format of rendered charts.
type Format string

const (
	// FormatPNG encodes charts as PNG images.
	FormatPNG Format = "png"
	// FormatSVG encodes charts as SVG documents.
	FormatSVG Format = "svg"
)

// Options configures rendering behavior.
type Options struct {
	// DataDir is the directory holding the source files. Empty means the working directory.
	DataDir string
	// Extension is the source file extension including the dot. Empty means ".xlsx".
	Extension string
	// Format is the image format. Empty means png.
	Format Format
	// DPI is the raster resolution for png output. Zero selects the library default.
	DPI int
	// Logger receives per-chart progress. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns default rendering options.
func DefaultOptions() Options {
	return Options{
		Extension: ".xlsx",
		Format:    FormatPNG,
		DPI:       96,
	}
}

// SourcePath returns the expected source file for a catalog key.
func (o Options) SourcePath(key string) string {
	return filepath.Join(o.DataDir, o.SourceName(key))
}

// SourceName returns the expected source file name for a catalog key, e.g. "1.1.xlsx".
func (o Options) SourceName(key string) string {
	ext := o.Extension
	if ext == "" {
		ext = ".xlsx"
	}
	return key + ext
}

// ImageFormat returns the effective image format.
func (o Options) ImageFormat() Format {
	if o.Format == "" {
		return FormatPNG
	}
	return o.Format
}

// MediaType returns the MIME type of the effective image format.
func (o Options) MediaType() string {
	return chart.Formats[string(o.ImageFormat())]
}

// Validate checks the options.
func (o Options) Validate() error {
	if _, ok := chart.Formats[string(o.ImageFormat())]; !ok {
		return fmt.Errorf("%w: %q (must be png or svg)", ErrInvalidFormat, o.Format)
	}
	if o.DPI < 0 {
		return fmt.Errorf("dpi must not be negative, got %d", o.DPI)
	}
	return nil
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}
