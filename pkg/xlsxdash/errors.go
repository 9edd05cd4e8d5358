package xlsxdash

import (
	"errors"
	"fmt"
)

// ErrSourceNotFound indicates the source spreadsheet for a chart is absent or cannot be opened.
var ErrSourceNotFound = errors.New("source not found")

// ErrInvalidFormat indicates an unsupported image format was requested.
var ErrInvalidFormat = errors.New("invalid image format")

// Render stages reported by RenderError.
const (
	StageLoad    = "load"
	StagePrepare = "prepare"
	StageDraw    = "draw"
	StageEncode  = "encode"
)

// RenderError represents a failure rendering one chart other than a missing source.
type RenderError struct {
	Key   string
	Stage string // "load", "prepare", "draw", "encode"
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error for chart %q (%s): %v", e.Key, e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// NewRenderError creates a new RenderError.
func NewRenderError(key, stage string, err error) *RenderError {
	return &RenderError{
		Key:   key,
		Stage: stage,
		Err:   err,
	}
}

// sourceNotFound wraps a missing-file error so errors.Is matches ErrSourceNotFound.
func sourceNotFound(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSourceNotFound, path, err)
}
