package xlsxdash

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/catalog"
	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/models"
	"go.uber.org/zap"
)

// RenderImage renders one chart and returns the encoded image. The figure is closed on every path.
func RenderImage(spec models.ChartSpec, opts Options) ([]byte, error) {
	fig, err := Render(spec, opts)
	if err != nil {
		return nil, err
	}
	defer fig.Close()

	var buf bytes.Buffer
	if err := Encode(&buf, spec.Key, fig, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderSlot renders one chart into a grid slot. Failures never escape: they become the slot's
// inline error message and the heading is kept.
func RenderSlot(spec models.ChartSpec, opts Options) *models.Slot {
	start := time.Now()
	slot := &models.Slot{
		Key:   spec.Key,
		Title: spec.Title,
	}

	image, err := RenderImage(spec, opts)
	switch {
	case err == nil:
		slot.Status = models.SlotOK
		slot.Image = image
		slot.MediaType = opts.MediaType()
	case errors.Is(err, ErrSourceNotFound):
		slot.Status = models.SlotSourceNotFound
		slot.Error = SourceNotFoundMessage(spec, opts)
	default:
		slot.Status = models.SlotRenderFailed
		slot.Error = RenderFailureMessage(spec, err)
	}

	log := opts.logger().With(
		zap.String("key", spec.Key),
		zap.String("status", string(slot.Status)),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		log.Warn("chart not rendered", zap.Error(err))
	} else {
		log.Debug("chart rendered", zap.Int("bytes", len(image)))
	}
	return slot
}

// SourceNotFoundMessage is the inline message for a missing source file.
func SourceNotFoundMessage(spec models.ChartSpec, opts Options) string {
	return fmt.Sprintf("Error: File not found for '%s'. Please ensure '%s' is in the data directory and spelled exactly as shown.",
		spec.Title, opts.SourceName(spec.Key))
}

// RenderFailureMessage is the inline message for any other failure. It carries the cause text.
func RenderFailureMessage(spec models.ChartSpec, err error) string {
	return fmt.Sprintf("An unexpected error occurred while plotting '%s': %v. Make sure the spreadsheet is correctly formatted and contains data on the first sheet.",
		spec.Title, err)
}

// BuildPage renders every catalog entry in order and pairs the slots into two-column rows.
// Entry i goes left and entry i+1 right; an odd count leaves the last Right nil.
func BuildPage(cat *catalog.Catalog, opts Options) *models.Page {
	page := &models.Page{
		Title:       cat.Title,
		Description: cat.Description,
		Rows:        make([]models.GridRow, 0, (len(cat.Charts)+1)/2),
	}

	count := func(s *models.Slot) {
		if s.Status == models.SlotOK {
			page.Rendered++
		} else {
			page.Failed++
		}
	}

	for i := 0; i < len(cat.Charts); i += 2 {
		row := models.GridRow{Left: RenderSlot(cat.Charts[i], opts)}
		count(row.Left)
		if i+1 < len(cat.Charts) {
			row.Right = RenderSlot(cat.Charts[i+1], opts)
			count(row.Right)
		}
		page.Rows = append(page.Rows, row)
	}

	opts.logger().Info("dashboard built",
		zap.Int("charts", len(cat.Charts)),
		zap.Int("rendered", page.Rendered),
		zap.Int("failed", page.Failed),
	)
	return page
}
