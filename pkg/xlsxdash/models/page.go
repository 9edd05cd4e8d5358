package models

// SlotStatus is the outcome of rendering one grid slot.
type SlotStatus string

const (
	// SlotOK means the chart rendered.
	SlotOK SlotStatus = "ok"
	// SlotSourceNotFound means the source file was missing.
	SlotSourceNotFound SlotStatus = "source_not_found"
	// SlotRenderFailed means loading, preparing or drawing failed.
	SlotRenderFailed SlotStatus = "render_failed"
)

// Slot is one cell of the dashboard grid.
type Slot struct {
	// Key is the catalog key of the entry.
	Key string `json:"key"`
	// Title is the heading shown above the chart.
	Title string `json:"title"`
	// Status is the render outcome.
	Status SlotStatus `json:"status"`
	// Image holds the encoded chart when Status is SlotOK.
	Image []byte `json:"-"`
	// MediaType is the MIME type of Image.
	MediaType string `json:"media_type,omitempty"`
	// Error is the user-visible message when Status is not SlotOK.
	Error string `json:"error,omitempty"`
}

// GridRow is one row of the two-column grid. Right is nil when the catalog has an odd length.
type GridRow struct {
	Left  *Slot `json:"left"`
	Right *Slot `json:"right,omitempty"`
}

// Page is a fully rendered dashboard.
type Page struct {
	// Title is the page heading.
	Title string `json:"title"`
	// Description is the Markdown introduction.
	Description string `json:"description"`
	// Rows is the grid in catalog order.
	Rows []GridRow `json:"rows"`
	// Rendered counts slots with SlotOK.
	Rendered int `json:"rendered"`
	// Failed counts slots with an error.
	Failed int `json:"failed"`
}

// Slots returns every populated slot in catalog order.
func (p *Page) Slots() []*Slot {
	var out []*Slot
	for _, r := range p.Rows {
		if r.Left != nil {
			out = append(out, r.Left)
		}
		if r.Right != nil {
			out = append(out, r.Right)
		}
	}
	return out
}
