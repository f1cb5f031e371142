package pivot

import (
	"sync"

	"github.com/chenjieyouge/vgrid/internal/grid/dom"
	"github.com/chenjieyouge/vgrid/internal/grid/scroller"
)

// Meta keys the pivot viewport adds to every rendered row's cell map,
// alongside the aggregated value-field cells, so a consumer can style
// group/subtotal/grand-total rows differently (the "sticky group
// row"/breadcrumb behavior described for the pivot rendering path).
const (
	MetaKind       = "__kind"
	MetaLevel      = "__level"
	MetaGroupField = "__groupField"
	MetaGroupValue = "__groupValue"
)

// PivotViewport virtualizes a flattened pivot row list the same way
// internal/grid/viewport virtualizes a plain Strategy-backed dataset, but
// over an already fully materialized []FlatRow: a pivot's tree is built
// and flattened synchronously from in-memory data, so there is no
// skeleton-row/async-fetch path to reconcile here.
type PivotViewport struct {
	mu sync.Mutex

	scroller *scroller.Scroller
	factory  dom.ElementFactory

	rows     []FlatRow
	rendered map[int]dom.Element
}

// NewPivotViewport constructs a PivotViewport with no rows yet; call
// SetRows once a tree has been built and flattened.
func NewPivotViewport(factory dom.ElementFactory) *PivotViewport {
	return &PivotViewport{
		factory:  factory,
		rendered: make(map[int]dom.Element),
	}
}

// SetRows replaces the flattened row list (e.g. after ToggleNode changes
// which nodes are expanded) and rebuilds the Scroller against the new
// row count. Callers must call UpdateVisibleRows afterward to reconcile
// the rendering surface.
func (pv *PivotViewport) SetRows(rows []FlatRow, rowHeight, viewportHeight, bufferRows int) {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	pv.rows = rows
	pv.scroller = scroller.New(rowHeight, len(rows), viewportHeight, bufferRows)
}

// UpdateVisibleRows recomputes the visible window from scrollTop and
// reconciles the rendered row map against it, mirroring
// internal/grid/viewport's UpdateVisibleRows minus the fetch step.
func (pv *PivotViewport) UpdateVisibleRows(scrollTop int) {
	pv.mu.Lock()
	defer pv.mu.Unlock()

	if pv.scroller == nil {
		return
	}
	start, end, translateY := pv.scroller.Window(scrollTop)
	pv.factory.SetTranslateY(translateY)

	for idx, el := range pv.rendered {
		if idx < start || idx > end || idx >= len(pv.rows) {
			pv.factory.Remove(el)
			delete(pv.rendered, idx)
		}
	}

	for i := start; i <= end && i < len(pv.rows); i++ {
		if _, ok := pv.rendered[i]; ok {
			continue
		}
		pv.rendered[i] = pv.factory.CreateRow(i, rowToCells(pv.rows[i]))
	}
}

// GetVisibleRows enumerates the currently rendered elements.
func (pv *PivotViewport) GetVisibleRows() []dom.Element {
	pv.mu.Lock()
	defer pv.mu.Unlock()

	out := make([]dom.Element, 0, len(pv.rendered))
	for _, el := range pv.rendered {
		out = append(out, el)
	}
	return out
}

func rowToCells(r FlatRow) map[string]any {
	cells := make(map[string]any, len(r.Data)+4)
	for k, v := range r.Data {
		cells[k] = v
	}
	cells[MetaKind] = string(r.Kind)
	cells[MetaLevel] = r.Level
	cells[MetaGroupField] = r.GroupField
	cells[MetaGroupValue] = r.GroupValue
	return cells
}
