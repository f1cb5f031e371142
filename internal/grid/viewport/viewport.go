// Package viewport implements the virtualized row window (spec §4.5):
// translating a scroll position into a row range via the Scroller,
// reconciling that range against whatever rows are currently rendered,
// and issuing skeleton-then-replace fetches for rows a paged-remote
// strategy hasn't loaded yet.
package viewport

import (
	"context"
	"sync"

	"github.com/chenjieyouge/vgrid/internal/grid/datasource"
	"github.com/chenjieyouge/vgrid/internal/grid/dom"
	"github.com/chenjieyouge/vgrid/internal/grid/scroller"
	"github.com/chenjieyouge/vgrid/internal/logging"
)

// Viewport owns the visible-row map and drives it from scroll position
// and data-strategy reads. It is safe for UpdateVisibleRows and the
// skeleton-replacement goroutines it spawns to run concurrently; its own
// state is guarded by a mutex, matching the reentrant-dispatch-queue
// discipline used by gridstate.Store (spec §5 describes a single-threaded
// cooperative model; this package uses explicit synchronization to get
// the same observable guarantees in Go).
type Viewport struct {
	mu sync.Mutex

	scroller *scroller.Scroller
	strategy datasource.Strategy
	factory  dom.ElementFactory
	logger   *logging.Logger

	rows       map[int]dom.Element
	scrollTop  int
	generation int
}

// New constructs a Viewport. logger may be nil.
func New(sc *scroller.Scroller, strategy datasource.Strategy, factory dom.ElementFactory, logger *logging.Logger) *Viewport {
	return &Viewport{
		scroller: sc,
		strategy: strategy,
		factory:  factory,
		logger:   logger,
		rows:     make(map[int]dom.Element),
	}
}

// SetScroller swaps the active Scroller, needed whenever totalRows
// changes (spec §4.5).
func (v *Viewport) SetScroller(sc *scroller.Scroller) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scroller = sc
}

// BumpGeneration advances the query-generation counter and returns its
// new value. The Query Coordinator calls this once per applyQuery; any
// fetch issued under a prior generation whose result settles afterward is
// discarded by fetchAndReplace (spec §5's "query generation counter").
func (v *Viewport) BumpGeneration() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generation++
	return v.generation
}

// UpdateVisibleRows recomputes the visible window from scrollTop and
// reconciles the rendered row map against it (spec §4.5, steps 1-4).
// Fetches for not-yet-cached rows are issued asynchronously; their
// results land back on the viewport through fetchAndReplace once
// EnsurePageForRow settles.
func (v *Viewport) UpdateVisibleRows(ctx context.Context, scrollTop int) {
	v.mu.Lock()
	v.scrollTop = scrollTop
	generation := v.generation

	if v.scroller == nil {
		v.mu.Unlock()
		return
	}
	start, end, translateY := v.scroller.Window(scrollTop)
	v.factory.SetTranslateY(translateY)

	for idx, el := range v.rows {
		if idx < start || idx > end {
			v.factory.Remove(el)
			delete(v.rows, idx)
		}
	}

	var toFetch []int
	for i := start; i <= end; i++ {
		if _, ok := v.rows[i]; ok {
			continue
		}
		row, ok := v.strategy.GetRow(i)
		if ok {
			v.rows[i] = v.factory.CreateRow(i, row)
			continue
		}
		v.rows[i] = v.factory.CreateSkeletonRow(i)
		toFetch = append(toFetch, i)
	}
	v.mu.Unlock()

	for _, idx := range toFetch {
		go v.fetchAndReplace(ctx, idx, generation)
	}
}

// fetchAndReplace awaits the page containing rowIndex and, if the result
// is still relevant, swaps the skeleton for the real row. "Still
// relevant" means: the query generation hasn't advanced, the row is still
// in the map and still a skeleton, and the row index is still within the
// current visible window (spec §4.5's ordering guarantee).
func (v *Viewport) fetchAndReplace(ctx context.Context, rowIndex, generation int) {
	if err := v.strategy.EnsurePageForRow(ctx, rowIndex); err != nil {
		if v.logger != nil {
			v.logger.WithComponent("viewport").Error("failed to fetch page for row", "row", rowIndex, "error", err)
		}
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if generation != v.generation {
		return
	}
	el, ok := v.rows[rowIndex]
	if !ok || !el.IsSkeleton() {
		return
	}
	if v.scroller == nil {
		return
	}
	start, end, _ := v.scroller.Window(v.scrollTop)
	if rowIndex < start || rowIndex > end {
		return
	}
	row, ok := v.strategy.GetRow(rowIndex)
	if !ok {
		return
	}
	v.rows[rowIndex] = v.factory.ReplaceWithRow(el, row)
}

// Refresh discards every mapped element and re-runs UpdateVisibleRows. It
// is used after changes that invalidate row content globally, such as
// after applyQuery (spec §4.5).
func (v *Viewport) Refresh(ctx context.Context) {
	v.mu.Lock()
	for _, el := range v.rows {
		v.factory.Remove(el)
	}
	v.rows = make(map[int]dom.Element)
	scrollTop := v.scrollTop
	v.mu.Unlock()

	v.UpdateVisibleRows(ctx, scrollTop)
}

// GetVisibleRows enumerates the currently rendered elements, for column
// updates that need to walk every visible row.
func (v *Viewport) GetVisibleRows() []dom.Element {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]dom.Element, 0, len(v.rows))
	for _, el := range v.rows {
		out = append(out, el)
	}
	return out
}
