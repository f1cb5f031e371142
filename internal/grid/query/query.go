// Package query implements the Query Coordinator (spec §4.8): it
// translates a Data-class router effect into a data-strategy applyQuery
// call, reconciles the resulting total row count against the scroller
// and viewport, and refreshes the summary row with latest-wins sequencing
// so a slow, stale summary response can never clobber a newer one.
package query

import (
	"context"
	"sync"

	"github.com/chenjieyouge/vgrid/internal/grid/datasource"
	"github.com/chenjieyouge/vgrid/internal/grid/gridstate"
	"github.com/chenjieyouge/vgrid/internal/grid/scroller"
	"github.com/chenjieyouge/vgrid/internal/grid/viewport"
	"github.com/chenjieyouge/vgrid/internal/logging"
)

// ScrollResetter resets the scroll container to its top position. It is
// the engine/binder's job, since only it owns the actual scroll element.
type ScrollResetter func()

// ScrollerFactory builds a new Scroller for a freshly known totalRows.
type ScrollerFactory func(totalRows int) *scroller.Scroller

// SummaryCallback receives the latest-wins summary row, or nil if
// summaries are disabled or the strategy returned none.
type SummaryCallback func(summary datasource.Row)

// Coordinator implements router.QueryApplier.
type Coordinator struct {
	store    *gridstate.Store
	strategy datasource.Strategy
	viewport *viewport.Viewport
	logger   *logging.Logger

	resetScroll   ScrollResetter
	rebuildScroll ScrollerFactory

	summaryEnabled bool
	onSummary      SummaryCallback

	mu       sync.Mutex
	summSeq  int
	latestOK int
}

// New constructs a Coordinator. onSummary may be nil if summaryEnabled is
// false.
func New(
	store *gridstate.Store,
	strategy datasource.Strategy,
	vp *viewport.Viewport,
	resetScroll ScrollResetter,
	rebuildScroll ScrollerFactory,
	summaryEnabled bool,
	onSummary SummaryCallback,
	logger *logging.Logger,
) *Coordinator {
	return &Coordinator{
		store:          store,
		strategy:       strategy,
		viewport:       vp,
		logger:         logger,
		resetScroll:    resetScroll,
		rebuildScroll:  rebuildScroll,
		summaryEnabled: summaryEnabled,
		onSummary:      onSummary,
	}
}

// BuildQuery translates the store's data-affecting state into the data
// strategy's Query shape.
func BuildQuery(state gridstate.State) datasource.Query {
	q := datasource.Query{
		FilterText:    state.Data.FilterText,
		ColumnFilters: state.Data.ColumnFilters,
	}
	if state.Data.Sort != nil {
		q.HasSort = true
		q.SortKey = state.Data.Sort.Key
		q.SortDirection = state.Data.Sort.Direction
	}
	return q
}

// ApplyQuery implements router.QueryApplier (spec §4.8):
//  1. Reset scroll to top.
//  2. Await the data strategy's applyQuery.
//  3. If totalRows changed, dispatch SET_TOTAL_ROWS and rebuild the
//     Scroller.
//  4. Refresh the viewport.
//  5. If summaries are enabled, refresh asynchronously with latest-wins
//     sequencing.
func (c *Coordinator) ApplyQuery(ctx context.Context, state gridstate.State) error {
	if c.resetScroll != nil {
		c.resetScroll()
	}

	query := BuildQuery(state)
	totalRows, _, err := c.strategy.ApplyQuery(ctx, query)
	if err != nil {
		return err
	}

	if totalRows != state.Data.TotalRows {
		c.store.Dispatch(gridstate.SetTotalRows{TotalRows: totalRows})
		if c.rebuildScroll != nil && c.viewport != nil {
			c.viewport.SetScroller(c.rebuildScroll(totalRows))
		}
	}

	if c.viewport != nil {
		c.viewport.BumpGeneration()
		c.viewport.Refresh(ctx)
	}

	if c.summaryEnabled {
		go c.refreshSummary(ctx, query)
	}

	return nil
}

// refreshSummary tags its request with a monotonic sequence number and
// drops the result if a newer ApplyQuery has already refreshed the
// summary by the time this one settles (spec §4.8 step 5).
func (c *Coordinator) refreshSummary(ctx context.Context, query datasource.Query) {
	c.mu.Lock()
	c.summSeq++
	seq := c.summSeq
	c.mu.Unlock()

	row, err := c.strategy.GetSummary(ctx, query)
	if err != nil {
		if c.logger != nil {
			c.logger.WithComponent("query").Error("summary fetch failed", "error", err)
		}
		return
	}

	c.mu.Lock()
	if seq < c.summSeq {
		c.mu.Unlock()
		return
	}
	c.latestOK = seq
	c.mu.Unlock()

	if c.onSummary != nil {
		c.onSummary(row)
	}
}
