// Package engine implements the Lifecycle/Orchestrator (spec §4.9): the
// two-phase table bootstrap (a synchronous construction phase followed by
// an asynchronous data-strategy resolution phase), the ready-gated
// dispatch queue, and the glue that wires C1-C13 together for one table
// instance.
package engine

import (
	"context"
	"sync"

	"github.com/chenjieyouge/vgrid/internal/grid/binder"
	"github.com/chenjieyouge/vgrid/internal/grid/bootstrap"
	"github.com/chenjieyouge/vgrid/internal/grid/column"
	"github.com/chenjieyouge/vgrid/internal/grid/columnmanager"
	"github.com/chenjieyouge/vgrid/internal/grid/datasource"
	"github.com/chenjieyouge/vgrid/internal/grid/dom"
	"github.com/chenjieyouge/vgrid/internal/grid/gridstate"
	"github.com/chenjieyouge/vgrid/internal/grid/kvstore"
	"github.com/chenjieyouge/vgrid/internal/grid/persistence"
	"github.com/chenjieyouge/vgrid/internal/grid/query"
	"github.com/chenjieyouge/vgrid/internal/grid/router"
	"github.com/chenjieyouge/vgrid/internal/grid/scroller"
	"github.com/chenjieyouge/vgrid/internal/grid/viewport"
	"github.com/chenjieyouge/vgrid/internal/logging"
)

// Config is everything the sync phase needs, plus whatever the async
// phase will eventually need to resolve a data strategy.
type Config struct {
	TableID string
	Columns []column.Column

	// Data sourcing (spec §4.11); at least one of InitialData/FetchPage
	// must be set, and FetchPage is also required when InitialData exceeds
	// ClientSideMaxRows, both enforced by bootstrap.Resolve during
	// InitializeAsync.
	InitialData       []datasource.Row
	FetchPage         datasource.FetchPageFunc
	FetchSummary      datasource.FetchSummaryFunc
	ClientSideMaxRows int
	PageSize          int
	MaxCachedPages    int
	SummaryEnabled    bool
	OnSummary         query.SummaryCallback

	// Rendering and layout.
	Factory        dom.ElementFactory
	RowHeight      int
	ViewportHeight int
	BufferRows     int

	// ResetScroll resets the scroll container to the top; called by the
	// Query Coordinator on every applyQuery (spec §4.8 step 1).
	ResetScroll func()

	// Store backs the Persistence Adapter; a nil Store falls back to an
	// in-memory one (so an Engine is always usable without a caller
	// wiring up disk persistence explicitly).
	Store kvstore.Store

	Binders []binder.Binder
	Logger  *logging.Logger
}

// Engine is one table's fully wired runtime.
type Engine struct {
	cfg     Config
	columns []column.Column
	logger  *logging.Logger

	store       *gridstate.Store
	persistence *persistence.Adapter

	mu            sync.Mutex
	isReady       bool
	preReadyQueue []gridstate.Action

	ready     chan struct{}
	readyOnce sync.Once
	readyErr  error

	strategy    datasource.Strategy
	scroller    *scroller.Scroller
	viewport    *viewport.Viewport
	columnMgr   *columnmanager.Manager
	coordinator *query.Coordinator
	routerSub   gridstate.Unsubscribe

	binders []binder.Binder
}

// New performs the synchronous phase (spec §4.9 step 1): validates the
// column set, restores any persisted layout, constructs the Store seeded
// with that layout, and creates the Column Manager against the given
// element factory. It does not yet know totalRows or have a data
// strategy — those are resolved by InitializeAsync.
func New(cfg Config) (*Engine, error) {
	if _, err := column.Resolve(cfg.Columns, column.State{}); err != nil {
		return nil, err
	}

	store := cfg.Store
	if store == nil {
		store = kvstore.NewMemStore()
	}
	persistenceAdapter := persistence.New(store, cfg.TableID, cfg.Logger)
	snapshot := persistenceAdapter.Load()

	knownKeys := make([]string, len(cfg.Columns))
	for i, c := range cfg.Columns {
		knownKeys[i] = c.Key
	}
	initialState := gridstate.NewState(knownKeys)
	if snapshot.HasWidths {
		initialState.Columns.WidthOverrides = snapshot.ColumnWidths
	}
	if snapshot.HasOrder {
		initialState.Columns.Order = reconcileKnownOrder(knownKeys, snapshot.ColumnOrder)
	}

	gstore := gridstate.New(initialState)
	columnMgr := columnmanager.New(cfg.Factory)

	resolved, err := column.Resolve(cfg.Columns, column.State(initialState.Columns))
	if err == nil {
		columnMgr.Update(resolved)
	}

	e := &Engine{
		cfg:           cfg,
		columns:       cfg.Columns,
		logger:        cfg.Logger,
		store:         gstore,
		persistence:   persistenceAdapter,
		ready:         make(chan struct{}),
		columnMgr:     columnMgr,
		binders:       cfg.Binders,
		preReadyQueue: nil,
	}
	return e, nil
}

// reconcileKnownOrder drops persisted keys no longer present among
// knownKeys and appends any knownKeys the snapshot didn't mention, in
// their declared order — the same stability rule gridstate applies to
// COLUMN_ORDER_SET (spec §4.3), applied once at restore time.
func reconcileKnownOrder(knownKeys, persisted []string) []string {
	known := make(map[string]bool, len(knownKeys))
	for _, k := range knownKeys {
		known[k] = true
	}
	result := make([]string, 0, len(knownKeys))
	seen := make(map[string]bool, len(persisted))
	for _, k := range persisted {
		if known[k] && !seen[k] {
			result = append(result, k)
			seen[k] = true
		}
	}
	for _, k := range knownKeys {
		if !seen[k] {
			result = append(result, k)
			seen[k] = true
		}
	}
	return result
}

// Ready returns a channel that closes once the async phase completes
// (successfully or not); check Err afterward.
func (e *Engine) Ready() <-chan struct{} {
	return e.ready
}

// Err returns the async phase's error, valid only after Ready() closes.
func (e *Engine) Err() error {
	return e.readyErr
}

// Store exposes the underlying gridstate.Store, e.g. for binders that
// need to read current state.
func (e *Engine) Store() *gridstate.Store {
	return e.store
}

// InitializeAsync runs the async phase (spec §4.9 step 2): resolves a
// data strategy via the Bootstrap Policy, dispatches SET_TOTAL_ROWS,
// constructs the Scroller/Viewport/Query Coordinator, subscribes the
// Router, attaches binders, and performs the first updateVisibleRows.
// It returns immediately; callers wait on Ready().
func (e *Engine) InitializeAsync(ctx context.Context) {
	go func() {
		strategy, total, err := bootstrap.Resolve(ctx, bootstrap.Config{
			InitialData:       e.cfg.InitialData,
			FetchPage:         e.cfg.FetchPage,
			FetchSummary:      e.cfg.FetchSummary,
			ClientSideMaxRows: e.cfg.ClientSideMaxRows,
			PageSize:          e.cfg.PageSize,
			MaxCachedPages:    e.cfg.MaxCachedPages,
			Columns:           e.columns,
		})
		if err != nil {
			e.readyErr = err
			e.closeReady()
			return
		}
		e.store.Dispatch(gridstate.SetTotalRows{TotalRows: total})

		sc := scroller.New(e.cfg.RowHeight, total, e.cfg.ViewportHeight, e.cfg.BufferRows)
		vp := viewport.New(sc, strategy, e.cfg.Factory, e.logger)

		e.mu.Lock()
		e.strategy = strategy
		e.scroller = sc
		e.viewport = vp
		e.mu.Unlock()

		e.coordinator = query.New(
			e.store, strategy, vp,
			e.cfg.ResetScroll,
			func(totalRows int) *scroller.Scroller {
				return scroller.New(e.cfg.RowHeight, totalRows, e.cfg.ViewportHeight, e.cfg.BufferRows)
			},
			e.cfg.SummaryEnabled, e.cfg.OnSummary, e.logger,
		)

		r := router.New(e.coordinator, e, e, e.logger)
		e.routerSub = r.Subscribe(e.store)

		for _, b := range e.binders {
			b.Attach(nil, e.store.Dispatch)
		}

		vp.UpdateVisibleRows(ctx, 0)

		e.flushPreReadyQueue()
		e.closeReady()
	}()
}

func (e *Engine) closeReady() {
	e.readyOnce.Do(func() {
		close(e.ready)
	})
}

func (e *Engine) flushPreReadyQueue() {
	e.mu.Lock()
	queue := e.preReadyQueue
	e.preReadyQueue = nil
	e.isReady = true
	e.mu.Unlock()

	for _, action := range queue {
		e.store.Dispatch(action)
	}
}

// Dispatch sends action to the store, or queues it if the async phase
// hasn't completed yet (spec §4.9: "Any dispatch made before ready is
// queued and flushed after").
func (e *Engine) Dispatch(action gridstate.Action) {
	e.mu.Lock()
	if !e.isReady {
		e.preReadyQueue = append(e.preReadyQueue, action)
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	e.store.Dispatch(action)
}

// HandleScroll feeds a new scroll position to the Viewport. It is the
// engine-level entry point a Binder's scroll handler calls into.
func (e *Engine) HandleScroll(ctx context.Context, scrollTop int) {
	e.mu.Lock()
	vp := e.viewport
	e.mu.Unlock()
	if vp != nil {
		vp.UpdateVisibleRows(ctx, scrollTop)
	}
}

// HandleColumnChange implements router.ColumnEffectHandler: it resolves
// the new column layout and applies it in place, then persists whatever
// changed (spec §4.7's Column handler class).
func (e *Engine) HandleColumnChange(ctx context.Context, state gridstate.State, action gridstate.Action) {
	resolved, err := column.Resolve(e.columns, column.State(state.Columns))
	if err != nil {
		if e.logger != nil {
			e.logger.WithComponent("engine").Error("column resolve failed", "error", err)
		}
		return
	}
	e.columnMgr.Update(resolved)
	e.persistence.SaveColumnWidths(state.Columns.WidthOverrides)
	e.persistence.SaveColumnOrder(state.Columns.Order)
}

// HandleStructuralChange implements router.StructuralEffectHandler: a
// full viewport rebuild, reapplying column layout and refreshing the
// Viewport (spec §4.7's Structural handler class).
func (e *Engine) HandleStructuralChange(ctx context.Context, state gridstate.State, action gridstate.Action) {
	resolved, err := column.Resolve(e.columns, column.State(state.Columns))
	if err == nil {
		e.columnMgr.Update(resolved)
	}
	if resize, ok := action.(gridstate.TableResize); ok {
		e.persistence.SaveTableWidth(resize.Width)
	}
	e.mu.Lock()
	vp := e.viewport
	e.mu.Unlock()
	if vp != nil {
		vp.Refresh(ctx)
	}
}

// Destroy tears the table down (spec §4.9): unsubscribes the router,
// detaches every binder, and clears the rendering surface.
func (e *Engine) Destroy() {
	if e.routerSub != nil {
		e.routerSub()
	}
	for _, b := range e.binders {
		b.Detach()
	}
	if e.cfg.Factory != nil {
		e.cfg.Factory.Clear()
	}
}
