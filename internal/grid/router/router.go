// Package router implements the Action Router (spec §4.7): the single
// place a store notification turns into a rendering effect. Every
// ActionType belongs to exactly one effect class, and the router is the
// only subscriber that renders — no other component reacts to
// gridstate.Store notifications directly.
package router

import (
	"context"

	"github.com/chenjieyouge/vgrid/internal/grid/gridstate"
	"github.com/chenjieyouge/vgrid/internal/logging"
)

// EffectClass is the rendering-effect category a given ActionType belongs
// to (spec §4.7).
type EffectClass int

const (
	// EffectData actions re-run the query against the data strategy.
	EffectData EffectClass = iota
	// EffectColumn actions update column layout in place and persist
	// changed overrides.
	EffectColumn
	// EffectStructural actions require a full viewport rebuild.
	EffectStructural
	// EffectStateOnly actions have no render effect.
	EffectStateOnly
)

// classOf is the closed mapping from ActionType to its effect class.
var classOf = map[gridstate.ActionType]EffectClass{
	gridstate.ActionSortSet:                EffectData,
	gridstate.ActionSortClear:              EffectData,
	gridstate.ActionSetFilterText:          EffectData,
	gridstate.ActionColumnFilterSet:        EffectData,
	gridstate.ActionColumnFilterClear:      EffectData,
	gridstate.ActionSetTotalRows:           EffectStateOnly,
	gridstate.ActionColumnResize:           EffectColumn,
	gridstate.ActionColumnShow:             EffectColumn,
	gridstate.ActionColumnHide:             EffectColumn,
	gridstate.ActionColumnBatchShow:        EffectColumn,
	gridstate.ActionColumnBatchHide:        EffectColumn,
	gridstate.ActionColumnsResetVisibility: EffectColumn,
	gridstate.ActionColumnOrderSet:         EffectColumn,
	gridstate.ActionSetFrozenCount:         EffectStructural,
	gridstate.ActionTableResize:            EffectStructural,
	gridstate.ActionSetMode:                EffectStateOnly,
}

// QueryApplier is the Query Coordinator's half of the Data effect class.
type QueryApplier interface {
	ApplyQuery(ctx context.Context, query gridstate.State) error
}

// ColumnEffectHandler resolves the current state into a column layout and
// applies it via the Column Manager, persisting any changed overrides.
// Implemented by the engine, which owns both the original column
// descriptors and the persistence adapter.
type ColumnEffectHandler interface {
	HandleColumnChange(ctx context.Context, state gridstate.State, action gridstate.Action)
}

// StructuralEffectHandler performs a full viewport rebuild.
type StructuralEffectHandler interface {
	HandleStructuralChange(ctx context.Context, state gridstate.State, action gridstate.Action)
}

// Router wires a gridstate.Store's notifications to the three effect
// handlers. It is constructed once per table and subscribed to the store
// for the table's lifetime.
type Router struct {
	queryApplier QueryApplier
	columnMgr    ColumnEffectHandler
	structural   StructuralEffectHandler
	logger       *logging.Logger
}

// New constructs a Router. Any handler may be nil if the engine hasn't
// wired that effect class yet (e.g. during the sync phase of
// initialization); actions routed to a nil handler are silently skipped.
func New(queryApplier QueryApplier, columnMgr ColumnEffectHandler, structural StructuralEffectHandler, logger *logging.Logger) *Router {
	return &Router{
		queryApplier: queryApplier,
		columnMgr:    columnMgr,
		structural:   structural,
		logger:       logger,
	}
}

// Subscribe registers the router as a gridstate.Store subscriber. The
// returned gridstate.Unsubscribe detaches it.
func (r *Router) Subscribe(store *gridstate.Store) gridstate.Unsubscribe {
	return store.Subscribe(func(next, prev gridstate.State, action gridstate.Action) {
		r.Route(context.Background(), next, action)
	})
}

// Route dispatches one notification to the handler for its effect class.
func (r *Router) Route(ctx context.Context, state gridstate.State, action gridstate.Action) {
	class, known := classOf[action.Type()]
	if !known {
		if r.logger != nil {
			r.logger.WithComponent("router").Warn("unknown action type, no effect applied", "action_type", string(action.Type()))
		}
		return
	}

	switch class {
	case EffectData:
		if r.queryApplier != nil {
			if err := r.queryApplier.ApplyQuery(ctx, state); err != nil && r.logger != nil {
				r.logger.WithComponent("router").Error("query apply failed", "error", err)
			}
		}
	case EffectColumn:
		if r.columnMgr != nil {
			r.columnMgr.HandleColumnChange(ctx, state, action)
		}
	case EffectStructural:
		if r.structural != nil {
			r.structural.HandleStructuralChange(ctx, state, action)
		}
	case EffectStateOnly:
		// No render effect.
	}
}
