// Package binder abstracts the seven interaction binders named in spec
// §1 — resize drag, reorder drag, sort click, column-filter popups,
// column menu, side panel, and the table-resize handle — as a single
// interface the Lifecycle/Orchestrator attaches at startup and detaches
// at teardown. Each concrete binder's only job is translating one UI
// gesture into a dispatched gridstate.Action; internal/termgrid supplies
// the bubbletea key-binding-driven implementations.
package binder

import "github.com/chenjieyouge/vgrid/internal/grid/gridstate"

// Dispatch sends an action into the store, exactly like gridstate.Store's
// own Dispatch method. Binders receive it instead of a *gridstate.Store
// directly so they can be tested without constructing a real store.
type Dispatch func(gridstate.Action)

// Container is an opaque handle to whatever surface a Binder attaches
// interaction handlers to (a scroll container in the browser original; a
// bubbletea program's key-event stream in termgrid).
type Container interface{}

// Binder attaches interaction handling to a Container and dispatches
// Actions in response to user gestures, until Detach is called.
type Binder interface {
	Attach(container Container, dispatch Dispatch)
	Detach()
}
