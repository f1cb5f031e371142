// Package persistence implements the Persistence Adapter (spec §4.12):
// three slots (column widths, column order, table width) keyed by
// tableId, loaded once at startup before the first dispatch and saved
// whenever the corresponding state changes. Every operation tolerates the
// backing kvstore.Store being unavailable — failures are logged as
// warnings, never returned as fatal to the caller.
package persistence

import (
	"fmt"

	"github.com/chenjieyouge/vgrid/internal/grid/kvstore"
	"github.com/chenjieyouge/vgrid/internal/logging"
)

const (
	slotColumnWidths = "column-widths"
	slotColumnOrder  = "column-order"
	slotTableWidth   = "table-width"
)

// Snapshot is the set of values the Lifecycle/Orchestrator restores
// before the first dispatch.
type Snapshot struct {
	ColumnWidths map[string]int
	ColumnOrder  []string
	TableWidth   int
	HasWidths    bool
	HasOrder     bool
	HasWidth     bool
}

// Adapter saves and loads a table's persisted layout slots.
type Adapter struct {
	store   kvstore.Store
	tableID string
	logger  *logging.Logger
}

// New constructs an Adapter scoped to tableID. store may be any
// kvstore.Store implementation, including one that fails every operation
// (its errors are swallowed into warnings here, per spec §4.12).
func New(store kvstore.Store, tableID string, logger *logging.Logger) *Adapter {
	return &Adapter{store: store, tableID: tableID, logger: logger}
}

// Load restores whatever slots are present. A missing or corrupt slot is
// simply absent from the returned Snapshot; it is never an error.
func (a *Adapter) Load() Snapshot {
	var snap Snapshot

	if v, ok := a.store.Get(a.key(slotColumnWidths)); ok {
		if widths, ok := toIntMap(v); ok {
			snap.ColumnWidths = widths
			snap.HasWidths = true
		} else {
			a.warn("column-widths slot had an unexpected shape, ignoring")
		}
	}

	if v, ok := a.store.Get(a.key(slotColumnOrder)); ok {
		if order, ok := toStringSlice(v); ok {
			snap.ColumnOrder = order
			snap.HasOrder = true
		} else {
			a.warn("column-order slot had an unexpected shape, ignoring")
		}
	}

	if v, ok := a.store.Get(a.key(slotTableWidth)); ok {
		if width, ok := toInt(v); ok {
			snap.TableWidth = width
			snap.HasWidth = true
		} else {
			a.warn("table-width slot had an unexpected shape, ignoring")
		}
	}

	return snap
}

// SaveColumnWidths persists widths, overwriting the whole slot.
func (a *Adapter) SaveColumnWidths(widths map[string]int) {
	if err := a.store.Set(a.key(slotColumnWidths), widths); err != nil {
		a.warn(fmt.Sprintf("failed to save column widths: %v", err))
	}
}

// SaveColumnOrder persists order, overwriting the whole slot.
func (a *Adapter) SaveColumnOrder(order []string) {
	if err := a.store.Set(a.key(slotColumnOrder), order); err != nil {
		a.warn(fmt.Sprintf("failed to save column order: %v", err))
	}
}

// SaveTableWidth persists width.
func (a *Adapter) SaveTableWidth(width int) {
	if err := a.store.Set(a.key(slotTableWidth), width); err != nil {
		a.warn(fmt.Sprintf("failed to save table width: %v", err))
	}
}

func (a *Adapter) key(slot string) string {
	return a.tableID + ":" + slot
}

func (a *Adapter) warn(msg string) {
	if a.logger != nil {
		a.logger.WithComponent("persistence").Warn(msg, "table_id", a.tableID)
	}
}

func toIntMap(v any) (map[string]int, bool) {
	switch m := v.(type) {
	case map[string]int:
		return m, true
	case map[string]any:
		out := make(map[string]int, len(m))
		for k, raw := range m {
			n, ok := toInt(raw)
			if !ok {
				return nil, false
			}
			out[k] = n
		}
		return out, true
	default:
		return nil, false
	}
}

func toStringSlice(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return s, true
	case []any:
		out := make([]string, len(s))
		for i, raw := range s {
			str, ok := raw.(string)
			if !ok {
				return nil, false
			}
			out[i] = str
		}
		return out, true
	default:
		return nil, false
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
