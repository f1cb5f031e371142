package gridstate

// ActionType tags each member of the closed action union (spec §4.3
// "Action catalog").
type ActionType string

const (
	ActionSortSet                ActionType = "SORT_SET"
	ActionSortClear              ActionType = "SORT_CLEAR"
	ActionSetFilterText          ActionType = "SET_FILTER_TEXT"
	ActionColumnFilterSet        ActionType = "COLUMN_FILTER_SET"
	ActionColumnFilterClear      ActionType = "COLUMN_FILTER_CLEAR"
	ActionSetTotalRows           ActionType = "SET_TOTAL_ROWS"
	ActionColumnResize           ActionType = "COLUMN_RESIZE"
	ActionColumnShow             ActionType = "COLUMN_SHOW"
	ActionColumnHide             ActionType = "COLUMN_HIDE"
	ActionColumnBatchShow        ActionType = "COLUMN_BATCH_SHOW"
	ActionColumnBatchHide        ActionType = "COLUMN_BATCH_HIDE"
	ActionColumnsResetVisibility ActionType = "COLUMNS_RESET_VISIBILITY"
	ActionColumnOrderSet         ActionType = "COLUMN_ORDER_SET"
	ActionSetFrozenCount         ActionType = "SET_FROZEN_COUNT"
	ActionTableResize            ActionType = "TABLE_RESIZE"
	ActionSetMode                ActionType = "SET_MODE"
)

// ActionTypes enumerates the full closed catalog, in the order presented
// by spec §4.3, for use by exhaustiveness tests and the Action Router's
// handler table.
var ActionTypes = []ActionType{
	ActionSortSet,
	ActionSortClear,
	ActionSetFilterText,
	ActionColumnFilterSet,
	ActionColumnFilterClear,
	ActionSetTotalRows,
	ActionColumnResize,
	ActionColumnShow,
	ActionColumnHide,
	ActionColumnBatchShow,
	ActionColumnBatchHide,
	ActionColumnsResetVisibility,
	ActionColumnOrderSet,
	ActionSetFrozenCount,
	ActionTableResize,
	ActionSetMode,
}

// Action is the marker interface implemented by every concrete action
// struct. Type returns the tag the reducer and router switch on.
type Action interface {
	Type() ActionType
}

// SortSet replaces data.sort.
type SortSet struct {
	Key       string
	Direction SortDirection
}

func (SortSet) Type() ActionType { return ActionSortSet }

// SortClear nulls data.sort.
type SortClear struct{}

func (SortClear) Type() ActionType { return ActionSortClear }

// SetFilterText stores the raw global filter string.
type SetFilterText struct {
	Text string
}

func (SetFilterText) Type() ActionType { return ActionSetFilterText }

// ColumnFilterSet sets or replaces the filter for one column key.
type ColumnFilterSet struct {
	Key    string
	Filter ColumnFilter
}

func (ColumnFilterSet) Type() ActionType { return ActionColumnFilterSet }

// ColumnFilterClear removes the filter for one column key.
type ColumnFilterClear struct {
	Key string
}

func (ColumnFilterClear) Type() ActionType { return ActionColumnFilterClear }

// SetTotalRows replaces data.totalRows, normally dispatched by the Query
// Coordinator after a Data Strategy call resolves.
type SetTotalRows struct {
	TotalRows int
}

func (SetTotalRows) Type() ActionType { return ActionSetTotalRows }

// ColumnResize writes columns.widthOverrides[Key]. Width below 1 is
// clamped to 1 by the reducer.
type ColumnResize struct {
	Key   string
	Width int
}

func (ColumnResize) Type() ActionType { return ActionColumnResize }

// ColumnShow removes Key from hiddenKeys.
type ColumnShow struct {
	Key string
}

func (ColumnShow) Type() ActionType { return ActionColumnShow }

// ColumnHide adds Key to hiddenKeys.
type ColumnHide struct {
	Key string
}

func (ColumnHide) Type() ActionType { return ActionColumnHide }

// ColumnBatchShow removes every key in Keys from hiddenKeys.
type ColumnBatchShow struct {
	Keys []string
}

func (ColumnBatchShow) Type() ActionType { return ActionColumnBatchShow }

// ColumnBatchHide adds every key in Keys to hiddenKeys.
type ColumnBatchHide struct {
	Keys []string
}

func (ColumnBatchHide) Type() ActionType { return ActionColumnBatchHide }

// ColumnsResetVisibility empties hiddenKeys.
type ColumnsResetVisibility struct{}

func (ColumnsResetVisibility) Type() ActionType { return ActionColumnsResetVisibility }

// ColumnOrderSet replaces columns.order. Payload keys not among the known
// keys are dropped; known keys missing from Keys are appended, preserving
// their existing relative order.
type ColumnOrderSet struct {
	Keys []string
}

func (ColumnOrderSet) Type() ActionType { return ActionColumnOrderSet }

// SetFrozenCount replaces columns.frozenCount.
type SetFrozenCount struct {
	Count int
}

func (SetFrozenCount) Type() ActionType { return ActionSetFrozenCount }

// TableResize records a change in the table's overall pixel dimensions.
// The reducer itself has no field for this in State (spec §3 only tracks
// the column/data/mode triple); its effect is structural — the router
// handles TABLE_RESIZE by reapplying the column layout and refreshing the
// viewport (the Scroller is left as it is), it does not mutate State.
type TableResize struct {
	Width  int
	Height int
}

func (TableResize) Type() ActionType { return ActionTableResize }

// SetMode replaces state.mode. Like SetTotalRows it is state-only: it
// records which Data Strategy backs the table but triggers no render
// effect on its own.
type SetMode struct {
	Mode Mode
}

func (SetMode) Type() ActionType { return ActionSetMode }
