package gridstate

// Reduce applies action to state and returns the next state. It never
// mutates its argument; every branch works on a clone. Reduce is
// exhaustive over the ActionType catalog — TestReduceIsExhaustive in
// reducer_test.go enumerates ActionTypes and fails if the catalog holds a
// type the test does not exercise.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case SortSet:
		next := state.clone()
		next.Data.Sort = &Sort{Key: a.Key, Direction: a.Direction}
		return next

	case SortClear:
		next := state.clone()
		next.Data.Sort = nil
		return next

	case SetFilterText:
		next := state.clone()
		next.Data.FilterText = a.Text
		return next

	case ColumnFilterSet:
		next := state.clone()
		next.Data.ColumnFilters[a.Key] = a.Filter
		return next

	case ColumnFilterClear:
		next := state.clone()
		delete(next.Data.ColumnFilters, a.Key)
		return next

	case SetTotalRows:
		next := state.clone()
		next.Data.TotalRows = a.TotalRows
		return next

	case ColumnResize:
		next := state.clone()
		width := a.Width
		if width < 1 {
			width = 1
		}
		next.Columns.WidthOverrides[a.Key] = width
		return next

	case ColumnShow:
		next := state.clone()
		delete(next.Columns.HiddenKeys, a.Key)
		return next

	case ColumnHide:
		next := state.clone()
		next.Columns.HiddenKeys[a.Key] = true
		return next

	case ColumnBatchShow:
		next := state.clone()
		for _, key := range a.Keys {
			delete(next.Columns.HiddenKeys, key)
		}
		return next

	case ColumnBatchHide:
		next := state.clone()
		for _, key := range a.Keys {
			next.Columns.HiddenKeys[key] = true
		}
		return next

	case ColumnsResetVisibility:
		next := state.clone()
		next.Columns.HiddenKeys = make(map[string]bool)
		return next

	case ColumnOrderSet:
		next := state.clone()
		next.Columns.Order = reconcileOrder(state.Columns.Order, a.Keys)
		return next

	case SetFrozenCount:
		next := state.clone()
		visible := 0
		for _, key := range next.Columns.Order {
			if !next.Columns.HiddenKeys[key] {
				visible++
			}
		}
		count := a.Count
		if count < 0 {
			count = 0
		}
		if count > visible {
			count = visible
		}
		next.Columns.FrozenCount = count
		return next

	case TableResize:
		// Structural-only: the router reacts to this action, but it has
		// no corresponding State field (spec §3 tracks data/columns/mode
		// only), so the reducer passes state through unchanged.
		return state

	case SetMode:
		next := state.clone()
		next.Mode = a.Mode
		return next

	default:
		return state
	}
}

// reconcileOrder implements COLUMN_ORDER_SET's payload rules: unknown
// keys (not present in knownOrder) are dropped, and known keys missing
// from the payload are appended in their prior relative order.
func reconcileOrder(knownOrder, payload []string) []string {
	known := make(map[string]bool, len(knownOrder))
	for _, k := range knownOrder {
		known[k] = true
	}

	result := make([]string, 0, len(knownOrder))
	seen := make(map[string]bool, len(payload))
	for _, k := range payload {
		if !known[k] || seen[k] {
			continue
		}
		result = append(result, k)
		seen[k] = true
	}

	for _, k := range knownOrder {
		if !seen[k] {
			result = append(result, k)
			seen[k] = true
		}
	}

	return result
}
