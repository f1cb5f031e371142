// Package column implements the column resolution pipeline: a pure
// transform from the original column descriptors plus the store's column
// state into the laid-out, effective column list, and the column-width
// solver that turns fixed/flex/auto specs into pixel widths.
package column

import (
	"fmt"

	vgriderrors "github.com/chenjieyouge/vgrid/internal/errors"
)

// DataType enumerates the recognized cell data types.
type DataType string

const (
	DataTypeString  DataType = "string"
	DataTypeNumber  DataType = "number"
	DataTypeDate    DataType = "date"
	DataTypeBoolean DataType = "boolean"
)

// SummaryType enumerates the aggregation applied to a column's summary cell.
type SummaryType string

const (
	SummaryNone  SummaryType = "none"
	SummarySum   SummaryType = "sum"
	SummaryAvg   SummaryType = "avg"
	SummaryCount SummaryType = "count"
	SummaryMax   SummaryType = "max"
	SummaryMin   SummaryType = "min"
)

// CellRenderer renders a cell's display value given its raw value. Columns
// without a custom renderer fall back to the default string conversion
// performed by the element factory.
type CellRenderer func(value any) string

// Column is a user-supplied column descriptor.
type Column struct {
	Key          string
	Title        string
	Width        int // 0 means "use the solver's auto/flex allocation"
	MinWidth     int
	Flex         int
	DataType     DataType
	SummaryType  SummaryType
	CellRenderer CellRenderer
}

// Resolved augments a Column with the definitive layout values computed by
// Resolve: its effective width and whether it is pinned to the frozen
// (left) region of the table.
type Resolved struct {
	Column
	Width    int
	IsFrozen bool
}

// State is the subset of the store's column state that Resolve consumes.
// It mirrors gridstate.ColumnState structurally so callers in either
// package can pass the same values without an import cycle; gridstate
// wraps this type directly.
type State struct {
	Order          []string
	WidthOverrides map[string]int
	HiddenKeys     map[string]bool
	FrozenCount    int
}

// Resolve computes the effective, visible column list from the original
// columns and the current column state (spec §4.2):
//
//  1. Columns whose key is in HiddenKeys are dropped.
//  2. The remaining columns are ordered by State.Order, filtered to
//     visible keys; any visible key absent from Order is appended in its
//     original position order (a stability guarantee).
//  3. Each column's width is WidthOverrides[key], falling back to the
//     original Column.Width.
//  4. A column is frozen iff its resulting index is less than FrozenCount.
//
// Resolve returns a *ConfigurationError if original contains duplicate
// keys; callers are expected to have already validated this at
// construction, but Resolve re-checks defensively since it has no other
// opportunity to observe a caller-supplied slice each time it's invoked.
func Resolve(original []Column, state State) ([]Resolved, error) {
	if err := checkUniqueKeys(original); err != nil {
		return nil, err
	}

	indexOf := make(map[string]int, len(original))
	for i, c := range original {
		indexOf[c.Key] = i
	}

	visible := make([]Column, 0, len(original))
	for _, c := range original {
		if state.HiddenKeys[c.Key] {
			continue
		}
		visible = append(visible, c)
	}

	visibleSet := make(map[string]bool, len(visible))
	for _, c := range visible {
		visibleSet[c.Key] = true
	}

	ordered := make([]Column, 0, len(visible))
	placed := make(map[string]bool, len(visible))
	for _, key := range state.Order {
		if !visibleSet[key] || placed[key] {
			continue
		}
		ordered = append(ordered, visible[indexOfKey(visible, key)])
		placed[key] = true
	}
	// Append any visible key that Order didn't mention, in original
	// position order, so the result is a stable total ordering.
	remaining := make([]Column, 0, len(visible)-len(ordered))
	for _, c := range visible {
		if !placed[c.Key] {
			remaining = append(remaining, c)
		}
	}
	sortByOriginalIndex(remaining, indexOf)
	ordered = append(ordered, remaining...)

	resolved := make([]Resolved, len(ordered))
	for i, c := range ordered {
		width := c.Width
		if w, ok := state.WidthOverrides[c.Key]; ok {
			width = w
		}
		resolved[i] = Resolved{
			Column:   c,
			Width:    width,
			IsFrozen: i < state.FrozenCount,
		}
	}

	return resolved, nil
}

func indexOfKey(cols []Column, key string) int {
	for i, c := range cols {
		if c.Key == key {
			return i
		}
	}
	return -1
}

func sortByOriginalIndex(cols []Column, indexOf map[string]int) {
	for i := 1; i < len(cols); i++ {
		for j := i; j > 0 && indexOf[cols[j-1].Key] > indexOf[cols[j].Key]; j-- {
			cols[j-1], cols[j] = cols[j], cols[j-1]
		}
	}
}

func checkUniqueKeys(cols []Column) error {
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c.Key == "" {
			return vgriderrors.NewConfigurationError("column key must not be empty", vgriderrors.ErrDuplicateColumnKey)
		}
		if seen[c.Key] {
			return vgriderrors.NewConfigurationError(
				fmt.Sprintf("duplicate column key %q", c.Key),
				vgriderrors.ErrDuplicateColumnKey,
			).WithField(c.Key)
		}
		seen[c.Key] = true
	}
	if len(cols) == 0 {
		return vgriderrors.NewConfigurationError("no columns provided", vgriderrors.ErrEmptyColumns)
	}
	return nil
}
