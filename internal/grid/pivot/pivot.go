// Package pivot implements the Pivot Engine (spec §4.10): multi-level
// group-tree construction over a filtered dataset, per-field aggregation,
// and an explicit-stack flattening pass that synthesizes subtotal and
// grand-total rows for virtualized rendering.
package pivot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/chenjieyouge/vgrid/internal/grid/column"
	"github.com/chenjieyouge/vgrid/internal/grid/datasource"
)

// ValueField names one aggregated output column of the pivot.
type ValueField struct {
	Key         string
	Aggregation column.SummaryType
}

// Config is the caller-supplied pivot configuration (spec §4.10).
// RowGroups must have between 1 and 5 entries.
type Config struct {
	RowGroups     []string
	ValueFields   []ValueField
	ShowSubtotals bool
}

// NodeType distinguishes the root sentinel from an ordinary group node.
type NodeType string

const (
	NodeRoot  NodeType = "root"
	NodeGroup NodeType = "group"
)

// Node is one entry in the pivot tree. The deepest rowGroups level's nodes
// carry no children: their own aggregated row already is the group's
// displayed value, so there is nothing further to flatten underneath them.
type Node struct {
	ID         string
	Type       NodeType
	Level      int // -1 for the root, per spec §4.10
	GroupField string
	GroupValue string
	Data       datasource.Row // aggregated row, over this node's subset
	Children   []*Node
	IsExpanded bool
}

// BuildTree groups data recursively by cfg.RowGroups and aggregates
// cfg.ValueFields at every level (spec §4.10's "Tree construction"). The
// root is a synthetic, always-expanded node whose aggregated row is the
// grand total over all of data.
func BuildTree(data []datasource.Row, cfg Config) *Node {
	root := &Node{
		ID:         "root",
		Type:       NodeRoot,
		Level:      -1,
		IsExpanded: true,
		Data:       aggregateRows(data, cfg.ValueFields),
	}
	root.Children = buildLevel(data, cfg, 0, "root")
	return root
}

func buildLevel(data []datasource.Row, cfg Config, depth int, parentID string) []*Node {
	field := cfg.RowGroups[depth]
	groups, order := groupByInsertionOrder(data, field)

	nodes := make([]*Node, 0, len(order))
	for _, value := range order {
		subset := groups[value]
		id := fmt.Sprintf("%s/%s=%s", parentID, field, value)
		node := &Node{
			ID:         id,
			Type:       NodeGroup,
			Level:      depth,
			GroupField: field,
			GroupValue: value,
			Data:       aggregateRows(subset, cfg.ValueFields),
			IsExpanded: true,
		}
		if depth+1 < len(cfg.RowGroups) {
			node.Children = buildLevel(subset, cfg, depth+1, id)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// groupByInsertionOrder partitions rows by the stringified value of
// field, preserving first-seen order across groups (spec §4.10: "an
// insertion-ordered map").
func groupByInsertionOrder(data []datasource.Row, field string) (map[string][]datasource.Row, []string) {
	groups := make(map[string][]datasource.Row)
	var order []string
	for _, row := range data {
		key := stringifyCell(row[field])
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], row)
	}
	return groups, order
}

// aggregateRows computes one output Row carrying every configured value
// field's aggregation over rows (spec §4.10's aggregation rules).
func aggregateRows(rows []datasource.Row, fields []ValueField) datasource.Row {
	out := make(datasource.Row, len(fields))
	for _, vf := range fields {
		out[vf.Key] = aggregateField(rows, vf.Key, vf.Aggregation)
	}
	return out
}

func aggregateField(rows []datasource.Row, key string, kind column.SummaryType) any {
	if kind == column.SummaryCount {
		return len(rows)
	}

	sum := decimal.Zero
	var min, max decimal.Decimal
	count := 0
	for _, row := range rows {
		d, ok := parseDecimal(row[key])
		if !ok {
			continue
		}
		if count == 0 {
			min, max = d, d
		}
		if d.LessThan(min) {
			min = d
		}
		if d.GreaterThan(max) {
			max = d
		}
		sum = sum.Add(d)
		count++
	}

	switch kind {
	case column.SummarySum:
		f, _ := sum.Float64()
		return f
	case column.SummaryAvg:
		if count == 0 {
			return 0.0
		}
		avg := sum.Div(decimal.NewFromInt(int64(count))).Round(2)
		f, _ := avg.Float64()
		return f
	case column.SummaryMin:
		if count == 0 {
			return 0.0
		}
		f, _ := min.Float64()
		return f
	case column.SummaryMax:
		if count == 0 {
			return 0.0
		}
		f, _ := max.Float64()
		return f
	default:
		return nil
	}
}

func parseDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t), true
	case float32:
		return decimal.NewFromFloat32(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

func stringifyCell(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ToggleNode flips the expanded state of the node identified by nodeID,
// found via depth-first search. It reports whether the node was found.
func ToggleNode(root *Node, nodeID string) bool {
	if root.ID == nodeID {
		root.IsExpanded = !root.IsExpanded
		return true
	}
	for _, child := range root.Children {
		if ToggleNode(child, nodeID) {
			return true
		}
	}
	return false
}

// RowKind distinguishes an ordinary flattened row from a synthesized
// subtotal or grand-total row.
type RowKind string

const (
	RowNormal     RowKind = "normal"
	RowSubtotal   RowKind = "subtotal"
	RowGrandTotal RowKind = "grandtotal"
)

// FlatRow is one row of the flattened, render-ready pivot output.
type FlatRow struct {
	NodeID      string
	Kind        RowKind
	Level       int
	GroupField  string
	GroupValue  string
	Data        datasource.Row
	IsExpanded  bool
	HasChildren bool
}

// Flatten walks the tree with an explicit stack (depth-first, children
// pushed in reverse order so they pop in original order) and produces
// the ordered row list a virtualized viewport renders directly. Each
// expanded group node that has children is followed, after all its
// descendants, by a
// subtotal row at level+1 when showSubtotals is set; the root's closing
// row is always the grand total (spec §4.10's worked example).
func Flatten(root *Node, showSubtotals bool) []FlatRow {
	var out []FlatRow
	if root == nil {
		return out
	}

	type entry struct {
		node    *Node
		isClose bool
	}
	stack := []entry{{node: root, isClose: false}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.isClose {
			kind := RowSubtotal
			if top.node.Type == NodeRoot {
				kind = RowGrandTotal
			}
			if kind == RowSubtotal && !showSubtotals {
				continue
			}
			out = append(out, FlatRow{
				NodeID:      top.node.ID,
				Kind:        kind,
				Level:       top.node.Level + 1,
				GroupField:  top.node.GroupField,
				GroupValue:  top.node.GroupValue,
				Data:        top.node.Data,
				IsExpanded:  top.node.IsExpanded,
				HasChildren: len(top.node.Children) > 0,
			})
			continue
		}

		if top.node.Type != NodeRoot {
			out = append(out, FlatRow{
				NodeID:      top.node.ID,
				Kind:        RowNormal,
				Level:       top.node.Level,
				GroupField:  top.node.GroupField,
				GroupValue:  top.node.GroupValue,
				Data:        top.node.Data,
				IsExpanded:  top.node.IsExpanded,
				HasChildren: len(top.node.Children) > 0,
			})
		}

		if !top.node.IsExpanded {
			continue
		}

		if len(top.node.Children) > 0 {
			stack = append(stack, entry{node: top.node, isClose: true})
		}
		for i := len(top.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, entry{node: top.node.Children[i], isClose: false})
		}
	}

	return out
}
