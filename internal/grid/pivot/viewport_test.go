package pivot

import (
	"testing"

	"github.com/chenjieyouge/vgrid/internal/grid/column"
	"github.com/chenjieyouge/vgrid/internal/grid/dom/memdom"
)

func flattenedWorkedExample(t *testing.T) []FlatRow {
	t.Helper()
	cfg := Config{
		RowGroups:     []string{"r", "c"},
		ValueFields:   []ValueField{{Key: "v", Aggregation: column.SummarySum}},
		ShowSubtotals: true,
	}
	root := BuildTree(worksheetData(), cfg)
	return Flatten(root, cfg.ShowSubtotals)
}

func TestPivotViewportRendersWindowedRows(t *testing.T) {
	factory := memdom.New()
	pv := NewPivotViewport(factory)
	rows := flattenedWorkedExample(t)
	pv.SetRows(rows, 1, 3, 0)

	pv.UpdateVisibleRows(0)

	created, _, _ := factory.Stats()
	if created != 4 {
		t.Fatalf("expected 4 rows created for a viewportHeight=3 window, got %d", created)
	}
	if got := len(pv.GetVisibleRows()); got != 4 {
		t.Fatalf("expected 4 visible rows, got %d", got)
	}
}

func TestPivotViewportCellsCarryRowMeta(t *testing.T) {
	factory := memdom.New()
	pv := NewPivotViewport(factory)
	rows := flattenedWorkedExample(t)
	pv.SetRows(rows, 1, len(rows), 0)

	pv.UpdateVisibleRows(0)

	var sawSubtotal, sawGrandTotal bool
	for _, el := range pv.GetVisibleRows() {
		e, ok := el.(*memdom.Element)
		if !ok {
			continue
		}
		switch e.Row()[MetaKind] {
		case string(RowSubtotal):
			sawSubtotal = true
		case string(RowGrandTotal):
			sawGrandTotal = true
		}
	}
	if !sawSubtotal {
		t.Fatal("expected at least one rendered row tagged RowSubtotal")
	}
	if !sawGrandTotal {
		t.Fatal("expected the rendered grand-total row tagged RowGrandTotal")
	}
}

func TestPivotViewportReconcilesRemovedRowsOutsideWindow(t *testing.T) {
	factory := memdom.New()
	pv := NewPivotViewport(factory)
	rows := flattenedWorkedExample(t)
	pv.SetRows(rows, 1, 2, 0)

	pv.UpdateVisibleRows(0)
	pv.UpdateVisibleRows(len(rows) - 1)

	_, removed, _ := factory.Stats()
	if removed == 0 {
		t.Fatal("expected scrolling past the first window to remove earlier rows")
	}
}
