// Package dom abstracts the rendering surface the grid engine draws rows
// and cells onto, so the core engine stays free of any particular UI
// toolkit. internal/termgrid supplies the bubbletea-backed implementation;
// dom/memdom supplies an in-memory recorder used by engine tests.
package dom

// Element is an opaque handle to one rendered row. Engine code never
// inspects it directly; it is only ever passed back to the same
// ElementFactory that created it.
type Element interface {
	// Index is the row index this element currently represents.
	Index() int
	// IsSkeleton reports whether this element is a placeholder awaiting
	// real row data (spec §4.5).
	IsSkeleton() bool
}

// ElementFactory creates and mutates row elements on the rendering
// surface. All methods must be safe to call from the engine's single
// dispatch goroutine; ElementFactory implementations are not expected to
// be called concurrently.
type ElementFactory interface {
	// CreateRow renders a real data row at rowIndex with the given cell
	// values keyed by column key, and returns its handle.
	CreateRow(rowIndex int, row map[string]any) Element

	// CreateSkeletonRow renders a placeholder row at rowIndex with the
	// same height as a real row.
	CreateSkeletonRow(rowIndex int) Element

	// ReplaceWithRow swaps a skeleton element's content for real row
	// data in place, without changing its identity in the DOM.
	ReplaceWithRow(el Element, row map[string]any) Element

	// Remove detaches an element from the rendering surface.
	Remove(el Element)

	// SetTranslateY applies the virtual-scroll offset to the content
	// layer that holds all currently rendered rows.
	SetTranslateY(y int)

	// ApplyColumnLayout reflows existing rendered rows (and the header)
	// to a new resolved column layout: reordering cells, rewriting width
	// and frozen-offset custom properties, and adding/removing cells for
	// columns that changed visibility.
	ApplyColumnLayout(columns []ColumnLayout)

	// Clear removes every currently rendered row element.
	Clear()
}

// ColumnLayout is the rendering-facing projection of a resolved column:
// just enough for an ElementFactory to lay out cells without importing
// the column package.
type ColumnLayout struct {
	Key        string
	Title      string
	Width      int
	IsFrozen   bool
	LeftOffset int
}
