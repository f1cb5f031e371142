// Package termgrid is the terminal rendering surface for the grid
// engine: a dom.ElementFactory backed by lipgloss-styled strings, a
// bubbletea Model that drives the program loop, and a key-binding-driven
// binder.Binder (KeyBinder) standing in for part of the browser
// interaction binders (spec.md §1, SPEC_FULL.md §15).
package termgrid

import (
	"fmt"
	"sort"
	"sync"

	"github.com/chenjieyouge/vgrid/internal/grid/dom"
)

// Element is termgrid's dom.Element: the rendered cell strings for one
// row, or a skeleton placeholder.
type Element struct {
	index    int
	skeleton bool
	cells    []string
}

func (e *Element) Index() int       { return e.index }
func (e *Element) IsSkeleton() bool { return e.skeleton }

var _ dom.ElementFactory = (*Factory)(nil)

// Factory renders grid rows as plain strings for a bubbletea View, rather
// than drawing directly to the terminal itself. It holds exactly the
// state a View function needs: the currently rendered rows keyed by
// index, the resolved column layout, and the virtual-scroll offset.
//
// OnChange, if set, is invoked after every mutating call so the owning
// bubbletea program can schedule a re-render; it must not block.
type Factory struct {
	mu sync.Mutex

	columns    []dom.ColumnLayout
	rows       map[int]*Element
	translateY int

	OnChange func()
}

// New constructs an empty Factory.
func New() *Factory {
	return &Factory{
		rows: make(map[int]*Element),
	}
}

func (f *Factory) CreateRow(rowIndex int, row map[string]any) dom.Element {
	f.mu.Lock()
	el := &Element{index: rowIndex, cells: renderCells(f.columns, row)}
	f.rows[rowIndex] = el
	f.mu.Unlock()
	f.notify()
	return el
}

func (f *Factory) CreateSkeletonRow(rowIndex int) dom.Element {
	f.mu.Lock()
	el := &Element{index: rowIndex, skeleton: true, cells: skeletonCells(f.columns)}
	f.rows[rowIndex] = el
	f.mu.Unlock()
	f.notify()
	return el
}

func (f *Factory) ReplaceWithRow(el dom.Element, row map[string]any) dom.Element {
	f.mu.Lock()
	e, ok := el.(*Element)
	if !ok {
		f.mu.Unlock()
		return f.CreateRow(el.Index(), row)
	}
	e.skeleton = false
	e.cells = renderCells(f.columns, row)
	f.mu.Unlock()
	f.notify()
	return e
}

func (f *Factory) Remove(el dom.Element) {
	f.mu.Lock()
	delete(f.rows, el.Index())
	f.mu.Unlock()
	f.notify()
}

func (f *Factory) SetTranslateY(y int) {
	f.mu.Lock()
	f.translateY = y
	f.mu.Unlock()
	f.notify()
}

func (f *Factory) ApplyColumnLayout(columns []dom.ColumnLayout) {
	f.mu.Lock()
	f.columns = columns
	for _, el := range f.rows {
		if el.skeleton {
			el.cells = skeletonCells(columns)
		}
	}
	f.mu.Unlock()
	f.notify()
}

func (f *Factory) Clear() {
	f.mu.Lock()
	f.rows = make(map[int]*Element)
	f.mu.Unlock()
	f.notify()
}

func (f *Factory) notify() {
	if f.OnChange != nil {
		f.OnChange()
	}
}

// VisibleRows returns the currently rendered rows sorted by index, for
// the View function to lay out top to bottom.
func (f *Factory) VisibleRows() []*Element {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*Element, 0, len(f.rows))
	for _, el := range f.rows {
		out = append(out, el)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

// Columns returns the last column layout applied.
func (f *Factory) Columns() []dom.ColumnLayout {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.columns
}

func renderCells(columns []dom.ColumnLayout, row map[string]any) []string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = stringifyCell(row[col.Key])
	}
	return cells
}

func skeletonCells(columns []dom.ColumnLayout) []string {
	cells := make([]string, len(columns))
	for i := range columns {
		cells[i] = "…"
	}
	return cells
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
