// Package memdom implements dom.ElementFactory by recording operations in
// memory instead of drawing anything. It exists for engine and viewport
// tests, which need a cheap, inspectable stand-in for a real terminal or
// browser rendering surface.
package memdom

import "github.com/chenjieyouge/vgrid/internal/grid/dom"

// Element is memdom's dom.Element: a plain record of a row's current
// index, content, and skeleton flag.
type Element struct {
	index    int
	skeleton bool
	row      map[string]any
}

func (e *Element) Index() int       { return e.index }
func (e *Element) IsSkeleton() bool { return e.skeleton }

// Row returns the last row content this element was given, or nil for a
// skeleton.
func (e *Element) Row() map[string]any { return e.row }

var _ dom.ElementFactory = (*Factory)(nil)

// Factory is an in-memory dom.ElementFactory. Every method call is
// recorded for assertions, and TranslateY / Columns / Rendered reflect
// the factory's current rendered state.
type Factory struct {
	TranslateY int
	Columns    []dom.ColumnLayout

	created  int
	removed  int
	replaced int
}

func New() *Factory {
	return &Factory{}
}

func (f *Factory) CreateRow(rowIndex int, row map[string]any) dom.Element {
	f.created++
	return &Element{index: rowIndex, row: row}
}

func (f *Factory) CreateSkeletonRow(rowIndex int) dom.Element {
	f.created++
	return &Element{index: rowIndex, skeleton: true}
}

func (f *Factory) ReplaceWithRow(el dom.Element, row map[string]any) dom.Element {
	f.replaced++
	e, ok := el.(*Element)
	if !ok {
		return f.CreateRow(el.Index(), row)
	}
	e.skeleton = false
	e.row = row
	return e
}

func (f *Factory) Remove(el dom.Element) {
	f.removed++
}

func (f *Factory) SetTranslateY(y int) {
	f.TranslateY = y
}

func (f *Factory) ApplyColumnLayout(columns []dom.ColumnLayout) {
	f.Columns = columns
}

func (f *Factory) Clear() {
	f.created, f.removed, f.replaced = 0, 0, 0
}

// Stats reports the lifetime counts of create/remove/replace calls, for
// assertions about coalescing behavior.
func (f *Factory) Stats() (created, removed, replaced int) {
	return f.created, f.removed, f.replaced
}
