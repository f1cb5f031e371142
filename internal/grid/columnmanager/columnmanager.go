// Package columnmanager implements the in-place column layout update
// described in spec §4.6: given a freshly resolved column list, it
// reflows already-rendered rows without a full re-render — reordering
// cells, rewriting width and frozen-offset metadata, and adding/removing
// cells for columns that changed visibility.
package columnmanager

import (
	"github.com/chenjieyouge/vgrid/internal/grid/column"
	"github.com/chenjieyouge/vgrid/internal/grid/dom"
)

// Manager applies resolved column lists to the rendering surface.
type Manager struct {
	factory dom.ElementFactory
	current []column.Resolved
}

// New constructs a Manager bound to factory.
func New(factory dom.ElementFactory) *Manager {
	return &Manager{factory: factory}
}

// Update recomputes left offsets for frozen columns and hands the full
// layout to the element factory, which is responsible for reordering,
// width/offset updates, and visibility add/remove in place (spec §4.6).
// It never rebuilds the virtualized row window itself — that is a
// Structural-class effect, handled one level up by the Action Router.
func (m *Manager) Update(resolved []column.Resolved) {
	layouts := make([]dom.ColumnLayout, len(resolved))
	offset := 0
	for i, r := range resolved {
		left := 0
		if r.IsFrozen {
			left = offset
			offset += r.Width
		}
		layouts[i] = dom.ColumnLayout{
			Key:        r.Column.Key,
			Title:      r.Column.Title,
			Width:      r.Width,
			IsFrozen:   r.IsFrozen,
			LeftOffset: left,
		}
	}
	m.factory.ApplyColumnLayout(layouts)
	m.current = resolved
}

// Current returns the most recently applied resolved column list.
func (m *Manager) Current() []column.Resolved {
	return m.current
}
