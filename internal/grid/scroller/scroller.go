// Package scroller computes the visible row window for a virtualized table.
//
// Given a fixed row height and the overall viewport height, it maps a
// scroll offset to the [startRow, endRow] window that must be rendered,
// expanded by a buffer on each side so rapid scrolling never outruns the
// rendered rows.
package scroller

// Scroller is a pure, immutable value: every method is a function of its
// fields and its argument, with no internal mutation. It is safe to share
// across goroutines.
type Scroller struct {
	rowHeight      int
	totalRows      int
	viewportHeight int
	bufferRows     int
}

// New constructs a Scroller. rowHeight and viewportHeight are expected to
// be positive; totalRows and bufferRows may be zero.
func New(rowHeight, totalRows, viewportHeight, bufferRows int) *Scroller {
	return &Scroller{
		rowHeight:      rowHeight,
		totalRows:      totalRows,
		viewportHeight: viewportHeight,
		bufferRows:     bufferRows,
	}
}

// ScrollHeight is the total pixel height of the virtual content layer.
func (s *Scroller) ScrollHeight() int {
	return s.totalRows * s.rowHeight
}

// TotalRows returns the row count this Scroller was built with.
func (s *Scroller) TotalRows() int {
	return s.totalRows
}

// RowHeight returns the fixed row height this Scroller was built with.
func (s *Scroller) RowHeight() int {
	return s.rowHeight
}

// Window computes the row range that must be rendered for the given
// scrollTop, along with the pixel offset to apply to the virtual content
// layer. When totalRows is 0, startRow and endRow are both 0 and the
// window is empty — callers must check TotalRows() before trusting the
// range as non-empty.
func (s *Scroller) Window(scrollTop int) (startRow, endRow, translateY int) {
	if s.totalRows <= 0 {
		return 0, 0, 0
	}

	if scrollTop < 0 {
		scrollTop = 0
	}

	startRow = scrollTop/s.rowHeight - s.bufferRows
	if startRow < 0 {
		startRow = 0
	}

	endRow = ceilDiv(scrollTop+s.viewportHeight, s.rowHeight) + s.bufferRows
	if endRow > s.totalRows-1 {
		endRow = s.totalRows - 1
	}
	if endRow < startRow {
		endRow = startRow
	}

	translateY = startRow * s.rowHeight
	return startRow, endRow, translateY
}

// ceilDiv computes ceil(a/b) for non-negative a and positive b without
// floating point.
func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
