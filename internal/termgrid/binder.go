package termgrid

import (
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chenjieyouge/vgrid/internal/grid/binder"
	"github.com/chenjieyouge/vgrid/internal/grid/gridstate"
)

// KeyBinder is the termgrid binder.Binder: it translates bubbletea key
// messages into dispatched gridstate.Actions, using keyboard commands in
// place of the browser original's mouse-driven binders, since a terminal
// has no mouse drag. It covers sorting, column resize, freezing,
// hiding/resetting columns and the global filter; column reorder,
// per-column filters, the column menu, the side panel and table resize
// have no key binding.
type KeyBinder struct {
	mu       sync.Mutex
	dispatch binder.Dispatch
	factory  *Factory

	focusedIndex int
	bindings     []KeyBinding

	filterMode bool
	filterBuf  strings.Builder
}

// NewKeyBinder constructs a KeyBinder reading column widths/order from
// factory (so focus and resize always act on the currently resolved
// layout) and following the default key table.
func NewKeyBinder(factory *Factory) *KeyBinder {
	return &KeyBinder{
		factory:  factory,
		bindings: DefaultBindings(),
	}
}

func (b *KeyBinder) Attach(_ binder.Container, dispatch binder.Dispatch) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dispatch = dispatch
}

func (b *KeyBinder) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dispatch = nil
}

// FilterModeActive reports whether the binder is currently capturing
// keystrokes for the global filter text box rather than dispatching
// navigation/column commands.
func (b *KeyBinder) FilterModeActive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filterMode
}

// FocusedKey returns the column key currently focused for
// sort/resize/hide/freeze commands, or "" if there are no columns yet.
func (b *KeyBinder) FocusedKey() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	cols := b.factory.Columns()
	if len(cols) == 0 {
		return ""
	}
	if b.focusedIndex >= len(cols) {
		b.focusedIndex = len(cols) - 1
	}
	return cols[b.focusedIndex].Key
}

// HandleKey processes one key message, either appending to the in-flight
// filter text or dispatching a navigation/column/scroll Command. It
// returns quit=true when the key should terminate the program.
func (b *KeyBinder) HandleKey(msg tea.KeyMsg, scroll func(Command)) (quit bool) {
	b.mu.Lock()
	if b.filterMode {
		switch msg.Type {
		case tea.KeyEnter:
			b.filterMode = false
			text := b.filterBuf.String()
			b.filterBuf.Reset()
			dispatch := b.dispatch
			b.mu.Unlock()
			if dispatch != nil {
				dispatch(gridstate.SetFilterText{Text: text})
			}
			return false
		case tea.KeyEsc:
			b.filterMode = false
			b.filterBuf.Reset()
			b.mu.Unlock()
			return false
		case tea.KeyBackspace:
			s := b.filterBuf.String()
			b.filterBuf.Reset()
			if len(s) > 0 {
				b.filterBuf.WriteString(s[:len(s)-1])
			}
			b.mu.Unlock()
			return false
		case tea.KeyRunes:
			b.filterBuf.WriteString(string(msg.Runes))
			b.mu.Unlock()
			return false
		default:
			b.mu.Unlock()
			return false
		}
	}
	b.mu.Unlock()

	cmd, ok := Lookup(b.bindings, msg)
	if !ok {
		return false
	}

	switch cmd {
	case CmdQuit:
		return true
	case CmdScrollDown, CmdScrollUp, CmdScrollPageDown, CmdScrollPageUp, CmdScrollToTop, CmdScrollToBottom:
		if scroll != nil {
			scroll(cmd)
		}
	case CmdNextColumn:
		b.moveFocus(1)
	case CmdPrevColumn:
		b.moveFocus(-1)
	case CmdEnterFilterMode:
		b.mu.Lock()
		b.filterMode = true
		b.mu.Unlock()
	default:
		b.dispatchColumnCommand(cmd)
	}
	return false
}

func (b *KeyBinder) moveFocus(delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.factory.Columns())
	if n == 0 {
		return
	}
	b.focusedIndex = ((b.focusedIndex+delta)%n + n) % n
}

func (b *KeyBinder) dispatchColumnCommand(cmd Command) {
	key := b.FocusedKey()
	if key == "" {
		return
	}

	b.mu.Lock()
	dispatch := b.dispatch
	b.mu.Unlock()
	if dispatch == nil {
		return
	}

	switch cmd {
	case CmdSortAsc:
		dispatch(gridstate.SortSet{Key: key, Direction: gridstate.SortAsc})
	case CmdSortDesc:
		dispatch(gridstate.SortSet{Key: key, Direction: gridstate.SortDesc})
	case CmdSortClear:
		dispatch(gridstate.SortClear{})
	case CmdWiden:
		dispatch(gridstate.ColumnResize{Key: key, Width: b.currentWidth(key) + 5})
	case CmdNarrow:
		dispatch(gridstate.ColumnResize{Key: key, Width: b.currentWidth(key) - 5})
	case CmdFreezeUpToFocus:
		dispatch(gridstate.SetFrozenCount{Count: b.focusedColumnOrdinal() + 1})
	case CmdHideColumn:
		dispatch(gridstate.ColumnHide{Key: key})
	case CmdResetColumns:
		dispatch(gridstate.ColumnsResetVisibility{})
	}
}

func (b *KeyBinder) currentWidth(key string) int {
	for _, c := range b.factory.Columns() {
		if c.Key == key {
			return c.Width
		}
	}
	return 0
}

func (b *KeyBinder) focusedColumnOrdinal() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.focusedIndex
}
