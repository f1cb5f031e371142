package termgrid

import tea "github.com/charmbracelet/bubbletea"

// Command is a named action a key press can trigger, translated by a
// Binder into a dispatched gridstate.Action (or a purely local Model
// effect like moving the focused column).
type Command string

const (
	CmdScrollDown     Command = "scroll_down"
	CmdScrollUp       Command = "scroll_up"
	CmdScrollPageDown Command = "scroll_page_down"
	CmdScrollPageUp   Command = "scroll_page_up"
	CmdScrollToTop    Command = "scroll_to_top"
	CmdScrollToBottom Command = "scroll_to_bottom"

	CmdNextColumn Command = "next_column"
	CmdPrevColumn Command = "prev_column"

	CmdSortAsc         Command = "sort_asc"
	CmdSortDesc        Command = "sort_desc"
	CmdSortClear       Command = "sort_clear"
	CmdWiden           Command = "widen_column"
	CmdNarrow          Command = "narrow_column"
	CmdFreezeUpToFocus Command = "freeze_up_to_focus"
	CmdHideColumn      Command = "hide_column"
	CmdResetColumns    Command = "reset_columns"

	CmdEnterFilterMode Command = "enter_filter_mode"
	CmdQuit            Command = "quit"
)

// KeyBinding pairs one key press with the Command it triggers, mirroring
// a declarative key-binding table rather than a long Update switch.
type KeyBinding struct {
	Type tea.KeyType
	Rune rune
	Cmd  Command
}

// DefaultBindings is the normal-mode key table.
func DefaultBindings() []KeyBinding {
	return []KeyBinding{
		{Type: tea.KeyRunes, Rune: 'j', Cmd: CmdScrollDown},
		{Type: tea.KeyDown, Cmd: CmdScrollDown},
		{Type: tea.KeyRunes, Rune: 'k', Cmd: CmdScrollUp},
		{Type: tea.KeyUp, Cmd: CmdScrollUp},
		{Type: tea.KeyCtrlF, Cmd: CmdScrollPageDown},
		{Type: tea.KeyCtrlB, Cmd: CmdScrollPageUp},
		{Type: tea.KeyRunes, Rune: 'g', Cmd: CmdScrollToTop},
		{Type: tea.KeyRunes, Rune: 'G', Cmd: CmdScrollToBottom},

		{Type: tea.KeyTab, Cmd: CmdNextColumn},
		{Type: tea.KeyShiftTab, Cmd: CmdPrevColumn},

		{Type: tea.KeyRunes, Rune: 's', Cmd: CmdSortAsc},
		{Type: tea.KeyRunes, Rune: 'S', Cmd: CmdSortDesc},
		{Type: tea.KeyRunes, Rune: 'c', Cmd: CmdSortClear},
		{Type: tea.KeyRunes, Rune: '+', Cmd: CmdWiden},
		{Type: tea.KeyRunes, Rune: '-', Cmd: CmdNarrow},
		{Type: tea.KeyRunes, Rune: 'f', Cmd: CmdFreezeUpToFocus},
		{Type: tea.KeyRunes, Rune: 'x', Cmd: CmdHideColumn},
		{Type: tea.KeyRunes, Rune: 'X', Cmd: CmdResetColumns},

		{Type: tea.KeyRunes, Rune: '/', Cmd: CmdEnterFilterMode},
		{Type: tea.KeyRunes, Rune: 'q', Cmd: CmdQuit},
		{Type: tea.KeyCtrlC, Cmd: CmdQuit},
		{Type: tea.KeyEsc, Cmd: CmdQuit},
	}
}

// Lookup finds the Command bound to msg, if any.
func Lookup(bindings []KeyBinding, msg tea.KeyMsg) (Command, bool) {
	for _, b := range bindings {
		if b.Type != msg.Type {
			continue
		}
		if b.Type == tea.KeyRunes {
			if len(msg.Runes) != 1 || msg.Runes[0] != b.Rune {
				continue
			}
		}
		return b.Cmd, true
	}
	return "", false
}
