package termgrid

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chenjieyouge/vgrid/internal/grid/dom"
	"github.com/chenjieyouge/vgrid/internal/grid/engine"
	"github.com/chenjieyouge/vgrid/internal/util"
)

// refreshMsg is sent whenever the Factory's rendered state changes on an
// engine goroutine, so the bubbletea loop knows to re-render the View.
type refreshMsg struct{}

// readyMsg is sent once the engine's asynchronous bootstrap phase
// completes (spec §4.9 step 2).
type readyMsg struct{ err error }

// Model is the bubbletea program driving one table: it owns the terminal
// viewport dimensions and scroll position, and forwards key presses to a
// KeyBinder while reading rendered content back out of a Factory.
type Model struct {
	eng     *engine.Engine
	factory *Factory
	binder  *KeyBinder

	vp viewport.Model

	width, height int
	scrollTop     int
	ready         bool
	err           error

	program *tea.Program
}

// NewModel constructs a Model over an already-built Engine/Factory/
// KeyBinder trio. Call Run to start the program and trigger the engine's
// async bootstrap phase.
func NewModel(eng *engine.Engine, factory *Factory, binder *KeyBinder) *Model {
	return &Model{
		eng:     eng,
		factory: factory,
		binder:  binder,
		vp:      viewport.New(0, 0),
	}
}

// Run starts the engine's async bootstrap phase, wires Factory.OnChange to
// wake the bubbletea loop, and blocks running the program until the user
// quits or ctx is canceled.
func (m *Model) Run(ctx context.Context) error {
	m.eng.InitializeAsync(ctx)

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.program = program
	m.factory.OnChange = func() {
		program.Send(refreshMsg{})
	}

	go func() {
		<-m.eng.Ready()
		program.Send(readyMsg{err: m.eng.Err()})
	}()

	_, err := program.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = contentHeight(msg.Height)
		m.eng.HandleScroll(context.Background(), m.scrollTop)
		return m, nil

	case readyMsg:
		m.ready = true
		m.err = msg.err
		return m, nil

	case refreshMsg:
		return m, nil

	case tea.KeyMsg:
		if !m.ready {
			return m, nil
		}
		quit := m.binder.HandleKey(msg, m.scroll)
		if quit {
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

// scroll translates a navigation Command into a new scroll position and
// feeds it to the engine.
func (m *Model) scroll(cmd Command) {
	step := contentHeight(m.height)
	if step <= 0 {
		step = 1
	}

	switch cmd {
	case CmdScrollDown:
		m.scrollTop++
	case CmdScrollUp:
		m.scrollTop--
	case CmdScrollPageDown:
		m.scrollTop += step
	case CmdScrollPageUp:
		m.scrollTop -= step
	case CmdScrollToTop:
		m.scrollTop = 0
	case CmdScrollToBottom:
		total := m.eng.Store().GetState().Data.TotalRows
		m.scrollTop = total - 1
	}
	if m.scrollTop < 0 {
		m.scrollTop = 0
	}
	m.eng.HandleScroll(context.Background(), m.scrollTop)
}

func contentHeight(totalHeight int) int {
	const chrome = 3 // header row + border + status line
	h := totalHeight - chrome
	if h < 1 {
		return 1
	}
	return h
}

func (m *Model) View() string {
	if !m.ready {
		return statusStyle.Render("loading...")
	}
	if m.err != nil {
		return statusStyle.Render(fmt.Sprintf("bootstrap failed: %v", m.err))
	}

	columns := m.factory.Columns()
	focusedKey := m.binder.FocusedKey()

	var b strings.Builder
	b.WriteString(m.renderHeader(columns, focusedKey))
	b.WriteString("\n")
	for _, row := range m.factory.VisibleRows() {
		b.WriteString(m.renderRow(columns, row))
		b.WriteString("\n")
	}

	m.vp.SetContent(strings.TrimRight(b.String(), "\n"))
	return m.vp.View() + "\n" + m.renderStatus()
}

func (m *Model) renderHeader(columns []dom.ColumnLayout, focusedKey string) string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		cell := padCell(col.Title, col.Width)
		if col.Key == focusedKey {
			cell = focusedColumnStyle.Render(cell)
		}
		if col.IsFrozen {
			cell = frozenCellStyle.Render(cell)
		}
		cells[i] = cell
	}
	return headerStyle.Render(m.clipToWidth(strings.Join(cells, " ")))
}

func (m *Model) renderRow(columns []dom.ColumnLayout, row *Element) string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		text := ""
		if i < len(row.cells) {
			text = row.cells[i]
		}
		cell := padCell(text, col.Width)
		if col.IsFrozen {
			cell = frozenCellStyle.Render(cell)
		}
		cells[i] = cell
	}
	line := m.clipToWidth(strings.Join(cells, " "))
	if row.skeleton {
		return skeletonStyle.Render(line)
	}
	return rowStyle.Render(line)
}

// clipToWidth caps an already-joined (and possibly already-styled) line to
// the terminal width, using ANSI-aware truncation so escape sequences from
// frozenCellStyle/focusedColumnStyle aren't split mid-code.
func (m *Model) clipToWidth(line string) string {
	if m.width <= 0 {
		return line
	}
	return util.TruncateANSI(line, m.width)
}

// padCell pads or truncates a cell's plain (unstyled) text to exactly
// width runes, using rune-aware truncation so multi-byte cell values
// don't get split mid-rune.
func padCell(s string, width int) string {
	if width <= 0 {
		return s
	}
	if len([]rune(s)) >= width {
		return util.TruncateString(s, width)
	}
	return s + strings.Repeat(" ", width-len([]rune(s)))
}

func (m *Model) renderStatus() string {
	if m.binder.FilterModeActive() {
		return statusStyle.Render("/ filter (enter to apply, esc to cancel)")
	}
	return statusStyle.Render("j/k scroll  tab focus  s/S sort  +/- width  f freeze  x hide  / filter  q quit")
}
