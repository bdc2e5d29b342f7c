package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ccgrid/bank"
	"ccgrid/config"
	"ccgrid/debug"
	"ccgrid/midi"
	"ccgrid/theme"
	"ccgrid/widgets"
)

// InputMode for text prompts
type InputMode int

const (
	InputNone InputMode = iota
	InputValue
	InputParamName
	InputChannel
	InputControl
	InputBankName
	InputNewBank
)

// Model is the bubbletea model for the grid editor.
type Model struct {
	State  *bank.State
	Params *bank.ParamService
	Banks  *bank.BankService
	Out    *midi.Out
	Cfg    *config.Config
	Theme  *theme.Theme

	// Text prompt state
	mode        InputMode
	inputBuffer string

	// Confirmation dialog
	confirmMode   bool
	confirmMsg    string
	confirmAction func() error

	// MIDI port picker
	portMode bool
	ports    []string
	portIdx  int

	showHelp      bool
	showAllValues bool
	flipValue     bool // selected cell alternates name/value

	warn     string
	quitting bool
}

// flipMsg drives the name/value flip on the selected cell
type flipMsg time.Time

const flipInterval = time.Second

func flipTick() tea.Cmd {
	return tea.Tick(flipInterval, func(t time.Time) tea.Msg {
		return flipMsg(t)
	})
}

func NewModel(state *bank.State, params *bank.ParamService, banks *bank.BankService, out *midi.Out, cfg *config.Config, th *theme.Theme) Model {
	return Model{
		State:         state,
		Params:        params,
		Banks:         banks,
		Out:           out,
		Cfg:           cfg,
		Theme:         th,
		showHelp:      cfg.UI.ShowHelp,
		showAllValues: cfg.UI.ShowAllValues,
	}
}

func (m Model) Init() tea.Cmd {
	return flipTick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case flipMsg:
		m.flipValue = !m.flipValue
		return m, flipTick()

	case tea.KeyMsg:
		key := msg.String()

		if m.confirmMode {
			return m.updateConfirm(key), nil
		}
		if m.portMode {
			return m.updatePortPicker(key), nil
		}
		if m.mode != InputNone {
			return m.updatePrompt(key), nil
		}
		return m.updateNormal(key)
	}

	return m, nil
}

func (m Model) updateNormal(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		m.note(m.Banks.Save()) // final save before exit
		return m, tea.Quit

	case "up", "k":
		m.note(m.Banks.MoveCursor(-1, 0))
	case "down", "j":
		m.note(m.Banks.MoveCursor(1, 0))
	case "left", "h":
		m.note(m.Banks.MoveCursor(0, -1))
	case "right", "l":
		m.note(m.Banks.MoveCursor(0, 1))

	case "v", "enter":
		m.openPrompt(InputValue, "")
	case "+", "=":
		m.note(m.Params.Adjust(m.State.CursorRow, m.State.CursorCol, 1))
	case "-", "_":
		m.note(m.Params.Adjust(m.State.CursorRow, m.State.CursorCol, -1))
	case "r":
		m.openPrompt(InputParamName, "")
	case "n":
		m.openPrompt(InputControl, "")
	case "c":
		m.openPrompt(InputChannel, "")

	case "b", "tab":
		next := (m.State.Active + 1) % len(m.State.Banks)
		m.note(m.Banks.Switch(next))
	case "B", "shift+tab":
		prev := (m.State.Active - 1 + len(m.State.Banks)) % len(m.State.Banks)
		m.note(m.Banks.Switch(prev))
	case "N":
		m.openPrompt(InputNewBank, "")
	case "R":
		m.openPrompt(InputBankName, m.State.ActiveBank().Name)
	case "x":
		idx := m.State.Active
		name := m.State.ActiveBank().Name
		m.confirmMsg = fmt.Sprintf("Reset all parameters in bank '%s'?", name)
		m.confirmAction = func() error { return m.Banks.Reset(idx) }
		m.confirmMode = true

	case "m":
		m.ports = midi.Outputs()
		m.portIdx = 0
		for i, p := range m.ports {
			if p == m.Out.PortName() {
				m.portIdx = i
			}
		}
		m.portMode = true

	case "?":
		m.showHelp = !m.showHelp
		m.Cfg.UI.ShowHelp = m.showHelp
	case " ":
		m.showAllValues = !m.showAllValues
		m.Cfg.UI.ShowAllValues = m.showAllValues
	}

	return m, nil
}

func (m Model) updateConfirm(key string) Model {
	switch key {
	case "y", "Y":
		if m.confirmAction != nil {
			m.note(m.confirmAction())
		}
		m.confirmMode = false
		m.confirmAction = nil
	case "n", "N", "esc", "q":
		m.confirmMode = false
		m.confirmAction = nil
	}
	return m
}

func (m Model) updatePortPicker(key string) Model {
	switch key {
	case "j", "down":
		if m.portIdx < len(m.ports)-1 {
			m.portIdx++
		}
	case "k", "up":
		if m.portIdx > 0 {
			m.portIdx--
		}
	case "enter", " ":
		if m.portIdx < len(m.ports) {
			name := m.ports[m.portIdx]
			if err := m.Out.Connect(name); err != nil {
				m.warn = err.Error()
			} else {
				m.warn = ""
				m.Cfg.PreferredPort = name
				if err := m.Cfg.Save(); err != nil {
					debug.Log("config", "save: %v", err)
				}
			}
		}
		m.portMode = false
	case "esc", "q", "m":
		m.portMode = false
	}
	return m
}

func (m Model) updatePrompt(key string) Model {
	switch key {
	case "enter":
		m = m.commitInput()
	case "esc":
		m.mode = InputNone
		m.inputBuffer = ""
	case "backspace":
		if len(m.inputBuffer) > 0 {
			m.inputBuffer = m.inputBuffer[:len(m.inputBuffer)-1]
		}
	default:
		// Only accept printable characters
		if len(key) == 1 && key[0] >= 32 && key[0] < 127 {
			m.inputBuffer += key
		}
	}
	return m
}

func (m *Model) openPrompt(mode InputMode, prefill string) {
	m.mode = mode
	m.inputBuffer = prefill
}

// commitInput routes the buffer to the right service call. The services
// treat empty or unparseable input as a cancelled edit.
func (m Model) commitInput() Model {
	row, col := m.State.CursorRow, m.State.CursorCol
	raw := m.inputBuffer

	switch m.mode {
	case InputValue:
		m.note(m.Params.SetValue(row, col, raw))
	case InputParamName:
		m.note(m.Params.SetName(row, col, raw))
	case InputChannel:
		m.note(m.Params.SetChannel(row, col, raw))
	case InputControl:
		m.note(m.Params.SetControl(row, col, raw))
	case InputBankName:
		m.note(m.Banks.Rename(m.State.Active, raw))
	case InputNewBank:
		_, err := m.Banks.Create(raw)
		m.note(err)
	}

	m.mode = InputNone
	m.inputBuffer = ""
	return m
}

// note records a service error on the status line. Save and send
// failures are warnings; a bad address means a broken invariant between
// the TUI and the core and is logged as such.
func (m *Model) note(err error) {
	if err == nil {
		m.warn = ""
		return
	}
	if errors.Is(err, bank.ErrBadAddress) || errors.Is(err, bank.ErrBadBank) {
		debug.Log("fatal", "invariant: %v", err)
		m.warn = "internal: " + err.Error()
		return
	}
	m.warn = err.Error()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	b := m.State.ActiveBank()

	port := "no port"
	if m.Out.Connected() {
		port = m.Out.PortName()
	}
	header := headerStyle.Render(fmt.Sprintf("ccgrid  %s (%d/%d)  %s",
		b.Name, m.State.Active+1, len(m.State.Banks), port))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")

	switch {
	case m.confirmMode:
		out.WriteString(m.viewConfirm())
	case m.portMode:
		out.WriteString(m.viewPortPicker())
	default:
		out.WriteString(m.viewGrid(b))
		out.WriteString("\n")
		out.WriteString(m.viewDetail(b))
		out.WriteString("\n")
		if m.mode != InputNone {
			out.WriteString(fmt.Sprintf("\n%s: %s_\n", promptLabel(m.mode), m.inputBuffer))
		}
	}

	if m.warn != "" {
		out.WriteString("\n")
		out.WriteString(warnStyle.Render("! " + m.warn))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	if m.showHelp {
		out.WriteString(dimStyle.Render(m.viewHelp()))
	} else {
		out.WriteString(dimStyle.Render("?:help  q:quit"))
	}

	return out.String()
}

func (m Model) viewGrid(b *bank.Bank) string {
	var out strings.Builder
	for row := 0; row < bank.GridSize; row++ {
		for col := 0; col < bank.GridSize; col++ {
			p := b.At(row, col)
			onCursor := row == m.State.CursorRow && col == m.State.CursorCol

			cell := cellText(p, m.showAllValues || (onCursor && m.flipValue))

			style := lipgloss.NewStyle().Foreground(m.Theme.Value(p.Value))
			if onCursor {
				style = style.Reverse(true)
			}
			out.WriteString(style.Render(cell))
			if col < bank.GridSize-1 {
				out.WriteString(" ")
			}
		}
		out.WriteString("\n")
	}
	return out.String()
}

// cellText renders a grid cell as a fixed 3-char label or value.
func cellText(p *bank.Parameter, showValue bool) string {
	if showValue {
		return fmt.Sprintf("%3d", p.Value)
	}
	name := p.Name
	if len(name) > 3 {
		name = name[:3]
	}
	return fmt.Sprintf("%-3s", name)
}

func (m Model) viewDetail(b *bank.Bank) string {
	p := b.At(m.State.CursorRow, m.State.CursorCol)
	meter := widgets.RenderMeter(p.Value, bank.MaxValue, 16)
	meterStyled := lipgloss.NewStyle().Foreground(m.Theme.Value(p.Value)).Render(meter)
	return fmt.Sprintf("%s  %s %3d  ch %2d  cc %3d", p.Name, meterStyled, p.Value, p.Channel, p.Control)
}

func (m Model) viewConfirm() string {
	var out strings.Builder
	out.WriteString("─────────────────────────────────────────────\n")
	out.WriteString(fmt.Sprintf("\n%s\n\n", m.confirmMsg))
	out.WriteString("  [y] Yes    [n] No\n")
	out.WriteString("\n─────────────────────────────────────────────\n")
	return out.String()
}

func (m Model) viewPortPicker() string {
	var out strings.Builder
	out.WriteString("MIDI output ports\n")
	out.WriteString("─────────────────────────────────────────────\n")
	if len(m.ports) == 0 {
		out.WriteString("  (no ports available)\n")
	}
	for i, p := range m.ports {
		prefix := "  "
		if i == m.portIdx {
			prefix = "> "
		}
		suffix := ""
		if p == m.Out.PortName() {
			suffix = "  (connected)"
		}
		out.WriteString(fmt.Sprintf("%s%s%s\n", prefix, p, suffix))
	}
	out.WriteString("\n[j/k] move  [enter] connect  [esc] cancel\n")
	return out.String()
}

func (m Model) viewHelp() string {
	return widgets.RenderKeyHelp([]widgets.KeySection{
		{Keys: []widgets.KeyBinding{
			{Key: "hjkl/arrows", Desc: "move selection"},
			{Key: "v / enter", Desc: "set value"},
			{Key: "+ / -", Desc: "nudge value"},
			{Key: "r n c", Desc: "rename / control number / channel"},
			{Key: "b B", Desc: "next / previous bank"},
			{Key: "N R x", Desc: "new / rename / reset bank"},
			{Key: "m", Desc: "pick MIDI port"},
			{Key: "space", Desc: "show all values"},
			{Key: "? q", Desc: "help / quit"},
		}},
	})
}

func promptLabel(mode InputMode) string {
	switch mode {
	case InputValue:
		return "New value"
	case InputParamName:
		return "New name"
	case InputChannel:
		return "Channel"
	case InputControl:
		return "Control number"
	case InputBankName:
		return "Rename bank to"
	case InputNewBank:
		return "New bank name"
	}
	return ""
}
