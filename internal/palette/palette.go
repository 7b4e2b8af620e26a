// Package palette implements a filterable command palette overlay.
package palette

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor = lipgloss.Color("#7D56F4")
	mutedColor  = lipgloss.Color("#626262")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accentColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor)

	selectedRowStyle = lipgloss.NewStyle().
				Background(accentColor).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	descStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// Command is a single palette entry. Action is returned to the host
// program when the entry is chosen.
type Command struct {
	Name        string
	Description string
	Key         string
	Action      string
}

// SelectedAction is emitted as a message when a command is chosen.
type SelectedAction string

// maxRows bounds the visible result list.
const maxRows = 10

// Model is the command palette state.
type Model struct {
	commands []Command
	visible  []Command
	input    textinput.Model
	cursor   int
	Active   bool
	width    int
	height   int
}

// New creates a palette over the given commands.
func New(commands []Command) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to filter"
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	ti.CharLimit = 50

	return Model{
		commands: commands,
		visible:  commands,
		input:    ti,
		width:    60,
		height:   20,
	}
}

// SetSize sets the palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Open activates the palette with a cleared filter.
func (m *Model) Open() {
	m.Active = true
	m.input.Reset()
	m.input.Focus()
	m.visible = m.commands
	m.cursor = 0
}

// Close deactivates the palette.
func (m *Model) Close() {
	m.Active = false
	m.input.Blur()
}

// Update handles messages while the palette is open.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.Active {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "ctrl+c", "ctrl+k":
			m.Close()
			return m, nil
		case "enter":
			if m.cursor < len(m.visible) {
				action := m.visible[m.cursor].Action
				m.Close()
				return m, func() tea.Msg { return SelectedAction(action) }
			}
			return m, nil
		case "up", "ctrl+p":
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.visible) - 1
			}
			return m, nil
		case "down", "ctrl+n":
			m.cursor++
			if m.cursor >= len(m.visible) {
				m.cursor = 0
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refilter()
	return m, cmd
}

// matchRank scores a command against the query. Lower is better; a
// negative rank means no match.
func matchRank(c Command, query string) int {
	name := strings.ToLower(c.Name)
	switch {
	case strings.HasPrefix(name, query):
		return 0
	case strings.Contains(name, query):
		return 1
	case strings.Contains(strings.ToLower(c.Description), query):
		return 2
	case strings.Contains(strings.ToLower(c.Key), query):
		return 3
	}
	return -1
}

func (m *Model) refilter() {
	query := strings.ToLower(strings.TrimSpace(m.input.Value()))
	if query == "" {
		m.visible = m.commands
	} else {
		type ranked struct {
			cmd  Command
			rank int
			pos  int
		}
		var hits []ranked
		for i, c := range m.commands {
			if r := matchRank(c, query); r >= 0 {
				hits = append(hits, ranked{cmd: c, rank: r, pos: i})
			}
		}
		sort.Slice(hits, func(i, j int) bool {
			if hits[i].rank != hits[j].rank {
				return hits[i].rank < hits[j].rank
			}
			return hits[i].pos < hits[j].pos
		})
		m.visible = make([]Command, len(hits))
		for i, h := range hits {
			m.visible[i] = h.cmd
		}
	}

	if m.cursor >= len(m.visible) {
		m.cursor = 0
	}
}

func (m Model) renderRow(c Command, selected bool, width int) string {
	keyWidth := 8
	nameWidth := width - keyWidth
	if nameWidth < 4 {
		nameWidth = 4
	}
	name := clip(c.Name, nameWidth)
	name += strings.Repeat(" ", nameWidth-len(name))

	if selected {
		return selectedRowStyle.Width(width).Render(name + clip(c.Key, keyWidth))
	}
	return rowStyle.Render(name) + descStyle.Render(clip(c.Key, keyWidth))
}

// View renders the palette box.
func (m Model) View() string {
	if !m.Active {
		return ""
	}

	contentWidth := m.width - 2

	title := " Commands "
	pad := (contentWidth - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	stripe := strings.Repeat("·", pad)
	header := headerStyle.Width(contentWidth).Render(stripe + title + stripe)

	lines := []string{header, " " + m.input.View(), ""}

	if len(m.visible) == 0 {
		lines = append(lines, footerStyle.Render("  No matching commands"))
	}
	for i, c := range m.visible {
		if i >= maxRows {
			break
		}
		lines = append(lines, m.renderRow(c, i == m.cursor, contentWidth))
		if i == m.cursor && c.Description != "" {
			lines = append(lines, descStyle.Render("  "+clip(c.Description, contentWidth-2)))
		}
	}

	lines = append(lines, "", footerStyle.Render("↑↓ choose • enter confirm • esc cancel"))

	return boxStyle.Width(m.width).Render(strings.Join(lines, "\n"))
}

// Overlay renders the palette centered over the given background content.
func (m Model) Overlay(background string, termWidth, termHeight int) string {
	if !m.Active {
		return background
	}

	box := m.View()
	boxWidth := lipgloss.Width(box)
	boxHeight := lipgloss.Height(box)

	x := (termWidth - boxWidth) / 2
	if x < 0 {
		x = 0
	}
	y := (termHeight - boxHeight) / 3
	if y < 0 {
		y = 0
	}

	bgLines := strings.Split(background, "\n")
	for len(bgLines) < termHeight {
		bgLines = append(bgLines, "")
	}

	for i, boxLine := range strings.Split(box, "\n") {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = spliceLine(bgLines[row], boxLine, x, boxWidth)
	}

	return strings.Join(bgLines, "\n")
}

// spliceLine overwrites line with overlay starting at column x, keeping
// whatever of the original sticks out past the overlay.
func spliceLine(line, overlay string, x, overlayWidth int) string {
	for len(line) < x+overlayWidth {
		line += " "
	}

	out := clipRunes(line, x) + overlay
	tail := x + lipgloss.Width(overlay)
	if tail < len(line) {
		out += line[tail:]
	}
	return out
}

func clip(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

func clipRunes(s string, n int) string {
	runes := []rune(s)
	if n >= len(runes) {
		return s
	}
	return string(runes[:n])
}
