package palette

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testCommands() []Command {
	return []Command{
		{Name: "Dashboard", Description: "Charts and fleet overview", Key: "g", Action: "dashboard"},
		{Name: "Export mapping", Description: "Write the current mapping to disk", Key: "x", Action: "export"},
		{Name: "Notes", Description: "Notes for the current system", Key: "n", Action: "notes"},
		{Name: "Quit", Key: "q", Action: "quit"},
	}
}

func TestOpenResetsState(t *testing.T) {
	m := New(testCommands())
	m.Open()

	if !m.Active {
		t.Fatal("Open should activate the palette")
	}
	if len(m.visible) != 4 {
		t.Errorf("visible = %d commands, want all 4", len(m.visible))
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestMatchRank(t *testing.T) {
	cmds := testCommands()
	tests := []struct {
		name  string
		cmd   Command
		query string
		want  int
	}{
		{"prefix match", cmds[0], "dash", 0},
		{"substring match", cmds[1], "mapping", 1},
		{"description match", cmds[0], "fleet", 2},
		{"key match", cmds[3], "q", 0}, // prefix of the name wins over key
		{"no match", cmds[3], "zebra", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchRank(tt.cmd, tt.query); got != tt.want {
				t.Errorf("matchRank(%q, %q) = %d, want %d", tt.cmd.Name, tt.query, got, tt.want)
			}
		})
	}
}

func TestFilterRanksPrefixFirst(t *testing.T) {
	m := New(testCommands())
	m.Open()
	for _, r := range "not" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	if len(m.visible) == 0 {
		t.Fatal("expected matches for \"not\"")
	}
	if m.visible[0].Name != "Notes" {
		t.Errorf("first match = %s, want Notes", m.visible[0].Name)
	}
}

func TestEnterEmitsSelectedAction(t *testing.T) {
	m := New(testCommands())
	m.Open()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}
	action, ok := cmd().(SelectedAction)
	if !ok {
		t.Fatalf("message = %T, want SelectedAction", cmd())
	}
	if action != "dashboard" {
		t.Errorf("action = %s, want dashboard", action)
	}
	if m.Active {
		t.Error("palette should close after selection")
	}
}

func TestEscCloses(t *testing.T) {
	m := New(testCommands())
	m.Open()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Active {
		t.Error("esc should close the palette")
	}
}

func TestCursorWraps(t *testing.T) {
	m := New(testCommands())
	m.Open()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 3 {
		t.Errorf("cursor = %d after up from top, want 3", m.cursor)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 0 {
		t.Errorf("cursor = %d after wrapping down, want 0", m.cursor)
	}
}

func TestViewShowsSelectedDescription(t *testing.T) {
	m := New(testCommands())
	m.Open()
	m.SetSize(60, 20)

	view := m.View()
	if !strings.Contains(view, "Dashboard") {
		t.Error("view should list the first command")
	}
	if !strings.Contains(view, "Charts and fleet overview") {
		t.Error("view should show the selected command's description")
	}
	if strings.Contains(view, "Notes for the current system") {
		t.Error("only the selected command's description should render")
	}
}

func TestOverlayPreservesBackground(t *testing.T) {
	m := New(testCommands())
	bg := "line one\nline two"

	if got := m.Overlay(bg, 80, 24); got != bg {
		t.Error("inactive palette should pass the background through")
	}

	m.Open()
	m.SetSize(40, 20)
	out := m.Overlay(bg, 80, 24)
	if !strings.Contains(out, "Commands") {
		t.Error("active overlay should contain the palette box")
	}
	if !strings.Contains(out, "line one") {
		t.Error("overlay should keep background rows above the box")
	}
}
