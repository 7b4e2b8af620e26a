package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
)

// ControlDelegate is a custom delegate for rendering mapped control items
type ControlDelegate struct {
	ShowDescription bool
	Styles          ControlDelegateStyles
}

// ControlDelegateStyles contains the styles for the delegate
type ControlDelegateStyles struct {
	NormalTitle   lipgloss.Style
	NormalDesc    lipgloss.Style
	SelectedTitle lipgloss.Style
	SelectedDesc  lipgloss.Style
	DimmedTitle   lipgloss.Style
	DimmedDesc    lipgloss.Style
	ControlStyle  lipgloss.Style
	CheckStyle    lipgloss.Style
}

// NewControlDelegate creates a new delegate with default styles
func NewControlDelegate() ControlDelegate {
	return ControlDelegate{
		ShowDescription: true,
		Styles: ControlDelegateStyles{
			NormalTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
			NormalDesc:    lipgloss.NewStyle().Foreground(SubtleColor),
			SelectedTitle: lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true),
			SelectedDesc:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
			DimmedTitle:   lipgloss.NewStyle().Foreground(SubtleColor),
			DimmedDesc:    lipgloss.NewStyle().Foreground(SubtleColor),
			ControlStyle:  lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true),
			CheckStyle:    lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true),
		},
	}
}

// Height returns the height of each item
func (d ControlDelegate) Height() int {
	if d.ShowDescription {
		return 2
	}
	return 1
}

// Spacing returns the spacing between items
func (d ControlDelegate) Spacing() int {
	return 1
}

// Update handles item updates
func (d ControlDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render renders a single item
func (d ControlDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ctrl, ok := item.(model.ControlItem)
	if !ok {
		return
	}

	isSelected := index == m.Index()
	isFiltering := m.FilterState() == list.Filtering

	var descStyle, idStyle lipgloss.Style
	if isFiltering {
		descStyle = d.Styles.DimmedDesc
		idStyle = d.Styles.DimmedTitle
	} else if isSelected {
		descStyle = d.Styles.SelectedDesc
		idStyle = d.Styles.ControlStyle
	} else {
		descStyle = d.Styles.NormalDesc
		idStyle = d.Styles.ControlStyle
	}

	// Prep selection checkbox
	check := "[ ]"
	if ctrl.Selected {
		check = d.Styles.CheckStyle.Render("[x]")
	}

	idBadge := idStyle.Render(fmt.Sprintf("[%s]", ctrl.NISTControl))
	status := lipgloss.NewStyle().Foreground(ComplianceColor(ctrl.ComplianceStatus)).
		Render(" " + string(ctrl.ComplianceStatus))

	indicators := ""
	if ctrl.FindingsCount > 0 {
		indicators = " " + lipgloss.NewStyle().Foreground(NonCompliantColor).Bold(true).
			Render(fmt.Sprintf("[%d!]", ctrl.FindingsCount))
	}

	line := check + " " + idBadge + status + indicators

	if isSelected {
		line = SelectedItemStyle.Render(line)
	} else {
		line = NormalItemStyle.Render(line)
	}

	fmt.Fprint(w, line)

	if d.ShowDescription {
		descText := fmt.Sprintf("%s risk | %d findings | %d CCIs",
			ctrl.RiskLevel, len(ctrl.Vulnerabilities), len(ctrl.CCIs))
		desc := descStyle.Render(descText)
		if isSelected {
			desc = SelectedItemStyle.Render(desc)
		} else {
			desc = NormalItemStyle.Render(desc)
		}
		fmt.Fprint(w, "\n"+desc)
	}
}
