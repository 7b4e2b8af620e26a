package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
)

// Colors (theme-aware - updated by theme.go)
var (
	PrimaryColor       = lipgloss.Color("#7D56F4")
	SecondaryColor     = lipgloss.Color("#04B575")
	SubtleColor        = lipgloss.Color("#626262")
	CompliantColor     = lipgloss.Color("#04B575")
	NonCompliantColor  = lipgloss.Color("#FF5F56")
	PartialColor       = lipgloss.Color("#FFCC00")
	NotApplicableColor = lipgloss.Color("#626262")
	HighColor          = lipgloss.Color("#FF5F56")
	MediumColor        = lipgloss.Color("#FFD700")
	LowColor           = lipgloss.Color("#90EE90")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(PrimaryColor).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// Detail view styles
	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Width(16)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#CCCCCC")).
				Width(80)

	ControlBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(PrimaryColor).
			Padding(0, 1)

	// List item styles
	SelectedItemStyle = lipgloss.NewStyle().
				BorderLeft(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(PrimaryColor).
				PaddingLeft(1)

	NormalItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

// StatsStyle for statistics header
var StatsStyle = lipgloss.NewStyle().
	Foreground(SubtleColor).
	Padding(0, 1)

// StatHighlight for important stats
var StatHighlight = lipgloss.NewStyle().
	Foreground(PrimaryColor).
	Bold(true)

// ComplianceColor returns the theme color for a compliance status
func ComplianceColor(status model.ComplianceStatus) lipgloss.Color {
	switch status {
	case model.ComplianceCompliant:
		return CompliantColor
	case model.ComplianceNonCompliant:
		return NonCompliantColor
	case model.CompliancePartial:
		return PartialColor
	case model.ComplianceNotApplicable:
		return NotApplicableColor
	}
	return SubtleColor
}

// RiskColor returns the theme color for a risk level
func RiskColor(level model.RiskLevel) lipgloss.Color {
	switch level {
	case model.RiskHigh:
		return HighColor
	case model.RiskMedium:
		return MediumColor
	case model.RiskLow:
		return LowColor
	}
	return SubtleColor
}

// ComplianceBadge returns a colored badge for a compliance status
func ComplianceBadge(status model.ComplianceStatus) string {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(ComplianceColor(status)).
		Padding(0, 1)
	return style.Render(strings.ToUpper(string(status)))
}

// RiskBadge returns a colored badge for a risk level
func RiskBadge(level model.RiskLevel) string {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(RiskColor(level))
	return style.Render(strings.ToUpper(string(level)) + " RISK")
}

// StatusBadge returns a colored marker for a finding status
func StatusBadge(status model.VulnStatus) string {
	var color lipgloss.Color
	switch status {
	case model.StatusOpen:
		color = NonCompliantColor
	case model.StatusNotAFinding:
		color = CompliantColor
	case model.StatusNotApplicable:
		color = NotApplicableColor
	default:
		color = PartialColor
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(string(status))
}

// CompletionBar returns a visual bar for a 0-100 completion percentage
func CompletionBar(pct, width int) string {
	if width <= 0 {
		return ""
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	if filled < 1 && pct > 0 {
		filled = 1
	}
	empty := width - filled

	var color lipgloss.Color
	switch {
	case pct >= 80:
		color = CompliantColor
	case pct >= 40:
		color = PartialColor
	default:
		color = NonCompliantColor
	}

	filledStyle := lipgloss.NewStyle().Foreground(color)
	emptyStyle := lipgloss.NewStyle().Foreground(SubtleColor)

	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", empty)) +
		fmt.Sprintf(" %d%%", pct)
}

// FindingsBadge summarizes a control's open finding count
func FindingsBadge(count int) string {
	if count == 0 {
		return lipgloss.NewStyle().Foreground(CompliantColor).Render("no findings")
	}
	return lipgloss.NewStyle().Foreground(NonCompliantColor).Bold(true).
		Render(fmt.Sprintf("%d open", count))
}
