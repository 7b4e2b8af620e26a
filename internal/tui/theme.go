package tui

import "github.com/charmbracelet/lipgloss"

// ThemeName identifies a color theme
type ThemeName string

const (
	ThemeDark       ThemeName = "dark"
	ThemeDracula    ThemeName = "dracula"
	ThemeCatppuccin ThemeName = "catppuccin"
	ThemeNord       ThemeName = "nord"
)

// Theme holds color definitions for the TUI
type Theme struct {
	Name          ThemeName
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Subtle        lipgloss.Color
	Compliant     lipgloss.Color
	NonCompliant  lipgloss.Color
	Partial       lipgloss.Color
	NotApplicable lipgloss.Color
	High          lipgloss.Color
	Medium        lipgloss.Color
	Low           lipgloss.Color
	Background    lipgloss.Color
	Foreground    lipgloss.Color
}

// Themes available in the application
var Themes = map[ThemeName]Theme{
	ThemeDark: {
		Name:          ThemeDark,
		Primary:       lipgloss.Color("#7D56F4"),
		Secondary:     lipgloss.Color("#04B575"),
		Subtle:        lipgloss.Color("#626262"),
		Compliant:     lipgloss.Color("#04B575"),
		NonCompliant:  lipgloss.Color("#FF5F56"),
		Partial:       lipgloss.Color("#FFCC00"),
		NotApplicable: lipgloss.Color("#626262"),
		High:          lipgloss.Color("#FF5F56"),
		Medium:        lipgloss.Color("#FFD700"),
		Low:           lipgloss.Color("#90EE90"),
		Background:    lipgloss.Color("#1a1a1a"),
		Foreground:    lipgloss.Color("#FFFFFF"),
	},
	ThemeDracula: {
		Name:          ThemeDracula,
		Primary:       lipgloss.Color("#bd93f9"), // Purple
		Secondary:     lipgloss.Color("#50fa7b"), // Green
		Subtle:        lipgloss.Color("#6272a4"), // Comment
		Compliant:     lipgloss.Color("#50fa7b"), // Green
		NonCompliant:  lipgloss.Color("#ff5555"), // Red
		Partial:       lipgloss.Color("#f1fa8c"), // Yellow
		NotApplicable: lipgloss.Color("#6272a4"), // Comment
		High:          lipgloss.Color("#ff5555"), // Red
		Medium:        lipgloss.Color("#ffb86c"), // Orange
		Low:           lipgloss.Color("#50fa7b"), // Green
		Background:    lipgloss.Color("#282a36"),
		Foreground:    lipgloss.Color("#f8f8f2"),
	},
	ThemeCatppuccin: {
		Name:          ThemeCatppuccin,
		Primary:       lipgloss.Color("#cba6f7"), // Mauve
		Secondary:     lipgloss.Color("#a6e3a1"), // Green
		Subtle:        lipgloss.Color("#6c7086"), // Overlay0
		Compliant:     lipgloss.Color("#a6e3a1"), // Green
		NonCompliant:  lipgloss.Color("#f38ba8"), // Red
		Partial:       lipgloss.Color("#f9e2af"), // Yellow
		NotApplicable: lipgloss.Color("#6c7086"), // Overlay0
		High:          lipgloss.Color("#f38ba8"), // Red
		Medium:        lipgloss.Color("#fab387"), // Peach
		Low:           lipgloss.Color("#a6e3a1"), // Green
		Background:    lipgloss.Color("#1e1e2e"), // Base
		Foreground:    lipgloss.Color("#cdd6f4"), // Text
	},
	ThemeNord: {
		Name:          ThemeNord,
		Primary:       lipgloss.Color("#5e81ac"), // Nord10
		Secondary:     lipgloss.Color("#a3be8c"), // Nord14
		Subtle:        lipgloss.Color("#4c566a"), // Nord3
		Compliant:     lipgloss.Color("#a3be8c"), // Nord14
		NonCompliant:  lipgloss.Color("#bf616a"), // Nord11
		Partial:       lipgloss.Color("#ebcb8b"), // Nord13
		NotApplicable: lipgloss.Color("#4c566a"), // Nord3
		High:          lipgloss.Color("#bf616a"), // Nord11
		Medium:        lipgloss.Color("#d08770"), // Nord12
		Low:           lipgloss.Color("#a3be8c"), // Nord14
		Background:    lipgloss.Color("#2e3440"), // Nord0
		Foreground:    lipgloss.Color("#eceff4"), // Nord6
	},
}

// CurrentTheme is the active theme
var CurrentTheme = Themes[ThemeDark]

// SetTheme changes the active theme
func SetTheme(name ThemeName) {
	if theme, ok := Themes[name]; ok {
		CurrentTheme = theme
		updateStyles()
	}
}

// CycleTheme switches to the next theme
func CycleTheme() ThemeName {
	order := []ThemeName{ThemeDark, ThemeDracula, ThemeCatppuccin, ThemeNord}
	for i, name := range order {
		if name == CurrentTheme.Name {
			next := order[(i+1)%len(order)]
			SetTheme(next)
			return next
		}
	}
	SetTheme(ThemeDark)
	return ThemeDark
}

// updateStyles refreshes the global styles with current theme colors
func updateStyles() {
	PrimaryColor = CurrentTheme.Primary
	SecondaryColor = CurrentTheme.Secondary
	SubtleColor = CurrentTheme.Subtle
	CompliantColor = CurrentTheme.Compliant
	NonCompliantColor = CurrentTheme.NonCompliant
	PartialColor = CurrentTheme.Partial
	NotApplicableColor = CurrentTheme.NotApplicable
	HighColor = CurrentTheme.High
	MediumColor = CurrentTheme.Medium
	LowColor = CurrentTheme.Low

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(CurrentTheme.Foreground).
		Background(PrimaryColor).
		Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor).
		Width(16)

	ValueStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Foreground)

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(SubtleColor)

	SelectedItemStyle = lipgloss.NewStyle().
		BorderLeft(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(PrimaryColor).
		PaddingLeft(1)

	NormalItemStyle = lipgloss.NewStyle().
		PaddingLeft(2)

	DescriptionStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Foreground).
		Width(80)
}
