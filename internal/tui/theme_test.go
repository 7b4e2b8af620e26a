package tui

import "testing"

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(ThemeDark) })

	SetTheme(ThemeDracula)
	if CurrentTheme.Name != ThemeDracula {
		t.Errorf("CurrentTheme = %s, want dracula", CurrentTheme.Name)
	}
	if PrimaryColor != CurrentTheme.Primary {
		t.Error("PrimaryColor not updated with theme")
	}
	if NonCompliantColor != CurrentTheme.NonCompliant {
		t.Error("NonCompliantColor not updated with theme")
	}
}

func TestSetThemeUnknownKeepsCurrent(t *testing.T) {
	t.Cleanup(func() { SetTheme(ThemeDark) })

	SetTheme(ThemeNord)
	SetTheme(ThemeName("no-such-theme"))
	if CurrentTheme.Name != ThemeNord {
		t.Errorf("CurrentTheme = %s, want nord after unknown name", CurrentTheme.Name)
	}
}

func TestCycleTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(ThemeDark) })

	SetTheme(ThemeDark)
	order := []ThemeName{ThemeDracula, ThemeCatppuccin, ThemeNord, ThemeDark}
	for _, want := range order {
		got := CycleTheme()
		if got != want {
			t.Errorf("CycleTheme() = %s, want %s", got, want)
		}
	}
}

func TestThemesHaveAllColors(t *testing.T) {
	for name, theme := range Themes {
		if theme.Primary == "" || theme.Compliant == "" || theme.NonCompliant == "" ||
			theme.Partial == "" || theme.High == "" || theme.Foreground == "" {
			t.Errorf("theme %s has unset colors: %+v", name, theme)
		}
	}
}
