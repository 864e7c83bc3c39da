package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" || names[1] != "Kanagawa" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Kanagawa Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("Unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(Unknown) = %q, want Nightfox", got)
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%s).Name = %q", name, got)
		}
	}
	if got := GetTheme("NonExistent").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(NonExistent).Name = %q, want Nightfox fallback", got)
	}
}

func TestThemesDefineColors(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for label, color := range map[string]string{
			"Background": th.Background,
			"Surface":    th.Surface,
			"FocusBg":    th.FocusBg,
			"Text":       th.Text,
			"Accent":     th.Accent,
			"Success":    th.Success,
			"Danger":     th.Danger,
			"Warning":    th.Warning,
		} {
			if color == "" {
				t.Fatalf("%s theme has empty %s color", name, label)
			}
		}
	}
}
