package stig

import "testing"

func TestCompareControls(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "equal base ids", a: "AC-2", b: "AC-2", want: 0},
		{name: "base order alphabetical", a: "AC-2", b: "AU-3", want: -1},
		{name: "base before enhancement", a: "AC-2", b: "AC-2(1)", want: -1},
		{name: "enhancement after base", a: "AC-2(1)", b: "AC-2", want: 1},
		{name: "numeric enhancement order", a: "AC-2(9)", b: "AC-2(10)", want: -1},
		{name: "equal enhancements", a: "AC-2(3)", b: "AC-2(3)", want: 0},
		{name: "different families", a: "SI-2", b: "AC-2(5)", want: 1},
		{name: "numeric before malformed suffix", a: "AC-2(2)", b: "AC-2(b)", want: -1},
		{name: "malformed suffixes lexicographic", a: "AC-2(a)", b: "AC-2(b)", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sign(CompareControls(tt.a, tt.b)); got != tt.want {
				t.Errorf("CompareControls(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompareControlsTotality(t *testing.T) {
	ids := []string{"AC-2", "AC-2(1)", "AC-2(9)", "AC-2(10)", "AU-3", "SI-2", "AC-2(x)", "CM-6"}

	for _, a := range ids {
		if CompareControls(a, a) != 0 {
			t.Errorf("CompareControls(%q, %q) != 0", a, a)
		}
		for _, b := range ids {
			if sign(CompareControls(a, b)) != -sign(CompareControls(b, a)) {
				t.Errorf("antisymmetry broken for %q, %q", a, b)
			}
		}
	}
}

func TestLessControlsDescending(t *testing.T) {
	// Base control stays ahead of its enhancements even when the order is
	// reversed.
	if !LessControls("AC-2", "AC-2(3)", true) {
		t.Error("base control should order before its enhancement descending")
	}
	if !LessControls("AU-3", "AC-2", true) {
		t.Error("descending should reverse base comparisons")
	}
}

func TestSortControlIDs(t *testing.T) {
	ids := []string{"AC-2(10)", "SI-2", "AC-2", "AC-2(2)", "AU-3", "AC-2(9)"}
	SortControlIDs(ids)

	want := []string{"AC-2", "AC-2(2)", "AC-2(9)", "AC-2(10)", "AU-3", "SI-2"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("sorted order = %v, want %v", ids, want)
		}
	}
}

func TestControlFamily(t *testing.T) {
	if got := ControlFamily("AC-2(3)"); got != "AC" {
		t.Errorf("ControlFamily(AC-2(3)) = %q, want AC", got)
	}
	if got := BaseControl("SI-4(12)"); got != "SI-4" {
		t.Errorf("BaseControl(SI-4(12)) = %q, want SI-4", got)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
