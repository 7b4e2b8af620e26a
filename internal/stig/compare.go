// Package stig implements the STIG-to-NIST correlation core: control
// identifier ordering, CCI resolution, compliance aggregation, and prep
// list projection.
package stig

import (
	"sort"
	"strconv"
	"strings"
)

// CompareControls orders two NIST control identifiers the way an assessor
// expects: base identifiers alphabetically, a base control before any of
// its enhancements, and enhancements by numeric value so that "AC-2(10)"
// follows "AC-2(9)".
//
// The result is a total order: CompareControls(a, b) == -CompareControls(b, a)
// and CompareControls(a, a) == 0 for all inputs.
func CompareControls(a, b string) int {
	aBase, aSuffix := splitControl(a)
	bBase, bSuffix := splitControl(b)

	if c := strings.Compare(aBase, bBase); c != 0 {
		return c
	}

	// Same base: the bare control sorts first.
	switch {
	case aSuffix == "" && bSuffix == "":
		return 0
	case aSuffix == "":
		return -1
	case bSuffix == "":
		return 1
	}

	aNum, aOK := parseEnhancement(aSuffix)
	bNum, bOK := parseEnhancement(bSuffix)

	switch {
	case aOK && bOK:
		switch {
		case aNum < bNum:
			return -1
		case aNum > bNum:
			return 1
		}
		return strings.Compare(aSuffix, bSuffix)
	case aOK:
		// Numeric enhancements order before malformed ones.
		return -1
	case bOK:
		return 1
	}
	return strings.Compare(aSuffix, bSuffix)
}

// LessControls reports whether a orders before b, honoring the requested
// direction. The bare control stays ahead of its enhancements even when
// descending, matching how control tables are read.
func LessControls(a, b string, descending bool) bool {
	aBase, aSuffix := splitControl(a)
	bBase, bSuffix := splitControl(b)

	if aBase == bBase && (aSuffix == "") != (bSuffix == "") {
		return aSuffix == ""
	}

	c := CompareControls(a, b)
	if descending {
		return c > 0
	}
	return c < 0
}

// SortControlIDs sorts identifiers ascending in place.
func SortControlIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return CompareControls(ids[i], ids[j]) < 0
	})
}

// splitControl separates "AC-2(3)" into base "AC-2" and suffix "3". The
// suffix keeps whatever sits between the parentheses, including malformed
// content, so the comparator can fall back to a lexicographic tiebreak.
func splitControl(id string) (base, suffix string) {
	i := strings.IndexByte(id, '(')
	if i < 0 {
		return strings.TrimSpace(id), ""
	}
	base = strings.TrimSpace(id[:i])
	suffix = strings.TrimSpace(strings.TrimSuffix(id[i+1:], ")"))
	return base, suffix
}

func parseEnhancement(suffix string) (int, bool) {
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// BaseControl strips any enhancement suffix: "AC-2(3)" yields "AC-2".
func BaseControl(id string) string {
	base, _ := splitControl(id)
	return base
}

// ControlFamily returns the two-letter family prefix of a control id,
// e.g. "AC" for "AC-2(3)". An id without a dash is returned unchanged.
func ControlFamily(id string) string {
	base := BaseControl(id)
	if i := strings.IndexByte(base, '-'); i > 0 {
		return base[:i]
	}
	return base
}
