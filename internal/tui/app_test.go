package tui

import (
	"strings"
	"testing"

	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
)

func TestSortModeString(t *testing.T) {
	tests := []struct {
		mode SortMode
		want string
	}{
		{SortByControl, "Control ID"},
		{SortByRisk, "Risk Level"},
		{SortByFindings, "Open Findings"},
		{SortMode(99), ""},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("SortMode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(nil, nil, nil)

	if m.view != ViewSystems {
		t.Errorf("initial view = %d, want ViewSystems", m.view)
	}
	if !m.loading {
		t.Error("new model should start in loading state")
	}
	if m.sortMode != SortByControl {
		t.Errorf("sortMode = %s, want Control ID", m.sortMode)
	}
	if m.filterMode != FilterNone {
		t.Error("filterMode should default to FilterNone")
	}
	if len(m.chartOptions) != 4 {
		t.Errorf("chartOptions = %d, want 4", len(m.chartOptions))
	}
	if len(m.exportOptions) != 4 {
		t.Errorf("exportOptions = %d, want 4", len(m.exportOptions))
	}
	if m.prepSelection == nil {
		t.Error("prepSelection map should be initialized")
	}
}

func mappingFixture() *model.StoredMapping {
	return &model.StoredMapping{
		ID:   "map-1",
		Name: "RHEL 9 STIG",
		MappingResult: model.MappingResult{
			MappedControls: []model.MappedControl{
				{
					NISTControl:      "AU-3",
					CCIs:             []string{"CCI-000130"},
					ComplianceStatus: model.ComplianceCompliant,
					RiskLevel:        model.RiskLow,
				},
				{
					NISTControl:      "AC-2",
					CCIs:             []string{"CCI-000015"},
					ComplianceStatus: model.ComplianceNonCompliant,
					RiskLevel:        model.RiskHigh,
					FindingsCount:    2,
				},
				{
					NISTControl:      "AC-17",
					CCIs:             []string{"CCI-000067"},
					ComplianceStatus: model.CompliancePartial,
					RiskLevel:        model.RiskMedium,
					FindingsCount:    1,
				},
			},
		},
	}
}

func controlOrder(m Model) []string {
	var ids []string
	for _, it := range m.controlsList.Items() {
		ids = append(ids, it.(model.ControlItem).NISTControl)
	}
	return ids
}

func TestRebuildControlsListSortsByControlID(t *testing.T) {
	m := NewModel(nil, nil, nil)
	m.currentMapping = mappingFixture()
	m.rebuildControlsList()

	got := controlOrder(m)
	// Base IDs order lexicographically, so AC-17 sorts before AC-2.
	want := []string{"AC-17", "AC-2", "AU-3"}
	for i, id := range want {
		if got[i] != id {
			t.Fatalf("control order = %v, want %v", got, want)
		}
	}
}

func TestRebuildControlsListSortsByRisk(t *testing.T) {
	m := NewModel(nil, nil, nil)
	m.currentMapping = mappingFixture()
	m.sortMode = SortByRisk
	m.rebuildControlsList()

	got := controlOrder(m)
	want := []string{"AC-2", "AC-17", "AU-3"}
	for i, id := range want {
		if got[i] != id {
			t.Fatalf("risk order = %v, want %v", got, want)
		}
	}
}

func TestRebuildControlsListSortsByFindings(t *testing.T) {
	m := NewModel(nil, nil, nil)
	m.currentMapping = mappingFixture()
	m.sortMode = SortByFindings
	m.rebuildControlsList()

	got := controlOrder(m)
	if got[0] != "AC-2" || got[1] != "AC-17" || got[2] != "AU-3" {
		t.Errorf("findings order = %v, want [AC-2 AC-17 AU-3]", got)
	}
}

func TestRebuildControlsListFilters(t *testing.T) {
	m := NewModel(nil, nil, nil)
	m.currentMapping = mappingFixture()

	m.filterMode = FilterNonCompliant
	m.rebuildControlsList()
	if got := controlOrder(m); len(got) != 2 {
		t.Errorf("non-compliant filter kept %v, want AC-2 and AC-17", got)
	}

	m.filterMode = FilterOpenFindings
	m.rebuildControlsList()
	for _, it := range m.controlsList.Items() {
		if it.(model.ControlItem).FindingsCount == 0 {
			t.Errorf("open-findings filter kept %s with zero findings", it.(model.ControlItem).NISTControl)
		}
	}
}

func TestRebuildControlsListMarksSelection(t *testing.T) {
	m := NewModel(nil, nil, nil)
	m.currentMapping = mappingFixture()
	m.prepSelection["AC-2"] = true
	m.rebuildControlsList()

	for _, it := range m.controlsList.Items() {
		ci := it.(model.ControlItem)
		if ci.NISTControl == "AC-2" && !ci.Selected {
			t.Error("AC-2 should carry the prep selection mark")
		}
		if ci.NISTControl == "AU-3" && ci.Selected {
			t.Error("AU-3 should not be selected")
		}
	}
}

func TestSelectedControlIDs(t *testing.T) {
	m := NewModel(nil, nil, nil)
	m.prepSelection["AU-3"] = true
	m.prepSelection["AC-2"] = true
	m.prepSelection["IA-2"] = false

	got := m.selectedControlIDs()
	if len(got) != 2 || got[0] != "AC-2" || got[1] != "AU-3" {
		t.Errorf("selectedControlIDs() = %v, want [AC-2 AU-3]", got)
	}
}

func TestRenderControlContent(t *testing.T) {
	m := NewModel(nil, nil, nil)
	m.selectedControl = &model.ControlItem{
		MappedControl: model.MappedControl{
			NISTControl:      "AC-2",
			CCIs:             []string{"CCI-000015", "CCI-000016"},
			ComplianceStatus: model.ComplianceNonCompliant,
			RiskLevel:        model.RiskHigh,
			FindingsCount:    1,
			Vulnerabilities: []model.Vulnerability{
				{
					VulnID:         "V-257777",
					RuleTitle:      "Accounts must be managed",
					Severity:       model.SeverityHigh,
					Status:         model.StatusOpen,
					FindingDetails: "Stale accounts present",
					FixText:        "Disable stale accounts",
				},
			},
		},
	}

	out := m.renderControlContent()
	for _, want := range []string{
		"Account Management",
		"Access Control",
		"CCI-000015, CCI-000016",
		"V-257777",
		"Accounts must be managed",
		"Stale accounts present",
		"Disable stale accounts",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("control content missing %q", want)
		}
	}
}
