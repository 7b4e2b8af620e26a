package tui

import (
	"strings"
	"testing"

	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
	"github.com/FoxxDev-Collab/poam-tracker/internal/stats"
)

func testControls() []model.MappedControl {
	return []model.MappedControl{
		{NISTControl: "AC-2", ComplianceStatus: model.ComplianceNonCompliant, RiskLevel: model.RiskHigh, FindingsCount: 2},
		{NISTControl: "AC-2(1)", ComplianceStatus: model.CompliancePartial, RiskLevel: model.RiskMedium, FindingsCount: 1},
		{NISTControl: "AC-17", ComplianceStatus: model.ComplianceCompliant, RiskLevel: model.RiskLow},
		{NISTControl: "AU-3", ComplianceStatus: model.ComplianceCompliant, RiskLevel: model.RiskLow},
		{NISTControl: "IA-2", ComplianceStatus: model.ComplianceNotApplicable, RiskLevel: model.RiskLow},
	}
}

func TestGetComplianceStats(t *testing.T) {
	s := GetComplianceStats(testControls())

	if s.Total != 5 {
		t.Errorf("Total = %d, want 5", s.Total)
	}
	if s.Compliant != 2 {
		t.Errorf("Compliant = %d, want 2", s.Compliant)
	}
	if s.NonCompliant != 1 {
		t.Errorf("NonCompliant = %d, want 1", s.NonCompliant)
	}
	if s.Partial != 1 {
		t.Errorf("Partial = %d, want 1", s.Partial)
	}
	if s.NotApplicable != 1 {
		t.Errorf("NotApplicable = %d, want 1", s.NotApplicable)
	}
}

func TestGetRiskStats(t *testing.T) {
	s := GetRiskStats(testControls())

	if s.High != 1 || s.Medium != 1 || s.Low != 3 {
		t.Errorf("risk stats = %+v, want 1 high, 1 medium, 3 low", s)
	}
}

func TestGetTopFamilies(t *testing.T) {
	families := GetTopFamilies(testControls(), 10)

	if len(families) != 3 {
		t.Fatalf("got %d families, want 3", len(families))
	}
	// AC has the most controls and sorts first.
	if families[0].Family != "AC" || families[0].Count != 3 {
		t.Errorf("families[0] = %+v, want AC with 3 controls", families[0])
	}
	if families[0].Open != 3 {
		t.Errorf("AC open findings = %d, want 3", families[0].Open)
	}
	// Equal counts fall back to family name order.
	if families[1].Family != "AU" || families[2].Family != "IA" {
		t.Errorf("tie order = %s, %s, want AU then IA", families[1].Family, families[2].Family)
	}
}

func TestGetTopFamiliesLimit(t *testing.T) {
	families := GetTopFamilies(testControls(), 1)
	if len(families) != 1 {
		t.Errorf("got %d families, want 1", len(families))
	}
}

func TestRenderComplianceChart(t *testing.T) {
	output := RenderComplianceChart(testControls(), 80, 30)

	for _, want := range []string{"Compliance Status Distribution", "Compliant: 2 (40.0%)", "Non-Compliant: 1 (20.0%)", "Total controls: 5"} {
		if !strings.Contains(output, want) {
			t.Errorf("chart output missing %q", want)
		}
	}
}

func TestRenderComplianceChartEmpty(t *testing.T) {
	output := RenderComplianceChart(nil, 80, 30)
	if output != "No mapped control data available" {
		t.Errorf("empty chart = %q", output)
	}
}

func TestRenderRiskChart(t *testing.T) {
	output := RenderRiskChart(testControls(), 80, 30)

	for _, want := range []string{"Risk Level Distribution", "High: 1 (20.0%)", "Low: 3 (60.0%)"} {
		if !strings.Contains(output, want) {
			t.Errorf("chart output missing %q", want)
		}
	}
}

func TestRenderFamilyChart(t *testing.T) {
	output := RenderFamilyChart(testControls(), 80, 30)

	if !strings.Contains(output, "Top Control Families") {
		t.Error("missing chart title")
	}
	if !strings.Contains(output, "AC: 3 controls, 3 open findings") {
		t.Error("missing AC family legend")
	}
}

func TestRenderSystemChart(t *testing.T) {
	systems := []stats.SystemStats{
		{SystemID: "sys-a", SystemName: "Alpha", OpenPOAMs: 2, ClosedPOAMs: 1, OverduePOAMs: 1},
		{SystemID: "sys-b", SystemName: "Bravo", Degraded: true},
	}
	agg := stats.AggregatedStats{Systems: systems, TotalPOAMs: 3, CompletionRate: 33}

	output := RenderSystemChart(systems, agg, 80, 30)

	if !strings.Contains(output, "POA&Ms by System") {
		t.Error("missing chart title")
	}
	if !strings.Contains(output, "Alpha: 3 POA&Ms (2 open, 1 overdue)") {
		t.Error("missing Alpha legend line")
	}
	if !strings.Contains(output, "[unavailable]") {
		t.Error("degraded system not marked")
	}
	if !strings.Contains(output, "33%") {
		t.Error("missing completion rate")
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"longer than ten", 10, "longer th."},
	}

	for _, tt := range tests {
		if got := truncateString(tt.input, tt.maxLen); got != tt.expected {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
		}
	}
}
