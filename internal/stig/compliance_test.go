package stig

import (
	"testing"

	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
)

func vulnsWithStatuses(statuses ...model.VulnStatus) []model.Vulnerability {
	vulns := make([]model.Vulnerability, len(statuses))
	for i, s := range statuses {
		vulns[i] = model.Vulnerability{VulnID: "V-" + string(rune('1'+i)), Status: s, Severity: model.SeverityMedium}
	}
	return vulns
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []model.VulnStatus
		wantStatus model.ComplianceStatus
		wantRisk   model.RiskLevel
	}{
		{
			name:       "any open wins",
			statuses:   []model.VulnStatus{model.StatusOpen, model.StatusNotAFinding},
			wantStatus: model.ComplianceNonCompliant,
			wantRisk:   model.RiskHigh,
		},
		{
			name:       "open beats not applicable",
			statuses:   []model.VulnStatus{model.StatusNotApplicable, model.StatusOpen},
			wantStatus: model.ComplianceNonCompliant,
			wantRisk:   model.RiskHigh,
		},
		{
			name:       "all not a finding",
			statuses:   []model.VulnStatus{model.StatusNotAFinding, model.StatusNotAFinding},
			wantStatus: model.ComplianceCompliant,
			wantRisk:   model.RiskLow,
		},
		{
			name:       "all not applicable",
			statuses:   []model.VulnStatus{model.StatusNotApplicable, model.StatusNotApplicable},
			wantStatus: model.ComplianceNotApplicable,
			wantRisk:   model.RiskLow,
		},
		{
			name:       "mixed reviewed and unreviewed",
			statuses:   []model.VulnStatus{model.StatusNotReviewed, model.StatusNotAFinding},
			wantStatus: model.CompliancePartial,
			wantRisk:   model.RiskMedium,
		},
		{
			name:       "not a finding with not applicable",
			statuses:   []model.VulnStatus{model.StatusNotAFinding, model.StatusNotApplicable},
			wantStatus: model.CompliancePartial,
			wantRisk:   model.RiskMedium,
		},
		{
			name:       "no findings",
			statuses:   nil,
			wantStatus: model.ComplianceNotApplicable,
			wantRisk:   model.RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, risk := Evaluate(vulnsWithStatuses(tt.statuses...))
			if status != tt.wantStatus || risk != tt.wantRisk {
				t.Errorf("Evaluate() = %q/%q, want %q/%q", status, risk, tt.wantStatus, tt.wantRisk)
			}
		})
	}
}

func TestRecomputeCountsOnlyOpenFindings(t *testing.T) {
	tests := []struct {
		name     string
		statuses []model.VulnStatus
		want     int
	}{
		{name: "all closed", statuses: []model.VulnStatus{model.StatusNotAFinding, model.StatusNotAFinding}, want: 0},
		{name: "mixed", statuses: []model.VulnStatus{model.StatusOpen, model.StatusNotAFinding, model.StatusNotReviewed}, want: 1},
		{name: "all open", statuses: []model.VulnStatus{model.StatusOpen, model.StatusOpen}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := model.MappedControl{NISTControl: "AC-2", Vulnerabilities: vulnsWithStatuses(tt.statuses...)}
			Recompute(&mc)
			if mc.FindingsCount != tt.want {
				t.Errorf("FindingsCount = %d, want %d", mc.FindingsCount, tt.want)
			}
		})
	}
}

func TestSummarizeDeduplicatesFindings(t *testing.T) {
	shared := model.Vulnerability{VulnID: "V-1", Status: model.StatusOpen, Severity: model.SeverityHigh}
	controls := []model.MappedControl{
		{NISTControl: "AC-2", Vulnerabilities: []model.Vulnerability{shared}, ComplianceStatus: model.ComplianceNonCompliant},
		{NISTControl: "AU-3", Vulnerabilities: []model.Vulnerability{shared}, ComplianceStatus: model.ComplianceNonCompliant},
	}

	summary := Summarize(controls)
	if summary.HighRiskFindings != 1 {
		t.Errorf("a finding on two controls counted %d times, want 1", summary.HighRiskFindings)
	}
	if summary.NonCompliantControls != 2 {
		t.Errorf("NonCompliantControls = %d, want 2", summary.NonCompliantControls)
	}
}

func TestSummarizeHonorsSeverityOverride(t *testing.T) {
	controls := []model.MappedControl{{
		NISTControl: "AC-2",
		Vulnerabilities: []model.Vulnerability{
			{VulnID: "V-1", Status: model.StatusOpen, Severity: model.SeverityLow, SeverityOverride: model.SeverityHigh},
		},
		ComplianceStatus: model.ComplianceNonCompliant,
	}}

	summary := Summarize(controls)
	if summary.HighRiskFindings != 1 || summary.LowRiskFindings != 0 {
		t.Errorf("override ignored: %+v", summary)
	}
}

func TestApplyVulnEditRipples(t *testing.T) {
	res := &model.MappingResult{
		TotalVulnerabilities: 1,
		MappedControls: []model.MappedControl{
			{NISTControl: "AC-2", Vulnerabilities: vulnsWithStatuses(model.StatusOpen)},
			{NISTControl: "AU-3", Vulnerabilities: vulnsWithStatuses(model.StatusOpen)},
		},
	}
	for i := range res.MappedControls {
		Recompute(&res.MappedControls[i])
	}
	res.Summary = Summarize(res.MappedControls)
	if res.Summary.NonCompliantControls != 2 {
		t.Fatalf("precondition: %+v", res.Summary)
	}

	closed := model.StatusNotAFinding
	if err := ApplyVulnEdit(res, "V-1", VulnEdit{Status: &closed}); err != nil {
		t.Fatalf("ApplyVulnEdit: %v", err)
	}

	for _, mc := range res.MappedControls {
		if mc.ComplianceStatus != model.ComplianceCompliant {
			t.Errorf("control %s = %q after edit, want compliant", mc.NISTControl, mc.ComplianceStatus)
		}
		if mc.FindingsCount != 0 {
			t.Errorf("control %s FindingsCount = %d after closing its finding, want 0", mc.NISTControl, mc.FindingsCount)
		}
	}
	if res.Summary.CompliantControls != 2 || res.Summary.NonCompliantControls != 0 {
		t.Errorf("summary not recomputed: %+v", res.Summary)
	}
}

func TestApplyVulnEditUnknownFinding(t *testing.T) {
	res := &model.MappingResult{
		MappedControls: []model.MappedControl{
			{NISTControl: "AC-2", Vulnerabilities: vulnsWithStatuses(model.StatusOpen)},
		},
	}

	closed := model.StatusNotAFinding
	err := ApplyVulnEdit(res, "V-404", VulnEdit{Status: &closed})
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("want NotFoundError, got %v", err)
	}
}
