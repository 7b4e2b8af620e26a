package stig

import "github.com/FoxxDev-Collab/poam-tracker/internal/model"

// Evaluate derives a control's compliance status and risk level from its
// member findings. First matching rule wins:
//
//  1. any Open finding            -> non-compliant, high
//  2. all NotAFinding             -> compliant, low
//  3. all Not_Applicable          -> not-applicable, low
//  4. anything else (mixed/unreviewed) -> partial, medium
//
// A control with no findings evaluates to not-applicable/low; nothing was
// assessed against it, so it carries no risk.
func Evaluate(vulns []model.Vulnerability) (model.ComplianceStatus, model.RiskLevel) {
	if len(vulns) == 0 {
		return model.ComplianceNotApplicable, model.RiskLow
	}

	allNotAFinding := true
	allNotApplicable := true
	for _, v := range vulns {
		switch v.Status {
		case model.StatusOpen:
			return model.ComplianceNonCompliant, model.RiskHigh
		case model.StatusNotAFinding:
			allNotApplicable = false
		case model.StatusNotApplicable:
			allNotAFinding = false
		default:
			allNotAFinding = false
			allNotApplicable = false
		}
	}

	switch {
	case allNotAFinding:
		return model.ComplianceCompliant, model.RiskLow
	case allNotApplicable:
		return model.ComplianceNotApplicable, model.RiskLow
	}
	return model.CompliancePartial, model.RiskMedium
}

// Recompute refreshes the derived fields of a single control after its
// findings changed. FindingsCount counts only Open findings; members in
// any other status are assessed but not outstanding.
func Recompute(mc *model.MappedControl) {
	mc.ComplianceStatus, mc.RiskLevel = Evaluate(mc.Vulnerabilities)
	mc.FindingsCount = countOpen(mc.Vulnerabilities)
}

func countOpen(vulns []model.Vulnerability) int {
	open := 0
	for _, v := range vulns {
		if v.Status == model.StatusOpen {
			open++
		}
	}
	return open
}

// Summarize reduces the mapped controls to the counts shown on a mapping
// result. Finding risk counts are deduplicated by vuln id, since a finding
// that fans out to several controls is still one finding.
func Summarize(controls []model.MappedControl) model.MappingSummary {
	summary := model.MappingSummary{TotalControls: len(controls)}

	seen := make(map[string]bool)
	for _, mc := range controls {
		switch mc.ComplianceStatus {
		case model.ComplianceCompliant:
			summary.CompliantControls++
		case model.ComplianceNonCompliant:
			summary.NonCompliantControls++
		case model.ComplianceNotApplicable:
			summary.NotApplicableControls++
		default:
			summary.PartialControls++
		}

		for _, v := range mc.Vulnerabilities {
			if v.Status != model.StatusOpen || seen[v.VulnID] {
				continue
			}
			seen[v.VulnID] = true
			switch v.EffectiveSeverity() {
			case model.SeverityHigh:
				summary.HighRiskFindings++
			case model.SeverityMedium:
				summary.MediumRiskFindings++
			default:
				summary.LowRiskFindings++
			}
		}
	}
	return summary
}

// VulnEdit carries the user-editable fields of a finding. Nil pointers
// leave the current value unchanged.
type VulnEdit struct {
	Status                *model.VulnStatus
	SeverityOverride      *model.Severity
	SeverityJustification *string
	FindingDetails        *string
	Comments              *string
}

// ApplyVulnEdit updates every copy of the identified finding across the
// result's controls, then recomputes the affected controls and the
// summary. It returns a NotFoundError when no control carries the finding.
func ApplyVulnEdit(res *model.MappingResult, vulnID string, edit VulnEdit) error {
	found := false
	for i := range res.MappedControls {
		mc := &res.MappedControls[i]
		touched := false
		for j := range mc.Vulnerabilities {
			if mc.Vulnerabilities[j].VulnID != vulnID {
				continue
			}
			applyEdit(&mc.Vulnerabilities[j], edit)
			touched = true
		}
		if touched {
			found = true
			Recompute(mc)
		}
	}
	if !found {
		return &NotFoundError{Kind: "vulnerability", ID: vulnID}
	}
	res.Summary = Summarize(res.MappedControls)
	return nil
}

func applyEdit(v *model.Vulnerability, edit VulnEdit) {
	if edit.Status != nil {
		v.Status = *edit.Status
	}
	if edit.SeverityOverride != nil {
		v.SeverityOverride = *edit.SeverityOverride
	}
	if edit.SeverityJustification != nil {
		v.SeverityJustification = *edit.SeverityJustification
	}
	if edit.FindingDetails != nil {
		v.FindingDetails = *edit.FindingDetails
	}
	if edit.Comments != nil {
		v.Comments = *edit.Comments
	}
}
