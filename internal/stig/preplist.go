package stig

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
)

// ProjectPrepList copies the selected controls out of a stored mapping
// into a new prep list. The copies are point-in-time snapshots: later
// edits to the source mapping do not reach them. Selection ids that match
// no control are skipped.
func ProjectPrepList(src *model.StoredMapping, name, description string, selected []string, now time.Time) (model.PrepList, error) {
	if strings.TrimSpace(name) == "" {
		return model.PrepList{}, &ValidationError{Field: "name", Reason: "prep list name is required"}
	}
	if len(selected) == 0 {
		return model.PrepList{}, &ValidationError{Field: "controls", Reason: "select at least one control"}
	}

	want := make(map[string]bool, len(selected))
	for _, id := range selected {
		want[id] = true
	}

	var controls []model.PrepControl
	for _, mc := range src.MappingResult.MappedControls {
		if !want[mc.NISTControl] {
			continue
		}
		controls = append(controls, model.PrepControl{
			NISTControl:      mc.NISTControl,
			CCIs:             append([]string(nil), mc.CCIs...),
			Vulnerabilities:  cloneVulns(mc.Vulnerabilities),
			ComplianceStatus: mc.ComplianceStatus,
			RiskLevel:        mc.RiskLevel,
			SelectedForSTP:   true,
		})
	}
	if len(controls) == 0 {
		return model.PrepList{}, &ValidationError{Field: "controls", Reason: "selection matched no mapped controls"}
	}

	return model.PrepList{
		ID:               uuid.NewString(),
		Name:             name,
		Description:      description,
		CreatedDate:      now,
		UpdatedDate:      now,
		SourceMappingID:  src.ID,
		STIGInfo:         src.STIGInfo,
		AssetInfo:        src.AssetInfo,
		PrepStatus:       model.PrepReady,
		SelectedControls: controls,
		ControlCount:     len(controls),
	}, nil
}

// cloneVulns deep-copies a finding slice, including the CCI ref slices, so
// the snapshot shares no memory with the source mapping.
func cloneVulns(vulns []model.Vulnerability) []model.Vulnerability {
	out := make([]model.Vulnerability, len(vulns))
	for i, v := range vulns {
		out[i] = v
		out[i].CCIRefs = append([]string(nil), v.CCIRefs...)
	}
	return out
}
