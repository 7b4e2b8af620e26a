package stig

import (
	"sort"

	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
)

// CCITable resolves a CCI identifier to the NIST controls it satisfies.
type CCITable map[string][]string

// NewCCITable builds a lookup table from parsed CCI reference entries.
// Later entries for the same CCI id replace earlier ones.
func NewCCITable(mappings []model.CCIMapping) CCITable {
	table := make(CCITable, len(mappings))
	for _, m := range mappings {
		table[m.CCIID] = m.NISTControls
	}
	return table
}

// Correlate groups checklist findings by the NIST controls their CCI
// references resolve to. A finding whose CCIs span multiple controls is
// attached to each of them; a CCI with no table entry contributes nothing.
//
// The returned controls are sorted by control id and each carries its
// member findings in discovery order, so repeated runs over the same
// inputs produce identical output.
func Correlate(vulns []model.Vulnerability, table CCITable) []model.MappedControl {
	byControl := make(map[string]*model.MappedControl)

	for _, vuln := range vulns {
		for _, cciRef := range vuln.CCIRefs {
			controls, ok := table[cciRef]
			if !ok {
				continue
			}
			for _, controlID := range controls {
				mc, ok := byControl[controlID]
				if !ok {
					mc = &model.MappedControl{NISTControl: controlID}
					byControl[controlID] = mc
				}
				if !containsString(mc.CCIs, cciRef) {
					mc.CCIs = append(mc.CCIs, cciRef)
				}
				if !containsVuln(mc.Vulnerabilities, vuln.VulnID) {
					mc.Vulnerabilities = append(mc.Vulnerabilities, vuln)
				}
			}
		}
	}

	mapped := make([]model.MappedControl, 0, len(byControl))
	for _, mc := range byControl {
		Recompute(mc)
		mapped = append(mapped, *mc)
	}

	sort.SliceStable(mapped, func(i, j int) bool {
		return CompareControls(mapped[i].NISTControl, mapped[j].NISTControl) < 0
	})
	return mapped
}

// MergeChecklists concatenates the finding sequences of several parsed
// checklists under the first checklist's asset and benchmark metadata.
func MergeChecklists(checklists []model.Checklist) (model.Checklist, error) {
	if len(checklists) == 0 {
		return model.Checklist{}, &ValidationError{Field: "checklists", Reason: "no checklist files provided"}
	}

	merged := checklists[0]
	merged.Vulnerabilities = append([]model.Vulnerability(nil), checklists[0].Vulnerabilities...)
	for _, cl := range checklists[1:] {
		merged.Vulnerabilities = append(merged.Vulnerabilities, cl.Vulnerabilities...)
	}
	return merged, nil
}

// BuildMappingResult runs the correlation over a checklist and derives the
// summary counts.
func BuildMappingResult(checklist model.Checklist, mappings []model.CCIMapping) model.MappingResult {
	mapped := Correlate(checklist.Vulnerabilities, NewCCITable(mappings))
	return model.MappingResult{
		TotalVulnerabilities: len(checklist.Vulnerabilities),
		MappedControls:       mapped,
		Summary:              Summarize(mapped),
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsVuln(list []model.Vulnerability, vulnID string) bool {
	for _, v := range list {
		if v.VulnID == vulnID {
			return true
		}
	}
	return false
}
