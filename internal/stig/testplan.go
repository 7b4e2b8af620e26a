package stig

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
)

// GenerateTestPlan expands a prep list into a security test plan with one
// test case per (control, finding) pair. Cases start unexecuted; the
// overall score stays zero until cases are evaluated.
func GenerateTestPlan(prep *model.PrepList, name string, now time.Time) (model.TestPlan, error) {
	if strings.TrimSpace(name) == "" {
		return model.TestPlan{}, &ValidationError{Field: "name", Reason: "test plan name is required"}
	}
	if len(prep.SelectedControls) == 0 {
		return model.TestPlan{}, &ValidationError{Field: "controls", Reason: "prep list has no controls"}
	}

	var cases []model.TestCase
	for _, pc := range prep.SelectedControls {
		for _, v := range pc.Vulnerabilities {
			cci := ""
			if len(v.CCIRefs) > 0 {
				cci = v.CCIRefs[0]
			}
			cases = append(cases, model.TestCase{
				ID:             uuid.NewString(),
				NISTControl:    pc.NISTControl,
				CCIRef:         cci,
				STIGVulnID:     v.VulnID,
				Description:    fmt.Sprintf("Verify %s: %s", pc.NISTControl, v.RuleTitle),
				Procedure:      v.CheckContent,
				ExpectedResult: "Check passes with no open finding",
				Status:         model.TestNotStarted,
				RiskRating:     pc.RiskLevel,
			})
		}
	}

	return model.TestPlan{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   prep.Description,
		CreatedDate:   now,
		UpdatedDate:   now,
		Status:        "draft",
		STIGMappingID: prep.SourceMappingID,
		TestCases:     cases,
	}, nil
}

// ScoreTestPlan recomputes the overall score: passed cases over evaluated
// cases. Unstarted, in-progress, and not-applicable cases do not count.
func ScoreTestPlan(plan *model.TestPlan) {
	passed, evaluated := 0, 0
	for _, tc := range plan.TestCases {
		switch tc.Status {
		case model.TestPassed:
			passed++
			evaluated++
		case model.TestFailed:
			evaluated++
		}
	}
	if evaluated == 0 {
		plan.OverallScore = 0
		return
	}
	plan.OverallScore = float64(passed) / float64(evaluated) * 100
}
