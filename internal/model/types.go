// Package model defines the domain types shared across the tracker:
// checklist findings, CCI reference entries, mapped NIST controls,
// POA&Ms, notes, systems, and security test plans.
package model

import "time"

// VulnStatus is the review status of a single checklist finding.
type VulnStatus string

const (
	StatusOpen          VulnStatus = "Open"
	StatusNotAFinding   VulnStatus = "NotAFinding"
	StatusNotApplicable VulnStatus = "Not_Applicable"
	StatusNotReviewed   VulnStatus = "Not_Reviewed"
)

// Severity is a STIG finding severity category.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ComplianceStatus is the rolled-up status of a mapped control.
type ComplianceStatus string

const (
	CompliancePartial       ComplianceStatus = "partial"
	ComplianceCompliant     ComplianceStatus = "compliant"
	ComplianceNonCompliant  ComplianceStatus = "non-compliant"
	ComplianceNotApplicable ComplianceStatus = "not-applicable"
)

// RiskLevel is the rolled-up risk of a mapped control.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Vulnerability is one finding from a STIG checklist.
type Vulnerability struct {
	VulnID                string     `json:"vulnId"`
	Severity              Severity   `json:"severity"`
	GroupTitle            string     `json:"groupTitle"`
	RuleID                string     `json:"ruleId"`
	RuleVer               string     `json:"ruleVer"`
	RuleTitle             string     `json:"ruleTitle"`
	Discussion            string     `json:"discussion"`
	CheckContent          string     `json:"checkContent"`
	FixText               string     `json:"fixText"`
	CCIRefs               []string   `json:"cciRefs"`
	Status                VulnStatus `json:"status"`
	FindingDetails        string     `json:"findingDetails"`
	Comments              string     `json:"comments"`
	SeverityOverride      Severity   `json:"severityOverride,omitempty"`
	SeverityJustification string     `json:"severityJustification,omitempty"`
	STIGID                string     `json:"stigId"`
}

// EffectiveSeverity returns the override when one is set, otherwise the
// checklist severity.
func (v Vulnerability) EffectiveSeverity() Severity {
	if v.SeverityOverride != "" {
		return v.SeverityOverride
	}
	return v.Severity
}

// CCIMapping is one entry of the Control Correlation Identifier reference
// list, associating a CCI with the NIST controls it satisfies.
type CCIMapping struct {
	CCIID        string   `json:"cciId"`
	Title        string   `json:"title"`
	Definition   string   `json:"definition"`
	NISTControls []string `json:"nistControls"`
	Type         string   `json:"type"`
	Status       string   `json:"status"`
	PublishDate  string   `json:"publishDate"`
}

// STIGInfo identifies the source checklist benchmark.
type STIGInfo struct {
	Title          string `json:"title"`
	Version        string `json:"version"`
	ReleaseInfo    string `json:"releaseInfo"`
	Classification string `json:"classification"`
	STIGID         string `json:"stigId"`
	Description    string `json:"description,omitempty"`
	FileName       string `json:"fileName,omitempty"`
	UUID           string `json:"uuid,omitempty"`
	Notice         string `json:"notice,omitempty"`
	Source         string `json:"source,omitempty"`
	CustomName     string `json:"customName,omitempty"`
}

// AssetInfo describes the host a checklist was collected from.
type AssetInfo struct {
	Role          string `json:"role"`
	AssetType     string `json:"assetType"`
	Marking       string `json:"marking,omitempty"`
	HostName      string `json:"hostName"`
	HostIP        string `json:"hostIp,omitempty"`
	HostMAC       string `json:"hostMac,omitempty"`
	HostFQDN      string `json:"hostFqdn,omitempty"`
	TargetComment string `json:"targetComment,omitempty"`
	TechArea      string `json:"techArea,omitempty"`
	TargetKey     string `json:"targetKey,omitempty"`
	WebOrDatabase bool   `json:"webOrDatabase"`
	WebDBSite     string `json:"webDbSite,omitempty"`
	WebDBInstance string `json:"webDbInstance,omitempty"`
}

// Checklist is a parsed STIG checklist: asset metadata, benchmark
// metadata, and the finding sequence in document order.
type Checklist struct {
	Asset           AssetInfo       `json:"asset"`
	STIGInfo        STIGInfo        `json:"stigInfo"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
}

// MappedControl aggregates every finding whose CCIs point at one NIST
// control. ComplianceStatus and RiskLevel are derived from the member
// statuses and must be recomputed after any member edit.
type MappedControl struct {
	NISTControl      string           `json:"nistControl"`
	CCIs             []string         `json:"ccis"`
	Vulnerabilities  []Vulnerability  `json:"vulnerabilities"`
	ComplianceStatus ComplianceStatus `json:"complianceStatus"`
	RiskLevel        RiskLevel        `json:"riskLevel"`
	FindingsCount    int              `json:"findingsCount"`
}

// MappingSummary carries derived counts for a mapping result. It is never
// authored directly.
type MappingSummary struct {
	TotalControls         int `json:"totalControls"`
	CompliantControls     int `json:"compliantControls"`
	NonCompliantControls  int `json:"nonCompliantControls"`
	PartialControls       int `json:"partialControls"`
	NotApplicableControls int `json:"notApplicableControls"`
	HighRiskFindings      int `json:"highRiskFindings"`
	MediumRiskFindings    int `json:"mediumRiskFindings"`
	LowRiskFindings       int `json:"lowRiskFindings"`
}

// MappingResult is the outcome of one correlation run.
type MappingResult struct {
	TotalVulnerabilities int             `json:"totalVulnerabilities"`
	MappedControls       []MappedControl `json:"mappedControls"`
	Summary              MappingSummary  `json:"summary"`
}

// StoredMapping is a persisted mapping result with its identifying
// metadata and the CCI reference entries the run used.
type StoredMapping struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	CreatedDate   time.Time     `json:"createdDate"`
	UpdatedDate   time.Time     `json:"updatedDate"`
	STIGInfo      STIGInfo      `json:"stigInfo"`
	AssetInfo     AssetInfo     `json:"assetInfo"`
	MappingResult MappingResult `json:"mappingResult"`
	CCIMappings   []CCIMapping  `json:"cciMappings,omitempty"`
}

// PrepStatus is the lifecycle state of a prep list.
type PrepStatus string

const (
	PrepReady    PrepStatus = "ready"
	PrepInUse    PrepStatus = "in_use"
	PrepArchived PrepStatus = "archived"
)

// PrepControl is a point-in-time copy of a mapped control staged for a
// security test plan.
type PrepControl struct {
	NISTControl      string           `json:"nistControl"`
	CCIs             []string         `json:"ccis"`
	Vulnerabilities  []Vulnerability  `json:"vulnerabilities"`
	ComplianceStatus ComplianceStatus `json:"complianceStatus"`
	RiskLevel        RiskLevel        `json:"riskLevel"`
	Notes            string           `json:"notes,omitempty"`
	SelectedForSTP   bool             `json:"selectedForStp"`
}

// PrepList is a named subset of controls projected out of one mapping
// result. The control copies do not track later edits to the source.
type PrepList struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Description      string        `json:"description,omitempty"`
	CreatedDate      time.Time     `json:"createdDate"`
	UpdatedDate      time.Time     `json:"updatedDate"`
	SourceMappingID  string        `json:"sourceMappingId,omitempty"`
	STIGInfo         STIGInfo      `json:"stigInfo"`
	AssetInfo        AssetInfo     `json:"assetInfo"`
	PrepStatus       PrepStatus    `json:"prepStatus"`
	SelectedControls []PrepControl `json:"selectedControls"`
	ControlCount     int           `json:"controlCount"`
}

// TestCaseStatus is the execution state of one test case.
type TestCaseStatus string

const (
	TestNotStarted    TestCaseStatus = "Not Started"
	TestInProgress    TestCaseStatus = "In Progress"
	TestPassed        TestCaseStatus = "Passed"
	TestFailed        TestCaseStatus = "Failed"
	TestNotApplicable TestCaseStatus = "Not Applicable"
)

// TestCase verifies one (control, finding) pair in a test plan.
type TestCase struct {
	ID             string         `json:"id"`
	NISTControl    string         `json:"nistControl"`
	CCIRef         string         `json:"cciRef"`
	STIGVulnID     string         `json:"stigVulnId"`
	Description    string         `json:"testDescription"`
	Procedure      string         `json:"testProcedure"`
	ExpectedResult string         `json:"expectedResult"`
	ActualResult   string         `json:"actualResult,omitempty"`
	Status         TestCaseStatus `json:"status"`
	Notes          string         `json:"notes,omitempty"`
	TestedBy       string         `json:"testedBy,omitempty"`
	TestedDate     string         `json:"testedDate,omitempty"`
	RiskRating     RiskLevel      `json:"riskRating"`
}

// TestPlan is a security test plan built from a prep list.
type TestPlan struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	CreatedDate   time.Time  `json:"createdDate"`
	UpdatedDate   time.Time  `json:"updatedDate"`
	Status        string     `json:"status"`
	POAMID        int64      `json:"poamId,omitempty"`
	STIGMappingID string     `json:"stigMappingId,omitempty"`
	TestCases     []TestCase `json:"testCases"`
	OverallScore  float64    `json:"overallScore"`
}

// Milestone is one dated step toward closing a POA&M.
type Milestone struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	DueDate     time.Time `json:"dueDate"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
}

// POAM is a Plan of Action and Milestones entry.
type POAM struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	StartDate   time.Time   `json:"startDate"`
	EndDate     time.Time   `json:"endDate"`
	Status      string      `json:"status"`
	Priority    string      `json:"priority"`
	RiskLevel   RiskLevel   `json:"riskLevel"`
	Milestones  []Milestone `json:"milestones,omitempty"`
}

// IsClosed reports whether the POA&M no longer counts as open work.
func (p POAM) IsClosed() bool {
	return p.Status == "Closed" || p.Status == "Completed"
}

// IsOverdue reports whether an open POA&M has slipped past its end date.
func (p POAM) IsOverdue(now time.Time) bool {
	return !p.IsClosed() && !p.EndDate.IsZero() && p.EndDate.Before(now)
}

// Note is a free-form markdown note, optionally filed in a folder.
type Note struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
	Folder  string    `json:"folder,omitempty"`
	Tags    []string  `json:"tags,omitempty"`
}

// System is one tracked system package. Every record collection is scoped
// to a system.
type System struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Owner          string    `json:"owner,omitempty"`
	Classification string    `json:"classification,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedDate    time.Time `json:"createdDate"`
	UpdatedDate    time.Time `json:"updatedDate"`
}
