package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
)

func testMapping() model.StoredMapping {
	return model.StoredMapping{
		ID:          "map-1",
		Name:        "RHEL 9 STIG",
		CreatedDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		STIGInfo: model.STIGInfo{
			Title:       "Red Hat Enterprise Linux 9 STIG",
			Version:     "1",
			ReleaseInfo: "Release: 2 Benchmark Date: 24 Jan 2025",
			STIGID:      "RHEL_9_STIG",
		},
		AssetInfo: model.AssetInfo{
			Role:     "Member Server",
			HostName: "web01",
		},
		MappingResult: model.MappingResult{
			TotalVulnerabilities: 2,
			MappedControls: []model.MappedControl{
				{
					NISTControl: "AC-2",
					CCIs:        []string{"CCI-000015"},
					Vulnerabilities: []model.Vulnerability{
						{VulnID: "V-257777", Severity: model.SeverityHigh, Status: model.StatusOpen, CCIRefs: []string{"CCI-000015"}},
					},
					ComplianceStatus: model.ComplianceNonCompliant,
					RiskLevel:        model.RiskHigh,
					FindingsCount:    1,
				},
				{
					NISTControl: "AU-3",
					CCIs:        []string{"CCI-000130"},
					Vulnerabilities: []model.Vulnerability{
						{VulnID: "V-257778", Severity: model.SeverityMedium, Status: model.StatusNotAFinding, CCIRefs: []string{"CCI-000130"}},
					},
					ComplianceStatus: model.ComplianceCompliant,
					RiskLevel:        model.RiskLow,
					FindingsCount:    0,
				},
			},
			Summary: model.MappingSummary{
				TotalControls:        2,
				CompliantControls:    1,
				NonCompliantControls: 1,
				HighRiskFindings:     1,
			},
		},
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		format   Format
		expected string
	}{
		{FormatJSON, "JSON"},
		{FormatCSV, "CSV"},
		{FormatMarkdown, "Markdown"},
		{FormatCKL, "CKL"},
		{Format(99), ""},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.format.String(); got != tt.expected {
				t.Errorf("Format.String() = %q, want %q", got, tt.expected)
			}
			wantExt := ""
			switch tt.format {
			case FormatJSON:
				wantExt = ".json"
			case FormatCSV:
				wantExt = ".csv"
			case FormatMarkdown:
				wantExt = ".md"
			case FormatCKL:
				wantExt = ".ckl"
			}
			if got := tt.format.Extension(); got != wantExt {
				t.Errorf("Format.Extension() = %q, want %q", got, wantExt)
			}
		})
	}
}

func TestExportCreatesFiles(t *testing.T) {
	mapping := testMapping()

	tests := []struct {
		name   string
		format Format
		ext    string
	}{
		{"JSON export", FormatJSON, ".json"},
		{"CSV export", FormatCSV, ".csv"},
		{"Markdown export", FormatMarkdown, ".md"},
		{"CKL export", FormatCKL, ".ckl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			result := Export(mapping, tt.format, tmpDir)

			if result.Err != nil {
				t.Fatalf("Export() error = %v", result.Err)
			}
			if result.Count != 2 {
				t.Errorf("Export() count = %d, want 2", result.Count)
			}
			if !strings.HasPrefix(filepath.Base(result.FilePath), "rhel_9_stig_") {
				t.Errorf("filename should start with mapping name, got %s", filepath.Base(result.FilePath))
			}
			if !strings.HasSuffix(result.FilePath, tt.ext) {
				t.Errorf("filename should end with %s, got %s", tt.ext, result.FilePath)
			}
			if _, err := os.Stat(result.FilePath); os.IsNotExist(err) {
				t.Errorf("file was not created at %s", result.FilePath)
			}
		})
	}
}

func TestExportInvalidDir(t *testing.T) {
	result := Export(testMapping(), FormatJSON, "/nonexistent/path/that/does/not/exist")
	if result.Err == nil {
		t.Error("Export() should return error for invalid directory")
	}
}

func TestExportJSONContent(t *testing.T) {
	tmpDir := t.TempDir()
	result := Export(testMapping(), FormatJSON, tmpDir)
	if result.Err != nil {
		t.Fatalf("Export() error = %v", result.Err)
	}

	data, err := os.ReadFile(result.FilePath)
	if err != nil {
		t.Fatalf("Failed to read exported file: %v", err)
	}

	var export struct {
		ExportedAt string              `json:"exportedAt"`
		Mapping    model.StoredMapping `json:"mapping"`
	}
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.ExportedAt == "" {
		t.Error("JSON missing exportedAt")
	}
	if export.Mapping.Name != "RHEL 9 STIG" {
		t.Errorf("JSON mapping name = %q, want RHEL 9 STIG", export.Mapping.Name)
	}
	if len(export.Mapping.MappingResult.MappedControls) != 2 {
		t.Errorf("JSON control count = %d, want 2", len(export.Mapping.MappingResult.MappedControls))
	}
}

func TestExportCSVContent(t *testing.T) {
	tmpDir := t.TempDir()
	result := Export(testMapping(), FormatCSV, tmpDir)
	if result.Err != nil {
		t.Fatalf("Export() error = %v", result.Err)
	}

	file, err := os.Open(result.FilePath)
	if err != nil {
		t.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("CSV row count = %d, want 3 (header + 2 controls)", len(records))
	}
	if records[0][0] != "NIST Control" {
		t.Errorf("CSV header[0] = %q, want NIST Control", records[0][0])
	}
	if records[0][3] != "Open Findings" {
		t.Errorf("CSV header[3] = %q, want Open Findings", records[0][3])
	}
	if records[1][0] != "AC-2" || records[1][1] != "non-compliant" {
		t.Errorf("CSV first row = %v", records[1])
	}
	if records[2][3] != "0" {
		t.Errorf("compliant control exports %q open findings, want 0", records[2][3])
	}
	if records[1][5] != "V-257777" {
		t.Errorf("CSV first row vuln ids = %q, want V-257777", records[1][5])
	}
}

func TestExportMarkdownContent(t *testing.T) {
	tmpDir := t.TempDir()
	result := Export(testMapping(), FormatMarkdown, tmpDir)
	if result.Err != nil {
		t.Fatalf("Export() error = %v", result.Err)
	}

	data, err := os.ReadFile(result.FilePath)
	if err != nil {
		t.Fatalf("Failed to read Markdown file: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"# RHEL 9 STIG",
		"## Summary",
		"**Open Findings:** 1 high, 0 medium, 0 low",
		"| Control | Status | Risk | Open | CCIs |",
		"| AC-2 | **non-compliant** | high | 1 | CCI-000015 |",
		"| AU-3 | compliant | low | 0 | CCI-000130 |",
		"Generated by poam-tracker",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Markdown missing %q", want)
		}
	}
}

func TestExportCKLDeduplicatesFindings(t *testing.T) {
	mapping := testMapping()
	// The AC-2 finding also fans out to a second control.
	dup := mapping.MappingResult.MappedControls[0].Vulnerabilities[0]
	mapping.MappingResult.MappedControls = append(mapping.MappingResult.MappedControls, model.MappedControl{
		NISTControl:     "IA-2",
		CCIs:            []string{"CCI-000015"},
		Vulnerabilities: []model.Vulnerability{dup},
	})

	vulns := collectVulns(mapping)
	if len(vulns) != 2 {
		t.Errorf("collectVulns() len = %d, want 2 after dedup", len(vulns))
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RHEL 9 STIG", "rhel_9_stig"},
		{"  Windows / Server!  ", "windows__server"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
