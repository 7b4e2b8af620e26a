// Package export writes mapping results out as JSON, CSV, or Markdown
// reports, and as DISA-format checklists.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FoxxDev-Collab/poam-tracker/internal/ckl"
	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
)

// Format represents the export file format
type Format int

const (
	FormatJSON Format = iota
	FormatCSV
	FormatMarkdown
	FormatCKL
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "JSON"
	case FormatCSV:
		return "CSV"
	case FormatMarkdown:
		return "Markdown"
	case FormatCKL:
		return "CKL"
	}
	return ""
}

func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatCKL:
		return ".ckl"
	}
	return ""
}

// Result contains the result of an export operation
type Result struct {
	FilePath string
	Count    int
	Err      error
}

// Export writes a stored mapping to a file in outputDir. The count in the
// result is the number of mapped controls written.
func Export(mapping model.StoredMapping, format Format, outputDir string) Result {
	timestamp := time.Now().Format("2006-01-02_150405")
	name := sanitizeName(mapping.Name)
	if name == "" {
		name = "mapping"
	}
	filename := fmt.Sprintf("%s_%s%s", name, timestamp, format.Extension())
	path := filepath.Join(outputDir, filename)

	var err error
	switch format {
	case FormatJSON:
		err = exportJSON(mapping, path)
	case FormatCSV:
		err = exportCSV(mapping, path)
	case FormatMarkdown:
		err = exportMarkdown(mapping, path)
	case FormatCKL:
		err = exportCKL(mapping, path)
	}

	if err != nil {
		return Result{Err: err}
	}
	return Result{FilePath: path, Count: len(mapping.MappingResult.MappedControls)}
}

func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		}
		return -1
	}, name)
}

func exportJSON(mapping model.StoredMapping, path string) error {
	export := struct {
		ExportedAt string              `json:"exportedAt"`
		Mapping    model.StoredMapping `json:"mapping"`
	}{
		ExportedAt: time.Now().Format(time.RFC3339),
		Mapping:    mapping,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

func exportCSV(mapping model.StoredMapping, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"NIST Control", "Compliance Status", "Risk Level", "Open Findings",
		"CCIs", "Vuln IDs",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, mc := range mapping.MappingResult.MappedControls {
		vulnIDs := make([]string, len(mc.Vulnerabilities))
		for i, v := range mc.Vulnerabilities {
			vulnIDs[i] = v.VulnID
		}
		row := []string{
			mc.NISTControl,
			string(mc.ComplianceStatus),
			string(mc.RiskLevel),
			fmt.Sprintf("%d", mc.FindingsCount),
			strings.Join(mc.CCIs, "; "),
			strings.Join(vulnIDs, "; "),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportMarkdown(mapping model.StoredMapping, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var b strings.Builder
	summary := mapping.MappingResult.Summary

	b.WriteString(fmt.Sprintf("# %s\n\n", mapping.Name))
	b.WriteString(fmt.Sprintf("**STIG:** %s\n\n", mapping.STIGInfo.Title))
	b.WriteString(fmt.Sprintf("**Host:** %s\n\n", mapping.AssetInfo.HostName))
	b.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	b.WriteString("## Summary\n\n")
	b.WriteString(fmt.Sprintf("- **Total Controls:** %d\n", summary.TotalControls))
	b.WriteString(fmt.Sprintf("- **Compliant:** %d\n", summary.CompliantControls))
	b.WriteString(fmt.Sprintf("- **Non-Compliant:** %d\n", summary.NonCompliantControls))
	b.WriteString(fmt.Sprintf("- **Partial:** %d\n", summary.PartialControls))
	b.WriteString(fmt.Sprintf("- **Not Applicable:** %d\n\n", summary.NotApplicableControls))
	b.WriteString(fmt.Sprintf("- **Open Findings:** %d high, %d medium, %d low\n\n",
		summary.HighRiskFindings, summary.MediumRiskFindings, summary.LowRiskFindings))

	b.WriteString("## Controls\n\n")
	b.WriteString("| Control | Status | Risk | Open | CCIs |\n")
	b.WriteString("|---------|--------|------|------|------|\n")

	for _, mc := range mapping.MappingResult.MappedControls {
		status := string(mc.ComplianceStatus)
		if mc.ComplianceStatus == model.ComplianceNonCompliant {
			status = fmt.Sprintf("**%s**", status)
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %s |\n",
			mc.NISTControl, status, mc.RiskLevel, mc.FindingsCount,
			strings.Join(mc.CCIs, ", ")))
	}

	b.WriteString("\n---\n\n")
	b.WriteString("*Generated by poam-tracker*\n")

	_, err = file.WriteString(b.String())
	return err
}

func exportCKL(mapping model.StoredMapping, path string) error {
	checklist := model.Checklist{
		Asset:           mapping.AssetInfo,
		STIGInfo:        mapping.STIGInfo,
		Vulnerabilities: collectVulns(mapping),
	}
	return os.WriteFile(path, []byte(ckl.EncodeChecklist(&checklist)), 0o644)
}

// collectVulns flattens the mapping back to a finding list, deduplicated
// by vulnerability id since one finding may appear under several controls.
func collectVulns(mapping model.StoredMapping) []model.Vulnerability {
	seen := make(map[string]bool)
	var out []model.Vulnerability
	for _, mc := range mapping.MappingResult.MappedControls {
		for _, v := range mc.Vulnerabilities {
			if seen[v.VulnID] {
				continue
			}
			seen[v.VulnID] = true
			out = append(out, v)
		}
	}
	return out
}
