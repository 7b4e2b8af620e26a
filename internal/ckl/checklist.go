// Package ckl reads and writes DISA STIG Viewer checklist (.ckl) files
// and the DISA CCI reference list. The parsers are tolerant: unknown
// elements are skipped and missing fields stay empty rather than failing
// the run.
package ckl

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
)

// ParseChecklist reads one .ckl file.
func ParseChecklist(path string) (model.Checklist, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Checklist{}, fmt.Errorf("failed to open checklist: %w", err)
	}
	defer f.Close()

	cl, err := DecodeChecklist(f)
	if err != nil {
		return model.Checklist{}, fmt.Errorf("failed to parse checklist %s: %w", path, err)
	}
	return cl, nil
}

// ParseChecklists reads several .ckl files and merges their finding
// sequences under the first file's asset and benchmark metadata.
func ParseChecklists(paths []string) (model.Checklist, error) {
	if len(paths) == 0 {
		return model.Checklist{}, fmt.Errorf("no checklist files provided")
	}

	checklists := make([]model.Checklist, 0, len(paths))
	for _, p := range paths {
		cl, err := ParseChecklist(p)
		if err != nil {
			return model.Checklist{}, err
		}
		checklists = append(checklists, cl)
	}

	merged := checklists[0]
	merged.Vulnerabilities = append([]model.Vulnerability(nil), checklists[0].Vulnerabilities...)
	for _, cl := range checklists[1:] {
		merged.Vulnerabilities = append(merged.Vulnerabilities, cl.Vulnerabilities...)
	}
	return merged, nil
}

// DecodeChecklist parses CKL XML from a reader. The format stores
// finding fields as VULN_ATTRIBUTE/ATTRIBUTE_DATA pairs, so this walks
// the token stream instead of unmarshalling into structs.
func DecodeChecklist(r io.Reader) (model.Checklist, error) {
	dec := xml.NewDecoder(r)

	var (
		cl        model.Checklist
		inAsset   bool
		inInfo    bool
		inVuln    bool
		vulnAttrs map[string]string
		cciRefs   []string
		infoData  = map[string]string{}
		sidName   string
		attrName  string
		vuln      model.Vulnerability
		element   string
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.Checklist{}, fmt.Errorf("xml error: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			element = t.Name.Local
			switch element {
			case "ASSET":
				inAsset = true
			case "STIG_INFO":
				inInfo = true
			case "VULN":
				inVuln = true
				vuln = model.Vulnerability{}
				vulnAttrs = map[string]string{}
				cciRefs = nil
			}

		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				break
			}
			switch {
			case inVuln:
				switch element {
				case "VULN_ATTRIBUTE":
					attrName = text
				case "ATTRIBUTE_DATA":
					if attrName == "CCI_REF" {
						cciRefs = append(cciRefs, text)
					} else if attrName != "" {
						vulnAttrs[attrName] = text
					}
				case "STATUS":
					vuln.Status = model.VulnStatus(text)
				case "FINDING_DETAILS":
					vuln.FindingDetails = text
				case "COMMENTS":
					vuln.Comments = text
				case "SEVERITY_OVERRIDE":
					vuln.SeverityOverride = model.Severity(text)
				case "SEVERITY_JUSTIFICATION":
					vuln.SeverityJustification = text
				}
			case inInfo:
				switch element {
				case "SID_NAME":
					sidName = text
				case "SID_DATA":
					infoData[sidName] = text
				}
			case inAsset:
				setAssetField(&cl.Asset, element, text)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "ASSET":
				inAsset = false
			case "STIG_INFO":
				inInfo = false
				cl.STIGInfo = stigInfoFromData(infoData)
			case "VULN":
				inVuln = false
				fillVulnFromAttrs(&vuln, vulnAttrs)
				vuln.CCIRefs = cciRefs
				cl.Vulnerabilities = append(cl.Vulnerabilities, vuln)
			}
			element = ""
		}
	}

	return cl, nil
}

func setAssetField(a *model.AssetInfo, element, text string) {
	switch element {
	case "ROLE":
		a.Role = text
	case "ASSET_TYPE":
		a.AssetType = text
	case "MARKING":
		a.Marking = text
	case "HOST_NAME":
		a.HostName = text
	case "HOST_IP":
		a.HostIP = text
	case "HOST_MAC":
		a.HostMAC = text
	case "HOST_FQDN":
		a.HostFQDN = text
	case "TARGET_COMMENT":
		a.TargetComment = text
	case "TECH_AREA":
		a.TechArea = text
	case "TARGET_KEY":
		a.TargetKey = text
	case "WEB_OR_DATABASE":
		a.WebOrDatabase = text == "true"
	case "WEB_DB_SITE":
		a.WebDBSite = text
	case "WEB_DB_INSTANCE":
		a.WebDBInstance = text
	}
}

func stigInfoFromData(data map[string]string) model.STIGInfo {
	return model.STIGInfo{
		Version:        data["version"],
		Classification: data["classification"],
		CustomName:     data["customname"],
		STIGID:         data["stigid"],
		Description:    data["description"],
		FileName:       data["filename"],
		ReleaseInfo:    data["releaseinfo"],
		Title:          data["title"],
		UUID:           data["uuid"],
		Notice:         data["notice"],
		Source:         data["source"],
	}
}

func fillVulnFromAttrs(v *model.Vulnerability, attrs map[string]string) {
	v.VulnID = attrs["Vuln_Num"]
	v.Severity = model.Severity(strings.ToLower(attrs["Severity"]))
	v.GroupTitle = attrs["Group_Title"]
	v.RuleID = attrs["Rule_ID"]
	v.RuleVer = attrs["Rule_Ver"]
	v.RuleTitle = attrs["Rule_Title"]
	v.Discussion = attrs["Vuln_Discuss"]
	v.CheckContent = attrs["Check_Content"]
	v.FixText = attrs["Fix_Text"]
	// Rule_Ver carries the STIG id in checklists exported by STIG Viewer.
	v.STIGID = attrs["Rule_Ver"]
}
