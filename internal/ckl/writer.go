package ckl

import (
	"fmt"
	"strings"

	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// stigDataOrder is the attribute layout STIG Viewer writes for each VULN.
// Attributes we do not track are emitted empty so the file re-imports
// cleanly.
var stigDataDefaults = []struct {
	name  string
	value string
}{
	{"IA_Controls", ""},
	{"False_Positives", ""},
	{"False_Negatives", ""},
	{"Documentable", "false"},
	{"Mitigations", ""},
	{"Potential_Impact", ""},
	{"Third_Party_Tools", ""},
	{"Mitigation_Control", ""},
	{"Responsibility", ""},
	{"Security_Override_Guidance", ""},
	{"Check_Content_Ref", "M"},
	{"Weight", "10.0"},
	{"Class", "Unclass"},
}

// EncodeChecklist serializes a checklist back to STIG Viewer CKL XML.
func EncodeChecklist(cl *model.Checklist) string {
	var b strings.Builder

	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<!--DISA STIG Viewer :: 2.18-->\n")
	b.WriteString("<CHECKLIST>\n")

	b.WriteString("\t<ASSET>\n")
	writeElem(&b, 2, "ROLE", cl.Asset.Role)
	writeElem(&b, 2, "ASSET_TYPE", cl.Asset.AssetType)
	writeElem(&b, 2, "MARKING", cl.Asset.Marking)
	writeElem(&b, 2, "HOST_NAME", cl.Asset.HostName)
	writeElem(&b, 2, "HOST_IP", cl.Asset.HostIP)
	writeElem(&b, 2, "HOST_MAC", cl.Asset.HostMAC)
	writeElem(&b, 2, "HOST_FQDN", cl.Asset.HostFQDN)
	writeElem(&b, 2, "TARGET_COMMENT", cl.Asset.TargetComment)
	writeElem(&b, 2, "TECH_AREA", cl.Asset.TechArea)
	writeElem(&b, 2, "TARGET_KEY", cl.Asset.TargetKey)
	writeElem(&b, 2, "WEB_OR_DATABASE", fmt.Sprintf("%t", cl.Asset.WebOrDatabase))
	writeElem(&b, 2, "WEB_DB_SITE", cl.Asset.WebDBSite)
	writeElem(&b, 2, "WEB_DB_INSTANCE", cl.Asset.WebDBInstance)
	b.WriteString("\t</ASSET>\n")

	b.WriteString("\t<STIGS>\n\t\t<iSTIG>\n")
	b.WriteString("\t\t\t<STIG_INFO>\n")
	writeSIData(&b, "version", cl.STIGInfo.Version)
	writeSIData(&b, "classification", cl.STIGInfo.Classification)
	writeSIData(&b, "customname", cl.STIGInfo.CustomName)
	writeSIData(&b, "stigid", cl.STIGInfo.STIGID)
	writeSIData(&b, "description", cl.STIGInfo.Description)
	writeSIData(&b, "filename", cl.STIGInfo.FileName)
	writeSIData(&b, "releaseinfo", cl.STIGInfo.ReleaseInfo)
	writeSIData(&b, "title", cl.STIGInfo.Title)
	writeSIData(&b, "uuid", cl.STIGInfo.UUID)
	writeSIData(&b, "notice", cl.STIGInfo.Notice)
	writeSIData(&b, "source", cl.STIGInfo.Source)
	b.WriteString("\t\t\t</STIG_INFO>\n")

	for _, v := range cl.Vulnerabilities {
		writeVuln(&b, cl, v)
	}

	b.WriteString("\t\t</iSTIG>\n\t</STIGS>\n</CHECKLIST>\n")
	return b.String()
}

func writeVuln(b *strings.Builder, cl *model.Checklist, v model.Vulnerability) {
	b.WriteString("\t\t\t<VULN>\n")

	writeStigData(b, "Vuln_Num", v.VulnID)
	writeStigData(b, "Severity", string(v.Severity))
	writeStigData(b, "Group_Title", v.GroupTitle)
	writeStigData(b, "Rule_ID", v.RuleID)
	writeStigData(b, "Rule_Ver", v.RuleVer)
	writeStigData(b, "Rule_Title", v.RuleTitle)
	writeStigData(b, "Vuln_Discuss", v.Discussion)
	writeStigData(b, "Check_Content", v.CheckContent)
	writeStigData(b, "Fix_Text", v.FixText)
	for _, d := range stigDataDefaults {
		writeStigData(b, d.name, d.value)
	}
	writeStigData(b, "STIGRef", fmt.Sprintf("%s :: %s", cl.STIGInfo.Title, cl.STIGInfo.ReleaseInfo))
	writeStigData(b, "TargetKey", cl.Asset.TargetKey)
	for _, cci := range v.CCIRefs {
		writeStigData(b, "CCI_REF", cci)
	}

	writeElem(b, 4, "STATUS", string(v.Status))
	writeElem(b, 4, "FINDING_DETAILS", v.FindingDetails)
	writeElem(b, 4, "COMMENTS", v.Comments)
	writeElem(b, 4, "SEVERITY_OVERRIDE", string(v.SeverityOverride))
	writeElem(b, 4, "SEVERITY_JUSTIFICATION", v.SeverityJustification)

	b.WriteString("\t\t\t</VULN>\n")
}

func writeElem(b *strings.Builder, depth int, name, value string) {
	indent := strings.Repeat("\t", depth)
	fmt.Fprintf(b, "%s<%s>%s</%s>\n", indent, name, xmlEscaper.Replace(value), name)
}

func writeSIData(b *strings.Builder, name, value string) {
	b.WriteString("\t\t\t\t<SI_DATA>\n")
	writeElem(b, 5, "SID_NAME", name)
	writeElem(b, 5, "SID_DATA", value)
	b.WriteString("\t\t\t\t</SI_DATA>\n")
}

func writeStigData(b *strings.Builder, attribute, value string) {
	b.WriteString("\t\t\t\t<STIG_DATA>\n")
	writeElem(b, 5, "VULN_ATTRIBUTE", attribute)
	writeElem(b, 5, "ATTRIBUTE_DATA", value)
	b.WriteString("\t\t\t\t</STIG_DATA>\n")
}
