package stig

// ControlInfo carries catalog metadata for one NIST 800-53 control, used
// to label mapped controls in reports and the browser.
type ControlInfo struct {
	ID     string
	Family string
	Name   string
}

// familyNames maps the two-letter family prefix to its catalog name.
var familyNames = map[string]string{
	"AC": "Access Control",
	"AT": "Awareness and Training",
	"AU": "Audit and Accountability",
	"CA": "Assessment, Authorization, and Monitoring",
	"CM": "Configuration Management",
	"CP": "Contingency Planning",
	"IA": "Identification and Authentication",
	"IR": "Incident Response",
	"MA": "Maintenance",
	"MP": "Media Protection",
	"PE": "Physical and Environmental Protection",
	"PL": "Planning",
	"PM": "Program Management",
	"PS": "Personnel Security",
	"RA": "Risk Assessment",
	"SA": "System and Services Acquisition",
	"SC": "System and Communications Protection",
	"SI": "System and Information Integrity",
	"SR": "Supply Chain Risk Management",
}

// catalog holds the controls STIG checklists reference most often. The
// lookup is best-effort; an unknown control still renders with its family
// name when the prefix is recognized.
var catalog = map[string]ControlInfo{
	"AC-2":  {ID: "AC-2", Family: "Access Control", Name: "Account Management"},
	"AC-3":  {ID: "AC-3", Family: "Access Control", Name: "Access Enforcement"},
	"AC-6":  {ID: "AC-6", Family: "Access Control", Name: "Least Privilege"},
	"AC-7":  {ID: "AC-7", Family: "Access Control", Name: "Unsuccessful Logon Attempts"},
	"AC-8":  {ID: "AC-8", Family: "Access Control", Name: "System Use Notification"},
	"AC-11": {ID: "AC-11", Family: "Access Control", Name: "Device Lock"},
	"AC-17": {ID: "AC-17", Family: "Access Control", Name: "Remote Access"},
	"AU-2":  {ID: "AU-2", Family: "Audit and Accountability", Name: "Event Logging"},
	"AU-3":  {ID: "AU-3", Family: "Audit and Accountability", Name: "Content of Audit Records"},
	"AU-6":  {ID: "AU-6", Family: "Audit and Accountability", Name: "Audit Record Review, Analysis, and Reporting"},
	"AU-9":  {ID: "AU-9", Family: "Audit and Accountability", Name: "Protection of Audit Information"},
	"AU-12": {ID: "AU-12", Family: "Audit and Accountability", Name: "Audit Record Generation"},
	"CA-7":  {ID: "CA-7", Family: "Assessment, Authorization, and Monitoring", Name: "Continuous Monitoring"},
	"CM-5":  {ID: "CM-5", Family: "Configuration Management", Name: "Access Restrictions for Change"},
	"CM-6":  {ID: "CM-6", Family: "Configuration Management", Name: "Configuration Settings"},
	"CM-7":  {ID: "CM-7", Family: "Configuration Management", Name: "Least Functionality"},
	"CM-8":  {ID: "CM-8", Family: "Configuration Management", Name: "System Component Inventory"},
	"CP-9":  {ID: "CP-9", Family: "Contingency Planning", Name: "System Backup"},
	"IA-2":  {ID: "IA-2", Family: "Identification and Authentication", Name: "Identification and Authentication (Organizational Users)"},
	"IA-5":  {ID: "IA-5", Family: "Identification and Authentication", Name: "Authenticator Management"},
	"IA-7":  {ID: "IA-7", Family: "Identification and Authentication", Name: "Cryptographic Module Authentication"},
	"IR-4":  {ID: "IR-4", Family: "Incident Response", Name: "Incident Handling"},
	"RA-5":  {ID: "RA-5", Family: "Risk Assessment", Name: "Vulnerability Monitoring and Scanning"},
	"SC-7":  {ID: "SC-7", Family: "System and Communications Protection", Name: "Boundary Protection"},
	"SC-8":  {ID: "SC-8", Family: "System and Communications Protection", Name: "Transmission Confidentiality and Integrity"},
	"SC-13": {ID: "SC-13", Family: "System and Communications Protection", Name: "Cryptographic Protection"},
	"SC-28": {ID: "SC-28", Family: "System and Communications Protection", Name: "Protection of Information at Rest"},
	"SI-2":  {ID: "SI-2", Family: "System and Information Integrity", Name: "Flaw Remediation"},
	"SI-3":  {ID: "SI-3", Family: "System and Information Integrity", Name: "Malicious Code Protection"},
	"SI-4":  {ID: "SI-4", Family: "System and Information Integrity", Name: "System Monitoring"},
	"SI-7":  {ID: "SI-7", Family: "System and Information Integrity", Name: "Software, Firmware, and Information Integrity"},
	"SI-11": {ID: "SI-11", Family: "System and Information Integrity", Name: "Error Handling"},
}

// LookupControl returns catalog metadata for a control id. Enhancement
// suffixes resolve to their base control; an unrecognized id yields an
// entry with just the family name filled in where possible.
func LookupControl(id string) (ControlInfo, bool) {
	base := BaseControl(id)
	if info, ok := catalog[base]; ok {
		info.ID = id
		return info, true
	}
	info := ControlInfo{ID: id}
	if fam, ok := familyNames[ControlFamily(id)]; ok {
		info.Family = fam
	}
	return info, false
}

// FamilyName returns the catalog name of a control family prefix, or the
// prefix itself when unknown.
func FamilyName(prefix string) string {
	if name, ok := familyNames[prefix]; ok {
		return name
	}
	return prefix
}
