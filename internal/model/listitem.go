package model

import (
	"fmt"
	"strings"
)

// SystemItem wraps System to implement the list.Item interface.
type SystemItem struct {
	System
	POAMCount    int
	MappingCount int
}

// Title returns the display title for the list.
func (s SystemItem) Title() string {
	return s.Name
}

// Description returns the secondary text for the list.
func (s SystemItem) Description() string {
	owner := s.Owner
	if owner == "" {
		owner = "unassigned"
	}
	return fmt.Sprintf("%s | %d POA&Ms | %d mappings", owner, s.POAMCount, s.MappingCount)
}

// FilterValue returns the string used for filtering.
func (s SystemItem) FilterValue() string {
	return strings.Join([]string{s.Name, s.Owner, strings.Join(s.Tags, " ")}, " ")
}

// ControlItem wraps MappedControl to implement the list.Item interface.
type ControlItem struct {
	MappedControl
	Selected bool
}

// Title returns the display title for the list.
func (c ControlItem) Title() string {
	return c.NISTControl
}

// Description returns the secondary text for the list.
func (c ControlItem) Description() string {
	return fmt.Sprintf("%s | %s risk | %d findings | %d CCIs",
		c.ComplianceStatus, c.RiskLevel, len(c.Vulnerabilities), len(c.CCIs))
}

// FilterValue returns the string used for filtering.
func (c ControlItem) FilterValue() string {
	return strings.Join(append([]string{c.NISTControl}, c.CCIs...), " ")
}

// MappingItem wraps StoredMapping to implement the list.Item interface.
type MappingItem struct {
	StoredMapping
}

// Title returns the display title for the list.
func (m MappingItem) Title() string {
	return m.Name
}

// Description returns the secondary text for the list.
func (m MappingItem) Description() string {
	return fmt.Sprintf("%s | %d controls | %d findings | %s",
		m.STIGInfo.Title,
		m.MappingResult.Summary.TotalControls,
		m.MappingResult.TotalVulnerabilities,
		m.CreatedDate.Format("2006-01-02"))
}

// FilterValue returns the string used for filtering.
func (m MappingItem) FilterValue() string {
	return strings.Join([]string{m.Name, m.STIGInfo.Title, m.AssetInfo.HostName}, " ")
}

// NoteItem wraps Note to implement the list.Item interface.
type NoteItem struct {
	Note
}

// Title returns the display title for the list.
func (n NoteItem) Title() string {
	return n.Note.Title
}

// Description returns the secondary text for the list.
func (n NoteItem) Description() string {
	folder := n.Folder
	if folder == "" {
		folder = "unfiled"
	}
	return fmt.Sprintf("%s | %s", folder, n.Date.Format("2006-01-02"))
}

// FilterValue returns the string used for filtering.
func (n NoteItem) FilterValue() string {
	return strings.Join([]string{n.Note.Title, n.Folder, strings.Join(n.Tags, " ")}, " ")
}
