package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
	"github.com/FoxxDev-Collab/poam-tracker/internal/stats"
)

// ComplianceStats holds the control breakdown by compliance status
type ComplianceStats struct {
	Compliant     int
	NonCompliant  int
	Partial       int
	NotApplicable int
	Total         int
}

// RiskStats holds the control breakdown by risk level
type RiskStats struct {
	High   int
	Medium int
	Low    int
}

// FamilyStats holds control counts for one NIST family
type FamilyStats struct {
	Family string
	Count  int
	Open   int
}

// GetComplianceStats returns the compliance breakdown for a mapping
func GetComplianceStats(controls []model.MappedControl) ComplianceStats {
	s := ComplianceStats{Total: len(controls)}
	for _, c := range controls {
		switch c.ComplianceStatus {
		case model.ComplianceCompliant:
			s.Compliant++
		case model.ComplianceNonCompliant:
			s.NonCompliant++
		case model.CompliancePartial:
			s.Partial++
		case model.ComplianceNotApplicable:
			s.NotApplicable++
		}
	}
	return s
}

// GetRiskStats returns the risk breakdown for a mapping
func GetRiskStats(controls []model.MappedControl) RiskStats {
	var s RiskStats
	for _, c := range controls {
		switch c.RiskLevel {
		case model.RiskHigh:
			s.High++
		case model.RiskMedium:
			s.Medium++
		case model.RiskLow:
			s.Low++
		}
	}
	return s
}

// GetTopFamilies returns the top N control families by mapped control count
func GetTopFamilies(controls []model.MappedControl, n int) []FamilyStats {
	counts := make(map[string]*FamilyStats)
	for _, c := range controls {
		family := c.NISTControl
		if i := strings.IndexByte(family, '-'); i > 0 {
			family = family[:i]
		}
		fs, ok := counts[family]
		if !ok {
			fs = &FamilyStats{Family: family}
			counts[family] = fs
		}
		fs.Count++
		fs.Open += c.FindingsCount
	}

	out := make([]FamilyStats, 0, len(counts))
	for _, fs := range counts {
		out = append(out, *fs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Family < out[j].Family
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// RenderComplianceChart renders a bar chart of controls by compliance status
func RenderComplianceChart(controls []model.MappedControl, width, height int) string {
	s := GetComplianceStats(controls)
	if s.Total == 0 {
		return "No mapped control data available"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Compliance Status Distribution"))
	b.WriteString("\n\n")

	bc := barchart.New(width-4, height-12,
		barchart.WithNoAutoBarWidth(),
		barchart.WithBarWidth(8),
		barchart.WithBarGap(2),
	)

	items := []barchart.BarData{
		{
			Label: "Compliant",
			Values: []barchart.BarValue{{
				Name:  "Compliant",
				Value: float64(s.Compliant),
				Style: lipgloss.NewStyle().Foreground(CompliantColor),
			}},
		},
		{
			Label: "Non-Comp",
			Values: []barchart.BarValue{{
				Name:  "Non-Compliant",
				Value: float64(s.NonCompliant),
				Style: lipgloss.NewStyle().Foreground(NonCompliantColor),
			}},
		},
		{
			Label: "Partial",
			Values: []barchart.BarValue{{
				Name:  "Partial",
				Value: float64(s.Partial),
				Style: lipgloss.NewStyle().Foreground(PartialColor),
			}},
		},
		{
			Label: "N/A",
			Values: []barchart.BarValue{{
				Name:  "Not Applicable",
				Value: float64(s.NotApplicable),
				Style: lipgloss.NewStyle().Foreground(NotApplicableColor),
			}},
		},
	}
	bc.PushAll(items)
	bc.Draw()

	b.WriteString(bc.View())
	b.WriteString("\n\n")

	pct := func(n int) float64 { return float64(n) / float64(s.Total) * 100 }
	b.WriteString(lipgloss.NewStyle().Foreground(CompliantColor).Bold(true).
		Render(fmt.Sprintf("Compliant: %d (%.1f%%)", s.Compliant, pct(s.Compliant))))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(NonCompliantColor).Bold(true).
		Render(fmt.Sprintf("Non-Compliant: %d (%.1f%%)", s.NonCompliant, pct(s.NonCompliant))))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(PartialColor).Bold(true).
		Render(fmt.Sprintf("Partial: %d (%.1f%%)", s.Partial, pct(s.Partial))))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(NotApplicableColor).
		Render(fmt.Sprintf("Not Applicable: %d (%.1f%%)", s.NotApplicable, pct(s.NotApplicable))))
	b.WriteString("\n\n")

	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("Total controls: %d", s.Total)))
	b.WriteString("\n\n")
	b.WriteString(SubtitleStyle.Render("g/esc back to dashboard"))

	return b.String()
}

// RenderRiskChart renders a bar chart of controls by risk level
func RenderRiskChart(controls []model.MappedControl, width, height int) string {
	s := GetRiskStats(controls)
	total := s.High + s.Medium + s.Low
	if total == 0 {
		return "No mapped control data available"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Risk Level Distribution"))
	b.WriteString("\n\n")

	bc := barchart.New(width-4, height-12,
		barchart.WithNoAutoBarWidth(),
		barchart.WithBarWidth(8),
		barchart.WithBarGap(2),
	)

	items := []barchart.BarData{
		{
			Label: "High",
			Values: []barchart.BarValue{{
				Name:  "High",
				Value: float64(s.High),
				Style: lipgloss.NewStyle().Foreground(HighColor),
			}},
		},
		{
			Label: "Medium",
			Values: []barchart.BarValue{{
				Name:  "Medium",
				Value: float64(s.Medium),
				Style: lipgloss.NewStyle().Foreground(MediumColor),
			}},
		},
		{
			Label: "Low",
			Values: []barchart.BarValue{{
				Name:  "Low",
				Value: float64(s.Low),
				Style: lipgloss.NewStyle().Foreground(LowColor),
			}},
		},
	}
	bc.PushAll(items)
	bc.Draw()

	b.WriteString(bc.View())
	b.WriteString("\n\n")

	pct := func(n int) float64 { return float64(n) / float64(total) * 100 }
	b.WriteString(lipgloss.NewStyle().Foreground(HighColor).Bold(true).
		Render(fmt.Sprintf("High: %d (%.1f%%)", s.High, pct(s.High))))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(MediumColor).Bold(true).
		Render(fmt.Sprintf("Medium: %d (%.1f%%)", s.Medium, pct(s.Medium))))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(LowColor).Bold(true).
		Render(fmt.Sprintf("Low: %d (%.1f%%)", s.Low, pct(s.Low))))
	b.WriteString("\n\n")

	b.WriteString(SubtitleStyle.Render("g/esc back to dashboard"))

	return b.String()
}

// RenderFamilyChart renders a bar chart of the busiest control families
func RenderFamilyChart(controls []model.MappedControl, width, height int) string {
	families := GetTopFamilies(controls, 10)
	if len(families) == 0 {
		return "No mapped control data available"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Top Control Families"))
	b.WriteString("\n\n")

	bc := barchart.New(width-4, height-10,
		barchart.WithNoAutoBarWidth(),
		barchart.WithBarWidth(4),
		barchart.WithBarGap(1),
	)

	var items []barchart.BarData
	for _, f := range families {
		color := CompliantColor
		if f.Open > 0 {
			color = NonCompliantColor
		}
		items = append(items, barchart.BarData{
			Label: f.Family,
			Values: []barchart.BarValue{{
				Name:  f.Family,
				Value: float64(f.Count),
				Style: lipgloss.NewStyle().Foreground(color),
			}},
		})
	}
	bc.PushAll(items)
	bc.Draw()

	b.WriteString(bc.View())
	b.WriteString("\n\n")

	for _, f := range families {
		color := CompliantColor
		if f.Open > 0 {
			color = NonCompliantColor
		}
		marker := lipgloss.NewStyle().Foreground(color).Render("█")
		b.WriteString(fmt.Sprintf("%s %s: %d controls, %d open findings\n", marker, f.Family, f.Count, f.Open))
	}

	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("g/esc back to dashboard"))

	return b.String()
}

// RenderSystemChart renders cross-system POA&M counts from an aggregation run
func RenderSystemChart(systemStats []stats.SystemStats, agg stats.AggregatedStats, width, height int) string {
	if len(systemStats) == 0 {
		return "No system data available"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("POA&Ms by System"))
	b.WriteString("\n\n")

	bc := barchart.New(width-4, height-12,
		barchart.WithNoAutoBarWidth(),
		barchart.WithBarWidth(4),
		barchart.WithBarGap(1),
	)

	var items []barchart.BarData
	for _, s := range systemStats {
		color := SecondaryColor
		if s.OverduePOAMs > 0 {
			color = NonCompliantColor
		}
		items = append(items, barchart.BarData{
			Label: truncateString(s.SystemName, 10),
			Values: []barchart.BarValue{{
				Name:  s.SystemName,
				Value: float64(s.OpenPOAMs + s.ClosedPOAMs),
				Style: lipgloss.NewStyle().Foreground(color),
			}},
		})
	}
	bc.PushAll(items)
	bc.Draw()

	b.WriteString(bc.View())
	b.WriteString("\n\n")

	for _, s := range systemStats {
		marker := lipgloss.NewStyle().Foreground(SecondaryColor).Render("█")
		line := fmt.Sprintf("%s %s: %d POA&Ms (%d open, %d overdue)",
			marker, s.SystemName, s.OpenPOAMs+s.ClosedPOAMs, s.OpenPOAMs, s.OverduePOAMs)
		if s.Degraded {
			line += SubtitleStyle.Render(" [unavailable]")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StatsStyle.Render(fmt.Sprintf("Completion: %s", CompletionBar(agg.CompletionRate, 20))))
	b.WriteString("\n\n")
	b.WriteString(SubtitleStyle.Render("g/esc back to dashboard"))

	return b.String()
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "."
}
