package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/FoxxDev-Collab/poam-tracker/internal/export"
	"github.com/FoxxDev-Collab/poam-tracker/internal/logging"
	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
	"github.com/FoxxDev-Collab/poam-tracker/internal/palette"
	"github.com/FoxxDev-Collab/poam-tracker/internal/stats"
	"github.com/FoxxDev-Collab/poam-tracker/internal/stig"
	"github.com/FoxxDev-Collab/poam-tracker/internal/store"
)

// ViewState represents the current view
type ViewState int

const (
	ViewSystems ViewState = iota
	ViewMappings
	ViewControls
	ViewControlDetail
	ViewNotes
	ViewNoteDetail
	ViewDashboard
	ViewComplianceChart
	ViewRiskChart
	ViewFamilyChart
	ViewSystemChart
	ViewExportMenu
	ViewPrepName
)

// ChartOption represents a chart in the dashboard menu
type ChartOption struct {
	Name        string
	Description string
	View        ViewState
}

// SortMode represents the current control sort order
type SortMode int

const (
	SortByControl SortMode = iota
	SortByRisk
	SortByFindings
)

func (s SortMode) String() string {
	switch s {
	case SortByControl:
		return "Control ID"
	case SortByRisk:
		return "Risk Level"
	case SortByFindings:
		return "Open Findings"
	}
	return ""
}

// FilterMode represents special control filters
type FilterMode int

const (
	FilterNone FilterMode = iota
	FilterNonCompliant
	FilterOpenFindings
)

// Model is the main application model
type Model struct {
	db  *store.Store
	agg *stats.Aggregator
	log *logging.Logger

	systemsList  list.Model
	mappingsList list.Model
	controlsList list.Model
	notesList    list.Model

	systems        []model.System
	currentSystem  *model.System
	currentMapping *model.StoredMapping
	selectedNote   *model.Note

	selectedControl   *model.ControlItem
	selectedVulnIndex int

	spinner       spinner.Model
	loading       bool
	loadingStats  bool
	err           error
	width         int
	height        int
	view          ViewState
	keys          KeyMap
	help          help.Model
	showHelp      bool
	viewport      viewport.Model
	viewportReady bool
	sortMode      SortMode
	filterMode    FilterMode
	statusMsg     string

	prepInput     textinput.Model
	prepSelection map[string]bool

	fleet      stats.AggregatedStats
	fleetReady bool

	chartOptions       []ChartOption
	selectedChartIndex int

	exportOptions       []export.Format
	selectedExportIndex int

	markdown *glamour.TermRenderer
	palette  palette.Model
}

// Messages
type SystemsLoadedMsg struct {
	Systems []model.System
	Items   []list.Item
}

type MappingsLoadedMsg struct {
	Items []list.Item
}

type NotesLoadedMsg struct {
	Items []list.Item
}

type FleetStatsMsg struct {
	Stats stats.AggregatedStats
}

type ErrorMsg struct {
	Err error
}

type StatusMsg struct {
	Msg string
}

// NewModel creates a new application model
func NewModel(db *store.Store, agg *stats.Aggregator, log *logging.Logger) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	h := help.New()
	h.ShowAll = false

	ti := textinput.New()
	ti.Placeholder = "Prep list name"
	ti.Prompt = "> "
	ti.CharLimit = 80

	// Cached markdown renderer for note content
	md, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	pal := palette.New([]palette.Command{
		{Name: "Dashboard", Description: "Charts and fleet overview", Key: "g", Action: "dashboard"},
		{Name: "Export mapping", Description: "Write the current mapping to disk", Key: "x", Action: "export"},
		{Name: "Notes", Description: "Notes for the current system", Key: "n", Action: "notes"},
		{Name: "Cycle theme", Description: "Switch the color theme", Key: "t", Action: "theme"},
		{Name: "Quit", Key: "q", Action: "quit"},
	})

	return Model{
		db:            db,
		agg:           agg,
		log:           log,
		spinner:       s,
		loading:       true,
		keys:          DefaultKeyMap(),
		help:          h,
		sortMode:      SortByControl,
		prepInput:     ti,
		prepSelection: make(map[string]bool),
		markdown:      md,
		palette:       pal,
		chartOptions: []ChartOption{
			{Name: "Compliance Status", Description: "Controls by compliance status", View: ViewComplianceChart},
			{Name: "Risk Levels", Description: "Controls by derived risk", View: ViewRiskChart},
			{Name: "Control Families", Description: "Busiest NIST families", View: ViewFamilyChart},
			{Name: "Systems Overview", Description: "POA&Ms across all systems", View: ViewSystemChart},
		},
		exportOptions: []export.Format{
			export.FormatJSON,
			export.FormatCSV,
			export.FormatMarkdown,
			export.FormatCKL,
		},
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadSystems())
}

func (m Model) loadSystems() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		systems, err := m.db.ListSystems(ctx)
		if err != nil {
			return ErrorMsg{Err: err}
		}

		items := make([]list.Item, len(systems))
		for i, sys := range systems {
			poams, _ := m.db.ListPOAMs(ctx, sys.ID)
			mappings, _ := m.db.ListMappings(ctx, sys.ID)
			items[i] = model.SystemItem{
				System:       sys,
				POAMCount:    len(poams),
				MappingCount: len(mappings),
			}
		}
		return SystemsLoadedMsg{Systems: systems, Items: items}
	}
}

func (m Model) loadMappings(systemID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		mappings, err := m.db.ListMappings(ctx, systemID)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		items := make([]list.Item, len(mappings))
		for i, mapping := range mappings {
			items[i] = model.MappingItem{StoredMapping: mapping}
		}
		return MappingsLoadedMsg{Items: items}
	}
}

func (m Model) loadNotes(systemID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		notes, err := m.db.ListNotes(ctx, systemID)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		items := make([]list.Item, len(notes))
		for i, note := range notes {
			items[i] = model.NoteItem{Note: note}
		}
		return NotesLoadedMsg{Items: items}
	}
}

func (m Model) collectFleetStats() tea.Cmd {
	systems := m.systems
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return FleetStatsMsg{Stats: m.agg.Collect(ctx, systems)}
	}
}

func (m Model) saveMapping() tea.Cmd {
	mapping := *m.currentMapping
	systemID := m.currentSystem.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := m.db.SaveMapping(ctx, systemID, mapping); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Msg: "Mapping saved"}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The command palette swallows input while open
	if m.palette.Active {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case palette.SelectedAction:
		return m.handlePaletteAction(string(msg))

	case tea.KeyMsg:
		m.statusMsg = ""

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+k" {
			m.palette.SetSize(min(60, m.width-4), m.height)
			m.palette.Open()
			return m, nil
		}
		if msg.String() == "?" && m.view != ViewPrepName {
			m.showHelp = !m.showHelp
			return m, nil
		}
		if msg.String() == "t" && m.view != ViewPrepName && !m.filtering() {
			name := CycleTheme()
			m.statusMsg = fmt.Sprintf("Theme: %s", name)
			return m, nil
		}

		switch m.view {
		case ViewSystems:
			return m.updateSystemsView(msg)
		case ViewMappings:
			return m.updateMappingsView(msg)
		case ViewControls:
			return m.updateControlsView(msg)
		case ViewControlDetail:
			return m.updateControlDetail(msg)
		case ViewNotes:
			return m.updateNotesView(msg)
		case ViewNoteDetail:
			return m.updateNoteDetail(msg)
		case ViewDashboard:
			return m.updateDashboard(msg)
		case ViewComplianceChart, ViewRiskChart, ViewFamilyChart, ViewSystemChart:
			switch msg.String() {
			case "q", "esc", "g", "backspace":
				m.view = ViewDashboard
			}
			return m, nil
		case ViewExportMenu:
			return m.updateExportMenu(msg)
		case ViewPrepName:
			return m.updatePrepName(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		listHeight := msg.Height - 6
		if !m.loading {
			m.systemsList.SetSize(msg.Width, listHeight)
			m.mappingsList.SetSize(msg.Width, listHeight)
			m.controlsList.SetSize(msg.Width, listHeight)
			m.notesList.SetSize(msg.Width, listHeight)
		}
		if m.viewportReady {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - 6
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.loadingStats {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case SystemsLoadedMsg:
		m.loading = false
		m.systems = msg.Systems
		m.systemsList = m.newList("Systems", msg.Items)
		m.mappingsList = m.newList("STIG Mappings", nil)
		m.notesList = m.newList("Notes", nil)
		return m, nil

	case MappingsLoadedMsg:
		m.mappingsList.SetItems(msg.Items)
		if m.currentSystem != nil {
			m.mappingsList.Title = fmt.Sprintf("STIG Mappings - %s", m.currentSystem.Name)
		}
		return m, nil

	case NotesLoadedMsg:
		m.notesList.SetItems(msg.Items)
		if m.currentSystem != nil {
			m.notesList.Title = fmt.Sprintf("Notes - %s", m.currentSystem.Name)
		}
		return m, nil

	case FleetStatsMsg:
		m.loadingStats = false
		m.fleet = msg.Stats
		m.fleetReady = true
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Msg
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.loadingStats = false
		m.err = msg.Err
		if m.log != nil {
			m.log.Errorf("tui: %v", msg.Err)
		}
		return m, nil
	}

	return m.updateActiveList(msg)
}

func (m Model) filtering() bool {
	switch m.view {
	case ViewSystems:
		return m.systemsList.FilterState() == list.Filtering
	case ViewMappings:
		return m.mappingsList.FilterState() == list.Filtering
	case ViewControls:
		return m.controlsList.FilterState() == list.Filtering
	case ViewNotes:
		return m.notesList.FilterState() == list.Filtering
	}
	return false
}

func (m Model) updateActiveList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	var cmd tea.Cmd
	switch m.view {
	case ViewSystems:
		m.systemsList, cmd = m.systemsList.Update(msg)
	case ViewMappings:
		m.mappingsList, cmd = m.mappingsList.Update(msg)
	case ViewControls:
		m.controlsList, cmd = m.controlsList.Update(msg)
	case ViewNotes:
		m.notesList, cmd = m.notesList.Update(msg)
	}
	return m, cmd
}

func (m Model) handlePaletteAction(action string) (tea.Model, tea.Cmd) {
	switch action {
	case "dashboard":
		m.selectedChartIndex = 0
		m.view = ViewDashboard
	case "export":
		if m.currentMapping != nil {
			m.selectedExportIndex = 0
			m.view = ViewExportMenu
		} else {
			m.statusMsg = "Open a mapping first"
		}
	case "notes":
		if m.currentSystem != nil {
			m.view = ViewNotes
			return m, m.loadNotes(m.currentSystem.ID)
		}
		m.statusMsg = "Select a system first"
	case "theme":
		name := CycleTheme()
		m.statusMsg = fmt.Sprintf("Theme: %s", name)
	case "quit":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateSystemsView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.systemsList.FilterState() != list.Filtering {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter":
			if item, ok := m.systemsList.SelectedItem().(model.SystemItem); ok {
				sys := item.System
				m.currentSystem = &sys
				m.view = ViewMappings
				return m, m.loadMappings(sys.ID)
			}
		case "n":
			if item, ok := m.systemsList.SelectedItem().(model.SystemItem); ok {
				sys := item.System
				m.currentSystem = &sys
				m.view = ViewNotes
				return m, m.loadNotes(sys.ID)
			}
		case "g":
			m.selectedChartIndex = 0
			m.view = ViewDashboard
			return m, nil
		}
	}
	return m.updateActiveList(msg)
}

func (m Model) updateMappingsView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mappingsList.FilterState() != list.Filtering {
		switch msg.String() {
		case "q", "esc", "backspace":
			m.view = ViewSystems
			m.currentSystem = nil
			return m, m.loadSystems()
		case "enter":
			if item, ok := m.mappingsList.SelectedItem().(model.MappingItem); ok {
				mapping := item.StoredMapping
				m.currentMapping = &mapping
				m.prepSelection = make(map[string]bool)
				m.filterMode = FilterNone
				m.rebuildControlsList()
				m.view = ViewControls
				return m, nil
			}
		case "g":
			m.selectedChartIndex = 0
			m.view = ViewDashboard
			return m, nil
		}
	}
	return m.updateActiveList(msg)
}

func (m *Model) rebuildControlsList() {
	controls := make([]model.MappedControl, len(m.currentMapping.MappingResult.MappedControls))
	copy(controls, m.currentMapping.MappingResult.MappedControls)

	switch m.filterMode {
	case FilterNonCompliant:
		var kept []model.MappedControl
		for _, c := range controls {
			if c.ComplianceStatus == model.ComplianceNonCompliant || c.ComplianceStatus == model.CompliancePartial {
				kept = append(kept, c)
			}
		}
		controls = kept
	case FilterOpenFindings:
		var kept []model.MappedControl
		for _, c := range controls {
			if c.FindingsCount > 0 {
				kept = append(kept, c)
			}
		}
		controls = kept
	}

	riskRank := map[model.RiskLevel]int{model.RiskHigh: 0, model.RiskMedium: 1, model.RiskLow: 2}
	switch m.sortMode {
	case SortByControl:
		sort.Slice(controls, func(i, j int) bool {
			return stig.CompareControls(controls[i].NISTControl, controls[j].NISTControl) < 0
		})
	case SortByRisk:
		sort.Slice(controls, func(i, j int) bool {
			if riskRank[controls[i].RiskLevel] != riskRank[controls[j].RiskLevel] {
				return riskRank[controls[i].RiskLevel] < riskRank[controls[j].RiskLevel]
			}
			return stig.CompareControls(controls[i].NISTControl, controls[j].NISTControl) < 0
		})
	case SortByFindings:
		sort.Slice(controls, func(i, j int) bool {
			if controls[i].FindingsCount != controls[j].FindingsCount {
				return controls[i].FindingsCount > controls[j].FindingsCount
			}
			return stig.CompareControls(controls[i].NISTControl, controls[j].NISTControl) < 0
		})
	}

	items := make([]list.Item, len(controls))
	for i, c := range controls {
		items[i] = model.ControlItem{MappedControl: c, Selected: m.prepSelection[c.NISTControl]}
	}

	if m.controlsList.Items() == nil {
		m.controlsList = m.newList("", items)
	} else {
		m.controlsList.SetItems(items)
	}
	m.controlsList.Title = fmt.Sprintf("Controls - %s", m.currentMapping.Name)
}

func (m Model) updateControlsView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.controlsList.FilterState() != list.Filtering {
		switch msg.String() {
		case "q", "esc", "backspace":
			m.view = ViewMappings
			m.currentMapping = nil
			return m, nil
		case "enter":
			if item, ok := m.controlsList.SelectedItem().(model.ControlItem); ok {
				m.selectedControl = &item
				m.selectedVulnIndex = 0
				m.view = ViewControlDetail
				m.viewport = viewport.New(m.width-4, m.height-6)
				m.viewport.SetContent(m.renderControlContent())
				m.viewportReady = true
				return m, nil
			}
		case "s":
			m.sortMode = (m.sortMode + 1) % 3
			m.rebuildControlsList()
			m.statusMsg = fmt.Sprintf("Sorted by: %s", m.sortMode)
			return m, nil
		case "f":
			m.filterMode = (m.filterMode + 1) % 3
			m.rebuildControlsList()
			switch m.filterMode {
			case FilterNone:
				m.statusMsg = "Filter cleared"
			case FilterNonCompliant:
				m.statusMsg = "Showing non-compliant and partial only"
			case FilterOpenFindings:
				m.statusMsg = "Showing controls with open findings only"
			}
			return m, nil
		case " ":
			if item, ok := m.controlsList.SelectedItem().(model.ControlItem); ok {
				m.prepSelection[item.NISTControl] = !m.prepSelection[item.NISTControl]
				idx := m.controlsList.Index()
				m.rebuildControlsList()
				m.controlsList.Select(idx)
				return m, nil
			}
		case "p":
			if len(m.selectedControlIDs()) == 0 {
				m.statusMsg = "Select controls with space first"
				return m, nil
			}
			m.prepInput.Reset()
			m.prepInput.Focus()
			m.view = ViewPrepName
			return m, textinput.Blink
		case "x":
			m.selectedExportIndex = 0
			m.view = ViewExportMenu
			return m, nil
		case "g":
			m.selectedChartIndex = 0
			m.view = ViewDashboard
			return m, nil
		}
	}
	return m.updateActiveList(msg)
}

func (m Model) selectedControlIDs() []string {
	var ids []string
	for id, on := range m.prepSelection {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (m Model) updateControlDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "backspace":
		m.view = ViewControls
		m.selectedControl = nil
		m.rebuildControlsList()
		return m, nil
	case "tab":
		if n := len(m.selectedControl.Vulnerabilities); n > 0 {
			m.selectedVulnIndex = (m.selectedVulnIndex + 1) % n
			m.viewport.SetContent(m.renderControlContent())
		}
		return m, nil
	case "1":
		return m.setFindingStatus(model.StatusOpen)
	case "2":
		return m.setFindingStatus(model.StatusNotAFinding)
	case "3":
		return m.setFindingStatus(model.StatusNotApplicable)
	case "4":
		return m.setFindingStatus(model.StatusNotReviewed)
	default:
		if m.viewportReady {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// setFindingStatus applies a status edit to the highlighted finding and
// persists the recomputed mapping.
func (m Model) setFindingStatus(status model.VulnStatus) (tea.Model, tea.Cmd) {
	if m.selectedControl == nil || m.selectedVulnIndex >= len(m.selectedControl.Vulnerabilities) {
		return m, nil
	}
	vulnID := m.selectedControl.Vulnerabilities[m.selectedVulnIndex].VulnID

	edit := stig.VulnEdit{Status: &status}
	if err := stig.ApplyVulnEdit(&m.currentMapping.MappingResult, vulnID, edit); err != nil {
		m.statusMsg = fmt.Sprintf("Edit failed: %v", err)
		return m, nil
	}
	m.currentMapping.UpdatedDate = time.Now()

	// Refresh the detail copy from the recomputed mapping
	for _, c := range m.currentMapping.MappingResult.MappedControls {
		if c.NISTControl == m.selectedControl.NISTControl {
			m.selectedControl = &model.ControlItem{MappedControl: c, Selected: m.selectedControl.Selected}
			break
		}
	}
	m.viewport.SetContent(m.renderControlContent())
	return m, m.saveMapping()
}

func (m Model) updateNotesView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.notesList.FilterState() != list.Filtering {
		switch msg.String() {
		case "q", "esc", "backspace":
			m.view = ViewSystems
			return m, nil
		case "enter":
			if item, ok := m.notesList.SelectedItem().(model.NoteItem); ok {
				note := item.Note
				m.selectedNote = &note
				m.view = ViewNoteDetail
				m.viewport = viewport.New(m.width-4, m.height-6)
				m.viewport.SetContent(m.renderNoteContent())
				m.viewportReady = true
				return m, nil
			}
		}
	}
	return m.updateActiveList(msg)
}

func (m Model) updateNoteDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "backspace":
		m.view = ViewNotes
		m.selectedNote = nil
		return m, nil
	default:
		if m.viewportReady {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "g", "backspace":
		if m.currentMapping != nil {
			m.view = ViewControls
		} else if m.currentSystem != nil {
			m.view = ViewMappings
		} else {
			m.view = ViewSystems
		}
		return m, nil
	case "j", "down":
		m.selectedChartIndex = (m.selectedChartIndex + 1) % len(m.chartOptions)
		return m, nil
	case "k", "up":
		m.selectedChartIndex = (m.selectedChartIndex - 1 + len(m.chartOptions)) % len(m.chartOptions)
		return m, nil
	case "enter":
		selected := m.chartOptions[m.selectedChartIndex]
		if selected.View == ViewSystemChart {
			m.view = selected.View
			m.loadingStats = true
			m.fleetReady = false
			return m, tea.Batch(m.spinner.Tick, m.collectFleetStats())
		}
		if m.currentMapping == nil {
			m.statusMsg = "Open a mapping to see control charts"
			return m, nil
		}
		m.view = selected.View
		return m, nil
	}
	return m, nil
}

func (m Model) updateExportMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "x", "backspace":
		m.view = ViewControls
		return m, nil
	case "j", "down":
		m.selectedExportIndex = (m.selectedExportIndex + 1) % len(m.exportOptions)
		return m, nil
	case "k", "up":
		m.selectedExportIndex = (m.selectedExportIndex - 1 + len(m.exportOptions)) % len(m.exportOptions)
		return m, nil
	case "enter":
		format := m.exportOptions[m.selectedExportIndex]
		result := export.Export(*m.currentMapping, format, ".")
		if result.Err != nil {
			m.statusMsg = fmt.Sprintf("Export failed: %v", result.Err)
		} else {
			m.statusMsg = fmt.Sprintf("Exported %d controls to %s", result.Count, result.FilePath)
		}
		m.view = ViewControls
		return m, nil
	}
	return m, nil
}

func (m Model) updatePrepName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prepInput.Blur()
		m.view = ViewControls
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.prepInput.Value())
		prep, err := stig.ProjectPrepList(m.currentMapping, name, "", m.selectedControlIDs(), time.Now())
		if err != nil {
			m.statusMsg = fmt.Sprintf("Prep list: %v", err)
			return m, nil
		}
		m.prepInput.Blur()
		m.view = ViewControls
		m.prepSelection = make(map[string]bool)
		m.rebuildControlsList()

		systemID := m.currentSystem.ID
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := m.db.SavePrepList(ctx, systemID, prep); err != nil {
				return ErrorMsg{Err: err}
			}
			return StatusMsg{Msg: fmt.Sprintf("Prep list %q saved (%d controls)", prep.Name, prep.ControlCount)}
		}
	}

	var cmd tea.Cmd
	m.prepInput, cmd = m.prepInput.Update(msg)
	return m, cmd
}

func (m Model) newList(title string, items []list.Item) list.Model {
	if items == nil {
		items = []list.Item{}
	}
	height := m.height - 6
	if height < 5 {
		height = 20
	}
	var l list.Model
	if title == "" || strings.HasPrefix(title, "Controls") {
		l = list.New(items, NewControlDelegate(), m.width, height)
	} else {
		l = list.New(items, list.NewDefaultDelegate(), m.width, height)
	}
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.Styles.Title = TitleStyle

	// Use exact substring matching
	l.Filter = func(term string, targets []string) []list.Rank {
		var ranks []list.Rank
		term = strings.ToLower(term)
		for i, target := range targets {
			if strings.Contains(strings.ToLower(target), term) {
				ranks = append(ranks, list.Rank{Index: i})
			}
		}
		return ranks
	}
	return l
}

// View renders the view
func (m Model) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Loading tracker data...\n", m.spinner.View())
	}

	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press q to quit.\n", m.err)
	}

	var body string
	switch m.view {
	case ViewControlDetail:
		body = m.renderControlDetail()
	case ViewNoteDetail:
		body = m.renderNoteDetail()
	case ViewDashboard:
		body = m.renderDashboard()
	case ViewComplianceChart:
		body = RenderComplianceChart(m.currentMapping.MappingResult.MappedControls, m.width, m.height)
	case ViewRiskChart:
		body = RenderRiskChart(m.currentMapping.MappingResult.MappedControls, m.width, m.height)
	case ViewFamilyChart:
		body = RenderFamilyChart(m.currentMapping.MappingResult.MappedControls, m.width, m.height)
	case ViewSystemChart:
		body = m.renderSystemChart()
	case ViewExportMenu:
		body = m.renderExportMenu()
	case ViewPrepName:
		body = m.renderPrepName()
	case ViewControls:
		body = m.renderControlsView()
	default:
		body = m.renderListView()
	}

	if m.palette.Active {
		return m.palette.Overlay(body, m.width, m.height)
	}
	return body
}

func (m Model) activeList() *list.Model {
	switch m.view {
	case ViewMappings:
		return &m.mappingsList
	case ViewControls:
		return &m.controlsList
	case ViewNotes:
		return &m.notesList
	}
	return &m.systemsList
}

func (m Model) renderListView() string {
	var b strings.Builder

	b.WriteString(m.activeList().View())

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render(m.statusMsg))
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.View(m.keys))
	} else {
		var helpText string
		switch m.view {
		case ViewSystems:
			helpText = "/ filter • enter open • n notes • g dashboard • ctrl+k commands • t theme • q quit"
		case ViewMappings:
			helpText = "/ filter • enter open • g dashboard • esc back • q quit"
		case ViewNotes:
			helpText = "/ filter • enter read • esc back"
		}
		b.WriteString(SubtitleStyle.Render(helpText))
	}

	return b.String()
}

func (m Model) renderControlsView() string {
	var b strings.Builder

	summary := m.currentMapping.MappingResult.Summary
	statsLine := fmt.Sprintf("%d controls | %s %d non-compliant | %s %d partial | %s %d compliant",
		summary.TotalControls,
		lipgloss.NewStyle().Foreground(NonCompliantColor).Render("●"),
		summary.NonCompliantControls,
		lipgloss.NewStyle().Foreground(PartialColor).Render("●"),
		summary.PartialControls,
		lipgloss.NewStyle().Foreground(CompliantColor).Render("●"),
		summary.CompliantControls,
	)
	b.WriteString(StatsStyle.Render(statsLine))
	b.WriteString("\n")

	indicators := []string{fmt.Sprintf("Sort: %s", m.sortMode)}
	switch m.filterMode {
	case FilterNonCompliant:
		indicators = append(indicators, lipgloss.NewStyle().Foreground(NonCompliantColor).Render("Filter: Non-Compliant"))
	case FilterOpenFindings:
		indicators = append(indicators, lipgloss.NewStyle().Foreground(PartialColor).Render("Filter: Open Findings"))
	}
	if n := len(m.selectedControlIDs()); n > 0 {
		indicators = append(indicators, StatHighlight.Render(fmt.Sprintf("%d selected for prep", n)))
	}
	b.WriteString(SubtitleStyle.Render(strings.Join(indicators, " | ")))
	b.WriteString("\n")

	b.WriteString(m.controlsList.View())

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render(m.statusMsg))
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.View(m.keys))
	} else {
		helpText := "/ filter • s sort • f status filter • space select • p prep list • x export • g dashboard • esc back"
		b.WriteString(SubtitleStyle.Render(helpText))
	}

	return b.String()
}

func (m Model) renderControlDetail() string {
	var b strings.Builder

	c := m.selectedControl
	b.WriteString("\n")
	b.WriteString(ControlBadge.Render(c.NISTControl))
	b.WriteString("  ")
	b.WriteString(ComplianceBadge(c.ComplianceStatus))
	b.WriteString("  ")
	b.WriteString(RiskBadge(c.RiskLevel))
	b.WriteString("\n\n")

	if m.viewportReady {
		b.WriteString(m.viewport.View())
	}

	b.WriteString("\n")
	footer := "↑/↓ scroll | tab next finding | 1-4 set status | q/esc back"
	if m.statusMsg != "" {
		footer = m.statusMsg + " | " + footer
	}
	b.WriteString(SubtitleStyle.Render(footer))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderControlContent() string {
	c := m.selectedControl
	var b strings.Builder

	if info, ok := stig.LookupControl(c.NISTControl); ok {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Render(info.Name))
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render(info.Family))
		b.WriteString("\n\n")
	}

	b.WriteString(LabelStyle.Render("CCIs:"))
	b.WriteString(ValueStyle.Render(strings.Join(c.CCIs, ", ")))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Open Findings:"))
	b.WriteString(FindingsBadge(c.FindingsCount))
	b.WriteString("\n")

	for i, v := range c.Vulnerabilities {
		b.WriteString("\n")
		header := fmt.Sprintf("%s  %s", v.VulnID, v.RuleTitle)
		if i == m.selectedVulnIndex {
			b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).Render("▶ " + header))
		} else {
			b.WriteString(lipgloss.NewStyle().Bold(true).Render("  " + header))
		}
		b.WriteString("\n")

		b.WriteString(LabelStyle.Render("  Status:"))
		b.WriteString(StatusBadge(v.Status))
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("  Severity:"))
		sev := string(v.EffectiveSeverity())
		if v.SeverityOverride != "" {
			sev += SubtitleStyle.Render(fmt.Sprintf(" (overridden from %s)", v.Severity))
		}
		b.WriteString(lipgloss.NewStyle().Foreground(RiskColor(model.RiskLevel(v.EffectiveSeverity()))).Render(sev))
		b.WriteString("\n")

		if v.FindingDetails != "" {
			b.WriteString(LabelStyle.Render("  Details:"))
			b.WriteString(DescriptionStyle.Render(v.FindingDetails))
			b.WriteString("\n")
		}
		if v.Comments != "" {
			b.WriteString(LabelStyle.Render("  Comments:"))
			b.WriteString(DescriptionStyle.Render(v.Comments))
			b.WriteString("\n")
		}

		if v.Discussion != "" {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).Render("  Discussion"))
			b.WriteString("\n")
			b.WriteString(DescriptionStyle.Render(v.Discussion))
			b.WriteString("\n")
		}
		if v.FixText != "" {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).Render("  Fix"))
			b.WriteString("\n")
			b.WriteString(DescriptionStyle.Render(v.FixText))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) renderNoteDetail() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(TitleStyle.Render(m.selectedNote.Title))
	b.WriteString("\n\n")

	if m.viewportReady {
		b.WriteString(m.viewport.View())
	}

	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("↑/↓ scroll | q/esc back"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderNoteContent() string {
	note := m.selectedNote

	content := note.Content
	if m.markdown != nil {
		if out, err := m.markdown.Render(content); err == nil {
			content = out
		}
	}

	meta := note.Date.Format("2006-01-02")
	if note.Folder != "" {
		meta += " | " + note.Folder
	}
	if len(note.Tags) > 0 {
		meta += " | " + strings.Join(note.Tags, ", ")
	}
	return SubtitleStyle.Render(meta) + "\n" + content
}

func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(TitleStyle.Render("Dashboard"))
	b.WriteString("\n\n")

	for i, opt := range m.chartOptions {
		if i == m.selectedChartIndex {
			selectedStyle := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(PrimaryColor).
				Padding(0, 1)
			b.WriteString(selectedStyle.Render(fmt.Sprintf("> %s", opt.Name)))
		} else {
			b.WriteString(fmt.Sprintf("  %s", opt.Name))
		}
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("    %s", opt.Description)))
		b.WriteString("\n\n")
	}

	if m.statusMsg != "" {
		b.WriteString(SubtitleStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}
	b.WriteString(SubtitleStyle.Render("j/k navigate • enter select • g/esc back"))

	return b.String()
}

func (m Model) renderSystemChart() string {
	if m.loadingStats {
		return fmt.Sprintf("\n  %s Collecting system statistics...\n", m.spinner.View())
	}
	if !m.fleetReady {
		return "\n  No statistics collected yet.\n"
	}
	return RenderSystemChart(m.fleet.Systems, m.fleet, m.width, m.height)
}

func (m Model) renderExportMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(TitleStyle.Render("Export Mapping"))
	b.WriteString("\n\n")

	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s: %d controls, %d findings",
		m.currentMapping.Name,
		m.currentMapping.MappingResult.Summary.TotalControls,
		m.currentMapping.MappingResult.TotalVulnerabilities)))
	b.WriteString("\n\n")

	for i, format := range m.exportOptions {
		if i == m.selectedExportIndex {
			selectedStyle := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(PrimaryColor).
				Padding(0, 1)
			b.WriteString(selectedStyle.Render(fmt.Sprintf("> %s", format)))
		} else {
			b.WriteString(fmt.Sprintf("  %s", format))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("j/k navigate • enter export • x/esc back"))

	return b.String()
}

func (m Model) renderPrepName() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(TitleStyle.Render("New Prep List"))
	b.WriteString("\n\n")

	ids := m.selectedControlIDs()
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("Selected controls: %s", strings.Join(ids, ", "))))
	b.WriteString("\n\n")

	b.WriteString(m.prepInput.View())
	b.WriteString("\n\n")

	if m.statusMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(NonCompliantColor).Render(m.statusMsg))
		b.WriteString("\n")
	}
	b.WriteString(SubtitleStyle.Render("enter create • esc cancel"))

	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
