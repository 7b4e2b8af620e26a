package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/FoxxDev-Collab/poam-tracker/cmd"
	"github.com/FoxxDev-Collab/poam-tracker/internal/config"
	"github.com/FoxxDev-Collab/poam-tracker/internal/logging"
	"github.com/FoxxDev-Collab/poam-tracker/internal/stats"
	"github.com/FoxxDev-Collab/poam-tracker/internal/store"
	"github.com/FoxxDev-Collab/poam-tracker/internal/tui"
)

const version = "v0.1.0"

func printUsage() {
	fmt.Fprintf(os.Stderr, `poam-tracker - POA&M and STIG compliance tracker

Usage:
  poam-tracker [command] [args...]

Commands:
  (default)   Interactive compliance browser
  map         Map STIG checklist findings to NIST 800-53 controls
  plan        Generate a security test plan from a saved prep list
  export      Write a stored mapping to disk (json, csv, markdown, ckl)
  stats       Print per-system and fleet-wide record counts

Examples:
  poam-tracker                                       # Interactive TUI
  poam-tracker map --system "Web Tier" rhel9.ckl     # Map one checklist
  poam-tracker map --system prod --cci U_CCI_List.xml web.ckl db.ckl
  poam-tracker plan --system prod --prep "Q3 audit"  # Expand a prep list
  poam-tracker stats                                 # Fleet summary

Configuration (poam-tracker.yaml or POAM_* environment):
  data_dir        Data directory (default ~/.poam-tracker)
  database        SQLite file name inside data_dir
  cci_list_path   Default DISA CCI list XML for the map command
  theme           TUI theme: dark, dracula, catppuccin, nord
  log_level       debug, info, warn, or error

Keyboard (TUI mode):
  enter   Drill into systems, mappings, and controls
  space   Select controls for a prep list
  1-4     Set finding status on the detail screen
  g       Dashboard and charts
  x       Export the current mapping
  ctrl+k  Command palette
  ctrl+c  Quit
`)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		runTUI(cfg)
		return
	}

	switch os.Args[1] {
	case "map":
		mapCmd := flag.NewFlagSet("map", flag.ExitOnError)
		system := mapCmd.String("system", "", "System name or ID (created when missing)")
		name := mapCmd.String("name", "", "Mapping name (defaults to the STIG title)")
		cci := mapCmd.String("cci", "", "Path to the DISA CCI list XML")
		mapCmd.Parse(os.Args[2:])

		opts := cmd.MapOptions{System: *system, Name: *name, CCIList: *cci, Files: mapCmd.Args()}
		if err := cmd.RunMap(cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		system := planCmd.String("system", "", "System name or ID")
		prep := planCmd.String("prep", "", "Prep list name or ID")
		name := planCmd.String("name", "", "Test plan name (defaults to the prep list name)")
		planCmd.Parse(os.Args[2:])

		opts := cmd.PlanOptions{System: *system, Prep: *prep, Name: *name}
		if err := cmd.RunPlan(cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "export":
		exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
		system := exportCmd.String("system", "", "System name or ID")
		mapping := exportCmd.String("mapping", "", "Mapping name or ID")
		format := exportCmd.String("format", "json", "Output format: json, csv, markdown, or ckl")
		out := exportCmd.String("out", ".", "Output directory")
		exportCmd.Parse(os.Args[2:])

		opts := cmd.ExportOptions{System: *system, Mapping: *mapping, Format: *format, OutDir: *out}
		if err := cmd.RunExport(cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "stats":
		if err := cmd.RunStats(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "help", "--help", "-h":
		printUsage()

	case "version", "--version":
		fmt.Println("poam-tracker " + version)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runTUI(cfg *config.Config) {
	log, err := logging.New(cfg.LogPath(), logging.WithLevel(logging.ParseLevel(cfg.LogLevel)))
	if err != nil {
		log = logging.Nop()
	}
	defer log.Close()

	db, err := store.Open(cfg.DatabasePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	tui.SetTheme(tui.ThemeName(cfg.Theme))

	agg := stats.NewAggregator(db, log)
	log.Infof("starting TUI (db: %s)", cfg.DatabasePath())

	p := tea.NewProgram(tui.NewModel(db, agg, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
