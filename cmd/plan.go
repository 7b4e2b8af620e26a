package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/FoxxDev-Collab/poam-tracker/internal/config"
	"github.com/FoxxDev-Collab/poam-tracker/internal/stig"
	"github.com/FoxxDev-Collab/poam-tracker/internal/store"
)

// PlanOptions carries the parsed flags for the plan command.
type PlanOptions struct {
	System string // system name or ID
	Prep   string // prep list name or ID
	Name   string // test plan name; defaults to the prep list name
}

// RunPlan expands a stored prep list into a security test plan and saves
// it under the same system.
func RunPlan(cfg *config.Config, opts PlanOptions) error {
	if strings.TrimSpace(opts.System) == "" {
		return fmt.Errorf("a system is required (use --system)")
	}
	if strings.TrimSpace(opts.Prep) == "" {
		return fmt.Errorf("a prep list is required (use --prep)")
	}

	db, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sys, err := resolveSystem(ctx, db, opts.System, false)
	if err != nil {
		return err
	}

	preps, err := db.ListPrepLists(ctx, sys.ID)
	if err != nil {
		return err
	}
	idx := -1
	for i, p := range preps {
		if p.ID == opts.Prep || strings.EqualFold(p.Name, opts.Prep) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no prep list %q in system %q", opts.Prep, sys.Name)
	}
	prep := preps[idx]

	name := opts.Name
	if name == "" {
		name = prep.Name
	}

	plan, err := stig.GenerateTestPlan(&prep, name, time.Now())
	if err != nil {
		return err
	}
	if err := db.SaveTestPlan(ctx, sys.ID, plan); err != nil {
		return err
	}

	fmt.Printf("Generated test plan %q with %d cases from %d controls\n",
		plan.Name, len(plan.TestCases), len(prep.SelectedControls))
	fmt.Printf("Saved as %s (status: %s)\n", plan.ID, plan.Status)
	return nil
}
