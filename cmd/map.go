package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FoxxDev-Collab/poam-tracker/internal/ckl"
	"github.com/FoxxDev-Collab/poam-tracker/internal/config"
	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
	"github.com/FoxxDev-Collab/poam-tracker/internal/stig"
	"github.com/FoxxDev-Collab/poam-tracker/internal/store"
)

// MapOptions carries the parsed flags for the map command.
type MapOptions struct {
	System  string   // system name or ID; created when it does not exist
	Name    string   // mapping name; defaults to the STIG title
	CCIList string   // path to the DISA CCI list XML
	Files   []string // checklist (.ckl) files
}

// RunMap parses one or more STIG checklists, correlates their findings to
// NIST 800-53 controls through the CCI list, and stores the result as a
// mapping under the given system.
func RunMap(cfg *config.Config, opts MapOptions) error {
	if len(opts.Files) == 0 {
		return fmt.Errorf("at least one checklist file is required")
	}
	if strings.TrimSpace(opts.System) == "" {
		return fmt.Errorf("a system is required (use --system)")
	}

	cciPath := opts.CCIList
	if cciPath == "" {
		cciPath = cfg.CCIListPath
	}
	if cciPath == "" {
		return fmt.Errorf("no CCI list configured: pass --cci or set cci_list_path in poam-tracker.yaml")
	}

	mappings, err := ckl.ParseCCIList(cciPath)
	if err != nil {
		return fmt.Errorf("failed to load CCI list: %w", err)
	}

	checklist, err := ckl.ParseChecklists(opts.Files)
	if err != nil {
		return fmt.Errorf("failed to parse checklists: %w", err)
	}

	db, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sys, err := resolveSystem(ctx, db, opts.System, true)
	if err != nil {
		return err
	}

	result := stig.BuildMappingResult(checklist, mappings)

	name := opts.Name
	if name == "" {
		name = checklist.STIGInfo.Title
	}
	if name == "" {
		name = "STIG Mapping"
	}

	now := time.Now()
	stored := model.StoredMapping{
		ID:            uuid.NewString(),
		Name:          name,
		CreatedDate:   now,
		UpdatedDate:   now,
		STIGInfo:      checklist.STIGInfo,
		AssetInfo:     checklist.Asset,
		MappingResult: result,
		CCIMappings:   mappings,
	}
	if err := db.SaveMapping(ctx, sys.ID, stored); err != nil {
		return err
	}

	s := result.Summary
	fmt.Printf("Mapped %d findings to %d NIST controls (%s)\n",
		result.TotalVulnerabilities, s.TotalControls, sys.Name)
	fmt.Printf("  Compliant:      %d\n", s.CompliantControls)
	fmt.Printf("  Non-compliant:  %d\n", s.NonCompliantControls)
	fmt.Printf("  Partial:        %d\n", s.PartialControls)
	fmt.Printf("  Not applicable: %d\n", s.NotApplicableControls)
	fmt.Printf("  Open findings:  %d high, %d medium, %d low\n",
		s.HighRiskFindings, s.MediumRiskFindings, s.LowRiskFindings)
	fmt.Printf("Saved mapping %q (%s)\n", stored.Name, stored.ID)
	return nil
}

// resolveSystem finds a system by ID or name. With create set, a missing
// system is registered on the fly.
func resolveSystem(ctx context.Context, db *store.Store, ref string, create bool) (model.System, error) {
	systems, err := db.ListSystems(ctx)
	if err != nil {
		return model.System{}, err
	}
	for _, sys := range systems {
		if sys.ID == ref || strings.EqualFold(sys.Name, ref) {
			return sys, nil
		}
	}
	if !create {
		return model.System{}, fmt.Errorf("unknown system %q", ref)
	}

	now := time.Now()
	sys := model.System{
		ID:          uuid.NewString(),
		Name:        ref,
		IsActive:    true,
		CreatedDate: now,
		UpdatedDate: now,
	}
	if err := db.CreateSystem(ctx, sys); err != nil {
		return model.System{}, err
	}
	fmt.Printf("Registered new system %q\n", sys.Name)
	return sys, nil
}
