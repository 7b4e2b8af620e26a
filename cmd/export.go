package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/FoxxDev-Collab/poam-tracker/internal/config"
	"github.com/FoxxDev-Collab/poam-tracker/internal/export"
	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
	"github.com/FoxxDev-Collab/poam-tracker/internal/store"
)

// ExportOptions carries the parsed flags for the export command.
type ExportOptions struct {
	System  string // system name or ID
	Mapping string // mapping name or ID
	Format  string // json, csv, markdown, or ckl
	OutDir  string // output directory, default "."
}

// RunExport writes a stored mapping to disk in the requested format.
func RunExport(cfg *config.Config, opts ExportOptions) error {
	if strings.TrimSpace(opts.System) == "" {
		return fmt.Errorf("a system is required (use --system)")
	}
	if strings.TrimSpace(opts.Mapping) == "" {
		return fmt.Errorf("a mapping is required (use --mapping)")
	}

	format, err := parseFormat(opts.Format)
	if err != nil {
		return err
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = "."
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

	mapping, err := findMapping(ctx, db, sys.ID, opts.Mapping)
	if err != nil {
		return err
	}

	result := export.Export(mapping, format, outDir)
	if result.Err != nil {
		return result.Err
	}
	fmt.Printf("Exported %d controls to %s\n", result.Count, result.FilePath)
	return nil
}

func parseFormat(s string) (export.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return export.FormatJSON, nil
	case "csv":
		return export.FormatCSV, nil
	case "markdown", "md":
		return export.FormatMarkdown, nil
	case "ckl":
		return export.FormatCKL, nil
	}
	return 0, fmt.Errorf("unknown format %q (want json, csv, markdown, or ckl)", s)
}

func findMapping(ctx context.Context, db *store.Store, systemID, ref string) (model.StoredMapping, error) {
	if m, err := db.GetMapping(ctx, systemID, ref); err == nil {
		return m, nil
	}
	mappings, err := db.ListMappings(ctx, systemID)
	if err != nil {
		return model.StoredMapping{}, err
	}
	for _, m := range mappings {
		if strings.EqualFold(m.Name, ref) {
			return m, nil
		}
	}
	return model.StoredMapping{}, fmt.Errorf("no mapping %q in this system", ref)
}
