package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/FoxxDev-Collab/poam-tracker/internal/config"
	"github.com/FoxxDev-Collab/poam-tracker/internal/logging"
	"github.com/FoxxDev-Collab/poam-tracker/internal/stats"
	"github.com/FoxxDev-Collab/poam-tracker/internal/store"
)

// RunStats prints per-system and fleet-wide record counts.
func RunStats(cfg *config.Config) error {
	log, err := logging.New(cfg.LogPath(), logging.WithLevel(logging.ParseLevel(cfg.LogLevel)))
	if err != nil {
		log = logging.Nop()
	}
	defer log.Close()

	db, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	systems, err := db.ListSystems(ctx)
	if err != nil {
		return err
	}
	if len(systems) == 0 {
		fmt.Println("No systems registered yet. Run `poam-tracker map` to create one.")
		return nil
	}

	agg := stats.NewAggregator(db, log).Collect(ctx, systems)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYSTEM\tOPEN\tCLOSED\tOVERDUE\tNOTES\tMAPPINGS\tTEST PLANS")
	for _, s := range agg.Systems {
		if s.Degraded {
			fmt.Fprintf(w, "%s\t(unavailable)\t\t\t\t\t\n", s.SystemName)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			s.SystemName, s.OpenPOAMs, s.ClosedPOAMs, s.OverduePOAMs,
			s.NoteCount, s.MappingCount, s.TestPlans)
	}
	fmt.Fprintf(w, "TOTAL\t%d\t%d\t%d\t%d\t%d\t%d\n",
		agg.OpenPOAMs, agg.ClosedPOAMs, agg.OverduePOAMs,
		agg.TotalNotes, agg.TotalMappings, agg.TotalTestPlans)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nPOA&M completion: %d%% (%d of %d closed)\n",
		agg.CompletionRate, agg.ClosedPOAMs, agg.TotalPOAMs)
	return nil
}
