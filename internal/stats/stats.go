// Package stats computes per-system and fleet-wide record counts for the
// overview screen. Results are transient projections, recomputed on every
// reload and never persisted.
package stats

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/FoxxDev-Collab/poam-tracker/internal/logging"
	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
)

// Fetcher is the narrow read surface the aggregator needs from the
// persistence layer.
type Fetcher interface {
	ListPOAMs(ctx context.Context, systemID string) ([]model.POAM, error)
	ListNotes(ctx context.Context, systemID string) ([]model.Note, error)
	ListMappings(ctx context.Context, systemID string) ([]model.StoredMapping, error)
	ListTestPlans(ctx context.Context, systemID string) ([]model.TestPlan, error)
}

// SystemStats is the per-system projection.
type SystemStats struct {
	SystemID     string `json:"systemId"`
	SystemName   string `json:"systemName"`
	OpenPOAMs    int    `json:"openPoams"`
	ClosedPOAMs  int    `json:"closedPoams"`
	OverduePOAMs int    `json:"overduePoams"`
	NoteCount    int    `json:"noteCount"`
	MappingCount int    `json:"mappingCount"`
	TestPlans    int    `json:"testPlanCount"`
	// Degraded marks a system whose fetch failed; its counts are zero.
	Degraded bool `json:"degraded"`
}

// AggregatedStats is the fleet-wide reduction over all systems.
type AggregatedStats struct {
	Systems        []SystemStats `json:"systems"`
	TotalPOAMs     int           `json:"totalPoams"`
	OpenPOAMs      int           `json:"openPoams"`
	ClosedPOAMs    int           `json:"closedPoams"`
	OverduePOAMs   int           `json:"overduePoams"`
	TotalNotes     int           `json:"totalNotes"`
	TotalMappings  int           `json:"totalMappings"`
	TotalTestPlans int           `json:"totalTestPlans"`
	// CompletionRate is closed POA&Ms over all POA&Ms as a rounded
	// integer percentage, 0 when there are no POA&Ms.
	CompletionRate int `json:"completionRate"`
}

// Aggregator fans out read calls per system and reduces the results.
type Aggregator struct {
	fetcher Fetcher
	log     *logging.Logger
	now     func() time.Time
}

// NewAggregator creates an aggregator over the given fetcher.
func NewAggregator(fetcher Fetcher, log *logging.Logger) *Aggregator {
	if log == nil {
		log = logging.Nop()
	}
	return &Aggregator{fetcher: fetcher, log: log, now: time.Now}
}

// Collect fetches the record collections of every system concurrently and
// reduces them into fleet totals. A failing system never aborts the
// batch: its stats degrade to zero counts and the failure is logged. The
// result is independent of fetch completion order; systems come back in
// input order.
func (a *Aggregator) Collect(ctx context.Context, systems []model.System) AggregatedStats {
	perSystem := make([]SystemStats, len(systems))

	var wg sync.WaitGroup
	for i, sys := range systems {
		wg.Add(1)
		go func(i int, sys model.System) {
			defer wg.Done()
			perSystem[i] = a.collectOne(ctx, sys)
		}(i, sys)
	}
	wg.Wait()

	return reduce(perSystem)
}

func (a *Aggregator) collectOne(ctx context.Context, sys model.System) SystemStats {
	stats := SystemStats{SystemID: sys.ID, SystemName: sys.Name}

	poams, err := a.fetcher.ListPOAMs(ctx, sys.ID)
	if err != nil {
		return a.degrade(sys, "poams", err)
	}
	notes, err := a.fetcher.ListNotes(ctx, sys.ID)
	if err != nil {
		return a.degrade(sys, "notes", err)
	}
	mappings, err := a.fetcher.ListMappings(ctx, sys.ID)
	if err != nil {
		return a.degrade(sys, "mappings", err)
	}
	plans, err := a.fetcher.ListTestPlans(ctx, sys.ID)
	if err != nil {
		return a.degrade(sys, "test plans", err)
	}

	now := a.now()
	for _, p := range poams {
		if p.IsClosed() {
			stats.ClosedPOAMs++
			continue
		}
		stats.OpenPOAMs++
		if p.IsOverdue(now) {
			stats.OverduePOAMs++
		}
	}
	stats.NoteCount = len(notes)
	stats.MappingCount = len(mappings)
	stats.TestPlans = len(plans)
	return stats
}

func (a *Aggregator) degrade(sys model.System, kind string, err error) SystemStats {
	a.log.Warnf("stats fetch failed for system %s (%s): %v; counting as zero", sys.ID, kind, err)
	return SystemStats{SystemID: sys.ID, SystemName: sys.Name, Degraded: true}
}

// reduce is a pure fold over the per-system results.
func reduce(perSystem []SystemStats) AggregatedStats {
	agg := AggregatedStats{Systems: perSystem}
	for _, s := range perSystem {
		agg.OpenPOAMs += s.OpenPOAMs
		agg.ClosedPOAMs += s.ClosedPOAMs
		agg.OverduePOAMs += s.OverduePOAMs
		agg.TotalNotes += s.NoteCount
		agg.TotalMappings += s.MappingCount
		agg.TotalTestPlans += s.TestPlans
	}
	agg.TotalPOAMs = agg.OpenPOAMs + agg.ClosedPOAMs
	if agg.TotalPOAMs > 0 {
		agg.CompletionRate = int(math.Round(float64(agg.ClosedPOAMs) / float64(agg.TotalPOAMs) * 100))
	}
	return agg
}
