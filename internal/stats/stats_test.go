package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/FoxxDev-Collab/poam-tracker/internal/logging"
	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
)

// fakeFetcher serves canned records per system and can fail whole systems.
type fakeFetcher struct {
	poams    map[string][]model.POAM
	notes    map[string][]model.Note
	mappings map[string][]model.StoredMapping
	plans    map[string][]model.TestPlan
	failing  map[string]bool
}

var errUnreachable = errors.New("system unreachable")

func (f *fakeFetcher) ListPOAMs(_ context.Context, systemID string) ([]model.POAM, error) {
	if f.failing[systemID] {
		return nil, errUnreachable
	}
	return f.poams[systemID], nil
}

func (f *fakeFetcher) ListNotes(_ context.Context, systemID string) ([]model.Note, error) {
	if f.failing[systemID] {
		return nil, errUnreachable
	}
	return f.notes[systemID], nil
}

func (f *fakeFetcher) ListMappings(_ context.Context, systemID string) ([]model.StoredMapping, error) {
	if f.failing[systemID] {
		return nil, errUnreachable
	}
	return f.mappings[systemID], nil
}

func (f *fakeFetcher) ListTestPlans(_ context.Context, systemID string) ([]model.TestPlan, error) {
	if f.failing[systemID] {
		return nil, errUnreachable
	}
	return f.plans[systemID], nil
}

func testAggregator(f *fakeFetcher, now time.Time) *Aggregator {
	a := NewAggregator(f, logging.Nop())
	a.now = func() time.Time { return now }
	return a
}

func TestCollectCounts(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	f := &fakeFetcher{
		poams: map[string][]model.POAM{
			"sys-a": {
				{ID: 1, Status: "In Progress", EndDate: past},   // open, overdue
				{ID: 2, Status: "Not Started", EndDate: future}, // open
				{ID: 3, Status: "Closed", EndDate: past},
				{ID: 4, Status: "Completed", EndDate: future},
			},
		},
		notes:    map[string][]model.Note{"sys-a": {{ID: "n1"}, {ID: "n2"}}},
		mappings: map[string][]model.StoredMapping{"sys-a": {{ID: "m1"}}},
		plans:    map[string][]model.TestPlan{"sys-a": {{ID: "tp1"}}},
		failing:  map[string]bool{},
	}

	agg := testAggregator(f, now).Collect(context.Background(), []model.System{{ID: "sys-a", Name: "Alpha"}})

	s := agg.Systems[0]
	if s.OpenPOAMs != 2 || s.ClosedPOAMs != 2 || s.OverduePOAMs != 1 {
		t.Errorf("poam counts = open %d closed %d overdue %d", s.OpenPOAMs, s.ClosedPOAMs, s.OverduePOAMs)
	}
	if s.NoteCount != 2 || s.MappingCount != 1 || s.TestPlans != 1 {
		t.Errorf("record counts = %+v", s)
	}
	if agg.TotalPOAMs != 4 || agg.CompletionRate != 50 {
		t.Errorf("fleet totals = %d poams, %d%% complete", agg.TotalPOAMs, agg.CompletionRate)
	}
}

func TestCollectPartialFailure(t *testing.T) {
	now := time.Now()
	f := &fakeFetcher{
		poams: map[string][]model.POAM{
			"sys-a": {{ID: 1, Status: "Closed"}, {ID: 2, Status: "Open", EndDate: now.AddDate(0, 1, 0)}},
			"sys-b": {{ID: 3, Status: "Closed"}},
			"sys-c": {{ID: 4, Status: "Closed"}},
		},
		failing: map[string]bool{"sys-b": true},
	}

	systems := []model.System{{ID: "sys-a"}, {ID: "sys-b"}, {ID: "sys-c"}}
	agg := testAggregator(f, now).Collect(context.Background(), systems)

	// The failing system contributes zero without aborting the batch.
	if agg.TotalPOAMs != 3 {
		t.Errorf("TotalPOAMs = %d, want 3 (successful systems only)", agg.TotalPOAMs)
	}
	if !agg.Systems[1].Degraded {
		t.Error("failed system not marked degraded")
	}
	if agg.Systems[1].OpenPOAMs != 0 || agg.Systems[1].ClosedPOAMs != 0 {
		t.Errorf("degraded system has non-zero counts: %+v", agg.Systems[1])
	}
	if agg.Systems[0].SystemID != "sys-a" || agg.Systems[2].SystemID != "sys-c" {
		t.Error("per-system results not in input order")
	}
}

func TestCollectNoRecords(t *testing.T) {
	f := &fakeFetcher{failing: map[string]bool{}}
	agg := testAggregator(f, time.Now()).Collect(context.Background(), []model.System{{ID: "sys-a"}})

	if agg.CompletionRate != 0 {
		t.Errorf("CompletionRate = %d with zero records, want 0", agg.CompletionRate)
	}
}

func TestCompletionRateRounds(t *testing.T) {
	f := &fakeFetcher{
		poams: map[string][]model.POAM{
			"sys-a": {
				{ID: 1, Status: "Closed"},
				{ID: 2, Status: "Closed"},
				{ID: 3, Status: "Open", EndDate: time.Now().AddDate(1, 0, 0)},
			},
		},
		failing: map[string]bool{},
	}
	agg := testAggregator(f, time.Now()).Collect(context.Background(), []model.System{{ID: "sys-a"}})

	// 2/3 rounds to 67, not truncates to 66.
	if agg.CompletionRate != 67 {
		t.Errorf("CompletionRate = %d, want 67", agg.CompletionRate)
	}
}
