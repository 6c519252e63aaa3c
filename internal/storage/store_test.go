package storage

import (
	"testing"

	"github.com/climbfall/ropefall/internal/config"
	"github.com/climbfall/ropefall/internal/vecmath"
	"github.com/climbfall/ropefall/internal/world"
)

func fakeResult() *world.Result {
	pos := vecmath.New(0.1, 5.2, 0.3)
	return &world.Result{
		FinalTime:   2.0,
		PeakTension: 6400.5,
		PeakSpeed:   8.85,
		RestLength:  6.1,
		Snapshots: []world.Snapshot{
			{
				Time:    0,
				Version: "1.0.0",
				Bodies: []world.BodyRecord{
					{
						Type:     world.RecordPointMass,
						ID:       2,
						Name:     "climber",
						Position: &pos,
						Color:    "rgb(220,60,60)",
						Radius:   0.3,
					},
					{
						Type:     world.RecordRope,
						Color:    "rgb(230,230,230)",
						Polyline: []vecmath.Vector{{X: 0, Y: 0, Z: 0.5}, pos},
					},
				},
			},
			{Time: 0.025, Version: "1.0.0"},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	cfg := config.DefaultConfig()
	result := fakeResult()
	runID, err := st.Save(cfg, result)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.ID != runID {
		t.Fatalf("meta.ID = %q, want %q", meta.ID, runID)
	}
	if meta.PeakTension != result.PeakTension || meta.PeakSpeed != result.PeakSpeed {
		t.Fatalf("peaks changed: %+v", meta)
	}
	if meta.RestLength != result.RestLength {
		t.Fatalf("rest length = %v, want %v", meta.RestLength, result.RestLength)
	}
	if meta.NumFrames != len(result.Snapshots) {
		t.Fatalf("frames = %d, want %d", meta.NumFrames, len(result.Snapshots))
	}
	if meta.Config == nil || meta.Config.ClimberWeight != cfg.ClimberWeight {
		t.Fatalf("config not persisted: %+v", meta.Config)
	}
}

func TestLoadSnapshotsReplaysStream(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	result := fakeResult()
	runID, err := st.Save(config.DefaultConfig(), result)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	snaps, err := st.LoadSnapshots(runID)
	if err != nil {
		t.Fatalf("LoadSnapshots: %v", err)
	}
	if len(snaps) != len(result.Snapshots) {
		t.Fatalf("replayed %d snapshots, want %d", len(snaps), len(result.Snapshots))
	}
	if snaps[0].Bodies[0].Color != "rgb(220,60,60)" {
		t.Fatalf("colour changed across persistence: %q", snaps[0].Bodies[0].Color)
	}
	if *snaps[0].Bodies[0].Position != *result.Snapshots[0].Bodies[0].Position {
		t.Fatal("position changed across persistence")
	}
}

func TestListFindsSavedRuns(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("empty store listed %d runs", len(runs))
	}

	if _, err := st.Save(config.DefaultConfig(), fakeResult()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	runs, err = st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("listed %d runs, want 1", len(runs))
	}
}

func TestListMissingBaseDirIsEmpty(t *testing.T) {
	st := New(t.TempDir() + "/never-created")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("listed %d runs from a missing dir", len(runs))
	}
}
