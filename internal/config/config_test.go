package config

import (
	"math"
	"path/filepath"
	"testing"
)

type recordingLogger struct{ warnings []string }

func (r *recordingLogger) Warnf(format string, args ...any) {
	r.warnings = append(r.warnings, format)
}

func TestClampOutOfRangeWarnsAndClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClimberWeight = 1000
	cfg.WallAngleDeg = -5
	cfg.FrameRate = 0.1

	log := &recordingLogger{}
	cfg.Clamp(log)

	if cfg.ClimberWeight != 200 {
		t.Fatalf("climber weight = %v, want clamped to 200", cfg.ClimberWeight)
	}
	if cfg.WallAngleDeg != 0 {
		t.Fatalf("wall angle = %v, want clamped to 0", cfg.WallAngleDeg)
	}
	if cfg.FrameRate != 1 {
		t.Fatalf("frame rate = %v, want clamped to 1", cfg.FrameRate)
	}
	if len(log.warnings) != 3 {
		t.Fatalf("warnings = %d, want 3", len(log.warnings))
	}
}

func TestClampFillsDocumentedDefaults(t *testing.T) {
	cfg := &Config{
		ClimberHeight:       5,
		ClimberWeight:       70,
		FixedAnchor:         true,
		RopeSegments:        10,
		PhysicsStepSizeMs:   0.1,
		ElasticityConstant:  0.079,
		RopeWeight:          0.062,
		FrictionCoefficient: 0.125,
		FrameRate:           40,
		SimulationDuration:  1,
		DrawNumber:          1,
		Draws:               []Draw{{Height: 4}},
	}
	cfg.Clamp(nil)

	if cfg.BelayerWallDistance != DefaultBelayerWallDistance {
		t.Fatalf("belayer wall distance = %v, want default %v", cfg.BelayerWallDistance, DefaultBelayerWallDistance)
	}
	if cfg.ClimberWallDistance != DefaultClimberWallDistance {
		t.Fatalf("climber wall distance = %v, want default %v", cfg.ClimberWallDistance, DefaultClimberWallDistance)
	}
	if cfg.Slack != DefaultSlack {
		t.Fatalf("slack = %v, want default %v", cfg.Slack, DefaultSlack)
	}
	if cfg.Draws[0].WallDistance != DefaultDrawWallDistance {
		t.Fatalf("draw wall distance = %v, want default %v", cfg.Draws[0].WallDistance, DefaultDrawWallDistance)
	}
}

func TestClampSkipsBelayerWeightWhenFixed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FixedAnchor = true
	cfg.BelayerWeight = 0

	log := &recordingLogger{}
	cfg.Clamp(log)
	if cfg.BelayerWeight != 0 {
		t.Fatalf("fixed belayer weight = %v, want left at 0", cfg.BelayerWeight)
	}
	if len(log.warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", log.warnings)
	}
}

func TestNormalizeDrawsSynthesisesFromCountAndHeight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DrawNumber = 3
	cfg.LastDrawHeight = 6
	cfg.Clamp(nil)

	if len(cfg.Draws) != 3 {
		t.Fatalf("draws = %d, want 3", len(cfg.Draws))
	}
	for i, want := range []float64{2, 4, 6} {
		if math.Abs(cfg.Draws[i].Height-want) > 1e-12 {
			t.Fatalf("draw %d height = %v, want %v", i, cfg.Draws[i].Height, want)
		}
		if cfg.Draws[i].WallDistance != DefaultDrawWallDistance {
			t.Fatalf("draw %d wall distance = %v, want default", i, cfg.Draws[i].WallDistance)
		}
	}
}

func TestNormalizeDrawsTruncatesExcessPlacements(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DrawNumber = 1
	cfg.Draws = []Draw{{Height: 2}, {Height: 3}}

	log := &recordingLogger{}
	cfg.Clamp(log)
	if len(cfg.Draws) != 1 {
		t.Fatalf("draws = %d, want truncated to 1", len(cfg.Draws))
	}
	if len(log.warnings) == 0 {
		t.Fatal("expected a truncation warning")
	}
}

func TestNormalizeDrawsAdoptsExplicitListLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DrawNumber = 0
	cfg.Draws = []Draw{{Height: 2}, {Height: 4}}
	cfg.Clamp(nil)
	if cfg.DrawNumber != 2 {
		t.Fatalf("draw number = %d, want adopted 2", cfg.DrawNumber)
	}
}

func TestUnitConversions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PhysicsStepSizeMs = 0.01
	if got := cfg.StepSize(); math.Abs(got-1e-5) > 1e-18 {
		t.Fatalf("step size = %v s, want 1e-5", got)
	}
	cfg.ElasticityConstant = 0.079
	if got := cfg.Elasticity(); math.Abs(got-7.9e-5) > 1e-18 {
		t.Fatalf("elasticity = %v 1/N, want 7.9e-5", got)
	}
}

func TestParsedVersion(t *testing.T) {
	cfg := DefaultConfig()
	v, err := cfg.ParsedVersion()
	if err != nil {
		t.Fatalf("ParsedVersion: %v", err)
	}
	if v.Major() != 1 {
		t.Fatalf("major = %d, want 1", v.Major())
	}

	cfg.Version = ""
	if _, err := cfg.ParsedVersion(); err != nil {
		t.Fatalf("empty version should default, got %v", err)
	}

	cfg.Version = "not-a-version"
	if _, err := cfg.ParsedVersion(); err == nil {
		t.Fatal("expected an error for an unparseable version")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := GetPreset("sport-single-draw")
	if cfg == nil {
		t.Fatal("missing sport-single-draw preset")
	}
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ClimberHeight != cfg.ClimberHeight ||
		loaded.DrawNumber != cfg.DrawNumber ||
		len(loaded.Draws) != len(cfg.Draws) ||
		loaded.ElasticityConstant != cfg.ElasticityConstant {
		t.Fatalf("loaded config differs: %+v vs %+v", loaded, cfg)
	}
}

func TestPresetsAreAlreadyInRange(t *testing.T) {
	for name := range Presets {
		cfg := *GetPreset(name)
		log := &recordingLogger{}
		cfg.Clamp(log)
		if len(log.warnings) != 0 {
			t.Fatalf("preset %q produced clamp warnings: %v", name, log.warnings)
		}
	}
}
