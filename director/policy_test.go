package director

import (
	"math"
	"testing"
)

func weightsSum(w map[Tier]float64) float64 {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	return sum
}

func TestDecideBands(t *testing.T) {
	cfg := testConfig()

	cases := []struct {
		name     string
		signal   float64
		peekTier Tier
		want     float64
	}{
		{"low_band_ambient", 0.1, TierAmbient, 0.70},
		{"low_band_boss", 0.29, TierBoss, 0.00},
		{"mid_band_common", 0.3, TierCommon, 0.60},
		{"mid_band_upper_edge", 0.7, TierElite, 0.25},
		{"high_band_elite", 0.71, TierElite, 0.40},
		{"high_band_boss", 0.95, TierBoss, 0.25},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dec := Decide(cfg, PhaseBuild, c.signal, false)
			if math.Abs(dec.Weights[c.peekTier]-c.want) > 1e-9 {
				t.Fatalf("weight[%s] = %v, want %v", c.peekTier, dec.Weights[c.peekTier], c.want)
			}
			if math.Abs(weightsSum(dec.Weights)-1.0) > 1e-9 {
				t.Fatalf("weights sum = %v, want 1.0", weightsSum(dec.Weights))
			}
			if dec.Rate < 0 {
				t.Fatalf("rate = %v, want >= 0", dec.Rate)
			}
		})
	}
}

func TestDecidePhaseMultiplierScalesRateOnly(t *testing.T) {
	cfg := testConfig()
	cfg.BaseSpawnRate = 2.0

	build := Decide(cfg, PhaseBuild, 0.5, false)
	peak := Decide(cfg, PhasePeak, 0.5, false)
	rest := Decide(cfg, PhaseRest, 0.5, false)

	if math.Abs(build.Rate-2.0) > 1e-9 {
		t.Fatalf("build rate = %v, want 2.0", build.Rate)
	}
	if math.Abs(peak.Rate-4.5) > 1e-9 {
		t.Fatalf("peak rate = %v, want 4.5", peak.Rate)
	}
	if math.Abs(rest.Rate-0.5) > 1e-9 {
		t.Fatalf("rest rate = %v, want 0.5", rest.Rate)
	}
	for _, tier := range Tiers {
		if build.Weights[tier] != peak.Weights[tier] {
			t.Fatalf("tier weights must not vary by phase: %s differs", tier)
		}
	}
}

func TestDecideQuietWindow(t *testing.T) {
	cfg := testConfig()
	loud := Decide(cfg, PhaseRelease, 0.8, false)
	quiet := Decide(cfg, PhaseRelease, 0.8, true)

	if math.Abs(quiet.Rate-loud.Rate*cfg.QuietRateFactor) > 1e-9 {
		t.Fatalf("quiet rate = %v, want %v", quiet.Rate, loud.Rate*cfg.QuietRateFactor)
	}
	if quiet.Weights[TierAmbient] <= loud.Weights[TierAmbient] {
		t.Fatalf("quiet window must bias toward ambient: %v vs %v", quiet.Weights[TierAmbient], loud.Weights[TierAmbient])
	}
	if quiet.Weights[TierBoss] != 0 {
		t.Fatalf("quiet window must not spawn bosses, weight = %v", quiet.Weights[TierBoss])
	}
}

func drainSpawns(s *Session) []SpawnCommand {
	var out []SpawnCommand
	for _, evt := range s.Events().Drain() {
		if cmd, ok := evt.Data.(SpawnCommand); ok {
			out = append(out, cmd)
		}
	}
	return out
}

func TestSpawnSystemEmitsCommands(t *testing.T) {
	cfg := testConfig()
	cfg.BaseSpawnRate = 5
	s := NewSession(cfg)
	s.Phase.Current = PhaseBuild
	s.TeamSignal = 0.5
	s.DT = 1.0

	NewSpawnSystem().Update(s)

	cmds := drainSpawns(s)
	if len(cmds) == 0 {
		t.Fatalf("expected spawn commands at rate 5/s")
	}
	total := 0
	for _, cmd := range cmds {
		if len(cmd.Entities) == 0 {
			t.Fatalf("command for %s has no entities", cmd.Tier)
		}
		if cmd.Rate <= 0 {
			t.Fatalf("command rate = %v, want > 0", cmd.Rate)
		}
		total += len(cmd.Entities)
	}
	if total != 5 {
		t.Fatalf("spawned %d entities, want 5", total)
	}
}

func TestSpawnSystemAccumulatesFractionalRate(t *testing.T) {
	cfg := testConfig()
	cfg.BaseSpawnRate = 0.5
	s := NewSession(cfg)
	s.Phase.Current = PhaseBuild
	s.DT = 1.0

	sys := NewSpawnSystem()
	sys.Update(s)
	if cmds := drainSpawns(s); len(cmds) != 0 {
		t.Fatalf("expected no spawns after 0.5 accumulated, got %d commands", len(cmds))
	}
	sys.Update(s)
	cmds := drainSpawns(s)
	if len(cmds) != 1 || len(cmds[0].Entities) != 1 {
		t.Fatalf("expected exactly one spawn after 1.0 accumulated, got %+v", cmds)
	}
}

func TestSpawnSystemSubstitutesLowerTier(t *testing.T) {
	cfg := testConfig()
	cfg.BaseSpawnRate = 4
	cfg.Gate.MinBatch = 0 // isolate substitution from the gate
	cfg.Pools = map[Tier][]string{
		TierAmbient: {"rat"},
		TierCommon:  {"husk"},
		// elite and boss pools intentionally missing
	}
	s := NewSession(cfg)
	s.Phase.Current = PhasePeak
	s.TeamSignal = 0.9 // high band wants elites and bosses
	s.DT = 1.0

	NewSpawnSystem().Update(s)

	for _, cmd := range drainSpawns(s) {
		if cmd.Tier == TierElite || cmd.Tier == TierBoss {
			t.Fatalf("tier %s spawned from a missing pool", cmd.Tier)
		}
	}
}

func TestSpawnSystemQualityGateFallback(t *testing.T) {
	cfg := testConfig()
	cfg.BaseSpawnRate = 4
	cfg.Gate = QualityGate{MinBatch: 2, MaxRetries: 3, Fallback: []string{"husk", "stalker"}}
	// Every pool except ambient is empty, so every pick degrades to ambient
	// and the gate can never be satisfied by re-drawing.
	cfg.Pools = map[Tier][]string{TierAmbient: {"rat"}}
	s := NewSession(cfg)
	s.Phase.Current = PhaseBuild
	s.TeamSignal = 0.9
	s.DT = 1.0

	NewSpawnSystem().Update(s)

	var spawns []SpawnCommand
	var warned bool
	for _, evt := range s.Events().Drain() {
		switch data := evt.Data.(type) {
		case SpawnCommand:
			spawns = append(spawns, data)
		case *QualityGateWarning:
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected a quality gate warning after retry exhaustion")
	}
	got := map[string]bool{}
	for _, cmd := range spawns {
		for _, entity := range cmd.Entities {
			got[entity] = true
		}
	}
	if !got["husk"] || !got["stalker"] {
		t.Fatalf("expected the fallback set, got %v", got)
	}
}

func TestSpawnCommandsGroupedByTierOrder(t *testing.T) {
	cfg := testConfig()
	cfg.BaseSpawnRate = 50
	s := NewSession(cfg)
	s.Phase.Current = PhasePeak
	s.TeamSignal = 0.5
	s.DT = 1.0

	NewSpawnSystem().Update(s)

	cmds := drainSpawns(s)
	lastIdx := -1
	for _, cmd := range cmds {
		idx := tierIndex(cmd.Tier)
		if idx <= lastIdx {
			t.Fatalf("commands out of tier order: %v", cmds)
		}
		lastIdx = idx
	}
}
