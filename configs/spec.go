package configs

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/tension/director"
)

// SessionSpec is the yaml shape of a directed-session config. Zero fields
// fall back to the stock tuning; decay_rate is a pointer so an explicit zero
// survives the round trip.
type SessionSpec struct {
	Name              string               `yaml:"name"`
	TickRate          float64              `yaml:"tick_rate"`
	MasterSeed        int64                `yaml:"master_seed"`
	OverrideThreshold float64              `yaml:"override_threshold"`
	DecayRate         *float64             `yaml:"decay_rate"`
	BaseSpawnRate     float64              `yaml:"base_spawn_rate"`
	SampleInterval    float64              `yaml:"sample_interval"`
	PeakCooldownAfter float64              `yaml:"peak_cooldown_after"`
	QuietRateFactor   float64              `yaml:"quiet_rate_factor"`
	Phases            map[string]PhaseSpec `yaml:"phases"`
	Effects           map[string]float64   `yaml:"effects"`
	Pools             map[string][]string  `yaml:"pools"`
	Gate              QualityGateSpec      `yaml:"quality_gate"`
}

type PhaseSpec struct {
	Duration       float64 `yaml:"duration"`
	Next           string  `yaml:"next"`
	RateMultiplier float64 `yaml:"rate_multiplier"`
}

type QualityGateSpec struct {
	MinBatch   int      `yaml:"min_batch"`
	MaxRetries int      `yaml:"max_retries"`
	Fallback   []string `yaml:"fallback"`
}

// LoadSpec loads and unmarshals a named yaml spec into T.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("configs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("configs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadSessionSpec loads a session spec by file name.
func LoadSessionSpec(filename string) (*SessionSpec, error) {
	spec, err := LoadSpec[SessionSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Config converts the spec into a validated director config, applying the
// stock tuning for every unset field.
func (s *SessionSpec) Config() (*director.SessionConfig, error) {
	cfg := director.DefaultConfig()
	if s == nil {
		return cfg, nil
	}

	if s.TickRate > 0 {
		cfg.TickRate = s.TickRate
	}
	cfg.MasterSeed = s.MasterSeed
	if s.OverrideThreshold > 0 {
		cfg.OverrideThreshold = s.OverrideThreshold
	}
	if s.DecayRate != nil {
		cfg.DecayRate = *s.DecayRate
	}
	if s.BaseSpawnRate > 0 {
		cfg.BaseSpawnRate = s.BaseSpawnRate
	}
	if s.SampleInterval > 0 {
		cfg.SampleInterval = s.SampleInterval
	}
	if s.PeakCooldownAfter > 0 {
		cfg.PeakCooldownAfter = s.PeakCooldownAfter
	}
	if s.QuietRateFactor > 0 {
		cfg.QuietRateFactor = s.QuietRateFactor
	}

	for name, ps := range s.Phases {
		phase := director.Phase(name)
		base, ok := cfg.Phases[phase]
		if !ok {
			return nil, fmt.Errorf("configs: unknown phase %q", name)
		}
		if ps.Duration > 0 {
			base.Duration = ps.Duration
		}
		if ps.Next != "" {
			base.Next = director.Phase(ps.Next)
		}
		if ps.RateMultiplier > 0 {
			base.RateMultiplier = ps.RateMultiplier
		}
		cfg.Phases[phase] = base
	}

	for name, delta := range s.Effects {
		ev := director.EventType(name)
		if !director.KnownEventType(ev) {
			return nil, fmt.Errorf("configs: unknown event type %q", name)
		}
		cfg.Effects[ev] = delta
	}

	for name, pool := range s.Pools {
		cfg.Pools[director.Tier(name)] = append([]string(nil), pool...)
	}

	if s.Gate.MinBatch > 0 {
		cfg.Gate.MinBatch = s.Gate.MinBatch
	}
	if s.Gate.MaxRetries > 0 {
		cfg.Gate.MaxRetries = s.Gate.MaxRetries
	}
	if len(s.Gate.Fallback) > 0 {
		cfg.Gate.Fallback = append([]string(nil), s.Gate.Fallback...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configs: %s: %w", s.Name, err)
	}
	return cfg, nil
}
