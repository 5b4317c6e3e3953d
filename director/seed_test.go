package director

import (
	"math/rand"
	"testing"
)

func TestSeedContextDerivation(t *testing.T) {
	t.Run("same_scope_same_stream_object", func(t *testing.T) {
		ctx := NewSeedContext(42)
		a := ctx.Derive("wave:1")
		b := ctx.Derive("wave:1")
		if a != b {
			t.Fatalf("expected cached stream for repeated scope")
		}
	})

	t.Run("identical_master_and_scope_identical_draws", func(t *testing.T) {
		a := NewSeedContext(42).Derive("floor:3")
		b := NewSeedContext(42).Derive("floor:3")
		for i := 0; i < 100; i++ {
			if x, y := a.Intn(1000), b.Intn(1000); x != y {
				t.Fatalf("draw %d diverged: %d vs %d", i, x, y)
			}
		}
	})

	t.Run("different_scopes_independent", func(t *testing.T) {
		ctx := NewSeedContext(42)
		a := ctx.Derive("floor:1")
		b := ctx.Derive("floor:2")
		same := 0
		for i := 0; i < 100; i++ {
			if a.Intn(1000) == b.Intn(1000) {
				same++
			}
		}
		if same == 100 {
			t.Fatalf("scopes floor:1 and floor:2 produced identical sequences")
		}
	})

	t.Run("different_masters_diverge", func(t *testing.T) {
		a := NewSeedContext(1).Derive("wave:0")
		b := NewSeedContext(2).Derive("wave:0")
		same := 0
		for i := 0; i < 100; i++ {
			if a.Intn(1000) == b.Intn(1000) {
				same++
			}
		}
		if same == 100 {
			t.Fatalf("distinct master seeds produced identical sequences")
		}
	})
}

func TestDrawFrom(t *testing.T) {
	pool := []string{"rat", "crow", "husk"}

	t.Run("deterministic", func(t *testing.T) {
		a := DrawFrom(rand.New(rand.NewSource(7)), pool, 10)
		b := DrawFrom(rand.New(rand.NewSource(7)), pool, 10)
		if len(a) != 10 || len(b) != 10 {
			t.Fatalf("draw lengths = %d, %d, want 10", len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("draw %d diverged: %s vs %s", i, a[i], b[i])
			}
		}
	})

	t.Run("members_of_pool", func(t *testing.T) {
		members := map[string]bool{}
		for _, id := range pool {
			members[id] = true
		}
		for _, id := range DrawFrom(rand.New(rand.NewSource(9)), pool, 50) {
			if !members[id] {
				t.Fatalf("drew %q, not in pool", id)
			}
		}
	})

	t.Run("empty_pool", func(t *testing.T) {
		if got := DrawFrom(rand.New(rand.NewSource(1)), nil, 5); got != nil {
			t.Fatalf("expected nil for empty pool, got %v", got)
		}
	})
}

func TestPickTier(t *testing.T) {
	t.Run("zero_weight_never_picked", func(t *testing.T) {
		stream := rand.New(rand.NewSource(11))
		weights := map[Tier]float64{TierAmbient: 0.70, TierCommon: 0.25, TierElite: 0.05, TierBoss: 0.00}
		for i := 0; i < 1000; i++ {
			if PickTier(stream, weights) == TierBoss {
				t.Fatalf("picked a zero-weight tier")
			}
		}
	})

	t.Run("sole_weight_always_picked", func(t *testing.T) {
		stream := rand.New(rand.NewSource(12))
		weights := map[Tier]float64{TierElite: 1.0}
		for i := 0; i < 100; i++ {
			if got := PickTier(stream, weights); got != TierElite {
				t.Fatalf("pick = %v, want elite", got)
			}
		}
	})

	t.Run("degenerate_weights_default_ambient", func(t *testing.T) {
		stream := rand.New(rand.NewSource(13))
		if got := PickTier(stream, map[Tier]float64{}); got != TierAmbient {
			t.Fatalf("pick = %v, want ambient", got)
		}
	})
}
