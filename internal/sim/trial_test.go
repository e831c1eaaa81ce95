package sim

import (
	"math/rand"
	"testing"

	"github.com/quantarena/arena/internal/core"
)

func testConfig() Config {
	return Config{
		Teams:             10,
		Days:              20,
		Trials:            10,
		TopK:              2,
		StartingCapital:   1_000_000,
		Seed:              97,
		Workers:           1,
		Opponents:         core.ArchetypeRandom,
		AnnualTradingDays: 252,
		MaxImpliedVol:     100,
		MinImpliedVol:     10,
		RiskFreeReturn:    0.0248,
		MarketDrift:       0.06,
		VolLevels:         100,
		UpProbability:     0.5,
	}
}

func TestRanksByCapital_TieBreaksToLowerIndex(t *testing.T) {
	field := []*Competitor{
		{Index: 0, Capital: 100},
		{Index: 1, Capital: 300},
		{Index: 2, Capital: 100},
		{Index: 3, Capital: 200},
	}
	ranks := ranksByCapital(field)

	want := []int{3, 1, 4, 2}
	for i, r := range ranks {
		if r != want[i] {
			t.Errorf("competitor %d rank = %d, want %d", i, r, want[i])
		}
	}
}

func TestRanksByCapital_AllEqual(t *testing.T) {
	field := []*Competitor{
		{Index: 0, Capital: 100},
		{Index: 1, Capital: 100},
		{Index: 2, Capital: 100},
	}
	ranks := ranksByCapital(field)
	for i, r := range ranks {
		if r != i+1 {
			t.Errorf("equal capital: competitor %d rank = %d, want %d", i, r, i+1)
		}
	}
}

func TestRunTrial_AllCashSelfKeepsStartingCapital(t *testing.T) {
	cfg := testConfig()
	cfg.SelfPolicy = AlwaysCash()

	e, err := NewEngine(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	res, err := e.RunTrial(0, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	// Bit-exact, not approximately equal: cash days never touch capital.
	if res.SelfFinalCapital != cfg.StartingCapital {
		t.Errorf("all-cash final capital = %v, want exactly %v",
			res.SelfFinalCapital, cfg.StartingCapital)
	}
	if res.SelfRatio != 0 {
		t.Errorf("all-cash ratio = %v, want the degenerate default 0", res.SelfRatio)
	}
}

func TestRunTrial_ResultShape(t *testing.T) {
	cfg := testConfig()
	e, err := NewEngine(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	res, err := e.RunTrial(3, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}

	if res.Trial != 3 {
		t.Errorf("trial index = %d, want 3", res.Trial)
	}
	if len(res.CapitalOrder) != cfg.Teams || len(res.RatioOrder) != cfg.Teams {
		t.Fatalf("orderings must cover all %d competitors", cfg.Teams)
	}
	if res.SelfRankByCapital < 1 || res.SelfRankByCapital > cfg.Teams {
		t.Errorf("rank by capital %d out of range", res.SelfRankByCapital)
	}
	if res.SelfRankByRatio < 1 || res.SelfRankByRatio > cfg.Teams {
		t.Errorf("rank by ratio %d out of range", res.SelfRankByRatio)
	}
	if res.QualifiedByCapital != (res.SelfRankByCapital <= cfg.TopK) {
		t.Error("qualification flag inconsistent with rank by capital")
	}
	if res.QualifiedByRatio != (res.SelfRankByRatio <= cfg.TopK) {
		t.Error("qualification flag inconsistent with rank by ratio")
	}

	// Each ordering is a permutation of the field.
	seen := make(map[int]bool, cfg.Teams)
	for _, idx := range res.CapitalOrder {
		if seen[idx] {
			t.Fatalf("competitor %d appears twice in capital ordering", idx)
		}
		seen[idx] = true
	}
}

func TestRunTrial_CapitalNeverNegative(t *testing.T) {
	cfg := testConfig()
	cfg.MaxImpliedVol = 100
	cfg.Days = 50

	e, err := NewEngine(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	for trial := 0; trial < 20; trial++ {
		res, err := e.RunTrial(trial, rand.New(rand.NewSource(int64(trial))))
		if err != nil {
			t.Fatal(err)
		}
		if res.SelfFinalCapital < 0 {
			t.Fatalf("trial %d: negative final capital %v", trial, res.SelfFinalCapital)
		}
	}
}

func TestRunTrial_Deterministic(t *testing.T) {
	cfg := testConfig()
	e, err := NewEngine(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	a, err := e.RunTrial(0, rand.New(rand.NewSource(97)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.RunTrial(0, rand.New(rand.NewSource(97)))
	if err != nil {
		t.Fatal(err)
	}

	if a.SelfFinalCapital != b.SelfFinalCapital || a.SelfRatio != b.SelfRatio {
		t.Error("identical seeds must produce bit-identical trial results")
	}
	for i := range a.CapitalOrder {
		if a.CapitalOrder[i] != b.CapitalOrder[i] {
			t.Fatal("capital orderings diverged between identical seeds")
		}
	}
}

func TestOpponentSigma_MixedSplit(t *testing.T) {
	cfg := testConfig()
	p := deriveParams(cfg)
	rng := rand.New(rand.NewSource(1))

	teams := 9
	// First third at the ladder mean, second third at max vol.
	low := opponentSigma(core.ArchetypeMixed, 0, teams, p)
	if got := low(rng); got != p.ladderMean {
		t.Errorf("index 0 sigma = %v, want ladder mean %v", got, p.ladderMean)
	}
	mid := opponentSigma(core.ArchetypeMixed, 4, teams, p)
	if got := mid(rng); got != p.maxDailyVol {
		t.Errorf("index 4 sigma = %v, want max vol %v", got, p.maxDailyVol)
	}
	// Final third re-picks from the ladder.
	high := opponentSigma(core.ArchetypeMixed, 8, teams, p)
	got := high(rng)
	if got < p.minDailyVol || got > p.maxDailyVol {
		t.Errorf("index 8 sigma %v outside ladder range", got)
	}
}
