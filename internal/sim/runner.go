package sim

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/quantarena/arena/internal/core"
	"go.uber.org/zap"
)

// Config holds everything one run needs. All fields are validated eagerly by
// NewEngine before any trial executes.
type Config struct {
	Teams           int
	Days            int
	Trials          int
	TopK            int
	StartingCapital float64
	Seed            int64
	Workers         int // 0 means GOMAXPROCS
	Opponents       core.Archetype

	// SelfPolicy overrides the strategy under test. Nil selects the
	// canonical cash-once-qualifying policy.
	SelfPolicy Policy

	AnnualTradingDays int
	MaxImpliedVol     float64 // annual, percent
	MinImpliedVol     float64 // annual, percent
	RiskFreeReturn    float64
	MarketDrift       float64
	VolLevels         int
	UpProbability     float64
}

// Summary aggregates a full run of independent trials. The aggregator itself
// performs no I/O; distributions are carried as plain numeric slices for
// downstream reporting.
type Summary struct {
	Teams     int            `json:"teams"`
	Days      int            `json:"days"`
	Trials    int            `json:"trials"`
	TopK      int            `json:"top_k"`
	Opponents core.Archetype `json:"opponent_strategy"`
	Seed      int64          `json:"seed"`

	QualifiedByCapital int     `json:"qualified_by_capital"`
	QualifiedByRatio   int     `json:"qualified_by_ratio"`
	ProbByCapital      float64 `json:"prob_by_capital"`
	ProbByRatio        float64 `json:"prob_by_ratio"`

	// Edge against the field's empirical remaining-slot rate, and against
	// the uniform K/N baseline.
	EdgeByCapital        float64 `json:"edge_by_capital"`
	EdgeByRatio          float64 `json:"edge_by_ratio"`
	UniformEdgeByCapital float64 `json:"uniform_edge_by_capital"`
	UniformEdgeByRatio   float64 `json:"uniform_edge_by_ratio"`

	MeanFinalCapital float64 `json:"mean_final_capital"`
	MeanRatio        float64 `json:"mean_ratio"`

	// Per-trial distributions for the self competitor. Rank counts are
	// indexed by rank-1.
	RankByCapitalCounts []int     `json:"rank_by_capital_counts"`
	RankByRatioCounts   []int     `json:"rank_by_ratio_counts"`
	FinalCapitals       []float64 `json:"final_capitals"`
	FinalRatios         []float64 `json:"final_ratios"`
}

// Engine runs Monte Carlo trials of the competition.
type Engine struct {
	cfg        Config
	p          params
	gen        *Generator
	selfIndex  int
	selfPolicy Policy
	logger     *zap.Logger
}

// NewEngine validates the configuration and builds an engine. Validation is
// fail-fast: any bad parameter surfaces here, before a single trial runs.
func NewEngine(cfg Config, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	p := deriveParams(cfg)
	gen, err := NewGenerator(p.maxDailyVol, cfg.UpProbability)
	if err != nil {
		return nil, err
	}

	selfPolicy := cfg.SelfPolicy
	if selfPolicy == nil {
		selfPolicy = QualifyOrAggress(cfg.TopK)
	}

	return &Engine{
		cfg:        cfg,
		p:          p,
		gen:        gen,
		selfIndex:  cfg.Teams - 1,
		selfPolicy: selfPolicy,
		logger:     logger,
	}, nil
}

func validate(cfg Config) error {
	if cfg.Teams < 2 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("teams must be at least 2, got %d", cfg.Teams))
	}
	if cfg.Days < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("days must be at least 1, got %d", cfg.Days))
	}
	if cfg.Trials < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("trials must be at least 1, got %d", cfg.Trials))
	}
	if cfg.TopK < 1 || cfg.TopK > cfg.Teams {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("top-k must be between 1 and teams (%d), got %d", cfg.Teams, cfg.TopK))
	}
	if cfg.StartingCapital <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("starting capital must be positive, got %f", cfg.StartingCapital))
	}
	if cfg.Workers < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("workers cannot be negative, got %d", cfg.Workers))
	}
	if !cfg.Opponents.IsValid() {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown opponent archetype %q", cfg.Opponents))
	}
	if cfg.AnnualTradingDays < 1 {
		return core.WrapError(core.ErrParamInvalid,
			fmt.Errorf("annual trading days must be at least 1, got %d", cfg.AnnualTradingDays))
	}
	if cfg.MinImpliedVol < 0 || cfg.MaxImpliedVol < 0 || cfg.MinImpliedVol > cfg.MaxImpliedVol {
		return core.WrapError(core.ErrParamInvalid,
			fmt.Errorf("implied vol range [%f, %f] invalid", cfg.MinImpliedVol, cfg.MaxImpliedVol))
	}
	if cfg.RiskFreeReturn < 0 || cfg.RiskFreeReturn > 1 {
		return core.WrapError(core.ErrParamInvalid,
			fmt.Errorf("risk-free return must be in [0, 1], got %f", cfg.RiskFreeReturn))
	}
	if cfg.MarketDrift < 0 || cfg.MarketDrift > 1 {
		return core.WrapError(core.ErrParamInvalid,
			fmt.Errorf("market drift must be in [0, 1], got %f", cfg.MarketDrift))
	}
	if cfg.VolLevels < 1 {
		return core.WrapError(core.ErrParamInvalid,
			fmt.Errorf("vol levels must be at least 1, got %d", cfg.VolLevels))
	}
	if cfg.UpProbability < 0 || cfg.UpProbability > 1 {
		return core.WrapError(core.ErrParamInvalid,
			fmt.Errorf("up probability must be in [0, 1], got %f", cfg.UpProbability))
	}
	return nil
}

// Run executes cfg.Trials independent trials across a worker pool and folds
// them into a Summary. Trial i draws from a source seeded Seed+i, so output
// is bit-identical for a given seed regardless of worker count. The first
// trial error aborts the run: one malformed trial invalidates the estimate.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > e.cfg.Trials {
		workers = e.cfg.Trials
	}

	start := time.Now()
	e.logger.Info("starting run",
		zap.Int("trials", e.cfg.Trials),
		zap.Int("teams", e.cfg.Teams),
		zap.Int("days", e.cfg.Days),
		zap.String("opponents", string(e.cfg.Opponents)),
		zap.Int("workers", workers),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	errCh := make(chan error, workers)
	results := make([]*TrialResult, e.cfg.Trials)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for trial := range jobs {
				rng := rand.New(rand.NewSource(e.cfg.Seed + int64(trial)))
				res, err := e.RunTrial(trial, rng)
				if err != nil {
					errCh <- fmt.Errorf("trial %d: %w", trial, err)
					cancel()
					return
				}
				results[trial] = res
			}
		}()
	}

	go func() {
		defer close(jobs)
		for trial := 0; trial < e.cfg.Trials; trial++ {
			select {
			case jobs <- trial:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()

	select {
	case err := <-errCh:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := e.fold(results)
	e.logger.Info("run complete",
		zap.Duration("elapsed", time.Since(start)),
		zap.Float64("prob_by_capital", summary.ProbByCapital),
		zap.Float64("prob_by_ratio", summary.ProbByRatio),
		zap.Float64("edge_by_capital", summary.EdgeByCapital),
		zap.Float64("edge_by_ratio", summary.EdgeByRatio),
	)
	return summary, nil
}

// fold combines trial results in trial order so float accumulation is
// deterministic.
func (e *Engine) fold(results []*TrialResult) *Summary {
	s := &Summary{
		Teams:               e.cfg.Teams,
		Days:                e.cfg.Days,
		Trials:              e.cfg.Trials,
		TopK:                e.cfg.TopK,
		Opponents:           e.cfg.Opponents,
		Seed:                e.cfg.Seed,
		RankByCapitalCounts: make([]int, e.cfg.Teams),
		RankByRatioCounts:   make([]int, e.cfg.Teams),
		FinalCapitals:       make([]float64, 0, e.cfg.Trials),
		FinalRatios:         make([]float64, 0, e.cfg.Trials),
	}

	var sumCapital, sumRatio float64
	for _, res := range results {
		if res.QualifiedByCapital {
			s.QualifiedByCapital++
		}
		if res.QualifiedByRatio {
			s.QualifiedByRatio++
		}
		s.RankByCapitalCounts[res.SelfRankByCapital-1]++
		s.RankByRatioCounts[res.SelfRankByRatio-1]++
		s.FinalCapitals = append(s.FinalCapitals, res.SelfFinalCapital)
		s.FinalRatios = append(s.FinalRatios, res.SelfRatio)
		sumCapital += res.SelfFinalCapital
		sumRatio += res.SelfRatio
	}

	trials := float64(e.cfg.Trials)
	s.ProbByCapital = float64(s.QualifiedByCapital) / trials
	s.ProbByRatio = float64(s.QualifiedByRatio) / trials
	s.EdgeByCapital = fieldEdge(s.QualifiedByCapital, e.cfg.Trials, e.cfg.Teams, e.cfg.TopK)
	s.EdgeByRatio = fieldEdge(s.QualifiedByRatio, e.cfg.Trials, e.cfg.Teams, e.cfg.TopK)
	uniform := float64(e.cfg.TopK) / float64(e.cfg.Teams)
	s.UniformEdgeByCapital = safeDiv(s.ProbByCapital, uniform)
	s.UniformEdgeByRatio = safeDiv(s.ProbByRatio, uniform)
	s.MeanFinalCapital = sumCapital / trials
	s.MeanRatio = sumRatio / trials

	return s
}

// fieldEdge is self's qualification count over the average rate at which the
// remaining K*T - wins qualifying slots fall to the other N-1 competitors.
// A zero denominator (self swept every slot) resolves to 0 like other
// degenerate statistics.
func fieldEdge(wins, trials, teams, topK int) float64 {
	remaining := float64(topK*trials-wins) / float64(teams-1)
	return safeDiv(float64(wins), remaining)
}
