package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/quantarena/arena/internal/config"
	"github.com/quantarena/arena/internal/core"
	"github.com/quantarena/arena/internal/logger"
	"github.com/quantarena/arena/internal/report"
	"github.com/quantarena/arena/internal/sim"
	"github.com/quantarena/arena/internal/storage/results"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runTrials    int
	runSeed      int64
	runOpponents string
	runWorkers   int
	runNoCharts  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the competition simulation",
	Long:  "Run the configured number of independent competition trials and report qualification probabilities and edge",
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().IntVar(&runTrials, "trials", 0, "Number of trials (overrides config)")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "Random seed (overrides config)")
	runCmd.Flags().StringVar(&runOpponents, "opponents", "", "Opponent strategy: random, low, high, avg, mixed (overrides config)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "Trial workers, 0 for GOMAXPROCS (overrides config)")
	runCmd.Flags().BoolVar(&runNoCharts, "no-charts", false, "Skip chart rendering")

	rootCmd.AddCommand(runCmd)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	// Load config
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Info("no config file specified, using competition defaults")
	}

	// Flag overrides
	if cmd.Flags().Changed("trials") {
		cfg.Simulation.Trials = runTrials
	}
	if cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = runSeed
	}
	if cmd.Flags().Changed("opponents") {
		cfg.Simulation.OpponentStrategy = runOpponents
	}
	if cmd.Flags().Changed("workers") {
		cfg.Simulation.Workers = runWorkers
	}
	if runNoCharts {
		cfg.Report.Charts = false
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	engine, err := sim.NewEngine(simConfig(cfg), logger.Named(log, "sim"))
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startedAt := time.Now()
	summary, err := engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	bundle, err := report.Build(summary, time.Now(), cfg.Report.Charts, cfg.Report.Bins)
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}

	fmt.Print(string(bundle.SummaryText))

	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("opening results store: %w", err)
	}

	artifacts := map[string][]byte{
		"summary.txt":  bundle.SummaryText,
		"summary.json": bundle.SummaryJSON,
	}
	for name, img := range bundle.Charts {
		artifacts[name] = img
	}

	prefix := results.RunPrefix(startedAt, uuid.New(),
		core.Archetype(cfg.Simulation.OpponentStrategy))
	paths, err := results.SaveRun(ctx, store, prefix, artifacts)
	if err != nil {
		return fmt.Errorf("saving results: %w", err)
	}

	log.Info("run artifacts saved",
		zap.String("prefix", prefix),
		zap.Int("files", len(paths)),
	)
	return nil
}

func simConfig(cfg *config.Config) sim.Config {
	s := cfg.Simulation
	return sim.Config{
		Teams:             s.Teams,
		Days:              s.Days,
		Trials:            s.Trials,
		TopK:              s.TopK,
		StartingCapital:   s.StartingCapital,
		Seed:              s.Seed,
		Workers:           s.Workers,
		Opponents:         core.Archetype(s.OpponentStrategy),
		AnnualTradingDays: s.AnnualTradingDays,
		MaxImpliedVol:     s.MaxImpliedVol,
		MinImpliedVol:     s.MinImpliedVol,
		RiskFreeReturn:    s.RiskFreeReturn,
		MarketDrift:       s.MarketDrift,
		VolLevels:         s.VolLevels,
		UpProbability:     s.UpProbability,
	}
}

func newStore(cfg *config.Config) (results.Store, error) {
	switch cfg.Results.Type {
	case "s3":
		return results.NewS3(results.S3Config{
			Bucket:    cfg.Results.S3.Bucket,
			Endpoint:  cfg.Results.S3.Endpoint,
			Region:    cfg.Results.S3.Region,
			AccessKey: cfg.Results.S3.AccessKey,
			SecretKey: cfg.Results.S3.SecretKey,
			Prefix:    cfg.Results.S3.Prefix,
		})
	default:
		return results.NewLocalFS(cfg.Results.Path)
	}
}
