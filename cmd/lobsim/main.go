package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/yourusername/lobsim/pkg/experiments"
	"github.com/yourusername/lobsim/pkg/metrics"
	"github.com/yourusername/lobsim/pkg/sim"
)

const (
	appName    = "lobsim"
	appVersion = "1.0.0"
)

var (
	// Command line flags
	configFile = flag.String("config", "", "Simulation config file path (YAML, optional)")
	mcMode     = flag.Bool("mc", false, "Run Monte Carlo across many seeds")
	gridMode   = flag.Bool("grid", false, "Run a grid search (uses Monte Carlo per parameter set)")
	gridFile   = flag.String("grid-config", "", "Grid definition file path (YAML; default momentum_bias grid)")
	numSeeds   = flag.Int("n", 20, "Number of seeds for Monte Carlo")
	workers    = flag.Int("workers", 4, "Parallel trials for Monte Carlo")
	seed       = flag.Int64("seed", 0, "Seed override for a single run (0 = from config)")
	steps      = flag.Int("steps", 0, "Step count override (0 = from config)")
	horizon    = flag.Int("horizon", metrics.DefaultHorizon, "Adverse selection markout horizon in steps")
	version    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("%s version %s\n", appName, appVersion)
		os.Exit(0)
	}

	cfg := sim.DefaultConfig()
	if *configFile != "" {
		log.Printf("[Main] Loading configuration from: %s", *configFile)
		loaded, err := sim.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("[Main] Failed to load config: %v", err)
		}
		cfg = loaded
	}

	// Flag overrides
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *steps != 0 {
		cfg.Steps = *steps
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[Main] Invalid configuration: %v", err)
	}

	switch {
	case *gridMode:
		runGrid(cfg)
	case *mcMode:
		runMonteCarlo(cfg)
	default:
		runSingle(cfg)
	}
}

// runSingle runs one trial and prints its summary.
func runSingle(cfg sim.Config) {
	log.Printf("[Main] Running single trial: seed=%d steps=%d", cfg.Seed, cfg.Steps)

	res, err := sim.Run(cfg)
	if err != nil {
		log.Fatalf("[Main] Simulation failed: %v", err)
	}
	s := metrics.SummarizeAt(res, *horizon)

	fmt.Println("\nSimulation complete")
	fmt.Printf("Trades executed: %d\n", s.Trades)
	fmt.Printf("Final PnL: %d\n", s.FinalPnL)
	fmt.Printf("Max Drawdown: %d\n", s.MaxDrawdown)
	fmt.Printf("Sharpe (approx): %.2f\n", s.Sharpe)
	fmt.Printf("Max Inventory: %d\n", s.MaxInventory)
	fmt.Printf("Min Inventory: %d\n", s.MinInventory)
	fmt.Printf("End Inventory: %d\n", s.EndInventory)
	fmt.Printf("End Cash: %d\n", s.EndCash)
	fmt.Printf("Mid start/end: %d -> %d\n", s.MidStart, s.MidEnd)

	fmt.Println("\nExecution quality (maker fills only)")
	fmt.Printf("MM fills: %d (bid=%d, ask=%d)\n", s.Exec.Fills, s.Exec.BidFills, s.Exec.AskFills)
	fmt.Printf("Avg spread capture (ticks): %.2f\n", s.Exec.AvgSpreadCapture)
	fmt.Printf("Avg adverse selection (ticks): %.2f\n", s.Exec.AvgAdverseSelection)
}

// runMonteCarlo sweeps seeds 1..n and prints the aggregate.
func runMonteCarlo(cfg sim.Config) {
	seeds := seedRange(*numSeeds)

	rows, summ, err := experiments.MonteCarlo(cfg, seeds, *workers)
	if err != nil {
		log.Fatalf("[Main] Monte Carlo failed: %v", err)
	}

	fmt.Println("\nMonte Carlo Summary")
	fmt.Printf("Seeds: %d\n", summ.N)
	fmt.Printf("PnL mean/std: %.2f / %.2f\n", summ.PnLMean, summ.PnLStd)
	fmt.Printf("PnL p05/p50/p95: %.2f / %.2f / %.2f\n", summ.PnLP05, summ.PnLP50, summ.PnLP95)
	fmt.Printf("Avg fills: %.1f\n", summ.FillsMean)
	fmt.Printf("Avg spread capture (ticks): %.2f\n", summ.SpreadCaptureMean)
	fmt.Printf("Avg adverse selection (ticks): %.2f\n", summ.AdverseSelectionMean)
	fmt.Printf("Avg max drawdown: %.2f\n", summ.DrawdownMean)

	sorted := make([]experiments.Row, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FinalPnL < sorted[j].FinalPnL })

	fmt.Println("\nWorst 3 seeds:")
	for i := 0; i < 3 && i < len(sorted); i++ {
		r := sorted[i]
		fmt.Printf("seed=%d pnl=%d dd=%d fills=%d\n", r.Seed, r.FinalPnL, r.MaxDrawdown, r.Fills)
	}

	fmt.Println("\nBest 3 seeds:")
	for i := 0; i < 3 && i < len(sorted); i++ {
		r := sorted[len(sorted)-1-i]
		fmt.Printf("seed=%d pnl=%d dd=%d fills=%d\n", r.Seed, r.FinalPnL, r.MaxDrawdown, r.Fills)
	}
}

// runGrid sweeps each candidate parameter set over the seed range and
// prints the sets ranked by mean PnL.
func runGrid(cfg sim.Config) {
	seeds := seedRange(*numSeeds)

	grid := defaultGrid()
	if *gridFile != "" {
		loaded, err := experiments.LoadGrid(*gridFile)
		if err != nil {
			log.Fatalf("[Main] Failed to load grid: %v", err)
		}
		grid = loaded
	}

	results, err := experiments.GridSearch(cfg, seeds, grid, *workers)
	if err != nil {
		log.Fatalf("[Main] Grid search failed: %v", err)
	}

	fmt.Println("\nGrid Search (sorted by mean PnL):")
	for _, r := range results {
		fmt.Printf("#%d %s | pnl_mean=%.2f | pnl_p05=%.2f | pnl_p95=%.2f | fills_mean=%.1f | spread_mean=%.2f | adv_mean=%.2f | dd_mean=%.2f\n",
			r.Rank, r.Overrides.Label(),
			r.Summary.PnLMean, r.Summary.PnLP05, r.Summary.PnLP95,
			r.Summary.FillsMean, r.Summary.SpreadCaptureMean,
			r.Summary.AdverseSelectionMean, r.Summary.DrawdownMean)
	}
}

// defaultGrid is a small momentum-bias sweep.
func defaultGrid() []experiments.Overrides {
	values := []float64{0.55, 0.60, 0.65}
	grid := make([]experiments.Overrides, len(values))
	for i := range values {
		grid[i] = experiments.Overrides{MomentumBias: &values[i]}
	}
	return grid
}

func seedRange(n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = int64(i + 1)
	}
	return seeds
}
