// Package experiments runs repeated independent trials: Monte Carlo sweeps
// over seeds and grid searches over candidate configuration value-sets.
// Trials share nothing, so sweeps run them in parallel; each trial stays
// single-threaded internally.
package experiments

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/lobsim/pkg/metrics"
	"github.com/yourusername/lobsim/pkg/sim"
	"github.com/yourusername/lobsim/pkg/stats"
)

// Row is the per-seed result of one trial.
type Row struct {
	Seed             int64
	FinalPnL         int
	MaxDrawdown      int
	Sharpe           float64
	Fills            int
	SpreadCapture    float64
	AdverseSelection float64
	EndInventory     int
}

// RunOne runs a single trial and reduces it to a Row.
func RunOne(cfg sim.Config) (Row, error) {
	res, err := sim.Run(cfg)
	if err != nil {
		return Row{}, err
	}
	s := metrics.Summarize(res)
	return Row{
		Seed:             cfg.Seed,
		FinalPnL:         s.FinalPnL,
		MaxDrawdown:      s.MaxDrawdown,
		Sharpe:           s.Sharpe,
		Fills:            s.Exec.Fills,
		SpreadCapture:    s.Exec.AvgSpreadCapture,
		AdverseSelection: s.Exec.AvgAdverseSelection,
		EndInventory:     s.EndInventory,
	}, nil
}

// MCSummary aggregates a seed sweep.
type MCSummary struct {
	N int

	PnLMean float64
	PnLStd  float64
	PnLP05  float64
	PnLP50  float64
	PnLP95  float64

	DrawdownMean         float64
	FillsMean            float64
	SpreadCaptureMean    float64
	AdverseSelectionMean float64
}

// MonteCarlo runs one trial per seed with an otherwise fixed configuration.
// Trials run concurrently behind a worker limit; rows come back in seed
// order regardless of completion order, so a sweep is as deterministic as
// its trials.
func MonteCarlo(base sim.Config, seeds []int64, workers int) ([]Row, MCSummary, error) {
	if len(seeds) == 0 {
		return nil, MCSummary{}, fmt.Errorf("no seeds to run")
	}
	if workers < 1 {
		workers = 1
	}

	log.Printf("[MC] Running %d trials (%d workers)...", len(seeds), workers)
	startTime := time.Now()

	rows := make([]Row, len(seeds))
	errs := make([]error, len(seeds))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i, seed := range seeds {
		wg.Add(1)
		go func(idx int, seed int64) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			cfg := base
			cfg.Seed = seed
			rows[idx], errs[idx] = RunOne(cfg)
		}(i, seed)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, MCSummary{}, fmt.Errorf("seed %d: %w", seeds[i], err)
		}
	}

	log.Printf("[MC] Completed %d trials in %v", len(seeds), time.Since(startTime))

	return rows, summarize(rows), nil
}

// summarize aggregates rows into an MCSummary.
func summarize(rows []Row) MCSummary {
	pnl := make([]float64, len(rows))
	dd := make([]float64, len(rows))
	fills := make([]float64, len(rows))
	capture := make([]float64, len(rows))
	adverse := make([]float64, len(rows))

	for i, r := range rows {
		pnl[i] = float64(r.FinalPnL)
		dd[i] = float64(r.MaxDrawdown)
		fills[i] = float64(r.Fills)
		capture[i] = r.SpreadCapture
		adverse[i] = r.AdverseSelection
	}

	return MCSummary{
		N:                    len(rows),
		PnLMean:              stats.Mean(pnl),
		PnLStd:               stats.SampleStdDev(pnl),
		PnLP05:               stats.Percentile(pnl, 5),
		PnLP50:               stats.Percentile(pnl, 50),
		PnLP95:               stats.Percentile(pnl, 95),
		DrawdownMean:         stats.Mean(dd),
		FillsMean:            stats.Mean(fills),
		SpreadCaptureMean:    stats.Mean(capture),
		AdverseSelectionMean: stats.Mean(adverse),
	}
}

// Overrides is one candidate value-set for a grid search. Nil fields leave
// the base configuration untouched.
type Overrides struct {
	Name string `yaml:"name"`

	ProbMarketOrder *float64 `yaml:"prob_market_order"`
	ProbMidMove     *float64 `yaml:"prob_mid_move"`
	MomentumBias    *float64 `yaml:"momentum_bias"`
	VolK            *float64 `yaml:"vol_k"`
	BaseSpreadFloor *int     `yaml:"base_spread_floor"`
	AlphaStrength   *int     `yaml:"alpha_strength"`
	InventorySkew   *float64 `yaml:"inventory_skew"`
	OrderSize       *int     `yaml:"order_size"`
	MaxInventory    *int     `yaml:"max_inventory"`
	RefreshTicks    *int     `yaml:"refresh_ticks"`
}

// Apply overlays the set fields onto cfg.
func (o Overrides) Apply(cfg *sim.Config) {
	if o.ProbMarketOrder != nil {
		cfg.ProbMarketOrder = *o.ProbMarketOrder
	}
	if o.ProbMidMove != nil {
		cfg.ProbMidMove = *o.ProbMidMove
	}
	if o.MomentumBias != nil {
		cfg.MomentumBias = *o.MomentumBias
	}
	if o.VolK != nil {
		cfg.VolK = *o.VolK
	}
	if o.BaseSpreadFloor != nil {
		cfg.BaseSpreadFloor = *o.BaseSpreadFloor
	}
	if o.AlphaStrength != nil {
		cfg.AlphaStrength = *o.AlphaStrength
	}
	if o.InventorySkew != nil {
		cfg.Maker.InventorySkew = *o.InventorySkew
	}
	if o.OrderSize != nil {
		cfg.Maker.OrderSize = *o.OrderSize
	}
	if o.MaxInventory != nil {
		cfg.Maker.MaxInventory = *o.MaxInventory
	}
	if o.RefreshTicks != nil {
		cfg.Maker.RefreshTicks = *o.RefreshTicks
	}
}

// Label names the value-set for reports, synthesizing one from the set
// fields when no explicit name was given.
func (o Overrides) Label() string {
	if o.Name != "" {
		return o.Name
	}

	var parts []string
	add := func(name, value string) {
		parts = append(parts, fmt.Sprintf("%s=%s", name, value))
	}
	if o.ProbMarketOrder != nil {
		add("prob_market_order", fmt.Sprintf("%.2f", *o.ProbMarketOrder))
	}
	if o.ProbMidMove != nil {
		add("prob_mid_move", fmt.Sprintf("%.2f", *o.ProbMidMove))
	}
	if o.MomentumBias != nil {
		add("momentum_bias", fmt.Sprintf("%.2f", *o.MomentumBias))
	}
	if o.VolK != nil {
		add("vol_k", fmt.Sprintf("%.2f", *o.VolK))
	}
	if o.BaseSpreadFloor != nil {
		add("base_spread_floor", fmt.Sprintf("%d", *o.BaseSpreadFloor))
	}
	if o.AlphaStrength != nil {
		add("alpha_strength", fmt.Sprintf("%d", *o.AlphaStrength))
	}
	if o.InventorySkew != nil {
		add("inventory_skew", fmt.Sprintf("%.2f", *o.InventorySkew))
	}
	if o.OrderSize != nil {
		add("order_size", fmt.Sprintf("%d", *o.OrderSize))
	}
	if o.MaxInventory != nil {
		add("max_inventory", fmt.Sprintf("%d", *o.MaxInventory))
	}
	if o.RefreshTicks != nil {
		add("refresh_ticks", fmt.Sprintf("%d", *o.RefreshTicks))
	}
	if len(parts) == 0 {
		return "base"
	}
	return strings.Join(parts, " ")
}

// GridResult is one value-set's aggregated outcome and its rank by mean
// PnL (1 = best).
type GridResult struct {
	Overrides Overrides
	Summary   MCSummary
	Rank      int
}

// GridSearch runs the seed sweep for every candidate value-set and ranks
// the sets by descending mean PnL.
func GridSearch(base sim.Config, seeds []int64, grid []Overrides, workers int) ([]GridResult, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("no parameter sets to test")
	}

	log.Printf("[Grid] Testing %d parameter sets over %d seeds each...", len(grid), len(seeds))

	results := make([]GridResult, 0, len(grid))
	for i, o := range grid {
		cfg := base
		o.Apply(&cfg)

		_, summ, err := MonteCarlo(cfg, seeds, workers)
		if err != nil {
			return nil, fmt.Errorf("parameter set %q: %w", o.Label(), err)
		}
		results = append(results, GridResult{Overrides: o, Summary: summ})
		log.Printf("[Grid] %d/%d %s: pnl_mean=%.2f", i+1, len(grid), o.Label(), summ.PnLMean)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Summary.PnLMean > results[j].Summary.PnLMean
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	return results, nil
}
