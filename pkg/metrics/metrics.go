// Package metrics computes per-trial analytics over the simulator's output
// series and trade log: path statistics on the PnL series and execution
// quality of the market maker's own fills.
package metrics

import (
	"math"

	"github.com/yourusername/lobsim/pkg/sim"
	"github.com/yourusername/lobsim/pkg/stats"
	"github.com/yourusername/lobsim/pkg/strategy"
)

// DefaultHorizon is the markout horizon, in steps, for adverse selection.
const DefaultHorizon = 20

// annualization scales the per-step Sharpe-like ratio by sqrt(252).
var annualization = math.Sqrt(252)

// Drawdown returns the most negative excursion below the running peak of
// the PnL series, as a non-positive number of ticks.
func Drawdown(pnl []int) int {
	if len(pnl) == 0 {
		return 0
	}
	peak := pnl[0]
	maxDD := 0
	for _, x := range pnl {
		if x > peak {
			peak = x
		}
		if dd := x - peak; dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// SharpeRatio returns mean/stddev of the PnL first differences scaled by
// sqrt(252). It is 0 with fewer than two differences or zero variance.
func SharpeRatio(pnl []int) float64 {
	if len(pnl) < 3 {
		return 0
	}
	series := make([]float64, len(pnl))
	for i, x := range pnl {
		series[i] = float64(x)
	}
	diffs := stats.Diff(series)
	sd := stats.StdDev(diffs)
	if sd == 0 {
		return 0
	}
	return stats.Mean(diffs) / sd * annualization
}

// ExecQuality summarizes the market maker's maker-side fills.
type ExecQuality struct {
	Fills    int
	BidFills int
	AskFills int

	// AvgSpreadCapture is mean ticks earned against the fill-time mid.
	AvgSpreadCapture float64

	// AvgAdverseSelection is the mean markout against the mid a fixed
	// horizon after the fill; the fill-time mid is used when that future
	// step was never recorded.
	AvgAdverseSelection float64
}

// ExecutionQuality computes spread capture and adverse selection over the
// trades where the market maker was the maker. The future mid for the
// markout is looked up from the trade log itself.
func ExecutionQuality(trades []sim.TaggedTrade, horizon int) ExecQuality {
	stepMid := make(map[int]int, len(trades))
	for _, tr := range trades {
		stepMid[tr.Step] = tr.Mid
	}

	var captures, markouts []float64
	var bidFills, askFills int

	for _, tr := range trades {
		if tr.MMSide == strategy.QuoteNone {
			continue
		}

		futureMid, ok := stepMid[tr.Step+horizon]
		if !ok {
			futureMid = tr.Mid
		}

		if tr.MMSide == strategy.QuoteBid {
			bidFills++
			captures = append(captures, float64(tr.Mid-tr.Price))
			markouts = append(markouts, float64(futureMid-tr.Price))
		} else {
			askFills++
			captures = append(captures, float64(tr.Price-tr.Mid))
			markouts = append(markouts, float64(tr.Price-futureMid))
		}
	}

	return ExecQuality{
		Fills:               bidFills + askFills,
		BidFills:            bidFills,
		AskFills:            askFills,
		AvgSpreadCapture:    stats.Mean(captures),
		AvgAdverseSelection: stats.Mean(markouts),
	}
}

// Summary is the full per-trial report.
type Summary struct {
	Trades int

	FinalPnL    int
	MaxDrawdown int
	Sharpe      float64

	MaxInventory int
	MinInventory int
	EndInventory int
	EndCash      int

	MidStart int
	MidEnd   int

	Exec ExecQuality
}

// Summarize computes the trial summary at the default markout horizon.
func Summarize(res sim.Result) Summary {
	return SummarizeAt(res, DefaultHorizon)
}

// SummarizeAt computes the trial summary at a caller-chosen markout horizon.
func SummarizeAt(res sim.Result, horizon int) Summary {
	s := Summary{
		Trades: len(res.Trades),
		Exec:   ExecutionQuality(res.Trades, horizon),
	}

	if n := len(res.PnL); n > 0 {
		s.FinalPnL = res.PnL[n-1]
		s.MaxDrawdown = Drawdown(res.PnL)
		s.Sharpe = SharpeRatio(res.PnL)
	}

	if n := len(res.Inventory); n > 0 {
		s.MaxInventory = res.Inventory[0]
		s.MinInventory = res.Inventory[0]
		for _, inv := range res.Inventory {
			if inv > s.MaxInventory {
				s.MaxInventory = inv
			}
			if inv < s.MinInventory {
				s.MinInventory = inv
			}
		}
		s.EndInventory = res.Inventory[n-1]
	}

	if n := len(res.Cash); n > 0 {
		s.EndCash = res.Cash[n-1]
	}

	if n := len(res.Mid); n > 0 {
		s.MidStart = res.Mid[0]
		s.MidEnd = res.Mid[n-1]
	}

	return s
}
