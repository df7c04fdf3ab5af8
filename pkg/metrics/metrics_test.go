package metrics

import (
	"math"
	"testing"

	"github.com/yourusername/lobsim/pkg/sim"
	"github.com/yourusername/lobsim/pkg/strategy"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestDrawdown(t *testing.T) {
	tests := []struct {
		name string
		pnl  []int
		want int
	}{
		{"empty", nil, 0},
		{"monotonic up", []int{0, 1, 2, 3}, 0},
		{"single dip", []int{0, 5, 2, 6}, -3},
		{"deepest late", []int{0, 10, 8, 3, 12, 4}, -8},
		{"all down", []int{0, -2, -5}, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Drawdown(tt.pnl); got != tt.want {
				t.Errorf("Drawdown(%v) = %d, want %d", tt.pnl, got, tt.want)
			}
		})
	}
}

func TestSharpeRatio(t *testing.T) {
	// diffs {2,-1}: mean 0.5, population std 1.5
	want := 0.5 / 1.5 * math.Sqrt(252)
	if got := SharpeRatio([]int{0, 2, 1}); !almostEqual(got, want, 1e-9) {
		t.Errorf("SharpeRatio() = %v, want %v", got, want)
	}
}

func TestSharpeRatio_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		pnl  []int
	}{
		{"empty", nil},
		{"one diff", []int{0, 5}},
		{"zero variance", []int{0, 1, 2, 3, 4}},
		{"constant", []int{7, 7, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SharpeRatio(tt.pnl); got != 0 {
				t.Errorf("SharpeRatio(%v) = %v, want 0", tt.pnl, got)
			}
		})
	}
}

func TestExecutionQuality(t *testing.T) {
	trades := []sim.TaggedTrade{
		// maker bid fill at step 0; mid 20 steps later is 105
		{Step: 0, Mid: 100, Price: 98, Qty: 5, MMSide: strategy.QuoteBid},
		// external trade recording the future mid for the markout above
		{Step: 20, Mid: 105, Price: 104, Qty: 1, MMSide: strategy.QuoteNone},
		// maker ask fill with no recorded future step: falls back to fill-time mid
		{Step: 30, Mid: 100, Price: 103, Qty: 2, MMSide: strategy.QuoteAsk},
	}

	q := ExecutionQuality(trades, 20)

	if q.Fills != 2 || q.BidFills != 1 || q.AskFills != 1 {
		t.Errorf("fills = %d (bid %d, ask %d), want 2 (1, 1)", q.Fills, q.BidFills, q.AskFills)
	}
	// captures: bid 100-98=2, ask 103-100=3
	if !almostEqual(q.AvgSpreadCapture, 2.5, 1e-12) {
		t.Errorf("AvgSpreadCapture = %v, want 2.5", q.AvgSpreadCapture)
	}
	// markouts: bid 105-98=7, ask 103-100=3 (fallback)
	if !almostEqual(q.AvgAdverseSelection, 5.0, 1e-12) {
		t.Errorf("AvgAdverseSelection = %v, want 5.0", q.AvgAdverseSelection)
	}
}

func TestExecutionQuality_NoMakerFills(t *testing.T) {
	trades := []sim.TaggedTrade{
		{Step: 0, Mid: 100, Price: 99, Qty: 5, MMSide: strategy.QuoteNone},
	}
	q := ExecutionQuality(trades, 20)
	if q.Fills != 0 || q.AvgSpreadCapture != 0 || q.AvgAdverseSelection != 0 {
		t.Errorf("ExecutionQuality(no maker fills) = %+v, want zeros", q)
	}
}

func TestSummarize(t *testing.T) {
	res := sim.Result{
		Mid:       []int{100, 101, 99},
		PnL:       []int{0, 4, 1},
		Inventory: []int{0, 5, -3},
		Cash:      []int{0, -501, 298},
		Trades: []sim.TaggedTrade{
			{Step: 1, Mid: 101, Price: 99, Qty: 5, MMSide: strategy.QuoteBid},
		},
	}

	s := Summarize(res)

	if s.Trades != 1 {
		t.Errorf("Trades = %d, want 1", s.Trades)
	}
	if s.FinalPnL != 1 {
		t.Errorf("FinalPnL = %d, want 1", s.FinalPnL)
	}
	if s.MaxDrawdown != -3 {
		t.Errorf("MaxDrawdown = %d, want -3", s.MaxDrawdown)
	}
	if s.MaxInventory != 5 || s.MinInventory != -3 || s.EndInventory != -3 {
		t.Errorf("inventory = max %d min %d end %d, want 5/-3/-3",
			s.MaxInventory, s.MinInventory, s.EndInventory)
	}
	if s.EndCash != 298 {
		t.Errorf("EndCash = %d, want 298", s.EndCash)
	}
	if s.MidStart != 100 || s.MidEnd != 99 {
		t.Errorf("mid = start %d end %d, want 100/99", s.MidStart, s.MidEnd)
	}
	if s.Exec.BidFills != 1 {
		t.Errorf("Exec.BidFills = %d, want 1", s.Exec.BidFills)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(sim.Result{})
	if s.Trades != 0 || s.FinalPnL != 0 || s.Sharpe != 0 || s.MaxDrawdown != 0 {
		t.Errorf("Summarize(empty) = %+v, want zero value summary", s)
	}
}
