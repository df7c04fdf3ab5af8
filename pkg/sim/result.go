package sim

import "github.com/yourusername/lobsim/pkg/strategy"

// TaggedTrade is a trade augmented with the simulation context it happened
// in: the step, the true mid at that step, and which of the market maker's
// own quotes (if any) was the maker side.
type TaggedTrade struct {
	Step    int
	Mid     int
	Price   int
	Qty     int
	MakerID string
	TakerID string
	MMSide  strategy.QuoteSide
}

// Result holds one trial's output: four equal-length per-step series plus
// the chronological trade log. The series gain one extra observation when
// end-of-run flattening occurred.
type Result struct {
	Mid       []int
	PnL       []int
	Inventory []int
	Cash      []int
	Trades    []TaggedTrade
}

// Steps returns the number of recorded observations.
func (r Result) Steps() int {
	return len(r.Mid)
}
