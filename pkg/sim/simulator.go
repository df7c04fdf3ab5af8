// Package sim drives one reproducible market-making trial: a synthetic mid
// random walk, volatility-scaled spreads, a contrarian quoting bias, and
// stochastic external order flow, all pushed through one matching engine.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/yourusername/lobsim/pkg/engine"
	"github.com/yourusername/lobsim/pkg/orderbook"
	"github.com/yourusername/lobsim/pkg/stats"
	"github.com/yourusername/lobsim/pkg/strategy"
)

// flattenOrderID names the single end-of-run market order that unwinds any
// residual inventory.
const flattenOrderID = "mm_flatten"

// Run executes one trial. Given the same Config (seed included) it produces
// byte-identical series and trade logs: the trial owns its engine, strategy
// and random stream, and every event is processed to completion in order.
func Run(cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	eng := engine.New()
	mm := strategy.NewMarketMaker(eng, strategy.Config{
		InventorySkew: cfg.Maker.InventorySkew,
		OrderSize:     cfg.Maker.OrderSize,
		MaxInventory:  cfg.Maker.MaxInventory,
		RefreshTicks:  cfg.Maker.RefreshTicks,
	})

	mid := cfg.StartMid
	deltas := stats.NewWindow(cfg.VolWindow)

	res := Result{
		Mid:       make([]int, 0, cfg.Steps+1),
		PnL:       make([]int, 0, cfg.Steps+1),
		Inventory: make([]int, 0, cfg.Steps+1),
		Cash:      make([]int, 0, cfg.Steps+1),
	}

	for t := 0; t < cfg.Steps; t++ {
		prevMid := mid

		// mid random walk
		if rng.Float64() < cfg.ProbMidMove {
			if rng.Intn(2) == 0 {
				mid -= cfg.MidMoveTicks
			} else {
				mid += cfg.MidMoveTicks
			}
		}
		delta := mid - prevMid
		deltas.Append(float64(delta))

		// rolling volatility: mean absolute delta over the window
		vol := 0.0
		if deltas.Len() > 1 {
			vol = deltas.MeanAbs()
		}
		spread := cfg.BaseSpreadFloor + int(cfg.VolK*vol)
		if spread < cfg.BaseSpreadFloor {
			spread = cfg.BaseSpreadFloor
		}

		// short-horizon contrarian bias: fade three consecutive moves
		bias := 0
		if last := deltas.Last(3); len(last) == 3 {
			switch {
			case allPositive(last):
				bias = -cfg.AlphaStrength
			case allNegative(last):
				bias = cfg.AlphaStrength
			}
		}

		// the strategy quotes around the biased mid; marking stays on
		// the true mid
		if err := mm.Step(t, mid+bias, spread); err != nil {
			return Result{}, fmt.Errorf("step %d: strategy: %w", t, err)
		}

		trades, err := submitExternalOrder(eng, rng, cfg, t, mid, delta)
		if err != nil {
			return Result{}, fmt.Errorf("step %d: external flow: %w", t, err)
		}

		for _, tr := range trades {
			res.Trades = append(res.Trades, TaggedTrade{
				Step:    t,
				Mid:     mid,
				Price:   tr.Price,
				Qty:     tr.Qty,
				MakerID: tr.MakerID,
				TakerID: tr.TakerID,
				MMSide:  mm.QuoteSideOf(tr.MakerID),
			})
			mm.OnTrade(tr)
		}

		res.Mid = append(res.Mid, mid)
		res.Inventory = append(res.Inventory, mm.Inventory())
		res.Cash = append(res.Cash, mm.Cash())
		res.PnL = append(res.PnL, mm.MarkToMarket(mid))
	}

	if err := flatten(eng, mm, &res, mid); err != nil {
		return Result{}, err
	}

	return res, nil
}

// submitExternalOrder generates this step's synthetic flow: with
// ProbMarketOrder a market order whose side tends to continue the last mid
// move (informed flow), otherwise a limit order resting a random offset away
// from mid on a random side (uninformed liquidity).
func submitExternalOrder(eng *engine.Engine, rng *rand.Rand, cfg Config, t, mid, delta int) ([]orderbook.Trade, error) {
	oid := fmt.Sprintf("ext_%d", t)

	if rng.Float64() < cfg.ProbMarketOrder {
		var side orderbook.Side
		switch {
		case delta > 0:
			side = orderbook.Sell
			if rng.Float64() < cfg.MomentumBias {
				side = orderbook.Buy
			}
		case delta < 0:
			side = orderbook.Buy
			if rng.Float64() < cfg.MomentumBias {
				side = orderbook.Sell
			}
		default:
			side = orderbook.Buy
			if rng.Intn(2) == 1 {
				side = orderbook.Sell
			}
		}
		return eng.Process(engine.Market{OrderID: oid, Side: side, Qty: cfg.MarketQty})
	}

	side := orderbook.Buy
	if rng.Intn(2) == 1 {
		side = orderbook.Sell
	}
	offset := cfg.ExtLimitMinOffset + rng.Intn(cfg.ExtLimitMaxOffset-cfg.ExtLimitMinOffset+1)
	price := mid - offset
	if side == orderbook.Sell {
		price = mid + offset
	}
	return eng.Process(engine.Limit{OrderID: oid, Side: side, Price: price, Qty: cfg.LimitQty})
}

// flatten unwinds residual inventory with one market order through the same
// engine and appends one observation of the post-flatten state. Insufficient
// contra-side liquidity leaves the flatten partial; that is recorded as-is.
func flatten(eng *engine.Engine, mm *strategy.MarketMaker, res *Result, mid int) error {
	inv := mm.Inventory()
	if inv == 0 {
		return nil
	}

	side := orderbook.Buy
	qty := -inv
	if inv > 0 {
		side = orderbook.Sell
		qty = inv
	}

	trades, err := eng.Process(engine.Market{OrderID: flattenOrderID, Side: side, Qty: qty})
	if err != nil {
		return fmt.Errorf("flatten: %w", err)
	}
	for _, tr := range trades {
		mm.OnTakerFill(side, tr)
	}

	res.Mid = append(res.Mid, mid)
	res.Inventory = append(res.Inventory, mm.Inventory())
	res.Cash = append(res.Cash, mm.Cash())
	res.PnL = append(res.PnL, mm.MarkToMarket(mid))
	return nil
}

func allPositive(xs []float64) bool {
	for _, x := range xs {
		if x <= 0 {
			return false
		}
	}
	return true
}

func allNegative(xs []float64) bool {
	for _, x := range xs {
		if x >= 0 {
			return false
		}
	}
	return true
}
