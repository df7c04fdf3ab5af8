// Package strategy implements trading strategies driven against the
// matching engine. The market maker quotes a two-sided market, skews it by
// inventory, and relies on synchronous fill notifications to keep its own
// state in step with the book.
package strategy

import (
	"fmt"
	"math"

	"github.com/yourusername/lobsim/pkg/engine"
	"github.com/yourusername/lobsim/pkg/orderbook"
)

// Config holds the market maker parameters fixed at construction. The quote
// spread is not part of it: the driving loop passes the spread to Step
// explicitly each step.
type Config struct {
	InventorySkew float64 // ticks of skew per unit of inventory
	OrderSize     int
	MaxInventory  int // soft cap; reaching it suppresses one side's new quotes
	RefreshTicks  int // staleness threshold for quote refresh
}

// MarketMaker maintains at most one resting bid and one resting ask.
type MarketMaker struct {
	eng *engine.Engine
	cfg Config

	inventory int
	cash      int

	bidID    string
	askID    string
	bidPrice int
	askPrice int
	hasBid   bool
	hasAsk   bool
}

// NewMarketMaker creates a flat market maker trading through eng.
func NewMarketMaker(eng *engine.Engine, cfg Config) *MarketMaker {
	return &MarketMaker{eng: eng, cfg: cfg}
}

// Inventory returns the current signed position.
func (m *MarketMaker) Inventory() int { return m.inventory }

// Cash returns the signed cash balance.
func (m *MarketMaker) Cash() int { return m.cash }

// MarkToMarket values the position at mid.
func (m *MarketMaker) MarkToMarket(mid int) int {
	return m.cash + m.inventory*mid
}

// QuotePrices computes the bid/ask to quote around mid at the given spread,
// skewed toward flat by the current inventory. The ask is forced one tick
// above the bid if the skew would invert or lock the quote.
func (m *MarketMaker) QuotePrices(mid, spread int) (bid, ask int) {
	skew := int(math.Floor(float64(m.inventory) * m.cfg.InventorySkew))

	bid = mid - spread - skew
	ask = mid + spread - skew

	if bid >= ask {
		ask = bid + 1
	}
	return bid, ask
}

// stale reports whether the tracked quotes drifted from mid by at least
// RefreshTicks relative to the requested spread, or are missing entirely.
func (m *MarketMaker) stale(mid, spread int) bool {
	if !m.hasBid || !m.hasAsk {
		return true
	}
	if abs((mid-m.bidPrice)-spread) >= m.cfg.RefreshTicks {
		return true
	}
	if abs((m.askPrice-mid)-spread) >= m.cfg.RefreshTicks {
		return true
	}
	return false
}

// Step refreshes the quotes for step t around mid. Stale quotes are
// cancelled on both sides before requoting. A side at its inventory cap is
// not requoted, but a surviving non-stale quote on that side is left alone.
// Trades triggered by the strategy's own quote placement are intentionally
// not applied to its state here; fills reach the strategy through OnTrade.
func (m *MarketMaker) Step(t, mid, spread int) error {
	disableBid := m.inventory >= m.cfg.MaxInventory
	disableAsk := m.inventory <= -m.cfg.MaxInventory

	if m.stale(mid, spread) {
		if m.hasBid {
			if _, err := m.eng.Process(engine.Cancel{OrderID: m.bidID}); err != nil {
				return err
			}
			m.clearBid()
		}
		if m.hasAsk {
			if _, err := m.eng.Process(engine.Cancel{OrderID: m.askID}); err != nil {
				return err
			}
			m.clearAsk()
		}
	}

	bid, ask := m.QuotePrices(mid, spread)

	if !disableBid && !m.hasBid {
		id := fmt.Sprintf("mm_bid_%d", t)
		if _, err := m.eng.Process(engine.Limit{
			OrderID: id,
			Side:    orderbook.Buy,
			Price:   bid,
			Qty:     m.cfg.OrderSize,
		}); err != nil {
			return err
		}
		m.bidID = id
		m.bidPrice = bid
		m.hasBid = true
	}

	if !disableAsk && !m.hasAsk {
		id := fmt.Sprintf("mm_ask_%d", t)
		if _, err := m.eng.Process(engine.Limit{
			OrderID: id,
			Side:    orderbook.Sell,
			Price:   ask,
			Qty:     m.cfg.OrderSize,
		}); err != nil {
			return err
		}
		m.askID = id
		m.askPrice = ask
		m.hasAsk = true
	}

	return nil
}

// OnTrade applies a fill in which the strategy was the maker. A hit bid
// buys, a lifted ask sells; either way the tracked quote is cleared so the
// next stale check requotes that side. Trades against other makers are
// ignored.
func (m *MarketMaker) OnTrade(tr orderbook.Trade) {
	switch {
	case m.hasBid && tr.MakerID == m.bidID:
		m.inventory += tr.Qty
		m.cash -= tr.Qty * tr.Price
		m.clearBid()
	case m.hasAsk && tr.MakerID == m.askID:
		m.inventory -= tr.Qty
		m.cash += tr.Qty * tr.Price
		m.clearAsk()
	}
}

// OnTakerFill applies a fill in which the strategy was the taker, as in the
// end-of-run flatten order.
func (m *MarketMaker) OnTakerFill(side orderbook.Side, tr orderbook.Trade) {
	if side == orderbook.Buy {
		m.inventory += tr.Qty
		m.cash -= tr.Qty * tr.Price
	} else {
		m.inventory -= tr.Qty
		m.cash += tr.Qty * tr.Price
	}
}

// QuoteSideOf classifies a maker order ID against the currently tracked
// quotes.
func (m *MarketMaker) QuoteSideOf(makerID string) QuoteSide {
	switch {
	case m.hasBid && makerID == m.bidID:
		return QuoteBid
	case m.hasAsk && makerID == m.askID:
		return QuoteAsk
	default:
		return QuoteNone
	}
}

func (m *MarketMaker) clearBid() {
	m.bidID = ""
	m.bidPrice = 0
	m.hasBid = false
}

func (m *MarketMaker) clearAsk() {
	m.askID = ""
	m.askPrice = 0
	m.hasAsk = false
}

// QuoteSide identifies which of the strategy's own quotes a trade hit.
type QuoteSide int

const (
	QuoteNone QuoteSide = iota
	QuoteBid
	QuoteAsk
)

func (q QuoteSide) String() string {
	switch q {
	case QuoteBid:
		return "BID"
	case QuoteAsk:
		return "ASK"
	default:
		return "NONE"
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
