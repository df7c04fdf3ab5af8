// Package engine implements the price-time-priority matching engine. It is
// the sole entry point for mutating book state: callers submit events and
// receive the trades those events produced, synchronously.
package engine

import (
	"fmt"

	"github.com/yourusername/lobsim/pkg/orderbook"
)

// Event is the closed set of inputs the engine accepts.
type Event interface {
	isEvent()
}

// Limit submits a limit order that crosses what it can and rests the
// remainder at its price.
type Limit struct {
	OrderID string
	Side    orderbook.Side
	Price   int
	Qty     int
}

// Market submits a market order. Unfilled remainder is discarded, never
// rested.
type Market struct {
	OrderID string
	Side    orderbook.Side
	Qty     int
}

// Cancel requests cancellation of a resting order. Cancelling an unknown or
// terminal order is a silent no-op.
type Cancel struct {
	OrderID string
}

func (Limit) isEvent()  {}
func (Market) isEvent() {}
func (Cancel) isEvent() {}

// Engine owns one order book and processes one event at a time to
// completion. It is not safe for concurrent use; each simulation trial owns
// its own engine.
type Engine struct {
	book *orderbook.Book
}

// New creates an engine with an empty book.
func New() *Engine {
	return &Engine{book: orderbook.NewBook()}
}

// Book exposes the engine's book for inspection.
func (e *Engine) Book() *orderbook.Book {
	return e.book
}

// Process applies one event and returns the trades it produced. Zero trades
// is a normal outcome. Validation failures (non-positive qty, duplicate
// order ID on a resting limit) abort the event and are returned as errors.
func (e *Engine) Process(ev Event) ([]orderbook.Trade, error) {
	switch ev := ev.(type) {
	case Cancel:
		e.book.Cancel(ev.OrderID)
		return nil, nil
	case Limit:
		taker, err := orderbook.NewLimitOrder(ev.OrderID, ev.Side, ev.Price, ev.Qty)
		if err != nil {
			return nil, err
		}
		return e.cross(taker)
	case Market:
		taker, err := orderbook.NewMarketOrder(ev.OrderID, ev.Side, ev.Qty)
		if err != nil {
			return nil, err
		}
		return e.cross(taker)
	default:
		panic(fmt.Sprintf("engine: unhandled event type %T", ev))
	}
}

// cross runs the matching loop: best contra price first, FIFO within a
// price, execution at the maker's price so price improvement accrues to the
// taker.
func (e *Engine) cross(taker *orderbook.Order) ([]orderbook.Trade, error) {
	var trades []orderbook.Trade

	for taker.Remaining > 0 {
		var best int
		var ok bool
		if taker.Side == orderbook.Buy {
			best, ok = e.book.BestAsk()
		} else {
			best, ok = e.book.BestBid()
		}
		if !ok {
			break
		}

		// Marketability: a limit taker stops, keeping its remainder to
		// rest, once the contra side is worse than its own price.
		if taker.Type == orderbook.Limit {
			if taker.Side == orderbook.Buy && best > taker.Price {
				break
			}
			if taker.Side == orderbook.Sell && best < taker.Price {
				break
			}
		}

		maker := e.book.NextAt(taker.Side.Opposite(), best)
		if maker == nil {
			// The level was drained by lazy cleanup; the next
			// iteration re-derives a fresh best price.
			continue
		}

		qty := min(taker.Remaining, maker.Remaining)
		taker.Remaining -= qty
		maker.Remaining -= qty

		trades = append(trades, orderbook.Trade{
			Price:   best,
			Qty:     qty,
			TakerID: taker.ID,
			MakerID: maker.ID,
		})

		if maker.Remaining == 0 {
			maker.Status = orderbook.Filled
		} else {
			maker.Status = orderbook.PartiallyFilled
		}
		if taker.Remaining == 0 {
			taker.Status = orderbook.Filled
		} else {
			taker.Status = orderbook.PartiallyFilled
		}
	}

	// A limit taker's remainder rests; a market taker's remainder is
	// discarded without error.
	if taker.Type == orderbook.Limit && taker.Remaining > 0 {
		if err := e.book.AddLimit(taker); err != nil {
			return trades, fmt.Errorf("resting taker %s: %w", taker.ID, err)
		}
	}

	return trades, nil
}
