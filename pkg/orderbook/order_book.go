package orderbook

import (
	"container/heap"
	"fmt"
)

// Book is a two-sided limit order book. Each side keeps a price -> level map
// plus a lazily cleaned heap of level prices, so best-price lookup is
// amortized O(log levels) without eager removal of drained levels.
type Book struct {
	orders map[string]*Order

	bids map[int]*priceLevel
	asks map[int]*priceLevel

	bidHeap *priceHeap
	askHeap *priceHeap
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{
		orders:  make(map[string]*Order),
		bids:    make(map[int]*priceLevel),
		asks:    make(map[int]*priceLevel),
		bidHeap: &priceHeap{max: true},
		askHeap: &priceHeap{max: false},
	}
}

func (b *Book) sideLevels(s Side) (map[int]*priceLevel, *priceHeap) {
	if s == Buy {
		return b.bids, b.bidHeap
	}
	return b.asks, b.askHeap
}

// AddLimit registers a limit order and appends it to the tail of its price
// level, creating the level on first use.
func (b *Book) AddLimit(o *Order) error {
	if o.Type != Limit {
		return fmt.Errorf("%w: %s", ErrNotLimitOrder, o.ID)
	}
	if _, exists := b.orders[o.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOrderID, o.ID)
	}

	b.orders[o.ID] = o

	levels, h := b.sideLevels(o.Side)
	lvl, ok := levels[o.Price]
	if !ok {
		lvl = &priceLevel{}
		levels[o.Price] = lvl
		heap.Push(h, o.Price)
	}
	lvl.enqueue(o.ID)
	return nil
}

// BestBid returns the highest live bid price, or false if the side is empty.
func (b *Book) BestBid() (int, bool) {
	return b.best(Buy)
}

// BestAsk returns the lowest live ask price, or false if the side is empty.
func (b *Book) BestAsk() (int, bool) {
	return b.best(Sell)
}

// best discards stale heap tops whose level has been purged or drained,
// purging drained levels as it finds them, until a live level surfaces.
func (b *Book) best(s Side) (int, bool) {
	levels, h := b.sideLevels(s)
	for h.Len() > 0 {
		p := h.peek()
		lvl, ok := levels[p]
		if ok && !lvl.empty() {
			return p, true
		}
		if ok {
			delete(levels, p)
		}
		heap.Pop(h)
	}
	return 0, false
}

// Cancel marks a live order cancelled and zeroes its remaining quantity.
// The order stays queued at its level until the next traversal drops it.
// Returns false for an unknown or already-terminal order, with no side
// effect.
func (b *Book) Cancel(id string) bool {
	o, ok := b.orders[id]
	if !ok {
		return false
	}
	if o.Status.Terminal() {
		return false
	}
	o.Remaining = 0
	o.Status = Cancelled
	return true
}

// NextAt returns the order at the head of the (side, price) level that is
// still fillable, dropping dead entries (cancelled, filled, or unknown IDs)
// from the queue as it scans. Returns nil if the level is absent or
// exhausted. The order stays registered; fills advance the queue lazily.
func (b *Book) NextAt(side Side, price int) *Order {
	levels, _ := b.sideLevels(side)
	lvl, ok := levels[price]
	if !ok {
		return nil
	}
	for len(lvl.orderIDs) > 0 {
		id := lvl.orderIDs[0]
		o, ok := b.orders[id]
		if !ok || o.Status == Cancelled || o.Status == Filled || o.Remaining <= 0 {
			lvl.orderIDs = lvl.orderIDs[1:]
			continue
		}
		return o
	}
	return nil
}

// Order looks up a registered order by ID.
func (b *Book) Order(id string) (*Order, bool) {
	o, ok := b.orders[id]
	return o, ok
}

// OrderCount returns the number of registered orders, live or terminal.
func (b *Book) OrderCount() int {
	return len(b.orders)
}
