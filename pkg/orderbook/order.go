// Package orderbook implements a single-instrument limit order book with
// price-time priority. Prices are integer ticks; the book owns every order
// record and all other structures index orders by ID only.
package orderbook

import "fmt"

// Side is the side of an order or quote.
type Side int

const (
	Buy Side = iota
	Sell
)

// Opposite returns the contra side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// OrderType distinguishes resting-capable limit orders from market orders.
type OrderType int

const (
	Limit OrderType = iota
	Market
)

func (t OrderType) String() string {
	if t == Limit {
		return "LIMIT"
	}
	return "MARKET"
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus int

const (
	Open OrderStatus = iota
	PartiallyFilled
	Filled
	Cancelled
	Rejected
)

func (st OrderStatus) String() string {
	switch st {
	case Open:
		return "OPEN"
	case PartiallyFilled:
		return "PARTIALLY_FILLED"
	case Filled:
		return "FILLED"
	case Cancelled:
		return "CANCELLED"
	case Rejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the status admits no further transitions.
func (st OrderStatus) Terminal() bool {
	return st == Filled || st == Cancelled || st == Rejected
}

// Order is a mutable order record. The book's registry is the single owner;
// price levels and heaps refer to it by ID only.
type Order struct {
	ID        string
	Side      Side
	Qty       int // original size, immutable after construction
	Type      OrderType
	Price     int // ticks; meaningful only for limit orders
	Remaining int
	Status    OrderStatus
}

// NewLimitOrder creates an open limit order.
func NewLimitOrder(id string, side Side, price, qty int) (*Order, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: qty %d", ErrInvalidQty, qty)
	}
	return &Order{
		ID:        id,
		Side:      side,
		Qty:       qty,
		Type:      Limit,
		Price:     price,
		Remaining: qty,
		Status:    Open,
	}, nil
}

// NewMarketOrder creates an open market order. Market orders carry no price.
func NewMarketOrder(id string, side Side, qty int) (*Order, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: qty %d", ErrInvalidQty, qty)
	}
	return &Order{
		ID:        id,
		Side:      side,
		Qty:       qty,
		Type:      Market,
		Remaining: qty,
		Status:    Open,
	}, nil
}

// Trade is an immutable execution record, emitted once per match and never
// revised. Price is the maker's resting price.
type Trade struct {
	Price   int
	Qty     int
	TakerID string
	MakerID string
}
