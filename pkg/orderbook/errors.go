package orderbook

import "errors"

var (
	// ErrInvalidQty is returned when an order quantity is not positive
	ErrInvalidQty = errors.New("order qty must be positive")

	// ErrDuplicateOrderID is returned when an order ID collides with a registered order
	ErrDuplicateOrderID = errors.New("duplicate order id")

	// ErrNotLimitOrder is returned when a non-limit order is asked to rest in the book
	ErrNotLimitOrder = errors.New("only limit orders can rest in the book")
)
