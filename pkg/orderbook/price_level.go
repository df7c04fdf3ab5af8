package orderbook

// priceLevel is the FIFO queue of order IDs resting at one (side, price).
// Entries are not removed eagerly on cancel or fill; NextAt drops dead IDs
// the next time the level is traversed.
type priceLevel struct {
	orderIDs []string
}

func (l *priceLevel) enqueue(id string) {
	l.orderIDs = append(l.orderIDs, id)
}

func (l *priceLevel) empty() bool {
	return len(l.orderIDs) == 0
}

// priceHeap is a heap of level prices with lazy deletion: prices whose level
// has drained stay in the heap until a best-price query discards them from
// the top. max=true orders the heap best-bid-first, otherwise best-ask-first.
type priceHeap struct {
	prices []int
	max    bool
}

func (h *priceHeap) Len() int { return len(h.prices) }

func (h *priceHeap) Less(i, j int) bool {
	if h.max {
		return h.prices[i] > h.prices[j]
	}
	return h.prices[i] < h.prices[j]
}

func (h *priceHeap) Swap(i, j int) {
	h.prices[i], h.prices[j] = h.prices[j], h.prices[i]
}

func (h *priceHeap) Push(x any) {
	h.prices = append(h.prices, x.(int))
}

func (h *priceHeap) Pop() any {
	n := len(h.prices)
	p := h.prices[n-1]
	h.prices = h.prices[:n-1]
	return p
}

func (h *priceHeap) peek() int { return h.prices[0] }
