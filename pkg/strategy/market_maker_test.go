package strategy

import (
	"fmt"
	"testing"

	"github.com/yourusername/lobsim/pkg/engine"
	"github.com/yourusername/lobsim/pkg/orderbook"
)

func testConfig() Config {
	return Config{
		InventorySkew: 0.6,
		OrderSize:     5,
		MaxInventory:  200,
		RefreshTicks:  2,
	}
}

func newMM(t *testing.T) (*MarketMaker, *engine.Engine) {
	t.Helper()
	eng := engine.New()
	return NewMarketMaker(eng, testConfig()), eng
}

func TestQuotePrices_NeverInverted(t *testing.T) {
	eng := engine.New()

	tests := []struct {
		name      string
		inventory int
		skew      float64
		spread    int
	}{
		{"flat", 0, 0.6, 3},
		{"long heavy", 150, 0.6, 3},
		{"short heavy", -150, 0.6, 3},
		{"zero spread long", 10, 1.0, 0},
		{"zero spread short", -10, 1.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.InventorySkew = tt.skew
			m := NewMarketMaker(eng, cfg)
			m.inventory = tt.inventory

			bid, ask := m.QuotePrices(10000, tt.spread)
			if bid >= ask {
				t.Errorf("QuotePrices() = bid %d, ask %d: inverted", bid, ask)
			}
		})
	}
}

func TestQuotePrices_SkewFloorsTowardFlat(t *testing.T) {
	eng := engine.New()
	m := NewMarketMaker(eng, testConfig())

	// long inventory skews both quotes down to encourage selling
	m.inventory = 10 // skew = floor(10*0.6) = 6
	bid, ask := m.QuotePrices(10000, 3)
	if bid != 10000-3-6 {
		t.Errorf("long bid = %d, want %d", bid, 10000-3-6)
	}
	if ask != 10000+3-6 {
		t.Errorf("long ask = %d, want %d", ask, 10000+3-6)
	}

	// short inventory skews quotes up; floor of a negative product
	m.inventory = -9 // skew = floor(-5.4) = -6
	bid, ask = m.QuotePrices(10000, 3)
	if bid != 10000-3+6 {
		t.Errorf("short bid = %d, want %d", bid, 10000-3+6)
	}
	if ask != 10000+3+6 {
		t.Errorf("short ask = %d, want %d", ask, 10000+3+6)
	}
}

func TestStep_PlacesBothQuotes(t *testing.T) {
	m, eng := newMM(t)

	if err := m.Step(0, 10000, 3); err != nil {
		t.Fatalf("Step error: %v", err)
	}

	if !m.hasBid || !m.hasAsk {
		t.Fatalf("tracked quotes = bid %v ask %v, want both placed", m.hasBid, m.hasAsk)
	}
	if bid, ok := eng.Book().BestBid(); !ok || bid != 9997 {
		t.Errorf("BestBid() = %v,%v, want 9997,true", bid, ok)
	}
	if ask, ok := eng.Book().BestAsk(); !ok || ask != 10003 {
		t.Errorf("BestAsk() = %v,%v, want 10003,true", ask, ok)
	}
}

func TestStep_RefreshCancelsBothSides(t *testing.T) {
	m, eng := newMM(t)

	if err := m.Step(0, 10000, 3); err != nil {
		t.Fatalf("Step error: %v", err)
	}
	oldBid, oldAsk := m.bidID, m.askID

	// mid moved enough to stale the quotes; both get cancelled and requoted
	if err := m.Step(1, 10010, 3); err != nil {
		t.Fatalf("Step error: %v", err)
	}

	if m.bidID == oldBid || m.askID == oldAsk {
		t.Error("stale quotes were not replaced")
	}
	for _, id := range []string{oldBid, oldAsk} {
		o, ok := eng.Book().Order(id)
		if !ok {
			t.Fatalf("old quote %s missing from registry", id)
		}
		if o.Status != orderbook.Cancelled {
			t.Errorf("old quote %s status = %v, want CANCELLED", id, o.Status)
		}
	}
}

func TestStep_FreshQuotesSurviveSmallMidDrift(t *testing.T) {
	m, _ := newMM(t)

	if err := m.Step(0, 10000, 3); err != nil {
		t.Fatalf("Step error: %v", err)
	}
	bidID, askID := m.bidID, m.askID

	// drift below RefreshTicks: quotes stay
	if err := m.Step(1, 10001, 3); err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if m.bidID != bidID || m.askID != askID {
		t.Error("non-stale quotes were replaced")
	}
}

func TestStep_InventoryCapSuppressesOneSide(t *testing.T) {
	m, _ := newMM(t)
	m.inventory = m.cfg.MaxInventory

	if err := m.Step(0, 10000, 3); err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if m.hasBid {
		t.Error("bid placed at long inventory cap")
	}
	if !m.hasAsk {
		t.Error("ask missing at long inventory cap")
	}

	m2, _ := newMM(t)
	m2.inventory = -m2.cfg.MaxInventory
	if err := m2.Step(0, 10000, 3); err != nil {
		t.Fatalf("Step error: %v", err)
	}
	if m2.hasAsk {
		t.Error("ask placed at short inventory cap")
	}
	if !m2.hasBid {
		t.Error("bid missing at short inventory cap")
	}
}

func TestOnTrade_BidFill(t *testing.T) {
	m, _ := newMM(t)
	if err := m.Step(0, 10000, 3); err != nil {
		t.Fatalf("Step error: %v", err)
	}
	bidID, bidPrice := m.bidID, m.bidPrice

	m.OnTrade(orderbook.Trade{Price: bidPrice, Qty: 5, TakerID: "ext", MakerID: bidID})

	if m.Inventory() != 5 {
		t.Errorf("inventory = %d, want 5", m.Inventory())
	}
	if m.Cash() != -5*bidPrice {
		t.Errorf("cash = %d, want %d", m.Cash(), -5*bidPrice)
	}
	if m.hasBid {
		t.Error("bid tracking not cleared after fill")
	}
	if !m.hasAsk {
		t.Error("ask tracking cleared by a bid fill")
	}
}

func TestOnTrade_AskFill(t *testing.T) {
	m, _ := newMM(t)
	if err := m.Step(0, 10000, 3); err != nil {
		t.Fatalf("Step error: %v", err)
	}
	askID, askPrice := m.askID, m.askPrice

	m.OnTrade(orderbook.Trade{Price: askPrice, Qty: 3, TakerID: "ext", MakerID: askID})

	if m.Inventory() != -3 {
		t.Errorf("inventory = %d, want -3", m.Inventory())
	}
	if m.Cash() != 3*askPrice {
		t.Errorf("cash = %d, want %d", m.Cash(), 3*askPrice)
	}
	if m.hasAsk {
		t.Error("ask tracking not cleared after fill")
	}
}

func TestOnTrade_ForeignMakerIgnored(t *testing.T) {
	m, _ := newMM(t)
	if err := m.Step(0, 10000, 3); err != nil {
		t.Fatalf("Step error: %v", err)
	}

	m.OnTrade(orderbook.Trade{Price: 9990, Qty: 5, TakerID: "a", MakerID: "someone_else"})

	if m.Inventory() != 0 || m.Cash() != 0 {
		t.Errorf("foreign trade changed state: inventory %d cash %d", m.Inventory(), m.Cash())
	}
}

func TestMarkToMarket_Identity(t *testing.T) {
	m, _ := newMM(t)
	m.inventory = 7
	m.cash = -300

	for _, mid := range []int{0, 1, 10000} {
		want := m.cash + m.inventory*mid
		if got := m.MarkToMarket(mid); got != want {
			t.Errorf("MarkToMarket(%d) = %d, want %d", mid, got, want)
		}
	}
}

func TestQuoteSideOf(t *testing.T) {
	m, _ := newMM(t)
	if err := m.Step(7, 10000, 3); err != nil {
		t.Fatalf("Step error: %v", err)
	}

	tests := []struct {
		makerID string
		want    QuoteSide
	}{
		{fmt.Sprintf("mm_bid_%d", 7), QuoteBid},
		{fmt.Sprintf("mm_ask_%d", 7), QuoteAsk},
		{"ext_12", QuoteNone},
	}
	for _, tt := range tests {
		if got := m.QuoteSideOf(tt.makerID); got != tt.want {
			t.Errorf("QuoteSideOf(%s) = %v, want %v", tt.makerID, got, tt.want)
		}
	}
}
