package orderbook

import (
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var via = Token{ID: 6779767, Ticker: "VIA", Decimals: 6, Unit: 1_000_000}

// order at a given quote-per-base price, both assets at 6 decimals
func bidAt(id uint64, price string, baseAmount int64) Order {
	p := decimal.RequireFromString(price)
	quote := decimal.NewFromInt(baseAmount).Mul(p).BigInt()
	return Order{
		ID:           id,
		Maker:        "MAKER",
		BaseAmount:   big.NewInt(baseAmount),
		QuoteAmount:  quote,
		Token:        via,
		IsBuyingBase: true,
	}
}

func askAt(id uint64, price string, baseAmount int64) Order {
	o := bidAt(id, price, baseAmount)
	o.IsBuyingBase = false
	return o
}

func TestOrderPrice(t *testing.T) {
	o := Order{
		ID:           1,
		BaseAmount:   big.NewInt(2_000_000), // 2 base units
		QuoteAmount:  big.NewInt(100_000_000), // 1 unit at 8 decimals
		Token:        Token{ID: 9, Decimals: 8},
		IsBuyingBase: true,
	}
	want := decimal.RequireFromString("0.5")
	if !o.Price().Equal(want) {
		t.Errorf("Price = %s, want %s", o.Price(), want)
	}

	// direction never flips how the price is reported
	o.IsBuyingBase = false
	if !o.Price().Equal(want) {
		t.Errorf("ask Price = %s, want %s", o.Price(), want)
	}
}

func TestRankBidsFIFOTieBreak(t *testing.T) {
	orders := []Order{
		bidAt(5, "1.0", 1_000_000),
		bidAt(2, "1.0", 1_000_000),
		bidAt(7, "0.9", 1_000_000),
	}

	ranked := Rank(orders, Bid)
	wantIDs := []uint64{2, 5, 7}
	for i, want := range wantIDs {
		if ranked[i].ID != want {
			t.Fatalf("ranked[%d].ID = %d, want %d (full order %v)", i, ranked[i].ID, want, idsOf(ranked))
		}
	}
}

func TestRankAsks(t *testing.T) {
	orders := []Order{
		askAt(3, "1.2", 1_000_000),
		askAt(9, "0.8", 1_000_000),
		askAt(1, "0.8", 1_000_000),
	}

	ranked := Rank(orders, Ask)
	wantIDs := []uint64{1, 9, 3}
	for i, want := range wantIDs {
		if ranked[i].ID != want {
			t.Fatalf("ranked[%d].ID = %d, want %d (got %v)", i, ranked[i].ID, want, idsOf(ranked))
		}
	}
}

func idsOf(orders []Order) []uint64 {
	ids := make([]uint64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}

func TestFilterMinNotionalAndSide(t *testing.T) {
	orders := []Order{
		bidAt(1, "1.0", 500),       // below the floor
		bidAt(2, "1.0", 1000),      // exactly the floor, still dropped
		bidAt(3, "1.0", 1001),      // kept
		askAt(4, "1.0", 5_000_000), // wrong side
	}

	got := Filter(orders, Bid, big.NewInt(1000))
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("Filter = %v, want only order 3", idsOf(got))
	}
}

func TestBookBestBidBestAsk(t *testing.T) {
	book := &Book{
		Token: via,
		Orders: []Order{
			bidAt(1, "0.95", 2_000_000),
			bidAt(2, "0.97", 2_000_000),
			askAt(3, "1.02", 2_000_000),
			askAt(4, "0.99", 2_000_000),
			askAt(5, "0.99", 100), // best price but under the floor
		},
	}
	min := big.NewInt(1000)

	bid, ok := book.BestBid(min)
	if !ok || bid.ID != 2 {
		t.Errorf("BestBid = %d ok=%v, want order 2", bid.ID, ok)
	}
	ask, ok := book.BestAsk(min)
	if !ok || ask.ID != 4 {
		t.Errorf("BestAsk = %d ok=%v, want order 4", ask.ID, ok)
	}

	empty := &Book{Token: via}
	if _, ok := empty.BestBid(min); ok {
		t.Error("BestBid on empty book returned an order")
	}
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(50 * time.Millisecond)
	orders := []Order{bidAt(1, "1.0", 2_000_000)}

	cache.Put(via.ID, orders)
	if got, ok := cache.Get(via.ID); !ok || len(got) != 1 {
		t.Fatal("fresh entry missing")
	}

	// entries are keyed per token
	if _, ok := cache.Get(999); ok {
		t.Error("cache returned orders for a different token")
	}

	time.Sleep(80 * time.Millisecond)
	if _, ok := cache.Get(via.ID); ok {
		t.Error("stale entry returned past the freshness window")
	}
}
