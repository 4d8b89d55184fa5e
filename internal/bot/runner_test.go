package bot

import (
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dexarb/searcher/internal/amm"
	"github.com/dexarb/searcher/internal/balance"
	"github.com/dexarb/searcher/internal/orderbook"
	"github.com/dexarb/searcher/internal/storage"
)

var via = orderbook.Token{ID: 6779767, Ticker: "VIA", Decimals: 6, Unit: 1_000_000}

type fakeSource struct {
	pool      *amm.Pool
	orders    []orderbook.Order
	balance   *big.Int
	ordersErr error
}

func (f *fakeSource) Pool(context.Context, uint64) (*amm.Pool, error) {
	return f.pool, nil
}

func (f *fakeSource) Orders(context.Context, uint64) ([]orderbook.Order, error) {
	return f.orders, f.ordersErr
}

func (f *fakeSource) SpendableBalance(context.Context) (*big.Int, error) {
	return new(big.Int).Set(f.balance), nil
}

func askOrder(id uint64, price string, baseAmount int64) orderbook.Order {
	p := decimal.RequireFromString(price)
	return orderbook.Order{
		ID:          id,
		Maker:       "MAKER",
		BaseAmount:  big.NewInt(baseAmount),
		QuoteAmount: decimal.NewFromInt(baseAmount).Mul(p).BigInt(),
		Token:       via,
	}
}

func newTestJournal(t *testing.T) *storage.Journal {
	t.Helper()
	j, err := storage.NewJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestCycleJournalsDecision(t *testing.T) {
	source := &fakeSource{
		pool: &amm.Pool{
			ID:            1,
			BaseReserve:   big.NewInt(10_000_000),
			QuoteReserve:  big.NewInt(10_000_000),
			BaseDecimals:  6,
			QuoteDecimals: 6,
		},
		orders:  []orderbook.Order{askOrder(22, "0.98", 2_000_000)},
		balance: big.NewInt(5_000_000),
	}
	journal := newTestJournal(t)
	coord := balance.NewCoordinator(big.NewInt(0))

	r := NewRunner(source, coord, journal, []orderbook.Token{via})
	r.cycle(context.Background(), via)

	entries, err := journal.Recent(via.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Type != "swap-then-fill" {
		t.Fatalf("entries = %+v, want one swap-then-fill", entries)
	}

	// the reservation was released after the (stubbed) execution hand-off
	if got := coord.Available(); got.Cmp(big.NewInt(5_000_000)) != 0 {
		t.Errorf("Available = %s, want full synced balance back", got)
	}
}

func TestCycleDegradesOnOrderFetchFailure(t *testing.T) {
	source := &fakeSource{
		pool: &amm.Pool{
			ID:            1,
			BaseReserve:   big.NewInt(10_000_000),
			QuoteReserve:  big.NewInt(10_000_000),
			BaseDecimals:  6,
			QuoteDecimals: 6,
		},
		ordersErr: errors.New("indexer down"),
		balance:   big.NewInt(5_000_000),
	}
	journal := newTestJournal(t)

	r := NewRunner(source, balance.NewCoordinator(big.NewInt(0)), journal, []orderbook.Token{via})
	r.cycle(context.Background(), via)

	entries, err := journal.Recent(via.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %+v, want none (empty book yields no action)", entries)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	source := &fakeSource{
		pool: &amm.Pool{
			ID:            1,
			BaseReserve:   big.NewInt(10_000_000),
			QuoteReserve:  big.NewInt(10_000_000),
			BaseDecimals:  6,
			QuoteDecimals: 6,
		},
		balance: big.NewInt(0),
	}

	r := NewRunner(source, balance.NewCoordinator(big.NewInt(0)), nil, []orderbook.Token{via})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * MinCycle):
		t.Fatal("Run did not stop after cancel")
	}
}
