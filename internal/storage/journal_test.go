package storage

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/dexarb/searcher/internal/engine"
)

func TestJournalRecordAndRecent(t *testing.T) {
	j, err := NewJournal(filepath.Join(t.TempDir(), "bot", "journal.db"))
	if err != nil {
		t.Fatalf("NewJournal: %v", err)
	}
	defer j.Close()

	decisions := []engine.Decision{
		{Type: engine.NoAction},
		{
			Type:        engine.SwapThenFill,
			AskOrderID:  22,
			BaseAmount:  big.NewInt(100_000),
			QuoteAmount: big.NewInt(97_990),
		},
	}
	for _, d := range decisions {
		if err := j.Record(6779767, d); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := j.Record(999, engine.Decision{Type: engine.NoAction}); err != nil {
		t.Fatal(err)
	}

	entries, err := j.Recent(6779767, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (token filter broken?)", len(entries))
	}

	// newest first
	if entries[0].Type != "swap-then-fill" || entries[0].AskOrderID != 22 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[0].BaseAmount.Cmp(big.NewInt(100_000)) != 0 {
		t.Errorf("BaseAmount = %s, want 100000", entries[0].BaseAmount)
	}
	if entries[1].Type != "no-action" {
		t.Errorf("entries[1].Type = %s", entries[1].Type)
	}
}
