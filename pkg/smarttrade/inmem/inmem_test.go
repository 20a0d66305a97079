package inmem

import (
	"testing"
	"time"

	"github.com/jvanloo/tradewatch/pkg/smarttrade"
)

func TestStore(t *testing.T) {
	s := &Store{}
	first := smarttrade.Record{ID: 1, Pair: "USDT_BTC", Note: "a", Created: time.Now().Add(-time.Hour)}
	second := smarttrade.Record{ID: 2, Pair: "USDT_ETH", Note: "b", Created: time.Now()}
	if err := s.Save(second); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(first); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.Get("USDT_BTC")
	if err != nil || !ok {
		t.Fatalf("get failed: %v %v", ok, err)
	}
	if got.ID != 1 {
		t.Errorf("got id %d, want 1", got.ID)
	}

	records, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].ID != 1 {
		t.Errorf("unexpected list order: %+v", records)
	}

	if err := s.Delete("USDT_BTC"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get("USDT_BTC"); ok {
		t.Error("record should be gone")
	}
}
