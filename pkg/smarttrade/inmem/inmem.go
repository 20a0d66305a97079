package inmem

import (
	"sort"
	"sync"

	"github.com/jvanloo/tradewatch/pkg/smarttrade"
)

// Store keeps smarttrade records in memory, for tests and dry runs.
type Store struct {
	records sync.Map
}

func (s *Store) Save(r smarttrade.Record) error {
	s.records.Store(r.Pair, r)
	return nil
}

func (s *Store) Get(pair string) (smarttrade.Record, bool, error) {
	value, ok := s.records.Load(pair)
	if !ok {
		return smarttrade.Record{}, false, nil
	}
	return value.(smarttrade.Record), true, nil
}

func (s *Store) Delete(pair string) error {
	s.records.Delete(pair)
	return nil
}

func (s *Store) List() ([]smarttrade.Record, error) {
	var records []smarttrade.Record
	s.records.Range(func(_, value interface{}) bool {
		records = append(records, value.(smarttrade.Record))
		return true
	})
	sort.Slice(records, func(i, j int) bool {
		return records[i].Created.Before(records[j].Created)
	})
	return records, nil
}
