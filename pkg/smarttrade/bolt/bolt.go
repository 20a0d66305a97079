package bolt

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/boltdb/bolt"

	"github.com/jvanloo/tradewatch/pkg/smarttrade"
)

var bucket = []byte("smarttrades")

type Store struct {
	db *bolt.DB
}

func New(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("bolt: couldn't open db %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		return nil, fmt.Errorf("bolt: couldn't create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() {
	s.db.Close()
}

func (s *Store) Save(r smarttrade.Record) error {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("couldn't encode: %w", err)
		}
		return tx.Bucket(bucket).Put([]byte(r.Pair), data)
	}); err != nil {
		return fmt.Errorf("bolt: couldn't put %s: %w", r.Pair, err)
	}
	return nil
}

func (s *Store) Get(pair string) (smarttrade.Record, bool, error) {
	var r smarttrade.Record
	var found bool
	if err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(pair))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("couldn't decode: %w", err)
		}
		found = true
		return nil
	}); err != nil {
		return smarttrade.Record{}, false, fmt.Errorf("bolt: couldn't get %s: %w", pair, err)
	}
	return r, found, nil
}

func (s *Store) Delete(pair string) error {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(pair))
	}); err != nil {
		return fmt.Errorf("bolt: couldn't delete %s: %w", pair, err)
	}
	return nil
}

func (s *Store) List() ([]smarttrade.Record, error) {
	var records []smarttrade.Record
	if err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(_, data []byte) error {
			var r smarttrade.Record
			if err := json.Unmarshal(data, &r); err != nil {
				return fmt.Errorf("couldn't decode: %w", err)
			}
			records = append(records, r)
			return nil
		})
	}); err != nil {
		return nil, fmt.Errorf("bolt: couldn't list: %w", err)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Created.Before(records[j].Created)
	})
	return records, nil
}
