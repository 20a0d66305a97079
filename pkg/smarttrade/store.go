package smarttrade

import "time"

// Record tracks a smarttrade opened on the remote platform so it can be
// closed later by pair. Parsed signals themselves are never persisted.
type Record struct {
	ID      int64
	Pair    string
	Note    string
	Created time.Time
}

type Store interface {
	Save(Record) error
	Get(pair string) (Record, bool, error)
	Delete(pair string) error
	List() ([]Record, error)
}
