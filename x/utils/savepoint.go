package utils

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Savepoint runs the rest of the stack on a cache of the store. The cache
// is written back only if no error was returned, so a failed transaction
// leaves no partial writes behind. It is off for both phases until OnCheck
// or OnDeliver is called.
type Savepoint struct {
	check, deliver bool
}

var _ ledger.Decorator = Savepoint{}

func NewSavepoint() Savepoint { return Savepoint{} }

func (s Savepoint) OnCheck() Savepoint {
	s.check = true
	return s
}

func (s Savepoint) OnDeliver() Savepoint {
	s.deliver = true
	return s
}

func (s Savepoint) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (ledger.CheckResult, error) {
	var res ledger.CheckResult
	err := s.isolate(s.check, db, func(db ledger.KVStore) error {
		var err error
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return ledger.CheckResult{}, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (ledger.DeliverResult, error) {
	var res ledger.DeliverResult
	err := s.isolate(s.deliver, db, func(db ledger.KVStore) error {
		var err error
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return ledger.DeliverResult{}, err
	}
	return res, nil
}

// isolate runs fn on a cache of db when enabled and db supports it.
func (Savepoint) isolate(enabled bool, db ledger.KVStore, fn func(ledger.KVStore) error) error {
	cacheable, ok := db.(ledger.CacheableKVStore)
	if !enabled || !ok {
		return fn(db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return errors.Wrap(cache.Write(), "savepoint")
}
