package orm

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// ReadAll returns the remaining models of it and releases it.
func ReadAll(it ledger.Iterator) ([]ledger.Model, error) {
	defer it.Release()
	var models []ledger.Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return models, nil
		}
		if err != nil {
			return nil, err
		}
		models = append(models, ledger.Pair(key, value))
	}
}

// PrefixRange returns the iterator bounds covering every key that starts
// with prefix. The end is the smallest key greater than all of them, or
// nil if no such key exists.
func PrefixRange(prefix []byte) (start, end []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	end = append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return prefix, end
		}
	}
	return prefix, nil
}
