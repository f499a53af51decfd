package store

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// SliceIterator iterates over models loaded in memory.
type SliceIterator struct {
	models []ledger.Model
}

var _ ledger.Iterator = (*SliceIterator)(nil)

// NewSliceIterator iterates over models in the given order.
func NewSliceIterator(models []ledger.Model) *SliceIterator {
	return &SliceIterator{models: models}
}

func (s *SliceIterator) Next() (key, value []byte, err error) {
	if len(s.models) == 0 {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.models[0]
	s.models = s.models[1:]
	return m.Key, m.Value, nil
}

func (s *SliceIterator) Release() {
	s.models = nil
}

// drain reads the remaining entries of it and releases it.
func drain(it ledger.Iterator) ([]ledger.Model, error) {
	defer it.Release()
	var models []ledger.Model
	for {
		key, value, err := it.Next()
		switch {
		case err == nil:
			models = append(models, ledger.Pair(key, value))
		case errors.ErrIteratorDone.Is(err):
			return models, nil
		default:
			return nil, errors.Wrap(err, "iterate")
		}
	}
}
