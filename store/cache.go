package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Cache stages Set and Delete calls in memory. Reads see the staged
// changes on top of the parent store. Nothing reaches the parent before
// Write is called.
type Cache struct {
	parent ledger.KVStore
	staged *btree.BTree
}

var _ ledger.KVCacheWrap = (*Cache)(nil)

// NewCache wraps parent.
func NewCache(parent ledger.KVStore) *Cache {
	return &Cache{parent: parent, staged: btree.New(treeDegree)}
}

func (c *Cache) Get(key []byte) ([]byte, error) {
	if e, ok := lookup(c.staged, key); ok {
		return e.value, nil
	}
	return c.parent.Get(key)
}

func (c *Cache) Has(key []byte) (bool, error) {
	if e, ok := lookup(c.staged, key); ok {
		return !e.deleted, nil
	}
	return c.parent.Has(key)
}

func (c *Cache) Set(key, value []byte) error {
	c.staged.ReplaceOrInsert(entry{key: key, value: value})
	return nil
}

func (c *Cache) Delete(key []byte) error {
	c.staged.ReplaceOrInsert(entry{key: key, deleted: true})
	return nil
}

// Iterator walks the parent range merged with the staged changes.
func (c *Cache) Iterator(start, end []byte) (ledger.Iterator, error) {
	it, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	below, err := drain(it)
	if err != nil {
		return nil, err
	}
	var staged []entry
	ascend(c.staged, start, end, func(e entry) { staged = append(staged, e) })
	return NewSliceIterator(overlay(below, staged)), nil
}

// CacheWrap stacks another Cache on top of this one.
func (c *Cache) CacheWrap() ledger.KVCacheWrap {
	return NewCache(c)
}

// Write applies the staged changes to the parent in key order and empties
// the cache.
func (c *Cache) Write() error {
	var err error
	c.staged.Ascend(func(i btree.Item) bool {
		e := i.(entry)
		if e.deleted {
			err = c.parent.Delete(e.key)
		} else {
			err = c.parent.Set(e.key, e.value)
		}
		return err == nil
	})
	if err != nil {
		return errors.Wrap(err, "cache write")
	}
	c.Discard()
	return nil
}

// Discard drops all staged changes.
func (c *Cache) Discard() {
	c.staged = btree.New(treeDegree)
}

// overlay merges two sorted sequences. A staged entry replaces the parent
// entry with the same key, a deleted one removes it.
func overlay(below []ledger.Model, staged []entry) []ledger.Model {
	out := make([]ledger.Model, 0, len(below)+len(staged))
	for len(below) > 0 || len(staged) > 0 {
		if len(staged) == 0 || (len(below) > 0 && bytes.Compare(below[0].Key, staged[0].key) < 0) {
			out = append(out, below[0])
			below = below[1:]
			continue
		}
		e := staged[0]
		staged = staged[1:]
		if len(below) > 0 && bytes.Equal(below[0].Key, e.key) {
			below = below[1:]
		}
		if !e.deleted {
			out = append(out, ledger.Pair(e.key, e.value))
		}
	}
	return out
}
