package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/ledger"
)

// treeDegree is the btree node size used by all stores of this package.
const treeDegree = 16

// entry is a btree item. A deleted entry hides the key of the parent store
// in a Cache.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}

func lookup(t *btree.BTree, key []byte) (entry, bool) {
	found := t.Get(entry{key: key})
	if found == nil {
		return entry{}, false
	}
	return found.(entry), true
}

// ascend visits the entries of t within [start, end) in key order. A nil
// bound leaves that side open.
func ascend(t *btree.BTree, start, end []byte, fn func(entry)) {
	visit := func(i btree.Item) bool {
		fn(i.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		t.Ascend(visit)
	case start == nil:
		t.AscendLessThan(entry{key: end}, visit)
	case end == nil:
		t.AscendGreaterOrEqual(entry{key: start}, visit)
	default:
		t.AscendRange(entry{key: start}, entry{key: end}, visit)
	}
}

type memStore struct {
	tree *btree.BTree
}

var _ ledger.CacheableKVStore = (*memStore)(nil)

// MemStore returns an empty store that lives in memory only.
func MemStore() ledger.CacheableKVStore {
	return &memStore{tree: btree.New(treeDegree)}
}

func (m *memStore) Get(key []byte) ([]byte, error) {
	e, _ := lookup(m.tree, key)
	return e.value, nil
}

func (m *memStore) Has(key []byte) (bool, error) {
	_, ok := lookup(m.tree, key)
	return ok, nil
}

func (m *memStore) Set(key, value []byte) error {
	m.tree.ReplaceOrInsert(entry{key: key, value: value})
	return nil
}

func (m *memStore) Delete(key []byte) error {
	m.tree.Delete(entry{key: key})
	return nil
}

// Iterator copies the range so that the store may be modified while the
// iterator is in use.
func (m *memStore) Iterator(start, end []byte) (ledger.Iterator, error) {
	var models []ledger.Model
	ascend(m.tree, start, end, func(e entry) {
		models = append(models, ledger.Pair(e.key, e.value))
	})
	return NewSliceIterator(models), nil
}

func (m *memStore) CacheWrap() ledger.KVCacheWrap {
	return NewCache(m)
}
