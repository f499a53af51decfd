package store

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t testing.TB, db ledger.ReadOnlyKVStore, start, end []byte) []ledger.Model {
	t.Helper()
	it, err := db.Iterator(start, end)
	require.NoError(t, err)
	models, err := drain(it)
	require.NoError(t, err)
	return models
}

func keys(models []ledger.Model) []string {
	out := make([]string, len(models))
	for i, m := range models {
		out[i] = string(m.Key)
	}
	return out
}

func TestStoreReadWrite(t *testing.T) {
	layouts := map[string]func() ledger.KVStore{
		"memory": func() ledger.KVStore { return MemStore() },
		"cache": func() ledger.KVStore {
			return MemStore().CacheWrap()
		},
		"nested cache": func() ledger.KVStore {
			return MemStore().CacheWrap().CacheWrap()
		},
	}
	for name, newStore := range layouts {
		t.Run(name, func(t *testing.T) {
			db := newStore()
			key := []byte("escrow:1")

			val, err := db.Get(key)
			require.NoError(t, err)
			assert.Nil(t, val)
			has, err := db.Has(key)
			require.NoError(t, err)
			assert.False(t, has)

			require.NoError(t, db.Set(key, []byte("a")))
			require.NoError(t, db.Set(key, []byte("b")))
			val, err = db.Get(key)
			require.NoError(t, err)
			assert.Equal(t, []byte("b"), val)
			has, err = db.Has(key)
			require.NoError(t, err)
			assert.True(t, has)

			require.NoError(t, db.Delete(key))
			val, err = db.Get(key)
			require.NoError(t, err)
			assert.Nil(t, val)
			has, err = db.Has(key)
			require.NoError(t, err)
			assert.False(t, has)
		})
	}
}

func TestCacheIsolation(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("seq:escrow"), []byte{1}))
	require.NoError(t, base.Set([]byte("escrow:1"), []byte("first")))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("seq:escrow"), []byte{2}))
	require.NoError(t, cache.Set([]byte("escrow:2"), []byte("second")))
	require.NoError(t, cache.Delete([]byte("escrow:1")))

	val, err := base.Get([]byte("seq:escrow"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, val)
	has, err := base.Has([]byte("escrow:1"))
	require.NoError(t, err)
	assert.True(t, has)
	has, err = cache.Has([]byte("escrow:1"))
	require.NoError(t, err)
	assert.False(t, has)

	cache.Discard()
	val, err = cache.Get([]byte("escrow:1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), val)

	require.NoError(t, cache.Set([]byte("escrow:2"), []byte("second")))
	require.NoError(t, cache.Delete([]byte("escrow:1")))
	require.NoError(t, cache.Write())
	assert.Equal(t, []string{"escrow:2", "seq:escrow"}, keys(collect(t, base, nil, nil)))

	// a written cache starts over empty
	require.NoError(t, base.Set([]byte("escrow:3"), []byte("third")))
	val, err = cache.Get([]byte("escrow:3"))
	require.NoError(t, err)
	assert.Equal(t, []byte("third"), val)
}

func TestNestedCacheWrite(t *testing.T) {
	base := MemStore()
	outer := base.CacheWrap()
	inner := outer.CacheWrap()
	key := []byte("escrow:1")

	require.NoError(t, inner.Set(key, []byte("open")))
	val, err := outer.Get(key)
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, inner.Write())
	val, err = outer.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("open"), val)
	val, err = base.Get(key)
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, outer.Write())
	val, err = base.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("open"), val)
}

func TestIteratorRange(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, base.Set([]byte(k), []byte(k)))
	}
	cache := base.CacheWrap()
	require.NoError(t, cache.Delete([]byte("b")))
	require.NoError(t, cache.Set([]byte("bb"), []byte("new")))
	require.NoError(t, cache.Set([]byte("c"), []byte("changed")))
	require.NoError(t, cache.Set([]byte("e"), []byte("e")))

	cases := map[string]struct {
		start, end []byte
		wantBase   []string
		wantCache  []string
	}{
		"open range": {
			wantBase:  []string{"a", "b", "c", "d"},
			wantCache: []string{"a", "bb", "c", "d", "e"},
		},
		"from b": {
			start:     []byte("b"),
			wantBase:  []string{"b", "c", "d"},
			wantCache: []string{"bb", "c", "d", "e"},
		},
		"up to c": {
			end:       []byte("c"),
			wantBase:  []string{"a", "b"},
			wantCache: []string{"a", "bb"},
		},
		"b to d": {
			start:     []byte("b"),
			end:       []byte("d"),
			wantBase:  []string{"b", "c"},
			wantCache: []string{"bb", "c"},
		},
		"empty range": {
			start: []byte("x"),
			end:   []byte("z"),
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantBase, keysOrNil(collect(t, base, tc.start, tc.end)))
			assert.Equal(t, tc.wantCache, keysOrNil(collect(t, cache, tc.start, tc.end)))
		})
	}

	got, err := cache.Get([]byte("c"))
	require.NoError(t, err)
	assert.Equal(t, []byte("changed"), got)
}

func keysOrNil(models []ledger.Model) []string {
	if len(models) == 0 {
		return nil
	}
	return keys(models)
}

// TestCacheMatchesPlainStore replays the same random operations on a
// memory store and on caches stacked on top of another memory store.
func TestCacheMatchesPlainStore(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	want := MemStore()
	base := MemStore()
	outer := base.CacheWrap()
	inner := outer.CacheWrap()

	for i := 0; i < 500; i++ {
		key := []byte(fmt.Sprintf("k%02d", r.Intn(40)))
		if r.Intn(3) == 0 {
			require.NoError(t, want.Delete(key))
			require.NoError(t, inner.Delete(key))
		} else {
			val := []byte(fmt.Sprintf("v%d", i))
			require.NoError(t, want.Set(key, val))
			require.NoError(t, inner.Set(key, val))
		}
		if i%97 == 0 {
			require.NoError(t, inner.Write())
		}
	}

	expected := collect(t, want, nil, nil)
	assert.True(t, sort.SliceIsSorted(expected, func(i, j int) bool {
		return string(expected[i].Key) < string(expected[j].Key)
	}))
	assert.Equal(t, expected, collect(t, inner, nil, nil))

	var window []ledger.Model
	for _, m := range expected {
		if k := string(m.Key); k >= "k10" && k < "k30" {
			window = append(window, m)
		}
	}
	assert.Equal(t, window, collect(t, inner, []byte("k10"), []byte("k30")))

	require.NoError(t, inner.Write())
	require.NoError(t, outer.Write())
	assert.Equal(t, expected, collect(t, base, nil, nil))
}

func TestIteratorDone(t *testing.T) {
	it := NewSliceIterator([]ledger.Model{ledger.Pair([]byte("k"), []byte("v"))})
	k, v, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, "k", string(k))
	assert.Equal(t, "v", string(v))

	_, _, err = it.Next()
	assert.True(t, errors.ErrIteratorDone.Is(err))

	it = NewSliceIterator([]ledger.Model{ledger.Pair([]byte("k"), nil)})
	it.Release()
	_, _, err = it.Next()
	assert.True(t, errors.ErrIteratorDone.Is(err))
}

type brokenStore struct {
	ledger.KVStore
}

func (brokenStore) Set(key, value []byte) error {
	return errors.Wrap(errors.ErrDatabase, "disk full")
}

func TestCacheWriteFailure(t *testing.T) {
	cache := NewCache(brokenStore{KVStore: MemStore()})
	require.NoError(t, cache.Set([]byte("a"), []byte("1")))

	err := cache.Write()
	assert.True(t, errors.ErrDatabase.Is(err))

	// the change stays staged
	val, err := cache.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)
}
