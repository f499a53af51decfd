package ledger

// ReadOnlyKVStore gives read access to the state. A missing key is reported
// as a nil value, never as an error.
type ReadOnlyKVStore interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator walks keys in [start, end) in ascending order. A nil start
	// or end leaves that side of the range open.
	Iterator(start, end []byte) (Iterator, error)
}

// KVStore is the state an extension reads and writes while processing a
// transaction.
type KVStore interface {
	ReadOnlyKVStore
	Set(key, value []byte) error
	Delete(key []byte) error
}

// Iterator is a cursor over a key range.
//
//	k, v, err := it.Next()
//	for ; err == nil; k, v, err = it.Next() {
//		...
//	}
//	if !errors.ErrIteratorDone.Is(err) {
//		return err
//	}
type Iterator interface {
	// Next returns the entry under the cursor and moves forward. Once the
	// range is exhausted ErrIteratorDone is returned.
	Next() (key, value []byte, err error)
	Release()
}

// CacheableKVStore can stage writes in a KVCacheWrap before they reach it.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a savepoint. Reads see the staged writes on top of the
// wrapped store. Write flushes them, Discard drops them.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the root of the application state. Changes are made
// through a CacheWrap and persisted as a new version by Commit.
type CommitKVStore interface {
	// Get reads the last committed state.
	Get(key []byte) ([]byte, error)
	CacheWrap() KVCacheWrap
	Commit() (CommitID, error)
	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by its height and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
