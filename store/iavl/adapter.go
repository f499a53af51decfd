// Package iavl persists the ledger state in a versioned merkle tree
// backed by goleveldb.
package iavl

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

const (
	// DefaultCacheSize is the number of tree nodes kept in memory.
	DefaultCacheSize = 10000
	// DefaultHistory is how many committed versions stay queryable.
	DefaultHistory int64 = 20
)

// CommitStore is the application state. Every Commit saves a new tree
// version whose root hash becomes the block app hash.
type CommitStore struct {
	db      dbm.DB
	tree    *iavl.MutableTree
	history int64
}

var _ ledger.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore opens, or creates, the database name inside dir.
func NewCommitStore(dir, name string) (*CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %s in %s: %s", name, dir, err)
	}
	return &CommitStore{
		db:      db,
		tree:    iavl.NewMutableTree(db, DefaultCacheSize),
		history: DefaultHistory,
	}, nil
}

// MockCommitStore keeps every version in memory.
func MockCommitStore() *CommitStore {
	db := dbm.NewMemDB()
	return &CommitStore{db: db, tree: iavl.NewMutableTree(db, DefaultCacheSize)}
}

// Get reads from the last saved version.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit saves the working tree as a new version and prunes the version
// that fell out of the history window.
func (s *CommitStore) Commit() (ledger.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return ledger.CommitID{}, errors.Wrapf(errors.ErrDatabase, "save version: %s", err)
	}
	if old := version - s.history; s.history > 0 && old > 0 && s.tree.VersionExists(old) {
		if err := s.tree.DeleteVersion(old); err != nil {
			return ledger.CommitID{}, errors.Wrapf(errors.ErrDatabase, "prune version %d: %s", old, err)
		}
	}
	return ledger.CommitID{Version: version, Hash: hash}, nil
}

// LoadLatestVersion loads the newest version found on disk.
func (s *CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "load tree: %s", err)
	}
	return nil
}

// LatestVersion returns the height and root hash of the last commit.
func (s *CommitStore) LatestVersion() (ledger.CommitID, error) {
	return ledger.CommitID{Version: s.tree.Version(), Hash: s.tree.Hash()}, nil
}

// Close releases the database.
func (s *CommitStore) Close() {
	s.db.Close()
}

// Working gives direct access to the working tree. Writes are part of the
// next Commit.
func (s *CommitStore) Working() ledger.CacheableKVStore {
	return working{tree: s.tree}
}

// CacheWrap stages writes on top of the working tree.
func (s *CommitStore) CacheWrap() ledger.KVCacheWrap {
	return store.NewCache(working{tree: s.tree})
}

// working exposes the mutable tree as a KVStore.
type working struct {
	tree *iavl.MutableTree
}

func (w working) Get(key []byte) ([]byte, error) {
	_, val := w.tree.Get(key)
	return val, nil
}

func (w working) Has(key []byte) (bool, error) {
	return w.tree.Has(key), nil
}

func (w working) Set(key, value []byte) error {
	w.tree.Set(key, value)
	return nil
}

func (w working) Delete(key []byte) error {
	w.tree.Remove(key)
	return nil
}

// Iterator loads the range up front. Queries and genesis checks only scan
// single buckets.
func (w working) Iterator(start, end []byte) (ledger.Iterator, error) {
	var models []ledger.Model
	w.tree.IterateRange(start, end, true, func(key, value []byte) bool {
		models = append(models, ledger.Pair(key, value))
		return false
	})
	return store.NewSliceIterator(models), nil
}

func (w working) CacheWrap() ledger.KVCacheWrap {
	return store.NewCache(w)
}
