package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// state splits the committed store into one cache per ABCI phase. Deliver
// writes go to the next version on commit; check writes only serve the
// mempool and are dropped.
type state struct {
	root    ledger.CommitKVStore
	check   ledger.KVCacheWrap
	deliver ledger.KVCacheWrap
}

func openState(root ledger.CommitKVStore) (*state, error) {
	if err := root.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	s := &state{root: root}
	s.reset()
	return s, nil
}

func (s *state) reset() {
	s.check = s.root.CacheWrap()
	s.deliver = s.root.CacheWrap()
}

func (s *state) commit() (ledger.CommitID, error) {
	if err := s.deliver.Write(); err != nil {
		return ledger.CommitID{}, errors.Wrap(err, "flush deliver state")
	}
	s.check.Discard()
	id, err := s.root.Commit()
	if err != nil {
		return ledger.CommitID{}, err
	}
	s.reset()
	return id, nil
}

// committed is a throwaway view of the last version.
func (s *state) committed() ledger.ReadOnlyKVStore {
	return s.root.CacheWrap()
}

// Ledger internal keys start with "_ld:".
var chainIDKey = []byte("_ld:chainID")

func loadChainID(db ledger.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

// saveChainID records the chain id once. It can never be changed.
func saveChainID(db ledger.KVStore, chainID string) error {
	if !ledger.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	switch has, err := db.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case has:
		return errors.Wrap(errors.ErrState, "chain id already set")
	}
	return errors.Wrap(db.Set(chainIDKey, []byte(chainID)), "save chain id")
}
