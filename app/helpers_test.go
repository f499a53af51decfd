package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
)

// rawQuery answers with the value stored under the queried key.
type rawQuery struct{}

func (rawQuery) Query(db ledger.ReadOnlyKVStore, mod string, key []byte) ([]ledger.Model, error) {
	if mod != ledger.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "modifier %q", mod)
	}
	v, err := db.Get(key)
	if err != nil || v == nil {
		return nil, err
	}
	return []ledger.Model{ledger.Pair(key, v)}, nil
}

// noteGenesis stores the "note" section of the genesis.
type noteGenesis struct{}

func (noteGenesis) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var note string
	if err := opts.ReadOptions("note", &note); err != nil {
		return err
	}
	return db.Set([]byte("note"), []byte(note))
}

func newStoreApp(t testing.TB, db ledger.CommitKVStore) *StoreApp {
	t.Helper()
	qr := ledger.NewQueryRouter()
	qr.Register("/raw", rawQuery{})
	return NewStoreApp("ledger-test", db, qr, context.Background()).WithInit(ChainInitializers(noteGenesis{}))
}

// queryValues returns the values found for key in the committed state.
func queryValues(t testing.TB, s *StoreApp, key string) [][]byte {
	t.Helper()
	res := s.Query(abci.RequestQuery{Path: "/raw", Data: []byte(key)})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var set ResultSet
	require.NoError(t, set.Unmarshal(res.Value))
	return set.Results
}

// routeDecoder treats the raw transaction as the path of its message.
func routeDecoder(raw []byte) (ledger.Tx, error) {
	switch string(raw) {
	case "":
		return nil, errors.Wrap(errors.ErrInput, "empty transaction")
	case "explode":
		panic("decoder exploded")
	}
	return &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: string(raw)}}, nil
}

func beginBlock(s *StoreApp, height int64) {
	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: height}})
}
