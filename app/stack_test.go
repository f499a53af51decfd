package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/x/utils"
)

func TestDecoratorOrder(t *testing.T) {
	outer, middle, inner := &ledgertest.Decorator{}, &ledgertest.Decorator{}, &ledgertest.Decorator{}
	var unset *ledgertest.Decorator
	ctx := context.Background()

	base := ChainDecorators(outer, nil, unset)
	h := &ledgertest.Handler{}
	full := base.Chain(utils.NewRecovery(), middle).WithHandler(h)

	_, err := full.Check(ctx, nil, nil)
	require.NoError(t, err)
	_, err = full.Deliver(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, outer.CallCount())
	assert.Equal(t, 2, middle.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// Chain copies, the base stack is still just outer
	_, err = base.WithHandler(h).Deliver(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, outer.CallCount())
	assert.Equal(t, 2, middle.CallCount())

	crashing := base.Chain(utils.NewRecovery(), middle, inner).WithHandler(ledgertest.PanicHandler{Msg: "crash"})
	_, err = crashing.Deliver(ctx, nil, nil)
	assert.True(t, errors.ErrPanic.Is(err), "got %v", err)
	assert.Equal(t, 1, inner.CallCount())

	middle.CheckErr = errors.ErrUnauthorized
	_, err = crashing.Check(ctx, nil, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %v", err)
	assert.Equal(t, 1, inner.CallCount(), "stopped above inner")
}

type failingGenesis struct{ called *bool }

func (f failingGenesis) FromGenesis(ledger.Options, ledger.KVStore) error {
	*f.called = true
	return errors.ErrInput
}

func TestChainInitializers(t *testing.T) {
	db := store.MemStore()
	opts := ledger.Options{"note": []byte(`"hello"`)}

	require.NoError(t, ChainInitializers(noteGenesis{}).FromGenesis(opts, db))
	v, err := db.Get([]byte("note"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), v)

	var first, second bool
	err = ChainInitializers(failingGenesis{&first}, failingGenesis{&second}).FromGenesis(opts, db)
	assert.True(t, errors.ErrInput.Is(err))
	assert.True(t, first)
	assert.False(t, second)
}
