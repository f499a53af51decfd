package escrow

import (
	"bytes"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store"
	"github.com/stretchr/testify/assert"
)

func TestControllerCreate(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	client := ledgertest.NewCondition().Address()
	freelancer := ledgertest.NewCondition().Address()

	var last uint64
	for _, amount := range []uint64{1, 100, 50, 1 << 40} {
		id, err := ctrl.Create(db, client, freelancer, amount)
		assert.Nil(t, err)
		if id <= last {
			t.Fatalf("id %d not greater than previous %d", id, last)
		}
		last = id

		esc, err := ctrl.Get(db, id)
		assert.Nil(t, err)
		assert.Equal(t, &Escrow{
			ID:         id,
			Client:     client,
			Freelancer: freelancer,
			Amount:     amount,
			Released:   false,
		}, esc)
	}
	assert.Equal(t, uint64(4), last)
}

func TestControllerCreateZeroAmount(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	client := ledgertest.NewCondition().Address()
	freelancer := ledgertest.NewCondition().Address()

	_, err := ctrl.Create(db, client, freelancer, 0)
	assert.True(t, errors.ErrInvalidAmount.Is(err), "got %v", err)

	// nothing was written, counter included
	itr, err := db.Iterator(nil, nil)
	assert.Nil(t, err)
	_, _, err = itr.Next()
	itr.Release()
	assert.True(t, errors.ErrIteratorDone.Is(err), "got %v", err)

	id, err := ctrl.Create(db, client, freelancer, 7)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), id)
}

func TestControllerCreateInvalidAddress(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	valid := ledgertest.NewCondition().Address()

	_, err := ctrl.Create(db, nil, valid, 10)
	assert.True(t, errors.ErrInput.Is(err), "got %v", err)
	_, err = ctrl.Create(db, valid, ledger.Address{1, 2}, 10)
	assert.True(t, errors.ErrInput.Is(err), "got %v", err)

	next, err := ctrl.NextID(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), next)
}

func TestControllerRelease(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	client := ledgertest.NewCondition().Address()
	freelancer := ledgertest.NewCondition().Address()

	id, err := ctrl.Create(db, client, freelancer, 100)
	assert.Nil(t, err)

	// the freelancer cannot release
	err = ctrl.Release(db, id, freelancer)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %v", err)
	esc, err := ctrl.Get(db, id)
	assert.Nil(t, err)
	assert.Equal(t, false, esc.Released)

	assert.Nil(t, ctrl.Release(db, id, client))
	esc, err = ctrl.Get(db, id)
	assert.Nil(t, err)
	assert.Equal(t, true, esc.Released)

	// releasing again is a success and the state stays the same
	assert.Nil(t, ctrl.Release(db, id, client))
	again, err := ctrl.Get(db, id)
	assert.Nil(t, err)
	assert.Equal(t, esc, again)

	// a released escrow is still protected
	err = ctrl.Release(db, id, freelancer)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %v", err)
}

func TestControllerNotFound(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	client := ledgertest.NewCondition().Address()

	_, err := ctrl.Get(db, 1)
	assert.True(t, errors.ErrNotFound.Is(err), "got %v", err)
	err = ctrl.Release(db, 1, client)
	assert.True(t, errors.ErrNotFound.Is(err), "got %v", err)

	id, err := ctrl.Create(db, client, ledgertest.NewCondition().Address(), 3)
	assert.Nil(t, err)
	_, err = ctrl.Get(db, id+1)
	assert.True(t, errors.ErrNotFound.Is(err), "got %v", err)
	_, err = ctrl.Get(db, 0)
	assert.True(t, errors.ErrNotFound.Is(err), "got %v", err)
}

func TestControllerGetReturnsSnapshot(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	client := ledgertest.NewCondition().Address()
	freelancer := ledgertest.NewCondition().Address()

	id, err := ctrl.Create(db, client, freelancer, 100)
	assert.Nil(t, err)

	esc, err := ctrl.Get(db, id)
	assert.Nil(t, err)
	esc.Released = true
	esc.Amount = 1
	esc.Client[0] ^= 0xff

	fresh, err := ctrl.Get(db, id)
	assert.Nil(t, err)
	assert.Equal(t, false, fresh.Released)
	assert.Equal(t, uint64(100), fresh.Amount)
	assert.Equal(t, client, fresh.Client)
}

func TestControllerCounterIsCommitted(t *testing.T) {
	db, cleanup := ledgertest.CommitKVStore(t)
	defer cleanup()

	ctrl := NewController()
	client := ledgertest.NewCondition().Address()
	freelancer := ledgertest.NewCondition().Address()

	cache := db.CacheWrap()
	id, err := ctrl.Create(cache, client, freelancer, 10)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), id)
	assert.Nil(t, cache.Write())
	_, err = db.Commit()
	assert.Nil(t, err)

	// a new controller continues from the committed counter
	ctrl = NewController()
	cache = db.CacheWrap()
	id, err = ctrl.Create(cache, client, freelancer, 20)
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), id)
}

// rejectingStore refuses to store escrows but accepts any other key, like
// the counter.
type rejectingStore struct {
	ledger.KVStore
}

func (s rejectingStore) Set(key, value []byte) error {
	if bytes.HasPrefix(key, []byte(BucketName+":")) {
		return errors.Wrap(errors.ErrDatabase, "no space left")
	}
	return s.KVStore.Set(key, value)
}

type rejectingCacheable struct {
	rejectingStore
	base ledger.CacheableKVStore
}

func (s rejectingCacheable) CacheWrap() ledger.KVCacheWrap {
	return rejectingCache{KVCacheWrap: s.base.CacheWrap()}
}

type rejectingCache struct {
	ledger.KVCacheWrap
}

func (c rejectingCache) Set(key, value []byte) error {
	return rejectingStore{KVStore: c.KVCacheWrap}.Set(key, value)
}

func TestControllerCreateFailureKeepsCounter(t *testing.T) {
	base := store.MemStore()
	db := rejectingCacheable{rejectingStore: rejectingStore{KVStore: base}, base: base}
	ctrl := NewController()
	client := ledgertest.NewCondition().Address()
	freelancer := ledgertest.NewCondition().Address()

	_, err := ctrl.Create(db, client, freelancer, 10)
	assert.True(t, errors.ErrDatabase.Is(err), "got %v", err)

	next, err := ctrl.NextID(base)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), next)

	id, err := ctrl.Create(base, client, freelancer, 10)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), id)
}

func TestControllerDeliver(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	client := ledgertest.NewCondition().Address()
	freelancer := ledgertest.NewCondition().Address()

	id, err := ctrl.Create(db, client, freelancer, 100)
	assert.Nil(t, err)
	esc, err := ctrl.Get(db, id)
	assert.Nil(t, err)
	assert.Equal(t, StatusActive, esc.Status())

	err = ctrl.Deliver(db, id, client)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %v", err)
	err = ctrl.Deliver(db, id+1, freelancer)
	assert.True(t, errors.ErrNotFound.Is(err), "got %v", err)

	for i := 0; i < 2; i++ {
		assert.Nil(t, ctrl.Deliver(db, id, freelancer))
		esc, err = ctrl.Get(db, id)
		assert.Nil(t, err)
		assert.True(t, esc.Delivered)
		assert.Equal(t, StatusDelivered, esc.Status())
	}

	assert.Nil(t, ctrl.Release(db, id, client))
	esc, err = ctrl.Get(db, id)
	assert.Nil(t, err)
	assert.Equal(t, StatusReleased, esc.Status())

	err = ctrl.Deliver(db, id, freelancer)
	assert.True(t, errors.ErrState.Is(err), "got %v", err)
}

func TestReleaseWithoutDelivery(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	client := ledgertest.NewCondition().Address()

	id, err := ctrl.Create(db, client, ledgertest.NewCondition().Address(), 5)
	assert.Nil(t, err)
	assert.Nil(t, ctrl.Release(db, id, client))

	esc, err := ctrl.Get(db, id)
	assert.Nil(t, err)
	assert.False(t, esc.Delivered)
	assert.Equal(t, StatusReleased, esc.Status())
}
