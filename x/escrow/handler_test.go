package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/store"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/common"
)

type handlerRouter map[string]ledger.Handler

func (r handlerRouter) Handle(path string, h ledger.Handler) {
	r[path] = h
}

func newHandlers(t *testing.T, auth *ledgertest.CtxAuth) handlerRouter {
	t.Helper()
	r := make(handlerRouter)
	RegisterRoutes(r, auth, nil)
	if len(r) != 3 {
		t.Fatalf("want 3 handlers, got %d", len(r))
	}
	return r
}

func TestCreateEscrowHandler(t *testing.T) {
	client := ledgertest.NewCondition()
	other := ledgertest.NewCondition()
	freelancer := ledgertest.NewCondition().Address()

	auth := &ledgertest.CtxAuth{Key: "auth"}

	cases := map[string]struct {
		signers    []ledger.Condition
		msg        ledger.Msg
		wantErr    *errors.Error
		wantClient ledger.Address
	}{
		"client defaults to main signer": {
			signers:    []ledger.Condition{client},
			msg:        &CreateMsg{Freelancer: freelancer, Amount: 100},
			wantClient: client.Address(),
		},
		"explicit client that signed": {
			signers:    []ledger.Condition{other, client},
			msg:        &CreateMsg{Client: client.Address(), Freelancer: freelancer, Amount: 100},
			wantClient: client.Address(),
		},
		"explicit client that did not sign": {
			signers: []ledger.Condition{other},
			msg:     &CreateMsg{Client: client.Address(), Freelancer: freelancer, Amount: 100},
			wantErr: errors.ErrUnauthorized,
		},
		"no signature": {
			msg:     &CreateMsg{Freelancer: freelancer, Amount: 100},
			wantErr: errors.ErrUnauthorized,
		},
		"zero amount": {
			signers: []ledger.Condition{client},
			msg:     &CreateMsg{Freelancer: freelancer, Amount: 0},
			wantErr: errors.ErrInvalidAmount,
		},
		"missing freelancer": {
			signers: []ledger.Condition{client},
			msg:     &CreateMsg{Amount: 100},
			wantErr: errors.ErrInput,
		},
		"wrong message type": {
			signers: []ledger.Condition{client},
			msg:     &ReleaseMsg{EscrowID: 1},
			wantErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			h := newHandlers(t, auth)[pathCreateMsg]
			db := store.MemStore()
			ctx := auth.SetConditions(context.Background(), tc.signers...)
			tx := &ledgertest.Tx{Msg: tc.msg}

			cache := db.CacheWrap()
			_, err := h.Check(ctx, cache, tx)
			cache.Discard()
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
			} else {
				assert.Nil(t, err)
			}

			res, err := h.Deliver(ctx, db, tx)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
				next, err := NewController().NextID(db)
				assert.Nil(t, err)
				assert.Equal(t, uint64(1), next)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, orm.EncodeID(1), res.Data)
			assert.Equal(t, []common.KVPair{
				{Key: []byte(TagID), Value: []byte("1")},
				{Key: []byte(TagAction), Value: []byte("create")},
			}, res.Tags)

			esc, err := NewController().Get(db, 1)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantClient, esc.Client)
			assert.Equal(t, freelancer, esc.Freelancer)
			assert.Equal(t, uint64(100), esc.Amount)
			assert.Equal(t, false, esc.Released)
		})
	}
}

func TestCreateEscrowHandlerCheckDoesNotWrite(t *testing.T) {
	client := ledgertest.NewCondition()
	auth := &ledgertest.CtxAuth{Key: "auth"}
	h := newHandlers(t, auth)[pathCreateMsg]

	db := store.MemStore()
	ctx := auth.SetConditions(context.Background(), client)
	tx := &ledgertest.Tx{Msg: &CreateMsg{Freelancer: ledgertest.NewCondition().Address(), Amount: 1}}

	_, err := h.Check(ctx, db, tx)
	assert.Nil(t, err)
	next, err := NewController().NextID(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), next)
}

func TestReleaseEscrowHandler(t *testing.T) {
	client := ledgertest.NewCondition()
	freelancer := ledgertest.NewCondition()

	auth := &ledgertest.CtxAuth{Key: "auth"}

	cases := map[string]struct {
		signers      []ledger.Condition
		escrowID     uint64
		preReleased  bool
		wantErr      *errors.Error
		wantReleased bool
	}{
		"client releases": {
			signers:      []ledger.Condition{client},
			escrowID:     1,
			wantReleased: true,
		},
		"client releases twice": {
			signers:      []ledger.Condition{client},
			escrowID:     1,
			preReleased:  true,
			wantReleased: true,
		},
		"freelancer cannot release": {
			signers:  []ledger.Condition{freelancer},
			escrowID: 1,
			wantErr:  errors.ErrUnauthorized,
		},
		"client must be the main signer": {
			signers:  []ledger.Condition{freelancer, client},
			escrowID: 1,
			wantErr:  errors.ErrUnauthorized,
		},
		"no signature": {
			escrowID: 1,
			wantErr:  errors.ErrUnauthorized,
		},
		"unknown escrow": {
			signers:  []ledger.Condition{client},
			escrowID: 2,
			wantErr:  errors.ErrNotFound,
		},
		"zero id": {
			signers:  []ledger.Condition{client},
			escrowID: 0,
			wantErr:  errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			h := newHandlers(t, auth)[pathReleaseMsg]
			db := store.MemStore()
			ctrl := NewController()
			id, err := ctrl.Create(db, client.Address(), freelancer.Address(), 100)
			assert.Nil(t, err)
			if tc.preReleased {
				assert.Nil(t, ctrl.Release(db, id, client.Address()))
			}

			ctx := auth.SetConditions(context.Background(), tc.signers...)
			tx := &ledgertest.Tx{Msg: &ReleaseMsg{EscrowID: tc.escrowID}}

			_, err = h.Check(ctx, db, tx)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
			} else {
				assert.Nil(t, err)
			}
			// check never writes
			esc, err := ctrl.Get(db, id)
			assert.Nil(t, err)
			assert.Equal(t, tc.preReleased, esc.Released)

			res, err := h.Deliver(ctx, db, tx)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
			} else {
				assert.Nil(t, err)
				assert.Equal(t, []common.KVPair{
					{Key: []byte(TagID), Value: []byte("1")},
					{Key: []byte(TagAction), Value: []byte("release")},
				}, res.Tags)
			}

			esc, err = ctrl.Get(db, id)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantReleased || tc.preReleased, esc.Released)
		})
	}
}

func TestDeliverEscrowHandler(t *testing.T) {
	client := ledgertest.NewCondition()
	freelancer := ledgertest.NewCondition()
	auth := &ledgertest.CtxAuth{Key: "auth"}

	cases := map[string]struct {
		signer        ledger.Condition
		released      bool
		wantErr       *errors.Error
		wantDelivered bool
	}{
		"freelancer delivers": {
			signer:        freelancer,
			wantDelivered: true,
		},
		"client cannot deliver": {
			signer:  client,
			wantErr: errors.ErrUnauthorized,
		},
		"no signature": {
			wantErr: errors.ErrUnauthorized,
		},
		"released escrow": {
			signer:   freelancer,
			released: true,
			wantErr:  errors.ErrState,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			h := newHandlers(t, auth)[pathDeliverMsg]
			db := store.MemStore()
			ctrl := NewController()
			id, err := ctrl.Create(db, client.Address(), freelancer.Address(), 100)
			assert.Nil(t, err)
			if tc.released {
				assert.Nil(t, ctrl.Release(db, id, client.Address()))
			}

			ctx := context.Background()
			if tc.signer != nil {
				ctx = auth.SetConditions(ctx, tc.signer)
			}
			tx := &ledgertest.Tx{Msg: &DeliverMsg{EscrowID: id}}

			_, err = h.Check(ctx, db, tx)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
			} else {
				assert.Nil(t, err)
			}
			esc, err := ctrl.Get(db, id)
			assert.Nil(t, err)
			assert.False(t, esc.Delivered)

			res, err := h.Deliver(ctx, db, tx)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
			} else {
				assert.Nil(t, err)
				assert.Equal(t, []common.KVPair{
					{Key: []byte(TagID), Value: []byte("1")},
					{Key: []byte(TagAction), Value: []byte("deliver")},
				}, res.Tags)
			}
			esc, err = ctrl.Get(db, id)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantDelivered, esc.Delivered)
		})
	}
}

func TestRegisterQuery(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	client := ledgertest.NewCondition().Address()
	freelancer := ledgertest.NewCondition().Address()
	for i := 0; i < 3; i++ {
		_, err := ctrl.Create(db, client, freelancer, uint64(10+i))
		assert.Nil(t, err)
	}

	qr := ledger.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/escrows")
	if h == nil {
		t.Fatal("escrow query handler not registered")
	}

	res, err := h.Query(db, ledger.KeyQueryMod, orm.EncodeID(2))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	var esc Escrow
	assert.Nil(t, esc.Unmarshal(res[0].Value))
	assert.Equal(t, uint64(2), esc.ID)
	assert.Equal(t, uint64(11), esc.Amount)

	// empty prefix lists all escrows in ID order
	res, err = h.Query(db, ledger.PrefixQueryMod, nil)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(res))
	for i, m := range res {
		assert.Nil(t, esc.Unmarshal(m.Value))
		assert.Equal(t, uint64(i+1), esc.ID)
	}
}
