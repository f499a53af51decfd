package sigs

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/ledgertest"
)

// payloadTx signs the raw bytes of its message.
type payloadTx struct {
	ledgertest.Tx
	Signatures []*StdSignature
}

var (
	_ SignedTx  = (*payloadTx)(nil)
	_ ledger.Tx = (*payloadTx)(nil)
)

func newPayloadTx(payload []byte) *payloadTx {
	return &payloadTx{Tx: ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "test/payload", Serialized: payload}}}
}

func (tx *payloadTx) GetSignatures() []*StdSignature { return tx.Signatures }

func (tx *payloadTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// recordSigners remembers the conditions it was called with.
type recordSigners struct {
	seen []ledger.Condition
}

func (r *recordSigners) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.CheckResult, error) {
	r.seen = Authenticate{}.GetConditions(ctx)
	return ledger.CheckResult{}, nil
}

func (r *recordSigners) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.DeliverResult, error) {
	r.seen = Authenticate{}.GetConditions(ctx)
	return ledger.DeliverResult{}, nil
}
