package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp runs transactions through handler on top of a StoreApp. With
// debug set, internal errors are returned to the client in full.
type BaseApp struct {
	*StoreApp
	decoder ledger.TxDecoder
	handler ledger.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

func NewBaseApp(store *StoreApp, decoder ledger.TxDecoder, handler ledger.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: store, decoder: decoder, handler: handler, debug: debug}
}

// CheckTx validates a transaction for the mempool against the check state.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decode(raw)
	if err != nil {
		return ledger.CheckTxError(err, b.debug)
	}
	ctx := ledger.WithLogInfo(b.BlockContext(), "call", "check_tx", "path", ledger.GetPath(tx))
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return ledger.CheckOrError(res, err, b.debug)
}

// DeliverTx executes a transaction of the current block.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(raw)
	if err != nil {
		return ledger.DeliverTxError(err, b.debug)
	}
	ctx := ledger.WithLogInfo(b.BlockContext(), "call", "deliver_tx", "path", ledger.GetPath(tx))
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return ledger.DeliverOrError(res, err, b.debug)
}

// decode must survive any input, so a panicking decoder becomes an error.
func (b BaseApp) decode(raw []byte) (tx ledger.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(raw)
}
