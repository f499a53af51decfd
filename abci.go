package ledger

import (
	"github.com/iov-one/ledger/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// CheckResult is the outcome of a successful Check.
type CheckResult struct {
	Data []byte
	Log  string
}

// ToABCI converts the result into a tendermint response.
func (r CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{Data: r.Data, Log: r.Log}
}

// DeliverResult is the outcome of a successful Deliver. Data usually holds
// the id of a created entity and Tags are indexed by tendermint so that
// transactions can be searched, for example by escrow id.
type DeliverResult struct {
	Data []byte
	Log  string
	Tags []common.KVPair
}

// ToABCI converts the result into a tendermint response.
func (r DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{Data: r.Data, Log: r.Log, Tags: r.Tags}
}

// CheckOrError builds the CheckTx response for a handler outcome.
func CheckOrError(res CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return res.ToABCI()
}

// DeliverOrError builds the DeliverTx response for a handler outcome.
func DeliverOrError(res DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return res.ToABCI()
}

// CheckTxError reports err with its ABCI code. Internal errors are only
// described in debug mode.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseCheckTx{Code: code, Log: failureLog("check", code, log)}
}

// DeliverTxError reports err with its ABCI code. Internal errors are only
// described in debug mode.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: failureLog("deliver", code, log)}
}

func failureLog(stage string, code uint32, log string) string {
	if code == errors.SuccessABCICode {
		return log
	}
	return "cannot " + stage + " tx: " + log
}
