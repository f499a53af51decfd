package utils

import (
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/tendermint/tendermint/libs/common"
)

// Recovery turns a panic further down the stack into an ErrPanic.
type Recovery struct{}

var _ ledger.Decorator = Recovery{}

func NewRecovery() Recovery { return Recovery{} }

func (Recovery) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (res ledger.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (res ledger.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

// Logging writes one line per transaction with its path, duration and
// result. Failures are logged as errors, delivered transactions as info
// and checked ones as debug.
type Logging struct{}

var _ ledger.Decorator = Logging{}

func NewLogging() Logging { return Logging{} }

func (Logging) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (ledger.CheckResult, error) {
	began := time.Now()
	res, err := next.Check(ctx, db, tx)
	logResult(ctx, tx, began, res.Log, err, false)
	return res, err
}

func (Logging) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (ledger.DeliverResult, error) {
	began := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	logResult(ctx, tx, began, res.Log, err, true)
	return res, err
}

func logResult(ctx ledger.Context, tx ledger.Tx, began time.Time, msg string, err error, delivered bool) {
	logger := ledger.GetLogger(ctx).With("duration", time.Since(began)/time.Microsecond)
	if tx != nil {
		logger = logger.With("path", ledger.GetPath(tx))
	}
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case delivered:
		logger.Info(msg)
	default:
		logger.Debug(msg)
	}
}

// ActionKey is the tag naming the path of a delivered message, for
// example "action=escrow/release".
const ActionKey = "action"

// ActionTagger tags successful deliveries with ActionKey so that clients
// can search and subscribe by message type.
type ActionTagger struct{}

var _ ledger.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger { return ActionTagger{} }

func (ActionTagger) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (ledger.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (ledger.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return ledger.DeliverResult{}, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return ledger.DeliverResult{}, err
	}
	res.Tags = append(res.Tags, common.KVPair{Key: []byte(ActionKey), Value: []byte(msg.Path())})
	return res, nil
}
