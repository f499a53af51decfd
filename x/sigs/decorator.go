package sigs

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x"
)

type signersKey struct{}

// Authenticate reads the signers the Decorator put into the context.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetConditions(ctx ledger.Context) []ledger.Condition {
	conds, _ := ctx.Value(signersKey{}).([]ledger.Condition)
	return conds
}

func (a Authenticate) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}

// RegisterQuery exposes the accounts under "/auth".
func RegisterQuery(qr ledger.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signatures of a SignedTx and records the signers
// in the context. Transactions that cannot carry signatures pass through
// unchanged.
type Decorator struct {
	allowMissingSigs bool
}

var _ ledger.Decorator = Decorator{}

// NewDecorator requires at least one signature on every SignedTx.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs lets a SignedTx without signatures through.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

func (d Decorator) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (ledger.CheckResult, error) {
	ctx, err := d.withSigners(ctx, db, tx)
	if err != nil {
		return ledger.CheckResult{}, err
	}
	return next.Check(ctx, db, tx)
}

func (d Decorator) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (ledger.DeliverResult, error) {
	ctx, err := d.withSigners(ctx, db, tx)
	if err != nil {
		return ledger.DeliverResult{}, err
	}
	return next.Deliver(ctx, db, tx)
}

func (d Decorator) withSigners(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, nil
	}
	signers, err := VerifyTxSignatures(db, stx, ledger.GetChainID(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, errors.Wrap(errors.ErrUnauthorized, "unsigned transaction")
	}
	return context.WithValue(ctx, signersKey{}, signers), nil
}
