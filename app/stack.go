package app

import (
	"reflect"

	"github.com/iov-one/ledger"
)

// Decorators is a stack of decorators waiting for its final handler.
type Decorators struct {
	stack []ledger.Decorator
}

// ChainDecorators starts a stack. The first decorator runs first. Nil
// entries are skipped, so optional decorators can be passed as is.
//
//	handler := app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//		utils.NewSavepoint().OnDeliver(),
//	).WithHandler(router)
func ChainDecorators(ds ...ledger.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a copy of the stack with ds added at the bottom.
func (d Decorators) Chain(ds ...ledger.Decorator) Decorators {
	stack := make([]ledger.Decorator, len(d.stack), len(d.stack)+len(ds))
	copy(stack, d.stack)
	for _, dec := range ds {
		if !isNilDecorator(dec) {
			stack = append(stack, dec)
		}
	}
	return Decorators{stack: stack}
}

func isNilDecorator(d ledger.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack with h.
func (d Decorators) WithHandler(h ledger.Handler) ledger.Handler {
	for i := len(d.stack) - 1; i >= 0; i-- {
		h = layer{decorator: d.stack[i], next: h}
	}
	return h
}

type layer struct {
	decorator ledger.Decorator
	next      ledger.Handler
}

func (l layer) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.CheckResult, error) {
	return l.decorator.Check(ctx, db, tx, l.next)
}

func (l layer) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.DeliverResult, error) {
	return l.decorator.Deliver(ctx, db, tx, l.next)
}

// ChainInitializers runs each initializer on the genesis in turn and stops
// at the first error.
func ChainInitializers(inits ...ledger.Initializer) ledger.Initializer {
	return initializers(inits)
}

type initializers []ledger.Initializer

func (all initializers) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	for _, i := range all {
		if err := i.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
