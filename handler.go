package ledger

import (
	"encoding/json"

	"github.com/iov-one/ledger/errors"
)

// Checker validates a transaction against the check state without
// committing to its effects.
type Checker interface {
	Check(ctx Context, db KVStore, tx Tx) (CheckResult, error)
}

// Deliverer executes a transaction included in a block.
type Deliverer interface {
	Deliver(ctx Context, db KVStore, tx Tx) (DeliverResult, error)
}

// Handler processes the messages routed to it, for example creating or
// releasing an escrow.
type Handler interface {
	Checker
	Deliverer
}

// Decorator runs around the next Checker or Deliverer of a chain. It may
// enrich the context, reject the transaction or post-process the result.
type Decorator interface {
	Check(ctx Context, db KVStore, tx Tx, next Checker) (CheckResult, error)
	Deliver(ctx Context, db KVStore, tx Tx, next Deliverer) (DeliverResult, error)
}

// Registry binds message paths to handlers.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the genesis app_state: raw JSON per extension name.
type Options map[string]json.RawMessage

// ReadOptions decodes the section stored under key into obj. A missing
// section leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %q: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of one extension.
type Initializer interface {
	FromGenesis(opts Options, db KVStore) error
}
