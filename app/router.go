package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

var validPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`)

// Router dispatches each transaction to the handler registered for the
// path of its message.
type Router struct {
	routes map[string]ledger.Handler
}

var (
	_ ledger.Registry = (*Router)(nil)
	_ ledger.Handler  = (*Router)(nil)
)

func NewRouter() *Router {
	return &Router{routes: map[string]ledger.Handler{}}
}

// Handle registers h for path. Malformed or taken paths panic.
func (r *Router) Handle(path string, h ledger.Handler) {
	if !validPath.MatchString(path) {
		panic(fmt.Sprintf("malformed route %q", path))
	}
	if _, taken := r.routes[path]; taken {
		panic(fmt.Sprintf("route %q registered twice", path))
	}
	r.routes[path] = h
}

// Handler returns the handler of path. Unknown paths get a handler that
// fails with ErrNotFound.
func (r *Router) Handler(path string) ledger.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return unknownRoute(path)
}

func (r *Router) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.CheckResult, error) {
	h, err := r.lookup(tx)
	if err != nil {
		return ledger.CheckResult{}, err
	}
	return h.Check(ctx, db, tx)
}

func (r *Router) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.DeliverResult, error) {
	h, err := r.lookup(tx)
	if err != nil {
		return ledger.DeliverResult{}, err
	}
	return h.Deliver(ctx, db, tx)
}

func (r *Router) lookup(tx ledger.Tx) (ledger.Handler, error) {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return nil, errors.Wrap(err, "read message")
	case msg == nil:
		return nil, errors.Wrap(errors.ErrMsg, "transaction without message")
	}
	return r.Handler(msg.Path()), nil
}

type unknownRoute string

func (p unknownRoute) Check(ledger.Context, ledger.KVStore, ledger.Tx) (ledger.CheckResult, error) {
	return ledger.CheckResult{}, p.err()
}

func (p unknownRoute) Deliver(ledger.Context, ledger.KVStore, ledger.Tx) (ledger.DeliverResult, error) {
	return ledger.DeliverResult{}, p.err()
}

func (p unknownRoute) err() error {
	return errors.Wrapf(errors.ErrNotFound, "no route for %q", string(p))
}
