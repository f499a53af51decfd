package ledgertest

import (
	"context"
	"fmt"

	"github.com/iov-one/ledger"
)

// Msg routes to RoutePath and encodes to Serialized. A non nil Err is
// returned by Validate and both codec methods.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ ledger.Msg = (*Msg)(nil)

func (m *Msg) Path() string               { return m.RoutePath }
func (m *Msg) Validate() error            { return m.Err }
func (m *Msg) Marshal() ([]byte, error)   { return m.Serialized, m.Err }
func (m *Msg) Unmarshal(raw []byte) error { m.Serialized = raw; return m.Err }

// Tx holds one message. GetMsg returns Err alongside it. Tx cannot be
// encoded; use it only where nothing serializes the transaction.
type Tx struct {
	Msg ledger.Msg
	Err error
}

var _ ledger.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (ledger.Msg, error) { return tx.Msg, tx.Err }
func (tx *Tx) Marshal() ([]byte, error)    { panic("ledgertest.Tx cannot be marshalled") }
func (tx *Tx) Unmarshal([]byte) error      { panic("ledgertest.Tx cannot be unmarshalled") }

// counter tracks the calls of a mock.
type counter struct {
	checks, delivers int
}

func (c *counter) CheckCallCount() int   { return c.checks }
func (c *counter) DeliverCallCount() int { return c.delivers }
func (c *counter) CallCount() int        { return c.checks + c.delivers }

// Handler answers with the preset result and error of each phase.
type Handler struct {
	counter
	CheckResult   ledger.CheckResult
	CheckErr      error
	DeliverResult ledger.DeliverResult
	DeliverErr    error
}

var _ ledger.Handler = (*Handler)(nil)

func (h *Handler) Check(ledger.Context, ledger.KVStore, ledger.Tx) (ledger.CheckResult, error) {
	h.checks++
	return h.CheckResult, h.CheckErr
}

func (h *Handler) Deliver(ledger.Context, ledger.KVStore, ledger.Tx) (ledger.DeliverResult, error) {
	h.delivers++
	return h.DeliverResult, h.DeliverErr
}

// WriteHandler sets Key to Value and then fails with Err, if set. It shows
// whether the writes of a failed transaction are rolled back.
type WriteHandler struct {
	Key, Value []byte
	Err        error
}

var _ ledger.Handler = WriteHandler{}

func (h WriteHandler) Check(_ ledger.Context, db ledger.KVStore, _ ledger.Tx) (ledger.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return ledger.CheckResult{}, err
	}
	return ledger.CheckResult{}, h.Err
}

func (h WriteHandler) Deliver(_ ledger.Context, db ledger.KVStore, _ ledger.Tx) (ledger.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return ledger.DeliverResult{}, err
	}
	return ledger.DeliverResult{}, h.Err
}

// PanicHandler panics with Msg.
type PanicHandler struct {
	Msg string
}

var _ ledger.Handler = PanicHandler{}

func (h PanicHandler) Check(ledger.Context, ledger.KVStore, ledger.Tx) (ledger.CheckResult, error) {
	panic(h.Msg)
}

func (h PanicHandler) Deliver(ledger.Context, ledger.KVStore, ledger.Tx) (ledger.DeliverResult, error) {
	panic(h.Msg)
}

// Decorator fails a phase with CheckErr or DeliverErr when set and calls
// the next step otherwise. Calls are counted either way.
type Decorator struct {
	counter
	CheckErr   error
	DeliverErr error
}

var _ ledger.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (ledger.CheckResult, error) {
	d.checks++
	if d.CheckErr != nil {
		return ledger.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (ledger.DeliverResult, error) {
	d.delivers++
	if d.DeliverErr != nil {
		return ledger.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Decorate puts d in front of h.
func Decorate(h ledger.Handler, d ledger.Decorator) ledger.Handler {
	return decorated{handler: h, decorator: d}
}

type decorated struct {
	handler   ledger.Handler
	decorator ledger.Decorator
}

func (d decorated) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.CheckResult, error) {
	return d.decorator.Check(ctx, db, tx, d.handler)
}

func (d decorated) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.DeliverResult, error) {
	return d.decorator.Deliver(ctx, db, tx, d.handler)
}

// CtxAuth authenticates the conditions stored in the context under Key,
// so that every call can act for a different signer.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

// SetConditions returns ctx authenticating conds.
func (a *CtxAuth) SetConditions(ctx ledger.Context, conds ...ledger.Condition) ledger.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx ledger.Context) []ledger.Condition {
	switch v := ctx.Value(ctxAuthKey(a.Key)).(type) {
	case nil:
		return nil
	case []ledger.Condition:
		return v
	default:
		panic(fmt.Sprintf("ledgertest: %T stored as conditions", v))
	}
}

func (a *CtxAuth) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
