package escrow

import (
	"strconv"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/x"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	// TagID is the key of the tag carrying the decimal escrow ID.
	TagID = "escrow.id"
	// TagAction is the key of the tag carrying the executed action.
	TagAction = "escrow.action"
)

// RegisterRoutes will instantiate and register
// all handlers in this package. Metrics may be nil.
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, metrics *Metrics) {
	ctrl := NewController()
	r.Handle(pathCreateMsg, CreateEscrowHandler{auth: auth, ctrl: ctrl, metrics: metrics})
	r.Handle(pathReleaseMsg, ReleaseEscrowHandler{auth: auth, ctrl: ctrl, metrics: metrics})
	r.Handle(pathDeliverMsg, DeliverEscrowHandler{auth: auth, ctrl: ctrl, metrics: metrics})
}

// RegisterQuery will register this bucket as "/escrows"
func RegisterQuery(qr ledger.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// CreateEscrowHandler stores a new escrow on behalf of the client.
type CreateEscrowHandler struct {
	auth    x.Authenticator
	ctrl    *Controller
	metrics *Metrics
}

var _ ledger.Handler = CreateEscrowHandler{}

// Check verifies the message is well formed and signed by the client.
func (h CreateEscrowHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.CheckResult, error) {
	_, _, err := h.validate(ctx, tx)
	return ledger.CheckResult{}, err
}

// Deliver creates the escrow and returns its ID, encoded as 8 bytes
// big-endian, as the result data.
func (h CreateEscrowHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.DeliverResult, error) {
	msg, client, err := h.validate(ctx, tx)
	if err != nil {
		h.metrics.incRejected(pathCreateMsg)
		return ledger.DeliverResult{}, err
	}
	id, err := h.ctrl.Create(db, client, msg.Freelancer, msg.Amount)
	if err != nil {
		h.metrics.incRejected(pathCreateMsg)
		return ledger.DeliverResult{}, err
	}
	h.metrics.incCreated()
	return ledger.DeliverResult{
		Data: orm.EncodeID(id),
		Tags: tags(id, "create"),
	}, nil
}

// validate returns the message and the client address.
func (h CreateEscrowHandler) validate(ctx ledger.Context, tx ledger.Tx) (*CreateMsg, ledger.Address, error) {
	var msg CreateMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if msg.Client == nil {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
		}
		return &msg, signer.Address(), nil
	}
	if !h.auth.HasAddress(ctx, msg.Client) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "client did not sign")
	}
	return &msg, msg.Client, nil
}

// ReleaseEscrowHandler marks an escrow as released. It must be signed by
// the client of the escrow.
type ReleaseEscrowHandler struct {
	auth    x.Authenticator
	ctrl    *Controller
	metrics *Metrics
}

var _ ledger.Handler = ReleaseEscrowHandler{}

// Check runs the release against a throwaway cache so that it fails
// exactly when Deliver would.
func (h ReleaseEscrowHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.CheckResult, error) {
	var msg ReleaseMsg
	caller, err := loadSigned(ctx, h.auth, tx, &msg)
	if err != nil {
		return ledger.CheckResult{}, err
	}
	return ledger.CheckResult{}, h.ctrl.Release(store.NewCache(db), msg.EscrowID, caller)
}

// Deliver releases the escrow.
func (h ReleaseEscrowHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.DeliverResult, error) {
	var msg ReleaseMsg
	caller, err := loadSigned(ctx, h.auth, tx, &msg)
	if err == nil {
		err = h.ctrl.Release(db, msg.EscrowID, caller)
	}
	if err != nil {
		h.metrics.incRejected(pathReleaseMsg)
		return ledger.DeliverResult{}, err
	}
	h.metrics.incReleased()
	return ledger.DeliverResult{Tags: tags(msg.EscrowID, "release")}, nil
}

// DeliverEscrowHandler lets the freelancer mark the work as delivered.
type DeliverEscrowHandler struct {
	auth    x.Authenticator
	ctrl    *Controller
	metrics *Metrics
}

var _ ledger.Handler = DeliverEscrowHandler{}

func (h DeliverEscrowHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.CheckResult, error) {
	var msg DeliverMsg
	caller, err := loadSigned(ctx, h.auth, tx, &msg)
	if err != nil {
		return ledger.CheckResult{}, err
	}
	return ledger.CheckResult{}, h.ctrl.Deliver(store.NewCache(db), msg.EscrowID, caller)
}

func (h DeliverEscrowHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (ledger.DeliverResult, error) {
	var msg DeliverMsg
	caller, err := loadSigned(ctx, h.auth, tx, &msg)
	if err == nil {
		err = h.ctrl.Deliver(db, msg.EscrowID, caller)
	}
	if err != nil {
		h.metrics.incRejected(pathDeliverMsg)
		return ledger.DeliverResult{}, err
	}
	h.metrics.incDelivered()
	return ledger.DeliverResult{Tags: tags(msg.EscrowID, "deliver")}, nil
}

// loadSigned loads the message of tx into dest and returns the address of
// the main signer.
func loadSigned(ctx ledger.Context, auth x.Authenticator, tx ledger.Tx, dest ledger.Msg) (ledger.Address, error) {
	if err := ledger.LoadMsg(tx, dest); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return signer.Address(), nil
}

func tags(id uint64, action string) []common.KVPair {
	return []common.KVPair{
		{Key: []byte(TagID), Value: []byte(strconv.FormatUint(id, 10))},
		{Key: []byte(TagAction), Value: []byte(action)},
	}
}
