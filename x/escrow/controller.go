package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// Controller implements the escrow bookkeeping. It owns the escrow bucket
// and the ID sequence, nothing else in this package writes to them.
//
// Controller does no authentication. Callers pass an attested client or
// caller address.
type Controller struct {
	bucket orm.ModelBucket
	seq    orm.Sequence
}

// NewController returns a controller using the default bucket and sequence.
func NewController() *Controller {
	return &Controller{
		bucket: NewBucket(),
		seq:    NewSequence(),
	}
}

// Create stores a new active escrow and returns its ID. IDs are allocated
// in increasing order, starting with 1. A zero amount is rejected with
// ErrInvalidAmount before anything is written.
//
// The ID is only consumed if the escrow is stored as well. When db can be
// cache wrapped both writes go through one savepoint.
func (c *Controller) Create(db ledger.KVStore, client, freelancer ledger.Address, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, errors.Wrap(errors.ErrInvalidAmount, "amount must be positive")
	}
	if err := client.Validate(); err != nil {
		return 0, errors.Wrap(err, "client")
	}
	if err := freelancer.Validate(); err != nil {
		return 0, errors.Wrap(err, "freelancer")
	}

	cacheable, ok := db.(ledger.CacheableKVStore)
	if !ok {
		return c.create(db, client, freelancer, amount)
	}
	cache := cacheable.CacheWrap()
	id, err := c.create(cache, client, freelancer, amount)
	if err != nil {
		cache.Discard()
		return 0, err
	}
	if err := cache.Write(); err != nil {
		return 0, errors.Wrap(err, "cannot write escrow")
	}
	return id, nil
}

func (c *Controller) create(db ledger.KVStore, client, freelancer ledger.Address, amount uint64) (uint64, error) {
	id, err := c.seq.NextID(db)
	if err != nil {
		return 0, errors.Wrap(err, "cannot acquire id")
	}
	esc := &Escrow{
		ID:         id,
		Client:     client,
		Freelancer: freelancer,
		Amount:     amount,
	}
	if err := c.bucket.Put(db, orm.EncodeID(id), esc); err != nil {
		return 0, errors.Wrap(err, "cannot store escrow")
	}
	return id, nil
}

// Release marks the escrow as released. Only the client of the escrow can
// release it. Releasing an already released escrow is a no-op.
func (c *Controller) Release(db ledger.KVStore, id uint64, caller ledger.Address) error {
	esc, err := c.Get(db, id)
	if err != nil {
		return err
	}
	if !esc.Client.Equals(caller) {
		return errors.Wrapf(errors.ErrUnauthorized, "only the client can release escrow %d", id)
	}
	if esc.Released {
		return nil
	}
	esc.Released = true
	return c.save(db, esc)
}

// Deliver records that the freelancer finished the work. Only the
// freelancer can do so and only before the escrow is released. Delivering
// twice is a no-op. Delivery is informative, the client may release with or
// without it.
func (c *Controller) Deliver(db ledger.KVStore, id uint64, caller ledger.Address) error {
	esc, err := c.Get(db, id)
	if err != nil {
		return err
	}
	if !esc.Freelancer.Equals(caller) {
		return errors.Wrapf(errors.ErrUnauthorized, "only the freelancer can deliver escrow %d", id)
	}
	if esc.Released {
		return errors.Wrapf(errors.ErrState, "escrow %d already released", id)
	}
	if esc.Delivered {
		return nil
	}
	esc.Delivered = true
	return c.save(db, esc)
}

func (c *Controller) save(db ledger.KVStore, esc *Escrow) error {
	if err := c.bucket.Put(db, orm.EncodeID(esc.ID), esc); err != nil {
		return errors.Wrap(err, "cannot store escrow")
	}
	return nil
}

// Get returns the escrow with given ID or ErrNotFound. Each call returns a
// freshly loaded instance, modifying it has no effect on the stored state.
func (c *Controller) Get(db ledger.ReadOnlyKVStore, id uint64) (*Escrow, error) {
	var esc Escrow
	if err := c.bucket.One(db, orm.EncodeID(id), &esc); err != nil {
		return nil, errors.Wrapf(err, "escrow %d", id)
	}
	return &esc, nil
}

// NextID returns the ID that the next created escrow will get.
func (c *Controller) NextID(db ledger.ReadOnlyKVStore) (uint64, error) {
	return c.seq.Peek(db)
}
