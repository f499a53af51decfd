package escrow

import (
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// BucketName is where the escrows are stored, keyed by the 8 byte
// big-endian encoded ID.
const BucketName = "escrow"

// Escrow life cycle as reported by Status.
const (
	StatusActive    = "active"
	StatusDelivered = "delivered"
	StatusReleased  = "released"
)

var _ orm.Model = (*Escrow)(nil)

// Validate checks the stored invariants.
func (e *Escrow) Validate() error {
	if e.ID == 0 {
		return errors.Wrap(errors.ErrModel, "missing id")
	}
	if err := e.Client.Validate(); err != nil {
		return errors.Wrap(err, "client")
	}
	if err := e.Freelancer.Validate(); err != nil {
		return errors.Wrap(err, "freelancer")
	}
	if e.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "amount must be positive")
	}
	return nil
}

// Status names the stage of the escrow. Released wins over delivered.
func (e *Escrow) Status() string {
	switch {
	case e.Released:
		return StatusReleased
	case e.Delivered:
		return StatusDelivered
	default:
		return StatusActive
	}
}

// Copy returns a deep copy of the escrow.
func (e *Escrow) Copy() *Escrow {
	c := *e
	c.Client = append([]byte(nil), e.Client...)
	c.Freelancer = append([]byte(nil), e.Freelancer...)
	return &c
}

// NewBucket returns the bucket holding all escrows.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Escrow{})
}

// NewSequence returns the sequence allocating escrow IDs.
func NewSequence() orm.Sequence {
	return orm.NewSequence(BucketName, "id")
}
