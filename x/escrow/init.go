package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Initializer loads the escrows declared in the genesis file.
type Initializer struct{}

var _ ledger.Initializer = (*Initializer)(nil)

// genesisEscrow is one entry of the "escrow" genesis section.
type genesisEscrow struct {
	Client     ledger.Address `json:"client"`
	Freelancer ledger.Address `json:"freelancer"`
	Amount     uint64         `json:"amount"`
	Delivered  bool           `json:"delivered"`
	Released   bool           `json:"released"`
}

// FromGenesis creates the escrows in the declared order, so the first one
// gets ID 1. Delivered and released flags are applied on behalf of the
// freelancer and the client.
func (*Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var escrows []genesisEscrow
	if err := opts.ReadOptions("escrow", &escrows); err != nil {
		return errors.Wrap(err, "escrow genesis")
	}

	ctrl := NewController()
	for i, e := range escrows {
		id, err := ctrl.Create(db, e.Client, e.Freelancer, e.Amount)
		if err != nil {
			return errors.Wrapf(err, "invalid escrow at position %d", i)
		}
		if e.Delivered {
			if err := ctrl.Deliver(db, id, e.Freelancer); err != nil {
				return errors.Wrapf(err, "cannot deliver escrow at position %d", i)
			}
		}
		if e.Released {
			if err := ctrl.Release(db, id, e.Client); err != nil {
				return errors.Wrapf(err, "cannot release escrow at position %d", i)
			}
		}
	}
	return nil
}
