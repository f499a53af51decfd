package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

const (
	pathCreateMsg  = "escrow/create"
	pathReleaseMsg = "escrow/release"
	pathDeliverMsg = "escrow/deliver"
)

var (
	_ ledger.Msg = (*CreateMsg)(nil)
	_ ledger.Msg = (*ReleaseMsg)(nil)
	_ ledger.Msg = (*DeliverMsg)(nil)
)

func (CreateMsg) Path() string  { return pathCreateMsg }
func (ReleaseMsg) Path() string { return pathReleaseMsg }
func (DeliverMsg) Path() string { return pathDeliverMsg }

// Validate rejects a zero amount and malformed addresses.
func (m *CreateMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "amount must be positive")
	}
	if m.Client != nil {
		if err := m.Client.Validate(); err != nil {
			return errors.Wrap(err, "client")
		}
	}
	if err := m.Freelancer.Validate(); err != nil {
		return errors.Wrap(err, "freelancer")
	}
	return nil
}

func (m *ReleaseMsg) Validate() error {
	if m.EscrowID == 0 {
		return errors.Wrap(errors.ErrInput, "escrow id")
	}
	return nil
}

func (m *DeliverMsg) Validate() error {
	if m.EscrowID == 0 {
		return errors.Wrap(errors.ErrInput, "escrow id")
	}
	return nil
}
