package sigs

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// ErrInvalidSequence rejects a signature made for another account
// sequence. Codes 120 to 129 belong to this package.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")

// BucketName prefixes all accounts in the store.
const BucketName = "sigs"

// Clients keep the sequence in a javascript number, so it must stay an
// exact integer there.
const maxSequenceValue = 1<<53 - 1

var _ orm.Model = (*UserData)(nil)

// Validate checks the account on its own.
func (u *UserData) Validate() error {
	switch {
	case u.Sequence < 0:
		return errors.Wrapf(ErrInvalidSequence, "sequence %d", u.Sequence)
	case u.Sequence > 0 && u.Pubkey == nil:
		return errors.Wrap(ErrInvalidSequence, "used account without key")
	}
	return nil
}

// CheckAndIncrementSequence moves the sequence forward by one if it equals
// expected. The account is left untouched on error.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "have %d, signed for %d", u.Sequence, expected)
	}
	if u.Sequence >= maxSequenceValue {
		return errors.Wrapf(errors.ErrOverflow, "sequence %d", u.Sequence)
	}
	u.Sequence++
	return nil
}

// Bucket keeps the accounts, keyed by address.
type Bucket struct {
	orm.ModelBucket
}

func NewBucket() Bucket {
	return Bucket{ModelBucket: orm.NewModelBucket(BucketName, &UserData{})}
}

// Get returns the account at addr, or nil when nobody signed with it yet.
func (b Bucket) Get(db ledger.ReadOnlyKVStore, addr ledger.Address) (*UserData, error) {
	var u UserData
	err := b.One(db, addr, &u)
	if errors.ErrNotFound.Is(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetOrCreate returns the account of pubkey, or a fresh one at sequence
// zero. A fresh account is not stored until Save.
func (b Bucket) GetOrCreate(db ledger.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	u, err := b.Get(db, pubkey.Address())
	if err != nil || u != nil {
		return u, err
	}
	return &UserData{Pubkey: pubkey}, nil
}

// Save writes the account under the address of its key.
func (b Bucket) Save(db ledger.KVStore, u *UserData) error {
	if u.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "account without key")
	}
	return b.Put(db, u.Pubkey.Address(), u)
}

// NextNonce is the sequence the next signature of signer must carry.
func NextNonce(db ledger.ReadOnlyKVStore, signer ledger.Address) (int64, error) {
	u, err := NewBucket().Get(db, signer)
	switch {
	case err != nil:
		return 0, errors.Wrap(err, "load account")
	case u == nil:
		return 0, nil
	}
	return u.Sequence, nil
}
