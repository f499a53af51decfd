package app

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
)

// Tx is a signed escrow operation. Exactly one of the message fields is
// set. codec.proto has the matching schema for clients.
type Tx struct {
	Signatures       []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	CreateEscrowMsg  *escrow.CreateMsg    `protobuf:"bytes,10,opt,name=create_escrow_msg,json=createEscrowMsg,proto3" json:"create_escrow_msg,omitempty"`
	ReleaseEscrowMsg *escrow.ReleaseMsg   `protobuf:"bytes,11,opt,name=release_escrow_msg,json=releaseEscrowMsg,proto3" json:"release_escrow_msg,omitempty"`
	DeliverEscrowMsg *escrow.DeliverMsg   `protobuf:"bytes,12,opt,name=deliver_escrow_msg,json=deliverEscrowMsg,proto3" json:"deliver_escrow_msg,omitempty"`
}

type txWire Tx

func (m *txWire) Reset()         { *m = txWire{} }
func (m *txWire) String() string { return proto.CompactTextString(m) }
func (*txWire) ProtoMessage()    {}

var (
	_ ledger.Tx     = (*Tx)(nil)
	_ sigs.SignedTx = (*Tx)(nil)
)

// NewTx wraps msg in an unsigned transaction. It panics for a message
// type this chain does not route.
func NewTx(msg ledger.Msg) *Tx {
	tx := &Tx{}
	if err := tx.SetMsg(msg); err != nil {
		panic(fmt.Sprintf("new tx: %s", err))
	}
	return tx
}

// SetMsg replaces the message of the transaction.
func (tx *Tx) SetMsg(msg ledger.Msg) error {
	unsigned := Tx{Signatures: tx.Signatures}
	switch m := msg.(type) {
	case *escrow.CreateMsg:
		unsigned.CreateEscrowMsg = m
	case *escrow.ReleaseMsg:
		unsigned.ReleaseEscrowMsg = m
	case *escrow.DeliverMsg:
		unsigned.DeliverEscrowMsg = m
	default:
		return errors.Wrapf(errors.ErrType, "no route for %T", msg)
	}
	*tx = unsigned
	return nil
}

// TxDecoder parses a Tx.
func TxDecoder(raw []byte) (ledger.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (tx *Tx) GetMsg() (ledger.Msg, error) {
	var found []ledger.Msg
	if tx.CreateEscrowMsg != nil {
		found = append(found, tx.CreateEscrowMsg)
	}
	if tx.ReleaseEscrowMsg != nil {
		found = append(found, tx.ReleaseEscrowMsg)
	}
	if tx.DeliverEscrowMsg != nil {
		found = append(found, tx.DeliverEscrowMsg)
	}
	switch len(found) {
	case 0:
		return nil, errors.Wrap(errors.ErrMsg, "transaction without message")
	case 1:
		return found[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "transaction with %d messages", len(found))
	}
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes encodes the transaction without its signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := *tx
	unsigned.Signatures = nil
	return unsigned.Marshal()
}

// Sign appends a signature of signer made for account sequence seq.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// Marshal returns the protobuf encoding of the transaction.
func (tx *Tx) Marshal() ([]byte, error) {
	return proto.Marshal((*txWire)(tx))
}

// Unmarshal replaces the transaction with the decoded raw bytes.
func (tx *Tx) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*txWire)(tx)); err != nil {
		return errors.Wrapf(errors.ErrInput, "decode tx: %s", err)
	}
	return nil
}
