package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
)

// UserData is the account of a signer, stored under its address.
type UserData struct {
	Pubkey   *crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64             `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

// StdSignature is one signature of a transaction together with the key
// that made it and the account sequence it was made for.
type StdSignature struct {
	Sequence  int64             `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Pubkey    *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Signature *crypto.Signature `protobuf:"bytes,3,opt,name=signature,proto3" json:"signature,omitempty"`
}

type (
	userDataWire     UserData
	stdSignatureWire StdSignature
)

func (m *userDataWire) Reset()         { *m = userDataWire{} }
func (m *userDataWire) String() string { return proto.CompactTextString(m) }
func (*userDataWire) ProtoMessage()    {}

func (m *stdSignatureWire) Reset()         { *m = stdSignatureWire{} }
func (m *stdSignatureWire) String() string { return proto.CompactTextString(m) }
func (*stdSignatureWire) ProtoMessage()    {}

var (
	_ ledger.Persistent = (*UserData)(nil)
	_ ledger.Persistent = (*StdSignature)(nil)
)

// Marshal returns the protobuf encoding of the account.
func (u *UserData) Marshal() ([]byte, error) {
	return proto.Marshal((*userDataWire)(u))
}

// Unmarshal replaces the account with the decoded raw bytes.
func (u *UserData) Unmarshal(raw []byte) error {
	return decode(raw, (*userDataWire)(u))
}

// Marshal returns the protobuf encoding of the signature.
func (s *StdSignature) Marshal() ([]byte, error) {
	return proto.Marshal((*stdSignatureWire)(s))
}

// Unmarshal replaces the signature with the decoded raw bytes.
func (s *StdSignature) Unmarshal(raw []byte) error {
	return decode(raw, (*stdSignatureWire)(s))
}

func decode(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrapf(errors.ErrInput, "decode %T: %s", m, err)
	}
	return nil
}
