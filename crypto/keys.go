// Package crypto holds the ed25519 keys and signatures used to
// authenticate transactions.
package crypto

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// ExtensionName is the extension of every condition derived from a key.
const ExtensionName = "sigs"

// PubKey verifies signatures and names the condition it satisfies.
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() ledger.Condition
}

// Signer signs messages. It does not expose the private key so that a
// hardware device can implement it.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// Method-less copies encoded by proto reflection.
type (
	publicKeyWire  PublicKey
	privateKeyWire PrivateKey
	signatureWire  Signature
)

func (m *publicKeyWire) Reset()         { *m = publicKeyWire{} }
func (m *publicKeyWire) String() string { return proto.CompactTextString(m) }
func (*publicKeyWire) ProtoMessage()    {}

func (m *privateKeyWire) Reset()         { *m = privateKeyWire{} }
func (m *privateKeyWire) String() string { return proto.CompactTextString(m) }
func (*privateKeyWire) ProtoMessage()    {}

func (m *signatureWire) Reset()         { *m = signatureWire{} }
func (m *signatureWire) String() string { return proto.CompactTextString(m) }
func (*signatureWire) ProtoMessage()    {}

var (
	_ ledger.Persistent = (*PublicKey)(nil)
	_ ledger.Persistent = (*PrivateKey)(nil)
	_ ledger.Persistent = (*Signature)(nil)
)

// Address of the condition this key satisfies, nil for an empty key.
func (p *PublicKey) Address() ledger.Address {
	if c := p.Condition(); c != nil {
		return c.Address()
	}
	return nil
}

// Marshal returns the protobuf encoding of the key.
func (p *PublicKey) Marshal() ([]byte, error) {
	return proto.Marshal((*publicKeyWire)(p))
}

// Unmarshal replaces the key with the decoded raw bytes.
func (p *PublicKey) Unmarshal(raw []byte) error {
	return decode(raw, (*publicKeyWire)(p))
}

// Marshal returns the protobuf encoding of the key.
func (p *PrivateKey) Marshal() ([]byte, error) {
	return proto.Marshal((*privateKeyWire)(p))
}

// Unmarshal replaces the key with the decoded raw bytes.
func (p *PrivateKey) Unmarshal(raw []byte) error {
	return decode(raw, (*privateKeyWire)(p))
}

// Marshal returns the protobuf encoding of the signature.
func (s *Signature) Marshal() ([]byte, error) {
	return proto.Marshal((*signatureWire)(s))
}

// Unmarshal replaces the signature with the decoded raw bytes.
func (s *Signature) Unmarshal(raw []byte) error {
	return decode(raw, (*signatureWire)(s))
}

func decode(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrapf(errors.ErrInput, "decode %T: %s", m, err)
	}
	return nil
}
