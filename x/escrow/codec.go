package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Escrow is the stored state of a payment agreement. codec.proto describes
// the same layout.
type Escrow struct {
	// ID is the sequence number allocated at creation.
	ID uint64 `protobuf:"varint,1,opt,name=id,proto3" json:"id"`
	// Client deposited the funds and is the only one allowed to release
	// them.
	Client ledger.Address `protobuf:"bytes,2,opt,name=client,proto3" json:"client"`
	// Freelancer is the recipient of the funds.
	Freelancer ledger.Address `protobuf:"bytes,3,opt,name=freelancer,proto3" json:"freelancer"`
	Amount     uint64         `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
	Released   bool           `protobuf:"varint,5,opt,name=released,proto3" json:"released"`
	// Delivered is set once the freelancer reports the work as done.
	Delivered bool `protobuf:"varint,6,opt,name=delivered,proto3" json:"delivered,omitempty"`
}

// CreateMsg asks for a new escrow. Without Client the main signer of the
// transaction is the client.
type CreateMsg struct {
	Client     ledger.Address `protobuf:"bytes,1,opt,name=client,proto3" json:"client,omitempty"`
	Freelancer ledger.Address `protobuf:"bytes,2,opt,name=freelancer,proto3" json:"freelancer"`
	Amount     uint64         `protobuf:"varint,3,opt,name=amount,proto3" json:"amount"`
}

// ReleaseMsg releases an escrow. It must be signed by the client.
type ReleaseMsg struct {
	EscrowID uint64 `protobuf:"varint,1,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id"`
}

// DeliverMsg reports the work of an escrow as done. It must be signed by
// the freelancer.
type DeliverMsg struct {
	EscrowID uint64 `protobuf:"varint,1,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id"`
}

// The wire types share the layout of the public types but have none of
// their methods, so that proto.Marshal encodes them by reflection instead
// of calling back into Marshal.
type (
	escrowWire     Escrow
	createMsgWire  CreateMsg
	releaseMsgWire ReleaseMsg
	deliverMsgWire DeliverMsg
)

func (m *escrowWire) Reset()         { *m = escrowWire{} }
func (m *escrowWire) String() string { return proto.CompactTextString(m) }
func (*escrowWire) ProtoMessage()    {}

func (m *createMsgWire) Reset()         { *m = createMsgWire{} }
func (m *createMsgWire) String() string { return proto.CompactTextString(m) }
func (*createMsgWire) ProtoMessage()    {}

func (m *releaseMsgWire) Reset()         { *m = releaseMsgWire{} }
func (m *releaseMsgWire) String() string { return proto.CompactTextString(m) }
func (*releaseMsgWire) ProtoMessage()    {}

func (m *deliverMsgWire) Reset()         { *m = deliverMsgWire{} }
func (m *deliverMsgWire) String() string { return proto.CompactTextString(m) }
func (*deliverMsgWire) ProtoMessage()    {}

var (
	_ ledger.Persistent = (*Escrow)(nil)
	_ ledger.Persistent = (*CreateMsg)(nil)
	_ ledger.Persistent = (*ReleaseMsg)(nil)
	_ ledger.Persistent = (*DeliverMsg)(nil)
)

// Marshal returns the protobuf encoding of the escrow.
func (e *Escrow) Marshal() ([]byte, error) {
	return proto.Marshal((*escrowWire)(e))
}

// Unmarshal replaces the escrow with the decoded raw bytes.
func (e *Escrow) Unmarshal(raw []byte) error {
	return decode(raw, (*escrowWire)(e))
}

// Marshal returns the protobuf encoding of the message.
func (m *CreateMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*createMsgWire)(m))
}

// Unmarshal replaces the message with the decoded raw bytes.
func (m *CreateMsg) Unmarshal(raw []byte) error {
	return decode(raw, (*createMsgWire)(m))
}

// Marshal returns the protobuf encoding of the message.
func (m *ReleaseMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*releaseMsgWire)(m))
}

// Unmarshal replaces the message with the decoded raw bytes.
func (m *ReleaseMsg) Unmarshal(raw []byte) error {
	return decode(raw, (*releaseMsgWire)(m))
}

// Marshal returns the protobuf encoding of the message.
func (m *DeliverMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*deliverMsgWire)(m))
}

// Unmarshal replaces the message with the decoded raw bytes.
func (m *DeliverMsg) Unmarshal(raw []byte) error {
	return decode(raw, (*deliverMsgWire)(m))
}

func decode(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrapf(errors.ErrInput, "decode %T: %s", m, err)
	}
	return nil
}
