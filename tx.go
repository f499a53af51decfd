package ledger

import (
	"reflect"

	"github.com/iov-one/ledger/errors"
)

// Marshaller produces the protobuf encoding of a value.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent is a Marshaller that can also be read back. Methods usually
// need a pointer receiver.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is a requested state change, for example releasing an escrow. It
// carries no authentication; that lives in the Tx around it.
type Msg interface {
	Persistent

	// Path routes the message to its handler, for example
	// "escrow/release". Only [a-zA-Z0-9_/] may be used.
	Path() string

	// Validate runs the checks that need no state.
	Validate() error
}

// Tx is what clients submit: one message plus whatever the decorators need
// to authenticate it.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// TxDecoder parses raw transaction bytes.
type TxDecoder func(raw []byte) (Tx, error)

// GetPath is the path of the message in tx, or "(missing)" for logging
// purposes.
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg copies the message of tx into dest, which must be a pointer to
// the expected message type (or to a pointer of it), and validates it.
//
//	var msg CreateMsg
//	if err := ledger.LoadMsg(tx, &msg); err != nil {
//		return err
//	}
func LoadMsg(tx Tx, dest interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "transaction without message")
	}

	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Ptr || target.IsNil() {
		return errors.Wrapf(errors.ErrType, "destination %T is not a pointer", dest)
	}
	slot := target.Elem()
	val := reflect.ValueOf(msg)
	if !val.Type().AssignableTo(slot.Type()) {
		// a *CreateMsg can be loaded into a CreateMsg
		if val.Kind() != reflect.Ptr || !val.Elem().Type().AssignableTo(slot.Type()) {
			return errors.Wrapf(errors.ErrType, "cannot load %T into %T", msg, dest)
		}
		val = val.Elem()
	}
	slot.Set(val)

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}
