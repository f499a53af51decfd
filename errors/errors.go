package errors

import (
	"fmt"
	"reflect"
)

// Root errors shared by all extensions. Codes are part of the wire protocol
// and must never be renumbered.
var (
	// ErrUnauthorized means the signers of a transaction may not perform
	// the requested action.
	ErrUnauthorized = Register(2, "unauthorized")
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = Register(3, "not found")
	// ErrMsg is a message that fails its stateless validation.
	ErrMsg = Register(4, "invalid message")
	// ErrModel is a stored entity that fails validation.
	ErrModel = Register(5, "invalid model")
	// ErrHuman marks a code path that correct code never reaches.
	ErrHuman = Register(7, "coding error")
	ErrEmpty = Register(9, "value is empty")
	ErrState = Register(10, "invalid state")
	ErrType  = Register(11, "invalid type")
	// ErrInvalidAmount is returned for amounts the ledger refuses, such as
	// a zero escrow.
	ErrInvalidAmount = Register(13, "invalid amount")
	ErrInput         = Register(14, "invalid input")
	// ErrIteratorDone ends every store iteration.
	ErrIteratorDone = Register(15, "iterator done")
	ErrOverflow     = Register(16, "value overflow")
	// ErrDatabase wraps failures of the underlying storage engine.
	ErrDatabase = Register(17, "database error")
	// ErrNetwork wraps failures talking to a remote node.
	ErrNetwork = Register(20, "network")
	// ErrPanic is produced by Recover. Its message may leak internals and
	// is never shown outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

// registry holds every root error by code. Code 1 is what ABCI clients
// receive for internal errors and cannot be claimed.
var registry = map[uint32]*Error{1: nil}

// Register declares a new root error. It panics when the code is taken, so
// call it only from package level variable declarations.
func Register(code uint32, description string) *Error {
	if prev, taken := registry[code]; taken {
		name := "internal"
		if prev != nil {
			name = prev.desc
		}
		panic(fmt.Sprintf("error code %d already used by %q", code, name))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a root error: a code and a short description.
type Error struct {
	code uint32
	desc string
}

func (e *Error) Error() string { return e.desc }

// ABCICode is the code sent to clients.
func (e *Error) ABCICode() uint32 { return e.code }

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with a format string.
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Is reports whether err has e as its root. A nil *Error matches only nil
// errors, including typed nil pointers.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNil(err)
	}
	for err != nil {
		if root, ok := err.(*Error); ok {
			return root == e
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

type causer interface {
	Cause() error
}

func isNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
