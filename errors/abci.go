package errors

import (
	"fmt"
	"strings"
)

// SuccessABCICode is the code of every accepted transaction and query.
const SuccessABCICode uint32 = 0

const (
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// ABCIInfo translates err into the code and log of an ABCI response. Errors
// without a root error are internal: they get code 1 and, unless debug is
// set, a generic log so that no implementation detail leaks. Panics are
// treated as internal as well. In debug mode the log carries the stack.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNil(err) {
		return SuccessABCICode, ""
	}
	code := codeOf(err)
	if debug {
		return code, fmt.Sprintf("%+v", err)
	}
	if code == internalCode || ErrPanic.Is(err) {
		return internalCode, internalLog
	}
	return code, err.Error()
}

type coder interface {
	ABCICode() uint32
}

func codeOf(err error) uint32 {
	for err != nil {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		w, ok := err.(causer)
		if !ok {
			break
		}
		err = w.Cause()
	}
	return internalCode
}

// ABCIError is the inverse of ABCIInfo as seen by a client: it rebuilds an
// error from a response code and log. A registered code yields an error
// rooted at the registered error, so that ErrNotFound.Is works on results
// received from a node.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	root := registry[code]
	if root == nil {
		root = &Error{code: code, desc: "unknown error"}
	}
	msg := strings.TrimSuffix(log, ": "+root.desc)
	if msg == "" || msg == root.desc {
		return root
	}
	return Wrap(root, msg)
}
