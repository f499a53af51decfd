package errors

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Wrap adds description in front of the message of err. The result keeps
// err as its cause, so its root error and ABCI code are unchanged. Errors
// that do not carry a stack yet get one recorded here.
//
// Wrapping nil returns nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if findStack(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrapped{cause: err, msg: description}
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Recover turns a panic into an ErrPanic assigned to *err. It must be
// called directly by defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type wrapped struct {
	cause error
	msg   string
}

func (w *wrapped) Error() string {
	return w.msg + ": " + w.cause.Error()
}

func (w *wrapped) Cause() error { return w.cause }

// StackTrace is the recorded stack without the frames of this package.
func (w *wrapped) StackTrace() errors.StackTrace {
	st := findStack(w.cause)
	start := 0
	for start < len(st) && inWrapHelper(st[start]) {
		start++
	}
	end := len(st)
	for end > start+1 && strings.Contains(frameFile(st[end-1]), "/runtime/") {
		end--
	}
	return st[start:end]
}

// Format supports %s, %v that adds " [file:line]" of the origin, and %+v
// that adds the full stack.
func (w *wrapped) Format(s fmt.State, verb rune) {
	io.WriteString(s, w.Error())
	if verb != 'v' {
		return
	}
	st := w.StackTrace()
	if len(st) == 0 {
		return
	}
	if s.Flag('+') {
		fmt.Fprintf(s, "%+v", st)
		return
	}
	file, line := frameFileLine(st[0])
	if i := strings.Index(file, "github.com/"); i >= 0 {
		file = file[i+len("github.com/"):]
	}
	fmt.Fprintf(s, " [%s:%d]", file, line)
}

func findStack(err error) errors.StackTrace {
	type tracer interface {
		StackTrace() errors.StackTrace
	}
	for err != nil {
		if t, ok := err.(tracer); ok {
			return t.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}

const pkgPath = "github.com/iov-one/ledger/errors."

func inWrapHelper(f errors.Frame) bool {
	fn := runtime.FuncForPC(uintptr(f) - 1)
	if fn == nil {
		return false
	}
	name := fn.Name()
	if !strings.HasPrefix(name, pkgPath) {
		return false
	}
	switch strings.TrimPrefix(name, pkgPath) {
	case "Wrap", "Wrapf", "Recover", "(*Error).New", "(*Error).Newf":
		return true
	}
	return false
}

func frameFileLine(f errors.Frame) (string, int) {
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown", 0
	}
	return fn.FileLine(pc)
}

func frameFile(f errors.Frame) string {
	file, _ := frameFileLine(f)
	return file
}
