package errors

import (
	"fmt"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorLocation(t *testing.T) {
	cases := map[string]error{
		"root error":       Wrap(ErrEmpty, "amount"),
		"stdlib error":     Wrap(fmt.Errorf("disk full"), "flush"),
		"pkg/errors value": Wrap(pkgerrors.New("closed"), "read"),
		"new on a root":    ErrState.New("released"),
		"recovered panic":  recovered(),
	}
	for testName, err := range cases {
		t.Run(testName, func(t *testing.T) {
			short := fmt.Sprintf("%v", err)
			assert.True(t, strings.HasPrefix(short, err.Error()+" ["), short)
			assert.NotContains(t, short, "\n")
			assert.Contains(t, short, "errors/wrap_test.go:")

			full := fmt.Sprintf("%+v", err)
			assert.Contains(t, full, "errors/wrap_test.go")
			assert.NotContains(t, full, "ledger/errors.Wrap\n")
			assert.NotContains(t, full, "runtime.goexit")

			assert.Equal(t, err.Error(), fmt.Sprintf("%s", err))
		})
	}
}

func recovered() (err error) {
	defer Recover(&err)
	panic("nil map")
}
