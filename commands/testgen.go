package commands

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Example is one object written by TestGenCmd as <Filename>.json and
// <Filename>.bin. Filename carries neither directory nor extension.
type Example struct {
	Filename string
	Obj      ledger.Persistent
}

// encodings maps a file extension to the serialization stored under it.
var encodings = []struct {
	ext    string
	encode func(ledger.Persistent) ([]byte, error)
}{
	{".json", func(obj ledger.Persistent) ([]byte, error) { return json.MarshalIndent(obj, "", "  ") }},
	{".bin", ledger.Persistent.Marshal},
}

// TestGenCmd writes every example into the directory given as the first
// argument, "testdata" by default, so that clients in other languages can
// check their codecs against ours.
func TestGenCmd(examples []Example, args []string) error {
	dir := "testdata"
	if len(args) > 0 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "output directory")
	}
	for _, ex := range examples {
		for _, enc := range encodings {
			raw, err := enc.encode(ex.Obj)
			if err != nil {
				return errors.Wrapf(err, "encode %s%s", ex.Filename, enc.ext)
			}
			if err := ioutil.WriteFile(filepath.Join(dir, ex.Filename+enc.ext), raw, 0644); err != nil {
				return errors.Wrapf(err, "write %s%s", ex.Filename, enc.ext)
			}
		}
	}
	return nil
}
