package commands

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
)

// KeygenCmd creates a new ed25519 private key. The key is written hex
// encoded to the file given with -out, or printed when no file is given.
// The address controlled by the key is always printed.
func KeygenCmd(out io.Writer, args []string) error {
	fl := flag.NewFlagSet("keygen", flag.ContinueOnError)
	path := fl.String("out", "", "file to store the private key in")
	hrp := fl.String("hrp", "ledger", "bech32 prefix used to print the address")
	if err := fl.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	key := crypto.GenPrivKeyEd25519()
	encoded := hex.EncodeToString(key.Ed25519)
	addr := key.PublicKey().Address()
	b32, err := addr.Bech32(*hrp)
	if err != nil {
		return err
	}

	if *path == "" {
		fmt.Fprintf(out, "private key: %s\n", encoded)
	} else if err := ioutil.WriteFile(*path, []byte(encoded), 0600); err != nil {
		return errors.Wrap(err, "cannot write private key")
	}
	fmt.Fprintf(out, "address: %s\n", addr)
	fmt.Fprintf(out, "bech32: %s\n", b32)
	return nil
}

// LoadPrivateKey reads a private key file written by KeygenCmd.
func LoadPrivateKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read private key")
	}
	bz, err := hex.DecodeString(string(raw))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "private key is not hex encoded")
	}
	if len(bz) != 64 {
		return nil, errors.Wrapf(errors.ErrInput, "private key must be 64 bytes, got %d", len(bz))
	}
	return &crypto.PrivateKey{Ed25519: bz}, nil
}
