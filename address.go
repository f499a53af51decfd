package ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/ledger/errors"
)

// AddressLength is the size of every address in bytes.
const AddressLength = 20

// Address identifies an account. It is the truncated sha256 of the
// condition controlling the account.
type Address []byte

// NewAddress derives the address of given condition bytes.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	sum := sha256.Sum256(data)
	return Address(sum[:AddressLength])
}

// Validate fails unless the address has AddressLength bytes.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address of %d bytes, want %d", len(a), AddressLength)
	}
	return nil
}

// Equals compares two addresses byte by byte.
func (a Address) Equals(o Address) bool {
	return bytes.Equal(a, o)
}

// String is the upper case hex form, or "(nil)".
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 encodes the address with the human readable prefix hrp.
func (a Address) Bech32(hrp string) (string, error) {
	words, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "bech32 bits: %s", err)
	}
	s, err := bech32.Encode(hrp, words)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	return s, nil
}

// ParseBech32 decodes a bech32 address regardless of its prefix.
func ParseBech32(s string) (Address, error) {
	_, words, err := bech32.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	raw, err := bech32.ConvertBits(words, 5, 8, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "bech32 bits: %s", err)
	}
	a := Address(raw)
	return a, a.Validate()
}

// MarshalJSON writes the hex form.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

// UnmarshalJSON accepts plain hex as well as "hex:", "bech32:" and "cond:"
// prefixed values. The latter takes a condition and stores its address.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrapf(errors.ErrInput, "address json: %s", err)
	}
	format, value := "hex", s
	if i := strings.Index(s, ":"); i >= 0 {
		format, value = s[:i], s[i+1:]
	}
	if value == "" {
		*a = nil
		return nil
	}

	var (
		addr Address
		err  error
	)
	switch format {
	case "hex":
		addr, err = hex.DecodeString(value)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "address hex: %s", err)
		}
		err = addr.Validate()
	case "bech32":
		addr, err = ParseBech32(value)
	case "cond":
		var c Condition
		if c, err = parseCondition(value); err == nil {
			if err = c.Validate(); err == nil {
				addr = c.Address()
			}
		}
	default:
		return errors.Wrapf(errors.ErrType, "unknown address format %q", format)
	}
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
