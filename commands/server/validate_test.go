package server

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
		return path
	}

	valid := write("valid.json", `{"app_state": {"escrow": [{
		"client": "1111111111111111111111111111111111111111",
		"freelancer": "2222222222222222222222222222222222222222",
		"amount": 5
	}]}}`)
	zeroAmount := write("zero.json", `{"app_state": {"escrow": [{
		"client": "1111111111111111111111111111111111111111",
		"freelancer": "2222222222222222222222222222222222222222",
		"amount": 0
	}]}}`)
	broken := write("broken.json", `{"app_state": `)
	noState := write("nostate.json", `{"chain_id": "test-chain"}`)

	ini := &escrow.Initializer{}
	assert.NoError(t, ValidateGenesis(ini, []string{valid}))
	assert.NoError(t, ValidateGenesis(ini, []string{noState, valid}))
	assert.True(t, errors.ErrInvalidAmount.Is(ValidateGenesis(ini, []string{valid, zeroAmount})))
	assert.True(t, errors.ErrInput.Is(ValidateGenesis(ini, []string{broken})))
	assert.True(t, errors.ErrInput.Is(ValidateGenesis(ini, nil)))
	assert.Error(t, ValidateGenesis(ini, []string{filepath.Join(dir, "missing.json")}))
}
