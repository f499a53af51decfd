package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/ledger/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagForce   = "f"
	appStateKey = "app_state"
)

// GenOptions turns the init arguments into the app_state of a new chain.
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisPath returns the location of the tendermint genesis file inside of
// given home directory.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd will add the app_state generated by gen to the genesis file
// that `tendermint init` created in the home directory.
//
// An existing app_state is never replaced unless the -f flag is given.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	force := initFlags.Bool(flagForce, false, "overwrite existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	genFile := GenesisPath(home)
	if _, err := os.Stat(genFile); err != nil {
		return errors.Wrapf(errors.ErrNotFound, "%s (run tendermint init first)", genFile)
	}

	options, err := gen(initFlags.Args())
	if err != nil {
		return err
	}
	if err := addGenesisOptions(genFile, options, *force); err != nil {
		return err
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

// GenesisDoc keeps every section tendermint owns as raw json. Only
// app_state is ever touched.
type GenesisDoc map[string]json.RawMessage

func readGenesis(filename string) (GenesisDoc, error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	var doc GenesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis json: %s", err)
	}
	return doc, nil
}

func addGenesisOptions(filename string, options json.RawMessage, force bool) error {
	doc, err := readGenesis(filename)
	if err != nil {
		return err
	}
	if !force && !isEmptyState(doc[appStateKey]) {
		return errors.Wrap(errors.ErrState, "app_state already set, use -f to overwrite")
	}
	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "genesis json")
	}
	return ioutil.WriteFile(filename, out, 0600)
}

func isEmptyState(state json.RawMessage) bool {
	switch string(state) {
	case "", "null", "{}", `""`:
		return true
	}
	return false
}
