package server

import (
	"encoding/json"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
)

// ValidateGenesis loads the app_state of each genesis file into a scratch
// memory store. The first file that ini rejects stops the run.
func ValidateGenesis(ini ledger.Initializer, genesisPaths []string) error {
	if len(genesisPaths) == 0 {
		return errors.Wrap(errors.ErrInput, "no genesis file given")
	}
	for _, path := range genesisPaths {
		doc, err := readGenesis(path)
		if err != nil {
			return errors.Wrap(err, path)
		}
		var opts ledger.Options
		if state := doc[appStateKey]; !isEmptyState(state) {
			if err := json.Unmarshal(state, &opts); err != nil {
				return errors.Wrapf(errors.ErrInput, "%s: app_state: %s", path, err)
			}
		}
		if err := ini.FromGenesis(opts, store.MemStore()); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}
