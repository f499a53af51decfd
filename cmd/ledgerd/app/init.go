package app

import (
	"encoding/json"
	"path/filepath"
	"strconv"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

type escrowOption struct {
	Client     ledger.Address `json:"client"`
	Freelancer ledger.Address `json:"freelancer"`
	Amount     uint64         `json:"amount"`
}

// GenInitOptions builds the app_state of a new chain from triples of
// client, freelancer and amount. Each triple becomes one escrow, numbered
// from 1 in order. No arguments give a chain without escrows.
func GenInitOptions(args []string) (json.RawMessage, error) {
	if len(args)%3 != 0 {
		return nil, errors.Wrap(errors.ErrInput, "usage: init [<client> <freelancer> <amount>]...")
	}
	escrows := []escrowOption{}
	for rest := args; len(rest) > 0; rest = rest[3:] {
		var e escrowOption
		if err := parseAddress(rest[0], &e.Client); err != nil {
			return nil, errors.Wrap(err, "client")
		}
		if err := parseAddress(rest[1], &e.Freelancer); err != nil {
			return nil, errors.Wrap(err, "freelancer")
		}
		amount, err := strconv.ParseUint(rest[2], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "amount %q", rest[2])
		}
		if amount == 0 {
			return nil, errors.Wrap(errors.ErrInvalidAmount, "zero amount")
		}
		e.Amount = amount
		escrows = append(escrows, e)
	}
	raw, err := json.MarshalIndent(map[string]interface{}{"escrow": escrows}, "", "  ")
	return raw, errors.Wrap(err, "app state")
}

// parseAddress reads every form an address can take in JSON.
func parseAddress(text string, dest *ledger.Address) error {
	if err := dest.UnmarshalJSON([]byte(strconv.Quote(text))); err != nil {
		return err
	}
	return dest.Validate()
}

// GenerateApp builds the node application with its state under home, or
// in memory when home is empty. Escrow metrics go to reg if it is not nil.
func GenerateApp(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error) {
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "ledger.db")
	}
	var metrics *escrow.Metrics
	if reg != nil {
		metrics = escrow.NewMetrics(reg)
	}
	a, err := Application("ledgerd", Stack(metrics), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	a.WithLogger(logger)
	return a, nil
}
