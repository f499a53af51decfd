// Package app assembles the extensions into the ledgerd application.
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/iov-one/ledger/x"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/utils"
)

// Authenticator trusts signatures only.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain is the decorator stack every transaction passes before routing.
//
// Check runs inside a savepoint so rejected transactions leave the mempool
// state alone. In deliver the savepoint sits below the signature check:
// a transaction that fails in its handler still uses up the sequence.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router routes the escrow messages. metrics may be nil.
func Router(auth x.Authenticator, metrics *escrow.Metrics) *app.Router {
	r := app.NewRouter()
	escrow.RegisterRoutes(r, auth, metrics)
	return r
}

// QueryRouter serves "/escrows" and "/auth".
func QueryRouter() ledger.QueryRouter {
	qr := ledger.NewQueryRouter()
	qr.RegisterAll(escrow.RegisterQuery, sigs.RegisterQuery)
	return qr
}

// Initializers load the genesis of every extension.
func Initializers() ledger.Initializer {
	return app.ChainInitializers(&escrow.Initializer{})
}

// Stack is the complete transaction handler.
func Stack(metrics *escrow.Metrics) ledger.Handler {
	return Chain().WithHandler(Router(Authenticator(), metrics))
}

// Application opens the state at dbPath and serves h on it. An empty
// dbPath keeps the state in memory.
func Application(name string, h ledger.Handler, decoder ledger.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	db, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, db, QueryRouter(), context.Background()).WithInit(Initializers())
	return app.NewBaseApp(store, decoder, h, debug), nil
}

// CommitKVStore opens the iavl store at dbPath, or a memory one if dbPath
// is empty. A trailing extension such as ".db" is ignored.
func CommitKVStore(dbPath string) (ledger.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "database path %q: %s", dbPath, err)
	}
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
}
