package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements every ABCI method except CheckTx and DeliverTx,
// which BaseApp adds.
//
// Info, InitChain, BeginBlock, EndBlock and Commit get no user input, so
// a failure there means the node cannot go on. They panic.
type StoreApp struct {
	name    string
	logger  log.Logger
	state   *state
	queries ledger.QueryRouter
	init    ledger.Initializer

	chainID string
	// appCtx lives as long as the app, blockCtx is replaced by BeginBlock.
	appCtx   ledger.Context
	blockCtx ledger.Context
}

// NewStoreApp loads the latest version of db. It panics if the store
// cannot be opened.
func NewStoreApp(name string, db ledger.CommitKVStore, queries ledger.QueryRouter, ctx ledger.Context) *StoreApp {
	st, err := openState(db)
	if err != nil {
		panic(err)
	}
	s := &StoreApp{name: name, state: st, queries: queries, appCtx: ctx}
	s.WithLogger(log.NewNopLogger())

	if s.chainID, err = loadChainID(st.deliver); err != nil {
		panic(err)
	}
	if s.chainID != "" {
		s.appCtx = ledger.WithChainID(s.appCtx, s.chainID)
	}
	id, err := db.LatestVersion()
	if err != nil {
		panic(err)
	}
	s.blockCtx = ledger.WithHeight(s.appCtx, id.Version)
	return s
}

// WithInit sets what InitChain runs with the genesis app_state.
func (s *StoreApp) WithInit(init ledger.Initializer) *StoreApp {
	s.init = init
	return s
}

// WithLogger sets the logger of the app and of every request context.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.appCtx = ledger.WithLogger(s.appCtx, logger)
	return s
}

func (s *StoreApp) Logger() log.Logger { return s.logger }

// GetChainID is empty until InitChain ran.
func (s *StoreApp) GetChainID() string { return s.chainID }

// BlockContext carries the chain id, the logger and the current block.
func (s *StoreApp) BlockContext() ledger.Context { return s.blockCtx }

func (s *StoreApp) DeliverStore() ledger.CacheableKVStore { return s.state.deliver }

func (s *StoreApp) CheckStore() ledger.CacheableKVStore { return s.state.check }

// Info reports the last committed height and app hash so that tendermint
// can replay the missing blocks.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	id, err := s.state.root.LatestVersion()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          ledger.Version(),
		LastBlockHeight:  id.Version,
		LastBlockAppHash: id.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not supported"}
}

// InitChain stores the chain id and hands the genesis app_state to the
// initializer. It is called once in the life of a chain.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.applyGenesis(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (s *StoreApp) applyGenesis(chainID string, appState []byte) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis of %s already applied", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "genesis without app_state")
	}
	var opts ledger.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "app_state: %s", err)
	}
	db := s.state.deliver
	if err := saveChainID(db, chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.appCtx = ledger.WithChainID(s.appCtx, chainID)
	if s.init == nil {
		return nil
	}
	return s.init.FromGenesis(opts, db)
}

func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := ledger.WithHeader(s.appCtx, req.Header)
	s.blockCtx = ledger.WithHeight(ctx, req.Header.Height)
	return abci.ResponseBeginBlock{}
}

// EndBlock leaves the validator set alone.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// Commit persists the delivered transactions as a new version.
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.state.commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// Query reads the last committed state. The path names the bucket, as in
// "/escrows", optionally followed by a modifier: "/escrows?prefix".
// Key and Value of the response are ResultSets of the same length.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := req.Path, ledger.KeyQueryMod
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path, mod = path[:i], path[i+1:]
	}
	h := s.queries.Handler(path)
	if h == nil {
		return queryFailure(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}
	id, err := s.state.root.LatestVersion()
	if err != nil {
		return queryFailure(err)
	}
	if req.Height != 0 && req.Height != id.Version {
		return queryFailure(errors.Wrapf(errors.ErrInput, "only height %d can be queried", id.Version))
	}
	models, err := h.Query(s.state.committed(), mod, req.Data)
	if err != nil {
		return queryFailure(err)
	}

	res := abci.ResponseQuery{Height: id.Version}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryFailure(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryFailure(err)
	}
	return res
}

func queryFailure(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}
