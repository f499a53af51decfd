// Package app turns handlers, decorators and a commit store into a
// tendermint ABCI application.
//
// StoreApp owns the state: it answers Info and Query, applies the genesis
// in InitChain, tracks the block in BeginBlock and persists a version on
// Commit. BaseApp adds CheckTx and DeliverTx on top, decoding transactions
// and running them through a handler, usually a Router wrapped by
// ChainDecorators.
package app
