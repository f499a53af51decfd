package ledger

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/iov-one/ledger/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Context carries block information, the chain id and the logger down to
// the handlers.
type Context = context.Context

type ctxKey string

const (
	headerKey  ctxKey = "header"
	heightKey  ctxKey = "height"
	chainIDKey ctxKey = "chain-id"
	loggerKey  ctxKey = "logger"
)

// DefaultLogger is returned by GetLogger when the context has none.
var DefaultLogger = log.NewNopLogger()

var chainIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`)

// IsValidChainID reports whether id can name a chain: 6 to 20 characters
// out of letters, digits, '_' and '-'.
func IsValidChainID(id string) bool {
	return chainIDPattern.MatchString(id)
}

// setOnce stores a value that must not be replaced by an inner layer.
func setOnce(ctx Context, key ctxKey, val interface{}) Context {
	if ctx.Value(key) != nil {
		panic(fmt.Sprintf("%s already set", key))
	}
	return context.WithValue(ctx, key, val)
}

// WithHeader attaches the current block header. It panics when a header
// is already present.
func WithHeader(ctx Context, header abci.Header) Context {
	return setOnce(ctx, headerKey, header)
}

// GetHeader returns the block header, if any.
func GetHeader(ctx Context) (abci.Header, bool) {
	h, ok := ctx.Value(headerKey).(abci.Header)
	return h, ok
}

// WithHeight attaches the current block height. It panics when a height is
// already present.
func WithHeight(ctx Context, height int64) Context {
	return setOnce(ctx, heightKey, height)
}

// GetHeight returns the block height, if any.
func GetHeight(ctx Context) (int64, bool) {
	h, ok := ctx.Value(heightKey).(int64)
	return h, ok
}

// BlockTime returns the time declared by the block header.
func BlockTime(ctx Context) (time.Time, error) {
	h, ok := GetHeader(ctx)
	switch {
	case !ok:
		return time.Time{}, errors.Wrap(errors.ErrHuman, "no block header in context")
	case h.Time.IsZero():
		return time.Time{}, errors.Wrap(errors.ErrHuman, "block header without time")
	}
	return h.Time, nil
}

// WithChainID attaches the chain id. It panics if the id is malformed or
// already set.
func WithChainID(ctx Context, chainID string) Context {
	if !IsValidChainID(chainID) {
		panic(fmt.Sprintf("invalid chain id %q", chainID))
	}
	return setOnce(ctx, chainIDKey, chainID)
}

// GetChainID returns the chain id. The application always sets it, so a
// context without one is a programming error and panics.
func GetChainID(ctx Context) string {
	id, ok := ctx.Value(chainIDKey).(string)
	if !ok {
		panic("no chain id in context")
	}
	return id
}

// WithLogger replaces the logger.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the context logger or DefaultLogger.
func GetLogger(ctx Context) log.Logger {
	if l, ok := ctx.Value(loggerKey).(log.Logger); ok {
		return l
	}
	return DefaultLogger
}

// WithLogInfo binds keyvals to the context logger for everything called
// with the returned context.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}
