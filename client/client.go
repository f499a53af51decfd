package client

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
)

// TransactionID is the hash used to identify the transaction
type TransactionID = cmn.HexBytes

// Status describes the application run by the node we are connected to.
type Status struct {
	Name    string
	Version string
	Height  int64
	AppHash []byte
}

// CommitResult is returned once a transaction was included in a block.
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result ledger.DeliverResult
}

// Client is a tendermint client wrapped to provide simple access to the
// data structures used by the ledger.
type Client struct {
	conn rpcclient.ABCIClient
}

// NewClient wraps given connection. Use NewHTTPConnection to connect to a
// remote node.
func NewClient(conn rpcclient.ABCIClient) *Client {
	return &Client{conn: conn}
}

// NewHTTPConnection takes a URL and sends all requests to the remote node
func NewHTTPConnection(remote string) rpcclient.Client {
	return rpcclient.NewHTTP(remote, "/websocket")
}

// Status returns the application name and the last committed block.
func (c *Client) Status() (*Status, error) {
	res, err := c.conn.ABCIInfo()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "abci info: %s", err)
	}
	return &Status{
		Name:    res.Response.Data,
		Version: res.Response.Version,
		Height:  res.Response.LastBlockHeight,
		AppHash: res.Response.LastBlockAppHash,
	}, nil
}

// SubmitTx broadcasts the transaction and returns once it passed CheckTx.
// It does not wait for the transaction to be included in a block.
func (c *Client) SubmitTx(tx ledger.Tx) (TransactionID, error) {
	raw, err := encodeTx(tx)
	if err != nil {
		return nil, err
	}
	res, err := c.conn.BroadcastTxSync(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "broadcast: %s", err)
	}
	if err := errors.ABCIError(res.Code, res.Log); err != nil {
		return nil, errors.Wrap(err, "check tx")
	}
	return res.Hash, nil
}

// CommitTx broadcasts the transaction and blocks until it is delivered.
// A failure of either CheckTx or DeliverTx is returned as an error.
func (c *Client) CommitTx(tx ledger.Tx) (*CommitResult, error) {
	raw, err := encodeTx(tx)
	if err != nil {
		return nil, err
	}
	res, err := c.conn.BroadcastTxCommit(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "broadcast: %s", err)
	}
	if err := errors.ABCIError(res.CheckTx.Code, res.CheckTx.Log); err != nil {
		return nil, errors.Wrap(err, "check tx")
	}
	deliver := res.DeliverTx
	if err := errors.ABCIError(deliver.Code, deliver.Log); err != nil {
		return nil, errors.Wrap(err, "deliver tx")
	}
	out := CommitResult{ID: res.Hash, Height: res.Height}
	out.Result.Data, out.Result.Log, out.Result.Tags = deliver.Data, deliver.Log, deliver.Tags
	return &out, nil
}

func encodeTx(tx ledger.Tx) ([]byte, error) {
	raw, err := tx.Marshal()
	return raw, errors.Wrap(err, "marshal tx")
}

// Query runs an application query against the latest committed state and
// returns all matching models.
func (c *Client) Query(path string, data []byte) ([]ledger.Model, error) {
	resp, err := c.abciQuery(path, data)
	if err != nil {
		return nil, err
	}
	var keys, values app.ResultSet
	if err := keys.Unmarshal(resp.Key); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := values.Unmarshal(resp.Value); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return app.JoinResults(&keys, &values)
}

func (c *Client) abciQuery(path string, data []byte) (*abci.ResponseQuery, error) {
	res, err := c.conn.ABCIQueryWithOptions(path, data, rpcclient.ABCIQueryOptions{})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "query %s: %s", path, err)
	}
	if err := errors.ABCIError(res.Response.Code, res.Response.Log); err != nil {
		return nil, errors.Wrapf(err, "query %s", path)
	}
	return &res.Response, nil
}

// GetEscrow returns the escrow with given ID. ErrNotFound is returned if no
// such escrow exists.
func (c *Client) GetEscrow(id uint64) (*escrow.Escrow, error) {
	resp, err := c.abciQuery("/escrows", orm.EncodeID(id))
	if err != nil {
		return nil, err
	}
	var e escrow.Escrow
	if err := app.UnmarshalOneResult(resp.Value, &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %d", id)
	}
	return &e, nil
}

// Sequence returns the sequence number the next transaction signed by given
// address must use. Accounts that never signed start at zero.
func (c *Client) Sequence(addr ledger.Address) (int64, error) {
	resp, err := c.abciQuery("/auth", addr)
	if err != nil {
		return 0, err
	}
	var user sigs.UserData
	switch err := app.UnmarshalOneResult(resp.Value, &user); {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, errors.Wrap(err, "account")
	}
	return user.Sequence, nil
}
