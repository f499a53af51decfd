/*
Package client talks to a running ledger node over the tendermint RPC.

It broadcasts signed transactions and decodes the result sets returned by
the application queries, so callers work with escrows and accounts instead
of raw ABCI responses.
*/
package client
