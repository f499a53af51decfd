/*
Package ledger holds the interfaces shared by the escrow ledger packages:
the key value store seen by handlers, transactions and messages, handlers
and decorators, query routing and the ABCI result types.

Block data travels in a context.Context. Each value has a With function
that stores it and a Get function that reads it back. With functions for
values owned by the application, such as the height or the chain id,
panic when an inner layer tries to replace them.
*/
package ledger
