/*
Package errors classifies every failure of the ledger by a root error with a
stable ABCI code, so that clients can tell an unknown escrow from a missing
signature without parsing messages.

Wrap a root error where the failure is detected:

	return errors.Wrapf(errors.ErrNotFound, "escrow %d", id)

The innermost Wrap records the call stack. Print the error with %v to get
the message followed by the [file:line] of its origin, or with %+v to get
the whole stack.
*/
package errors
