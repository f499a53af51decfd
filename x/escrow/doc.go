/*
Package escrow records payment agreements between a client and a
freelancer.

An escrow is created by the client for a fixed positive amount and is
identified by a sequence number allocated at creation, starting at 1.
The freelancer may report the work as delivered. Only the client can
release an escrow, with or without a delivery report. Releasing marks the
agreement as settled and is final, releasing twice is not an error.

This package only records the intent to pay. Moving the funds is the
responsibility of the hosting ledger.
*/
package escrow
