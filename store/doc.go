/*
Package store holds the in-memory key value stores of the ledger.

MemStore is a plain sorted map used by tests and by offline validation.
Cache stages writes on top of any KVStore until they are written or
discarded; the application uses one per block phase and one per
transaction so that a failing transaction leaves no trace.
*/
package store
